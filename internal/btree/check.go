package btree

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/tuannm99/bdbread/internal/page"
)

// Report is the outcome of Check.
type Report struct {
	Pages    int
	Metadata int
	Internal int
	Leaf     int
	Other    int // btree pages at level 0, never reached by navigation
	Entries  int
	Unpaired int      // leaves ending with a key that has no value
	Bad      []uint32 // pages that failed, ascending
	Err      error    // one error per bad page, combined with multierr
}

// OK reports whether every page decoded cleanly.
func (r Report) OK() bool { return r.Err == nil }

// Errors splits Err back into its per-page errors.
func (r Report) Errors() []error { return multierr.Errors(r.Err) }

type pageResult struct {
	pgno     uint32
	kind     page.Kind
	leaf     bool
	other    bool
	entries  int
	unpaired bool
	err      error
}

// Check decodes every page header and every entry of every btree page,
// using up to workers goroutines (GOMAXPROCS when workers <= 0). Unlike
// Scan it keeps going past bad pages and reports all of them. Leaves with
// an odd entry count are errors only in strict mode.
//
// Cancelling ctx stops pages that have not started yet; they are reported
// with ctx.Err().
func (db *Database) Check(ctx context.Context, workers int) Report {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := pool.NewWithResults[pageResult]().WithMaxGoroutines(workers)
	for pgno, n := uint32(0), db.PageCount(); pgno < n; pgno++ {
		pgno := pgno
		p.Go(func() pageResult {
			if err := ctx.Err(); err != nil {
				return pageResult{pgno: pgno, err: err}
			}
			return db.checkPage(pgno)
		})
	}
	results := p.Wait()
	slices.SortFunc(results, func(a, b pageResult) int {
		switch {
		case a.pgno < b.pgno:
			return -1
		case a.pgno > b.pgno:
			return 1
		}
		return 0
	})

	var rep Report
	for _, r := range results {
		rep.Pages++
		if r.err != nil {
			rep.Bad = append(rep.Bad, r.pgno)
			rep.Err = multierr.Append(rep.Err, r.err)
			continue
		}
		switch {
		case r.kind == page.KindMetadata:
			rep.Metadata++
		case r.leaf:
			rep.Leaf++
		case r.other:
			rep.Other++
		default:
			rep.Internal++
		}
		rep.Entries += r.entries
		if r.unpaired {
			rep.Unpaired++
		}
	}

	db.log.Debug("btree.check",
		"pages", rep.Pages,
		"bad", len(rep.Bad),
		"entries", rep.Entries,
	)
	return rep
}

func (db *Database) checkPage(pgno uint32) pageResult {
	res := pageResult{pgno: pgno}

	p, err := db.Page(pgno)
	if err != nil {
		res.err = err
		return res
	}
	res.kind = p.Header.Kind()
	if p.IsMetadata() {
		return res
	}
	if !p.IsLeaf() && !p.IsInternal() {
		res.other = true
		return res
	}
	res.leaf = p.IsLeaf()

	it := p.Entries()
	for it.Next() {
		res.entries++
	}
	if err := it.Err(); err != nil {
		res.err = err
		return res
	}

	if res.leaf && res.entries%2 == 1 {
		res.unpaired = true
		if db.strict {
			res.err = fmt.Errorf("%w: page %d has %d entries", ErrUnpairedEntry, pgno, res.entries)
		}
	}
	return res
}

// IsUnsupported reports whether err comes from a page or entry type this
// reader does not decode, as opposed to a damaged one.
func IsUnsupported(err error) bool {
	return errors.Is(err, page.ErrUnknownPageType) || errors.Is(err, page.ErrUnsupportedEntry)
}
