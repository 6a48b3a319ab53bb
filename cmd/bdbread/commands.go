package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/tuannm99/bdbread/internal/btree"
	"github.com/tuannm99/bdbread/internal/page"
)

type handler func(a *app, args []string) error

func lookupCommand(name string) (handler, bool) {
	switch name {
	case "stat":
		return cmdStat, true
	case "pages":
		return cmdPages, true
	case "page":
		return cmdPage, true
	case "get":
		return cmdGet, true
	case "scan":
		return cmdScan, true
	case "check":
		return cmdCheck, true
	case "shell":
		return cmdShell, true
	default:
		return nil, false
	}
}

func newFlags(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func cmdStat(a *app, _ []string) error {
	st, err := a.db.Stat()
	if err != nil {
		return err
	}
	w := a.out
	fmt.Fprintf(w, "file:        %s (%s)\n", st.Name, humanize.IBytes(uint64(st.Size)))
	fmt.Fprintf(w, "pages:       %s\n", humanize.Comma(int64(st.Pages)))
	fmt.Fprintf(w, "  metadata:  %d\n", st.Metadata)
	fmt.Fprintf(w, "  internal:  %s\n", humanize.Comma(int64(st.Internal)))
	fmt.Fprintf(w, "  leaf:      %s\n", humanize.Comma(int64(st.Leaf)))
	if st.Other > 0 {
		fmt.Fprintf(w, "  other:     %d\n", st.Other)
	}
	if st.Unknown > 0 {
		fmt.Fprintf(w, "  unknown:   %s\n", humanize.Comma(int64(st.Unknown)))
	}
	if st.Meta == nil {
		fmt.Fprintln(w, "metadata:    none")
		return nil
	}
	m := st.Meta
	fmt.Fprintf(w, "version:     %d\n", m.Version)
	fmt.Fprintf(w, "page size:   %d\n", m.PageSize)
	fmt.Fprintf(w, "root:        %d (height %d)\n", st.Root, st.Height)
	fmt.Fprintf(w, "last page:   %d\n", m.LastPgno)
	fmt.Fprintf(w, "keys:        %s\n", humanize.Comma(int64(m.KeyCount)))
	fmt.Fprintf(w, "records:     %s\n", humanize.Comma(int64(m.RecordCount)))
	fmt.Fprintf(w, "flags:       %#08x\n", m.Flags)
	fmt.Fprintf(w, "uid:         %s\n", hex.EncodeToString(m.UID[:]))
	return nil
}

func cmdPages(a *app, args []string) error {
	fs := newFlags("pages", a)
	verbose := fs.Bool("v", false, "dump every page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pc := a.db.Pages()
	for pc.Next() {
		p := pc.Page()
		if *verbose {
			if err := p.Debug(a.out); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(a.out, p.Summary())
	}
	return pc.Err()
}

func cmdPage(a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("want one page number")
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("page number: %w", err)
	}
	p, err := a.db.Page(uint32(n))
	if err != nil {
		return err
	}
	return p.Debug(a.out)
}

func cmdGet(a *app, args []string) error {
	fs := newFlags("get", a)
	isHex := fs.Bool("hex", false, "key is hex encoded")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("want one key")
	}

	key, err := parseKey(fs.Arg(0), *isHex)
	if err != nil {
		return err
	}
	v, err := a.db.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(v))
	return nil
}

func parseKey(s string, isHex bool) ([]byte, error) {
	if !isHex {
		return []byte(s), nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex key: %w", err)
	}
	return key, nil
}

func cmdScan(a *app, args []string) error {
	fs := newFlags("scan", a)
	limit := fs.Int("limit", 0, "stop after n pairs (0: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return scanTo(a.out, a.db, *limit)
}

func scanTo(w io.Writer, db *btree.Database, limit int) error {
	c := db.Scan()
	n := 0
	for c.Next() {
		fmt.Fprintf(w, "%s => %s\n", page.Preview(c.Key(), 64), page.Preview(c.Value(), 64))
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return c.Err()
}

func cmdCheck(a *app, args []string) error {
	fs := newFlags("check", a)
	workers := fs.Int("workers", a.cfg.Reader.CheckWorkers, "parallel page decoders (0: GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rep := a.db.Check(a.ctx, *workers)
	fmt.Fprintf(a.out, "pages=%s metadata=%d internal=%s leaf=%s entries=%s\n",
		humanize.Comma(int64(rep.Pages)), rep.Metadata,
		humanize.Comma(int64(rep.Internal)), humanize.Comma(int64(rep.Leaf)),
		humanize.Comma(int64(rep.Entries)))
	if rep.Unpaired > 0 {
		fmt.Fprintf(a.out, "leaves with an unpaired key: %d\n", rep.Unpaired)
	}
	if rep.OK() {
		fmt.Fprintln(a.out, "ok")
		return nil
	}

	unsupported := 0
	for _, err := range rep.Errors() {
		if btree.IsUnsupported(err) {
			unsupported++
		}
		fmt.Fprintf(a.out, "  %v\n", err)
	}
	return fmt.Errorf("%d bad pages (%d of an unsupported type)", len(rep.Bad), unsupported)
}
