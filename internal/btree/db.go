// Package btree navigates a Berkeley DB btree file: point lookups, ordered
// scans and whole-file diagnostics, all read-only.
package btree

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/bdbread/internal/page"
	"github.com/tuannm99/bdbread/internal/storage"
)

// Database is an open, read-only btree file. It is safe for concurrent use:
// nothing is mutated after Open and every Get or Scan keeps its own state.
type Database struct {
	src    *storage.Source
	log    *slog.Logger
	cache  *pageCache
	strict bool

	// first metadata page in file order, nil when there is none
	meta     *page.MetaHeader
	metaPgno uint32
}

// Open reads path with DefaultOptions.
func Open(path string) (*Database, error) {
	return OpenWithOptions(path, DefaultOptions())
}

func OpenWithOptions(path string, opts Options) (*Database, error) {
	src, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	db, err := newDatabase(src, opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return db, nil
}

// FromBytes serves an in-memory image. buf must not be modified afterwards.
func FromBytes(buf []byte, opts Options) (*Database, error) {
	src, err := storage.FromBytes(buf)
	if err != nil {
		return nil, err
	}
	return newDatabase(src, opts)
}

func newDatabase(src *storage.Source, opts Options) (*Database, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	db := &Database{
		src:    src,
		log:    log,
		strict: opts.StrictPairs,
	}
	if opts.CachePages > 0 {
		c, err := newPageCache(opts.CachePages)
		if err != nil {
			return nil, err
		}
		db.cache = c
	}

	if err := db.locateMeta(); err != nil {
		db.cache.close()
		return nil, err
	}
	return db, nil
}

// locateMeta finds the first page carrying the metadata magic. A file
// without one still opens; Get and Scan then fail with ErrNoRootPage.
func (db *Database) locateMeta() error {
	for pgno := uint32(0); pgno < db.src.PageCount(); pgno++ {
		raw, err := db.src.Page(pgno)
		if err != nil {
			return err
		}
		if !page.IsMetadata(raw) {
			continue
		}

		p, err := page.Decode(pgno, raw)
		if err != nil {
			return err
		}
		m, _ := p.Meta()
		db.meta, db.metaPgno = m, pgno

		if m.PageSize != page.Size {
			db.log.Warn("btree.open.pagesize",
				"recorded", m.PageSize,
				"supported", page.Size,
			)
		}
		db.log.Debug("btree.open.meta", "pgno", pgno, "root", m.Root, "version", m.Version)
		return nil
	}

	db.log.Warn("btree.open.nometa", "pages", db.src.PageCount())
	return nil
}

// Close releases the file buffer. Any later call on db, or on a cursor
// obtained from it, fails with storage.ErrClosed.
func (db *Database) Close() error {
	db.cache.close()
	return db.src.Close()
}

// Name is the path the database was opened from.
func (db *Database) Name() string { return db.src.Name() }

// Size is the file length in bytes.
func (db *Database) Size() int64 { return db.src.Size() }

// PageCount is the number of pages in the file.
func (db *Database) PageCount() uint32 { return db.src.PageCount() }

// Metadata returns the metadata header found at open time.
func (db *Database) Metadata() (*page.MetaHeader, error) {
	if db.meta == nil {
		return nil, ErrNoRootPage
	}
	return db.meta, nil
}

// Root returns the root page number recorded in the metadata page.
func (db *Database) Root() (uint32, error) {
	m, err := db.Metadata()
	if err != nil {
		return 0, err
	}
	return m.Root, nil
}

// Page decodes page pgno.
func (db *Database) Page(pgno uint32) (*page.Page, error) {
	if db.src.Closed() {
		return nil, storage.ErrClosed
	}
	if p, ok := db.cache.get(pgno); ok {
		return p, nil
	}

	raw, err := db.src.Page(pgno)
	if err != nil {
		return nil, err
	}
	p, err := page.Decode(pgno, raw)
	if err != nil {
		return nil, err
	}
	db.cache.put(p)
	return p, nil
}

// walk is the per-operation traversal state. It refuses to enter a page
// twice, which bounds every descent and leaf-chain walk by the page count
// even on a file whose links form a cycle.
type walk struct {
	db      *Database
	visited map[uint32]struct{}
}

func (db *Database) newWalk() *walk {
	return &walk{db: db, visited: make(map[uint32]struct{})}
}

func (w *walk) visit(pgno uint32) (*page.Page, error) {
	if pgno >= w.db.src.PageCount() {
		return nil, fmt.Errorf("%w: link to page %d, file has %d pages",
			ErrTraversal, pgno, w.db.src.PageCount())
	}
	if _, seen := w.visited[pgno]; seen {
		return nil, fmt.Errorf("%w: page %d reached twice", ErrTraversal, pgno)
	}
	w.visited[pgno] = struct{}{}
	return w.db.Page(pgno)
}
