package btree

import (
	"errors"

	"github.com/tuannm99/bdbread/internal/page"
)

// Stat summarizes the file: the metadata header plus page counts by kind.
type Stat struct {
	Name     string
	Size     int64
	Pages    uint32
	Meta     *page.MetaHeader
	Root     uint32
	Height   int // level of the root page, 0 when unknown
	Metadata int
	Internal int
	Leaf     int
	Other    int // btree meta marker pages and pages at level 0
	Unknown  int // page types this reader does not decode
}

// Stat walks every page once. Pages of a type this reader does not decode
// (overflow, duplicate, hash, free) are counted as Unknown; any other
// decode failure is returned.
func (db *Database) Stat() (Stat, error) {
	st := Stat{
		Name:  db.Name(),
		Size:  db.Size(),
		Pages: db.PageCount(),
		Meta:  db.meta,
	}

	for pgno, n := uint32(0), db.PageCount(); pgno < n; pgno++ {
		p, err := db.Page(pgno)
		if errors.Is(err, page.ErrUnknownPageType) {
			st.Unknown++
			continue
		}
		if err != nil {
			return Stat{}, err
		}

		switch {
		case p.IsMetadata():
			st.Metadata++
		case p.IsLeaf():
			st.Leaf++
		case p.IsInternal():
			st.Internal++
		default:
			st.Other++
		}
	}

	if db.meta != nil {
		st.Root = db.meta.Root
		if rp, err := db.Page(st.Root); err == nil {
			if h, ok := rp.BTree(); ok {
				st.Height = int(h.Level)
			}
		}
	}
	return st, nil
}
