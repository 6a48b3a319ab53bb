package btree

import "github.com/tuannm99/bdbread/internal/page"

// PageCursor walks every page of the file in physical order and stops at
// the first one that fails to decode.
type PageCursor struct {
	db   *Database
	next uint32
	cur  *page.Page
	err  error
}

// Pages starts a fresh pass over all pages.
func (db *Database) Pages() *PageCursor {
	return &PageCursor{db: db}
}

func (pc *PageCursor) Next() bool {
	if pc.err != nil || pc.next >= pc.db.PageCount() {
		pc.cur = nil
		return false
	}
	p, err := pc.db.Page(pc.next)
	if err != nil {
		pc.err = err
		pc.cur = nil
		return false
	}
	pc.cur = p
	pc.next++
	return true
}

func (pc *PageCursor) Page() *page.Page { return pc.cur }
func (pc *PageCursor) Err() error       { return pc.err }
