package page

import (
	"fmt"

	"github.com/tuannm99/bdbread/internal/alias/bx"
)

// +------------------+ 0
// | BTreeHeader (26) |
// | offsets[entries] | u16 each, one per entry
// +------------------+
// |   free space     |
// +------------------+ <-- offsets[entries-1]
// |  entry n-1       |
// |  ...             |
// |  entry 1         |
// +------------------+ <-- offsets[0]
// |  entry 0         |
// +------------------+ 4096
//
// Entry i spans [offsets[i], offsets[i-1]), entry 0 runs to the page end.
type Page struct {
	Header Header

	pgno uint32
	raw  []byte
}

// Decode decodes the header of raw, the bytes of page pgno. Entries are
// decoded on demand.
func Decode(pgno uint32, raw []byte) (*Page, error) {
	h, err := DecodeHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pgno, err)
	}
	return &Page{Header: h, pgno: pgno, raw: raw}, nil
}

// Number is the physical page number the page was read from.
func (p *Page) Number() uint32 { return p.pgno }

// Raw returns the page bytes. Callers must not modify them.
func (p *Page) Raw() []byte { return p.raw }

// Meta returns the metadata header, if this is a metadata page.
func (p *Page) Meta() (*MetaHeader, bool) {
	m, ok := p.Header.(*MetaHeader)
	return m, ok
}

// BTree returns the btree header, if this is a btree page.
func (p *Page) BTree() (*BTreeHeader, bool) {
	h, ok := p.Header.(*BTreeHeader)
	return h, ok
}

func (p *Page) IsMetadata() bool { return p.Header.Kind() == KindMetadata }

func (p *Page) IsLeaf() bool {
	h, ok := p.BTree()
	return ok && h.Level == LeafLevel
}

func (p *Page) IsInternal() bool {
	h, ok := p.BTree()
	return ok && h.Level > LeafLevel
}

// NumEntries is the entry count of a btree page, 0 for metadata.
func (p *Page) NumEntries() int {
	h, ok := p.BTree()
	if !ok {
		return 0
	}
	return int(h.Entries)
}

// NextPageNumber returns the right sibling, if any. 0 means none.
func (p *Page) NextPageNumber() (uint32, bool) {
	h, ok := p.BTree()
	if !ok || h.NextPgno == 0 {
		return 0, false
	}
	return h.NextPgno, true
}

// PrevPageNumber returns the left sibling, if any. 0 means none.
func (p *Page) PrevPageNumber() (uint32, bool) {
	h, ok := p.BTree()
	if !ok || h.PrevPgno == 0 {
		return 0, false
	}
	return h.PrevPgno, true
}

// Offset returns the i-th value of the offset table.
func (p *Page) Offset(i int) (int, error) {
	h, ok := p.BTree()
	if !ok || i < 0 || i >= int(h.Entries) {
		return 0, ErrNoEntry
	}
	pos := HeaderSize + i*offsetSize
	if !bx.Fits(p.raw, pos, offsetSize) {
		return 0, fmt.Errorf("%w: page %d: offset table slot %d past page end",
			ErrOffsetOutOfRange, p.pgno, i)
	}
	return int(bx.U16At(p.raw, pos)), nil
}

// extent returns the [start, end) byte range of entry i.
func (p *Page) extent(i int) (int, int, error) {
	start, err := p.Offset(i)
	if err != nil {
		return 0, 0, err
	}
	end := Size
	if i > 0 {
		if end, err = p.Offset(i - 1); err != nil {
			return 0, 0, err
		}
	}

	tableEnd := HeaderSize + p.NumEntries()*offsetSize
	if start < tableEnd || start >= end || end > len(p.raw) {
		return 0, 0, fmt.Errorf("%w: page %d: entry %d spans [%d, %d), data area is [%d, %d)",
			ErrOffsetOutOfRange, p.pgno, i, start, end, tableEnd, len(p.raw))
	}
	return start, end, nil
}

// EntryAt decodes entry i. It returns ErrNoEntry when i is past the entry
// count or the page is not a btree page.
func (p *Page) EntryAt(i int) (Entry, error) {
	h, ok := p.BTree()
	if !ok {
		return Entry{}, ErrNoEntry
	}
	start, end, err := p.extent(i)
	if err != nil {
		return Entry{}, err
	}
	e, err := DecodeEntry(p.raw[start:end:end], h.Level)
	if err != nil {
		return Entry{}, fmt.Errorf("page %d entry %d: %w", p.pgno, i, err)
	}
	return e, nil
}

// Entries returns a fresh forward iterator over all entries.
func (p *Page) Entries() *EntryIterator {
	return &EntryIterator{page: p, next: 0}
}

// EntryIterator walks entries 0..NumEntries-1. It stops at the first
// decode error, which Err then reports.
type EntryIterator struct {
	page  *Page
	next  int
	entry Entry
	err   error
}

func (it *EntryIterator) Next() bool {
	if it.err != nil || it.next >= it.page.NumEntries() {
		return false
	}
	e, err := it.page.EntryAt(it.next)
	if err != nil {
		it.err = err
		return false
	}
	it.entry = e
	it.next++
	return true
}

// Index is the position of the current entry.
func (it *EntryIterator) Index() int { return it.next - 1 }

func (it *EntryIterator) Entry() Entry { return it.entry }

func (it *EntryIterator) Err() error { return it.err }
