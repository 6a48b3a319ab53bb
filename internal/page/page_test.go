package page_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bdbread/internal/alias/bx"
	"github.com/tuannm99/bdbread/internal/page"
	"github.com/tuannm99/bdbread/internal/page/pagetest"
)

func decode(t *testing.T, pgno uint32, raw []byte) *page.Page {
	t.Helper()
	p, err := page.Decode(pgno, raw)
	require.NoError(t, err)
	return p
}

func TestPage_LeafEntries(t *testing.T) {
	p := decode(t, 1, pagetest.Leaf(1, 0, 0, "aa", "1", "bb", "2"))

	require.True(t, p.IsLeaf())
	require.False(t, p.IsInternal())
	require.False(t, p.IsMetadata())
	require.Equal(t, 4, p.NumEntries())
	require.Equal(t, uint32(1), p.Number())

	want := []string{"aa", "1", "bb", "2"}
	for i, w := range want {
		e, err := p.EntryAt(i)
		require.NoError(t, err)
		assert.Equal(t, page.KeyDataEntry, e.Kind)
		assert.Equal(t, w, string(e.Data))
	}

	_, err := p.EntryAt(4)
	require.ErrorIs(t, err, page.ErrNoEntry)
	_, err = p.EntryAt(-1)
	require.ErrorIs(t, err, page.ErrNoEntry)

	_, ok := p.NextPageNumber()
	assert.False(t, ok)
	_, ok = p.PrevPageNumber()
	assert.False(t, ok)
}

func TestPage_EntriesMatchesEntryAt(t *testing.T) {
	p := decode(t, 3, pagetest.Leaf(3, 2, 4, "k1", "v1", "k2", "v2", "k3", "v3"))

	var got []string
	it := p.Entries()
	for it.Next() {
		e, err := p.EntryAt(it.Index())
		require.NoError(t, err)
		assert.Equal(t, e, it.Entry())
		got = append(got, string(it.Entry().Data))
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"k1", "v1", "k2", "v2", "k3", "v3"}, got)

	// restartable: a new iterator starts over
	it = p.Entries()
	require.True(t, it.Next())
	assert.Equal(t, "k1", string(it.Entry().Data))

	next, ok := p.NextPageNumber()
	require.True(t, ok)
	assert.Equal(t, uint32(4), next)
	prev, ok := p.PrevPageNumber()
	require.True(t, ok)
	assert.Equal(t, uint32(2), prev)
}

func TestPage_Internal(t *testing.T) {
	p := decode(t, 1, pagetest.Internal(1, 2,
		pagetest.Sep{Key: "", Child: 2},
		pagetest.Sep{Key: "m", Child: 3},
	))
	require.True(t, p.IsInternal())
	require.False(t, p.IsLeaf())

	e, err := p.EntryAt(1)
	require.NoError(t, err)
	assert.Equal(t, page.InternalEntry, e.Kind)
	assert.Equal(t, uint32(3), e.Pgno)
	assert.Equal(t, "m", string(e.Data))
}

func TestPage_Metadata(t *testing.T) {
	p := decode(t, 0, pagetest.Meta(0, 7))
	require.True(t, p.IsMetadata())
	require.False(t, p.IsLeaf())
	require.False(t, p.IsInternal())
	require.Equal(t, 0, p.NumEntries())

	m, ok := p.Meta()
	require.True(t, ok)
	assert.Equal(t, uint32(7), m.Root)

	_, err := p.EntryAt(0)
	require.ErrorIs(t, err, page.ErrNoEntry)

	it := p.Entries()
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())

	_, ok = p.NextPageNumber()
	assert.False(t, ok)
}

func TestPage_OffsetOutOfRange(t *testing.T) {
	raw := pagetest.Leaf(1, 0, 0, "aa", "1")

	// entry 1 now starts inside the offset table
	bx.PutU16At(raw, page.HeaderSize+2, 10)
	p := decode(t, 1, raw)

	_, err := p.EntryAt(0)
	require.NoError(t, err)
	_, err = p.EntryAt(1)
	require.ErrorIs(t, err, page.ErrOffsetOutOfRange)

	// entry 0 starting at the page end has no bytes
	raw = pagetest.Leaf(1, 0, 0, "aa", "1")
	bx.PutU16At(raw, page.HeaderSize, page.Size)
	p = decode(t, 1, raw)
	_, err = p.EntryAt(0)
	require.ErrorIs(t, err, page.ErrOffsetOutOfRange)

	// offsets must decrease with the index
	raw = pagetest.Leaf(1, 0, 0, "aa", "1")
	off0 := bx.U16At(raw, page.HeaderSize)
	bx.PutU16At(raw, page.HeaderSize+2, off0+4)
	p = decode(t, 1, raw)
	_, err = p.EntryAt(1)
	require.ErrorIs(t, err, page.ErrOffsetOutOfRange)
}

func TestPage_OffsetTablePastPageEnd(t *testing.T) {
	raw := pagetest.Leaf(1, 0, 0, "aa", "1")
	h := &page.BTreeHeader{Pgno: 1, Entries: 0xffff, Level: 1, Type: page.TypeLeaf}
	h.Put(raw)
	p := decode(t, 1, raw)

	_, err := p.EntryAt(3000)
	require.ErrorIs(t, err, page.ErrOffsetOutOfRange)

	it := p.Entries()
	for it.Next() {
	}
	require.Error(t, it.Err())
}

func TestPage_BadEntryStopsIterator(t *testing.T) {
	raw := pagetest.Leaf(1, 0, 0, "aa", "1", "bb", "2")
	off, err := decode(t, 1, raw).Offset(2)
	require.NoError(t, err)
	raw[off+2] = byte(page.EntryOverflow)

	p := decode(t, 1, raw)
	it := p.Entries()
	n := 0
	for it.Next() {
		n++
	}
	assert.Equal(t, 2, n)
	require.ErrorIs(t, it.Err(), page.ErrUnsupportedEntry)
}

func TestPage_DecodeErrors(t *testing.T) {
	_, err := page.Decode(9, make([]byte, 100))
	require.ErrorIs(t, err, page.ErrInvalidPageSize)
	assert.Contains(t, err.Error(), "page 9")

	_, err = page.Decode(9, make([]byte, page.Size))
	require.ErrorIs(t, err, page.ErrUnknownPageType)
}

func TestPage_Debug(t *testing.T) {
	p := decode(t, 1, pagetest.Leaf(1, 0, 2, "aa", "1"))
	s := p.DebugString()
	assert.Contains(t, s, "=== Page 1 ===")
	assert.Contains(t, s, "leaf_btree")
	assert.Contains(t, s, `key="aa"`)
	assert.Contains(t, s, `val="1"`)

	m := decode(t, 0, pagetest.Meta(0, 1))
	s = m.DebugString()
	assert.Contains(t, s, "kind=metadata")
	assert.Contains(t, s, "root=1")

	assert.Contains(t, p.Summary(), "page 1: leaf_btree level=1 entries=2")
	assert.Contains(t, m.Summary(), "root=1")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, `"abc"`, page.Preview([]byte("abc"), 0))
	assert.Equal(t, `"ab"...`, page.Preview([]byte("abc"), 2))
	assert.Equal(t, "0x00ff", page.Preview([]byte{0x00, 0xff}, 0))
	assert.Equal(t, `""`, page.Preview(nil, 8))
}
