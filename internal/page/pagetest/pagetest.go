// Package pagetest builds synthetic Berkeley DB btree files for tests.
package pagetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bdbread/internal/alias/bx"
	"github.com/tuannm99/bdbread/internal/page"
)

// entry items are 4-byte aligned on disk, like the real format.
const align = 4

func alignUp(n int) int { return (n + align - 1) &^ (align - 1) }

// Meta builds a metadata page at pgno pointing at root.
func Meta(pgno, root uint32) []byte {
	buf := make([]byte, page.Size)
	m := &page.MetaHeader{
		Pgno:     pgno,
		Magic:    page.MetaMagic,
		Version:  9,
		PageSize: page.Size,
		Type:     page.TypeBTreeMeta,
		MinKey:   2,
		Root:     root,
	}
	m.Put(buf)
	return buf
}

// Pack lays items out back-to-front behind a btree header. Item i starts
// at offsets[i] and item 0 ends at the page end.
func Pack(h page.BTreeHeader, items ...[]byte) []byte {
	buf := make([]byte, page.Size)
	h.Entries = uint16(len(items))
	h.Put(buf)

	end := page.Size
	for i, it := range items {
		start := end - alignUp(len(it))
		copy(buf[start:], it)
		bx.PutU16At(buf, page.HeaderSize+2*i, uint16(start))
		end = start
	}
	return buf
}

// Leaf builds a leaf page from alternating key, value byte strings.
func Leaf(pgno, prev, next uint32, kv ...string) []byte {
	items := make([][]byte, 0, len(kv))
	for _, s := range kv {
		items = append(items, page.EncodeKeyData([]byte(s)))
	}
	return Pack(page.BTreeHeader{
		Pgno:     pgno,
		PrevPgno: prev,
		NextPgno: next,
		Level:    page.LeafLevel,
		Type:     page.TypeLeaf,
	}, items...)
}

// Sep is one routing entry of an internal page.
type Sep struct {
	Key   string
	Child uint32
}

// Internal builds an internal page at the given level (> 1).
func Internal(pgno uint32, level uint8, seps ...Sep) []byte {
	items := make([][]byte, 0, len(seps))
	for _, s := range seps {
		items = append(items, page.EncodeInternal(s.Child, 0, []byte(s.Key)))
	}
	return Pack(page.BTreeHeader{
		Pgno:  pgno,
		Level: level,
		Type:  page.TypeInternal,
	}, items...)
}

// File concatenates pages into a database image.
func File(pages ...[]byte) []byte {
	out := make([]byte, 0, len(pages)*page.Size)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out
}

// WriteFile writes the image to a temp dir and returns its path.
func WriteFile(t *testing.T, image []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(path, image, 0o644))
	return path
}

// TwoPairs is the single-leaf database: meta(root=1) + leaf{aa:1, bb:2}.
func TwoPairs() []byte {
	return File(
		Meta(0, 1),
		Leaf(1, 0, 0, "aa", "1", "bb", "2"),
	)
}

// ThreeLeaves is meta(0) -> internal(1) -> leaves 2, 3, 4 chained by
// next_pgno. Keys are k01..k09 with values v01..v09.
func ThreeLeaves() []byte {
	return File(
		Meta(0, 1),
		Internal(1, 2,
			Sep{Key: "", Child: 2},
			Sep{Key: "k04", Child: 3},
			Sep{Key: "k07", Child: 4},
		),
		Leaf(2, 0, 3, "k01", "v01", "k02", "v02", "k03", "v03"),
		Leaf(3, 2, 4, "k04", "v04", "k05", "v05", "k06", "v06"),
		Leaf(4, 3, 0, "k07", "v07", "k08", "v08", "k09", "v09"),
	)
}
