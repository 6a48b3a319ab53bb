package btree

import (
	"bytes"
	"fmt"

	"github.com/tuannm99/bdbread/internal/page"
)

// InternalNode is a thin wrapper around a page used as an internal node.
// Each entry carries (separator, childPgno).
//
// Semantics:
//
//   - Entries are kept in ascending separator order. The first separator
//     is usually empty and so sorts before every key.
//
//   - To choose a child for search key K, take the last entry whose
//     separator is <= K. When no separator qualifies, K is below the
//     whole subtree and the descent fails.
type InternalNode struct {
	Page *page.Page
}

// NumKeys returns how many routing entries are on this node.
func (n *InternalNode) NumKeys() int {
	return n.Page.NumEntries()
}

// EntryAt decodes the i-th routing entry into (separator, childPgno).
func (n *InternalNode) EntryAt(i int) ([]byte, uint32, error) {
	e, err := n.Page.EntryAt(i)
	if err != nil {
		return nil, 0, err
	}
	return e.Data, e.Pgno, nil
}

// LeftmostChild is the child of entry 0.
func (n *InternalNode) LeftmostChild() (uint32, error) {
	if n.NumKeys() == 0 {
		return 0, fmt.Errorf("%w: internal page %d has no entries", ErrTraversal, n.Page.Number())
	}
	_, child, err := n.EntryAt(0)
	return child, err
}

// findChild returns (index, childPgno) for key. All entries are examined;
// on equal separators the later one wins.
func (n *InternalNode) findChild(key []byte) (int, uint32, error) {
	idx, child := -1, uint32(0)
	for i, nk := 0, n.NumKeys(); i < nk; i++ {
		sep, c, err := n.EntryAt(i)
		if err != nil {
			return 0, 0, err
		}
		if bytes.Compare(sep, key) <= 0 {
			idx, child = i, c
		}
	}
	if idx < 0 {
		return 0, 0, fmt.Errorf("%w: key sorts below every separator on page %d",
			ErrTraversal, n.Page.Number())
	}
	return idx, child, nil
}
