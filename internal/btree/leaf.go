package btree

import (
	"bytes"
	"fmt"

	"github.com/tuannm99/bdbread/internal/page"
)

// LeafNode is a thin wrapper around a leaf page. Entry 2i is key i and
// entry 2i+1 is its value.
type LeafNode struct {
	Page *page.Page
	db   *Database
}

func (n *LeafNode) NumEntries() int { return n.Page.NumEntries() }

func (n *LeafNode) KeyAt(i int) ([]byte, error) {
	e, err := n.Page.EntryAt(2 * i)
	if err != nil {
		return nil, err
	}
	return e.Data, nil
}

// PairAt returns the pair whose key is entry idx (idx is even). ok is
// false when idx is past the last complete pair.
//
// A trailing key without a value is resolved by the database policy:
// strict mode returns ErrUnpairedEntry, lenient mode logs and reports no
// pair so scans move on to the next leaf and lookups see the key as absent.
func (n *LeafNode) PairAt(idx int) (key, value []byte, ok bool, err error) {
	num := n.NumEntries()
	if idx >= num {
		return nil, nil, false, nil
	}
	if idx+1 >= num {
		return nil, nil, false, n.unpaired(idx)
	}

	k, err := n.Page.EntryAt(idx)
	if err != nil {
		return nil, nil, false, err
	}
	v, err := n.Page.EntryAt(idx + 1)
	if err != nil {
		return nil, nil, false, err
	}
	return k.Data, v.Data, true, nil
}

func (n *LeafNode) unpaired(idx int) error {
	if n.db.strict {
		return fmt.Errorf("%w: page %d entry %d of %d",
			ErrUnpairedEntry, n.Page.Number(), idx, n.NumEntries())
	}
	n.db.log.Warn("btree.leaf.unpaired",
		"pgno", n.Page.Number(),
		"entry", idx,
		"entries", n.NumEntries(),
	)
	return nil
}

// FindEqual scans keys in order and returns the value of the last key
// equal to key. The scan stops at the first key sorting after it.
func (n *LeafNode) FindEqual(key []byte) ([]byte, error) {
	match := -1
	for i := 0; i < n.NumEntries(); i += 2 {
		e, err := n.Page.EntryAt(i)
		if err != nil {
			return nil, err
		}
		c := bytes.Compare(e.Data, key)
		if c > 0 {
			break
		}
		if c == 0 {
			match = i
		}
	}
	if match < 0 {
		return nil, ErrNotFound
	}

	_, v, ok, err := n.PairAt(match)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}
