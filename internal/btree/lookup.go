package btree

import (
	"fmt"
)

// Get returns the value stored under key, or ErrNotFound. Keys compare as
// raw bytes. The returned slice aliases the file buffer and must not be
// modified.
//
// Decode and traversal failures abort the lookup; there is no partial
// result.
func (db *Database) Get(key []byte) ([]byte, error) {
	root, err := db.Root()
	if err != nil {
		return nil, err
	}

	w := db.newWalk()
	pgno := root
	for {
		p, err := w.visit(pgno)
		if err != nil {
			return nil, err
		}

		switch {
		case p.IsInternal():
			node := &InternalNode{Page: p}
			idx, child, err := node.findChild(key)
			if err != nil {
				return nil, err
			}
			db.log.Debug("btree.get.descend", "pgno", pgno, "entry", idx, "child", child)
			pgno = child

		case p.IsLeaf():
			leaf := &LeafNode{Page: p, db: db}
			v, err := leaf.FindEqual(key)
			db.log.Debug("btree.get.leaf", "pgno", pgno, "found", err == nil)
			return v, err

		default:
			return nil, fmt.Errorf("%w: page %d is %s, want internal or leaf",
				ErrTraversal, pgno, describe(p))
		}
	}
}
