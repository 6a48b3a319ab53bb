package btree

import (
	"fmt"

	"github.com/tuannm99/bdbread/internal/page"
)

// Cursor walks every (key, value) pair in ascending key order: down the
// leftmost edge of the tree, then along the leaf chain.
//
//	c := db.Scan()
//	for c.Next() {
//		use(c.Key(), c.Value())
//	}
//	if err := c.Err(); err != nil { ... }
//
// Key and Value alias the file buffer. A Cursor is not safe for concurrent
// use, but any number of cursors may run against one Database.
type Cursor struct {
	w   *walk
	cur *page.Page
	idx int // always even

	key, value []byte
	err        error
	done       bool
}

// Scan starts a fresh pass over the whole table.
func (db *Database) Scan() *Cursor {
	c := &Cursor{w: db.newWalk()}
	if db.meta == nil {
		c.err = ErrNoRootPage
		c.done = true
	}
	return c
}

// Next advances to the next pair. It returns false at the end of the table
// or on error; check Err afterwards.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	for {
		leaf, err := c.advanceToLeaf()
		if err != nil {
			return c.fail(err)
		}

		k, v, ok, err := leaf.PairAt(c.idx)
		if err != nil {
			return c.fail(err)
		}
		if ok {
			c.idx += 2
			c.key, c.value = k, v
			return true
		}

		next, has := leaf.Page.NextPageNumber()
		if !has {
			c.done = true
			c.key, c.value = nil, nil
			return false
		}
		c.w.db.log.Debug("btree.scan.sibling", "from", leaf.Page.Number(), "to", next)
		if err := c.moveTo(next); err != nil {
			return c.fail(err)
		}
	}
}

func (c *Cursor) Key() []byte   { return c.key }
func (c *Cursor) Value() []byte { return c.value }
func (c *Cursor) Err() error    { return c.err }

func (c *Cursor) fail(err error) bool {
	c.err = err
	c.done = true
	c.key, c.value = nil, nil
	return false
}

func (c *Cursor) moveTo(pgno uint32) error {
	p, err := c.w.visit(pgno)
	if err != nil {
		return err
	}
	c.cur, c.idx = p, 0
	return nil
}

// advanceToLeaf runs before every pair: from the metadata page jump to the
// root, from an internal page take the leftmost child, until a leaf.
func (c *Cursor) advanceToLeaf() (*LeafNode, error) {
	db := c.w.db
	if c.cur == nil {
		if err := c.moveTo(db.metaPgno); err != nil {
			return nil, err
		}
	}

	for {
		switch {
		case c.cur.IsLeaf():
			return &LeafNode{Page: c.cur, db: db}, nil

		case c.cur.IsMetadata():
			m, _ := c.cur.Meta()
			if err := c.moveTo(m.Root); err != nil {
				return nil, err
			}

		case c.cur.IsInternal():
			child, err := (&InternalNode{Page: c.cur}).LeftmostChild()
			if err != nil {
				return nil, err
			}
			db.log.Debug("btree.scan.descend", "pgno", c.cur.Number(), "child", child)
			if err := c.moveTo(child); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("%w: page %d is %s, want internal or leaf",
				ErrTraversal, c.cur.Number(), describe(c.cur))
		}
	}
}

func describe(p *page.Page) string {
	if h, ok := p.BTree(); ok {
		return fmt.Sprintf("%s at level %d", h.Type, h.Level)
	}
	return p.Header.Kind().String()
}
