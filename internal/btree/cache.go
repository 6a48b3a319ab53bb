package btree

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/tuannm99/bdbread/internal/page"
)

// pageCache keeps decoded pages keyed by page number. Entries are views
// into the Source buffer, so one cost unit per page is enough.
type pageCache struct {
	c *ristretto.Cache[uint32, *page.Page]
}

func newPageCache(maxPages int64) (*pageCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint32, *page.Page]{
		NumCounters:        maxPages * 10,
		MaxCost:            maxPages,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("btree: page cache: %w", err)
	}
	return &pageCache{c: c}, nil
}

func (pc *pageCache) get(pgno uint32) (*page.Page, bool) {
	if pc == nil {
		return nil, false
	}
	return pc.c.Get(pgno)
}

func (pc *pageCache) put(p *page.Page) {
	if pc == nil {
		return
	}
	pc.c.Set(p.Number(), p, 1)
}

func (pc *pageCache) close() {
	if pc == nil {
		return
	}
	pc.c.Close()
}
