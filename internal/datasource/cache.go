package datasource

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"sales-dashboard/internal/models"
)

// Cached memoizes the last successful load of the wrapped source until
// Invalidate is called. Concurrent callers share a single in-flight load.
type Cached struct {
	source  Source
	group   singleflight.Group
	mu      sync.RWMutex
	records []models.Transaction
	loaded  bool
}

func NewCached(source Source) *Cached {
	return &Cached{source: source}
}

func (c *Cached) Load(ctx context.Context) ([]models.Transaction, error) {
	c.mu.RLock()
	if c.loaded {
		out := slices.Clone(c.records)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	// The shared load is detached from the first caller's cancellation so
	// that callers joining the flight are not failed by it. Each caller still
	// stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("load", func() (any, error) {
		records, err := c.source.Load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.records = records
		c.loaded = true
		c.mu.Unlock()
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Transaction)), nil
	}
}

// Invalidate drops the memoized records so the next Load hits the source.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.records = nil
	c.loaded = false
	c.mu.Unlock()
}
