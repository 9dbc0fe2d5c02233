package planner

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"taskplanner/internal/model"
)

// snapshot is the whole plan as the list, board and graph views read it.
type snapshot struct {
	tasks []model.Task
	edges []model.Dependency
}

// readCache holds the latest snapshot until the next committed mutation.
// Concurrent misses share one load; a load that started before an
// invalidation is returned to its callers but not kept.
type readCache struct {
	mu    sync.Mutex
	gen   uint64
	snap  *snapshot
	group singleflight.Group
}

func (c *readCache) get(ctx context.Context, load func(context.Context) (*snapshot, error)) (*snapshot, error) {
	c.mu.Lock()
	if c.snap != nil {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do("snapshot", func() (any, error) {
		snap, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.snap = snap
		}
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (c *readCache) invalidate() {
	c.mu.Lock()
	c.gen++
	c.snap = nil
	c.mu.Unlock()
	c.group.Forget("snapshot")
}
