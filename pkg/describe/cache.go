package describe

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

// Cache memoises successful describe calls per object type. Concurrent
// lookups for the same type share a single upstream call. Failures are not
// cached so a transient error does not hide a type for the process lifetime.
type Cache struct {
	next metadata.Describer

	mu      sync.RWMutex
	entries map[string]metadata.ObjectDescribe
	group   singleflight.Group
}

var _ metadata.Describer = (*Cache)(nil)

// NewCache wraps next with a process-lifetime describe cache.
func NewCache(next metadata.Describer) *Cache {
	return &Cache{
		next:    next,
		entries: make(map[string]metadata.ObjectDescribe),
	}
}

// DescribeObject implements metadata.Describer.
func (c *Cache) DescribeObject(ctx context.Context, objectType string) (metadata.ObjectDescribe, error) {
	c.mu.RLock()
	describe, ok := c.entries[objectType]
	c.mu.RUnlock()
	if ok {
		return describe, nil
	}

	// The shared call outlives any single caller; each caller still gives up
	// on its own context.
	shared := context.WithoutCancel(ctx)
	results := c.group.DoChan(objectType, func() (any, error) {
		describe, err := c.next.DescribeObject(shared, objectType)
		if err != nil {
			return metadata.ObjectDescribe{}, err
		}
		c.mu.Lock()
		c.entries[objectType] = describe
		c.mu.Unlock()
		return describe, nil
	})

	select {
	case <-ctx.Done():
		return metadata.ObjectDescribe{}, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return metadata.ObjectDescribe{}, res.Err
		}
		return res.Val.(metadata.ObjectDescribe), nil
	}
}

// Forget drops a cached describe so the next call reaches the upstream source.
func (c *Cache) Forget(objectType string) {
	c.mu.Lock()
	delete(c.entries, objectType)
	c.mu.Unlock()
	c.group.Forget(objectType)
}
