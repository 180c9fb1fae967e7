package storage

import (
	"context"
	"sync"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
)

// CachedModelStore is a read-through cache over a ModelStore. Snapshots
// are loaded from the backing store once per user and held until a Save or
// Delete replaces them. The cache is the only place snapshot state lives
// between calls; it is injected explicitly so tests can observe or bypass
// it.
type CachedModelStore struct {
	backing service.ModelStore
	cache   map[int64]*model.Snapshot
	mu      sync.RWMutex
}

// NewCachedModelStore wraps a ModelStore with an in-memory cache.
func NewCachedModelStore(backing service.ModelStore) *CachedModelStore {
	return &CachedModelStore{
		backing: backing,
		cache:   make(map[int64]*model.Snapshot),
	}
}

// Load returns the cached snapshot when present, consulting the backing
// store on first access. A backing miss (nil snapshot) is not cached, so a
// model trained elsewhere becomes visible on the next call.
func (c *CachedModelStore) Load(ctx context.Context, ownerID int64) (*model.Snapshot, error) {
	c.mu.RLock()
	snap, ok := c.cache[ownerID]
	c.mu.RUnlock()
	if ok {
		return snap, nil
	}

	snap, err := c.backing.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		c.mu.Lock()
		c.cache[ownerID] = snap
		c.mu.Unlock()
	}
	return snap, nil
}

// Save writes through to the backing store, then updates the cache only on
// success.
func (c *CachedModelStore) Save(ctx context.Context, ownerID int64, snapshot *model.Snapshot) error {
	if err := c.backing.Save(ctx, ownerID, snapshot); err != nil {
		return err
	}

	c.mu.Lock()
	c.cache[ownerID] = snapshot
	c.mu.Unlock()
	return nil
}

// Delete removes the snapshot from the backing store and the cache.
func (c *CachedModelStore) Delete(ctx context.Context, ownerID int64) error {
	if err := c.backing.Delete(ctx, ownerID); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.cache, ownerID)
	c.mu.Unlock()
	return nil
}
