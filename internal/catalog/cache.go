package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/inkchain/storecatalog/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const flightKey = "catalog"

// Loader builds a complete catalog snapshot
type Loader func(ctx context.Context) (*domain.Catalog, error)

// Cache holds the current catalog snapshot. Readers always see a complete
// snapshot; concurrent loads are collapsed into one. A load that started
// before an Invalidate never replaces the snapshot.
type Cache struct {
	loader   Loader
	fallback domain.StoreInfo
	current  atomic.Pointer[domain.Catalog]
	last     atomic.Pointer[domain.Catalog]
	group    singleflight.Group

	mu  sync.Mutex
	gen uint64
}

// NewCache returns an empty cache using loader on misses
func NewCache(loader Loader, fallback domain.StoreInfo) *Cache {
	return &Cache{loader: loader, fallback: fallback}
}

// Get returns the cached snapshot or nil
func (c *Cache) Get() *domain.Catalog {
	return c.current.Load()
}

// Load returns the cached snapshot, building it on a miss. It never returns
// nil: a failed build yields the last good snapshot or an empty catalog.
func (c *Cache) Load(ctx context.Context) *domain.Catalog {
	if cat := c.current.Load(); cat != nil {
		return cat
	}
	v, err, _ := c.group.Do(flightKey, func() (interface{}, error) {
		gen := c.generation()
		if cat := c.current.Load(); cat != nil {
			return cat, nil
		}
		cat, err := c.loader(ctx)
		if err != nil {
			return nil, err
		}
		if !c.storeAt(gen, cat) {
			zap.L().Debug("discarding catalog built before invalidation",
				zap.String("namespace", "catalog"),
			)
		}
		return cat, nil
	})
	if err != nil {
		zap.L().Warn("catalog load failed, serving last known catalog",
			zap.String("namespace", "catalog"),
			zap.Error(err),
		)
		if last := c.last.Load(); last != nil {
			return last
		}
		return c.empty()
	}
	return v.(*domain.Catalog)
}

// Store publishes a snapshot built elsewhere
func (c *Cache) Store(cat *domain.Catalog) {
	if cat == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.current.Store(cat)
	c.last.Store(cat)
}

// Invalidate drops the current snapshot; the next Load rebuilds even when
// an earlier load is still running
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.current.Store(nil)
	c.group.Forget(flightKey)
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Cache) storeAt(gen uint64, cat *domain.Catalog) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.current.Store(cat)
	c.last.Store(cat)
	return true
}

func (c *Cache) empty() *domain.Catalog {
	return &domain.Catalog{
		Store:    c.fallback,
		Products: []domain.ProductRecord{},
		Videos:   []interface{}{},
		Posts:    []interface{}{},
	}
}
