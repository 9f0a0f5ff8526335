package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/agency/planner/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogKeyPrefix = "catalog:"

	// invalidatedMarker occupies the key of a changed or deleted entry.
	// Reads treat it as a miss and never replace it, so a read that loaded
	// the old row before the write cannot put it back in the cache.
	invalidatedMarker = "invalidated"

	defaultInvalidationHold = 10 * time.Second
)

// CatalogCache is a read-through Redis cache for catalog entries.
// Redis failures are logged and the read falls through to the store, so a
// cache outage never fails a request.
type CatalogCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	hold   time.Duration
	logger *zap.Logger
}

// CatalogCacheOption is a functional option for configuring the cache
type CatalogCacheOption func(*CatalogCache)

// WithCatalogLogger sets the logger for the cache
func WithCatalogLogger(logger *zap.Logger) CatalogCacheOption {
	return func(c *CatalogCache) {
		c.logger = logger
	}
}

// WithInvalidationHold sets how long an updated entry stays uncached
func WithInvalidationHold(hold time.Duration) CatalogCacheOption {
	return func(c *CatalogCache) {
		c.hold = hold
	}
}

// NewCatalogCache creates a cache storing entries for ttl
func NewCatalogCache(client redis.UniversalClient, ttl time.Duration, opts ...CatalogCacheOption) *CatalogCache {
	c := &CatalogCache{client: client, ttl: ttl, hold: defaultInvalidationHold, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.hold > c.ttl {
		c.hold = c.ttl
	}
	return c
}

func catalogKey(kind string, id uuid.UUID) string {
	return catalogKeyPrefix + kind + ":" + id.String()
}

// getMany returns the entries for ids, reading cached ones from Redis and
// loading the rest from the store. Missing ids are omitted, as in the store.
func getMany[T any](ctx context.Context, c *CatalogCache, kind string, ids []uuid.UUID,
	load func(context.Context, []uuid.UUID) ([]T, error), idOf func(*T) uuid.UUID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = catalogKey(kind, id)
	}

	hits := make(map[uuid.UUID]T, len(ids))
	held := make(map[uuid.UUID]bool)
	corrupt := make(map[uuid.UUID]bool)
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("catalog cache read failed", zap.String("kind", kind), zap.Error(err))
		values = nil
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		if raw == invalidatedMarker {
			held[ids[i]] = true
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			c.logger.Warn("catalog cache entry corrupt", zap.String("key", keys[i]), zap.Error(err))
			corrupt[ids[i]] = true
			continue
		}
		hits[ids[i]] = item
	}

	var misses []uuid.UUID
	for _, id := range ids {
		if _, ok := hits[id]; !ok {
			misses = append(misses, id)
		}
	}
	if len(misses) > 0 {
		loaded, err := load(ctx, misses)
		if err != nil {
			return nil, err
		}
		pipe := c.client.Pipeline()
		for i := range loaded {
			id := idOf(&loaded[i])
			hits[id] = loaded[i]
			if held[id] {
				continue
			}
			data, err := json.Marshal(loaded[i])
			if err != nil {
				continue
			}
			// NX keeps a marker written while the row was being loaded
			if corrupt[id] {
				pipe.Set(ctx, catalogKey(kind, id), data, c.ttl)
			} else {
				pipe.SetNX(ctx, catalogKey(kind, id), data, c.ttl)
			}
		}
		if pipe.Len() > 0 {
			if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
				c.logger.Warn("catalog cache write failed", zap.String("kind", kind), zap.Error(err))
			}
		}
	}

	out := make([]T, 0, len(hits))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := hits[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func getOne[T any](ctx context.Context, c *CatalogCache, kind string, id uuid.UUID,
	load func(context.Context, uuid.UUID) (*T, error), idOf func(*T) uuid.UUID) (*T, error) {
	items, err := getMany(ctx, c, kind, []uuid.UUID{id}, func(ctx context.Context, _ []uuid.UUID) ([]T, error) {
		item, err := load(ctx, id)
		if err != nil {
			return nil, err
		}
		return []T{*item}, nil
	}, idOf)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Invalidate replaces the cached entry of one catalog item with the marker
// for the invalidation hold. Writers call it before and after the store
// write.
func (c *CatalogCache) Invalidate(ctx context.Context, kind string, id uuid.UUID) {
	c.mark(ctx, kind, id, c.hold)
}

// Tombstone marks a deleted catalog item for the full ttl
func (c *CatalogCache) Tombstone(ctx context.Context, kind string, id uuid.UUID) {
	c.mark(ctx, kind, id, c.ttl)
}

func (c *CatalogCache) mark(ctx context.Context, kind string, id uuid.UUID, hold time.Duration) {
	if err := c.client.Set(ctx, catalogKey(kind, id), invalidatedMarker, hold).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed",
			zap.String("kind", kind), zap.String("id", id.String()), zap.Error(err))
	}
}

// write runs a store write between two invalidations of the entry
func (c *CatalogCache) write(ctx context.Context, kind string, id uuid.UUID, fn func() error) error {
	c.Invalidate(ctx, kind, id)
	if err := fn(); err != nil {
		return err
	}
	c.Invalidate(ctx, kind, id)
	return nil
}

// remove runs a store delete and leaves a tombstone behind
func (c *CatalogCache) remove(ctx context.Context, kind string, id uuid.UUID, fn func() error) error {
	c.Invalidate(ctx, kind, id)
	if err := fn(); err != nil {
		return err
	}
	c.Tombstone(ctx, kind, id)
	return nil
}

// ServiceRepository decorates a catalog.ServiceRepository with the cache.
// Lookups by id are cached; listings always hit the store.
type ServiceRepository struct {
	catalog.ServiceRepository
	cache *CatalogCache
}

// NewServiceRepository wraps repo with cache
func NewServiceRepository(repo catalog.ServiceRepository, cache *CatalogCache) *ServiceRepository {
	return &ServiceRepository{ServiceRepository: repo, cache: cache}
}

func serviceID(s *catalog.Service) uuid.UUID { return s.ID }

// FindByID returns a service, from the cache when present
func (r *ServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	return getOne(ctx, r.cache, "services", id, r.ServiceRepository.FindByID, serviceID)
}

// FindByIDs returns the non-deleted services among ids
func (r *ServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	return getMany(ctx, r.cache, "services", ids, r.ServiceRepository.FindByIDs, serviceID)
}

// Save stores the service with its cached copy invalidated around the write
func (r *ServiceRepository) Save(ctx context.Context, s *catalog.Service) error {
	return r.cache.write(ctx, "services", s.ID, func() error {
		return r.ServiceRepository.Save(ctx, s)
	})
}

// SoftDelete deletes the service and tombstones its cached copy
func (r *ServiceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.cache.remove(ctx, "services", id, func() error {
		return r.ServiceRepository.SoftDelete(ctx, id)
	})
}

// PackageRepository decorates a catalog.PackageRepository with the cache
type PackageRepository struct {
	catalog.PackageRepository
	cache *CatalogCache
}

// NewPackageRepository wraps repo with cache
func NewPackageRepository(repo catalog.PackageRepository, cache *CatalogCache) *PackageRepository {
	return &PackageRepository{PackageRepository: repo, cache: cache}
}

func packageID(p *catalog.Package) uuid.UUID { return p.ID }

func (r *PackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	return getOne(ctx, r.cache, "packages", id, r.PackageRepository.FindByID, packageID)
}

func (r *PackageRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Package, error) {
	return getMany(ctx, r.cache, "packages", ids, r.PackageRepository.FindByIDs, packageID)
}

func (r *PackageRepository) Save(ctx context.Context, p *catalog.Package) error {
	return r.cache.write(ctx, "packages", p.ID, func() error {
		return r.PackageRepository.Save(ctx, p)
	})
}

func (r *PackageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.cache.remove(ctx, "packages", id, func() error {
		return r.PackageRepository.SoftDelete(ctx, id)
	})
}

// TermRepository decorates a catalog.ContractTermRepository with the cache
type TermRepository struct {
	catalog.ContractTermRepository
	cache *CatalogCache
}

// NewTermRepository wraps repo with cache
func NewTermRepository(repo catalog.ContractTermRepository, cache *CatalogCache) *TermRepository {
	return &TermRepository{ContractTermRepository: repo, cache: cache}
}

func termID(t *catalog.ContractTerm) uuid.UUID { return t.ID }

func (r *TermRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ContractTerm, error) {
	return getOne(ctx, r.cache, "terms", id, r.ContractTermRepository.FindByID, termID)
}

func (r *TermRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ContractTerm, error) {
	return getMany(ctx, r.cache, "terms", ids, r.ContractTermRepository.FindByIDs, termID)
}

func (r *TermRepository) Save(ctx context.Context, t *catalog.ContractTerm) error {
	return r.cache.write(ctx, "terms", t.ID, func() error {
		return r.ContractTermRepository.Save(ctx, t)
	})
}

func (r *TermRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.cache.remove(ctx, "terms", id, func() error {
		return r.ContractTermRepository.SoftDelete(ctx, id)
	})
}

var (
	_ catalog.ServiceRepository      = (*ServiceRepository)(nil)
	_ catalog.PackageRepository      = (*PackageRepository)(nil)
	_ catalog.ContractTermRepository = (*TermRepository)(nil)
)
