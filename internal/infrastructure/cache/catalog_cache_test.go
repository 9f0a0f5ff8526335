package cache

import (
	"context"
	"testing"
	"time"

	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServiceRepo struct {
	catalog.ServiceRepository
	items map[uuid.UUID]catalog.Service
	loads [][]uuid.UUID
	// afterLoad runs once between reading the rows and returning them
	afterLoad func()
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	f.loads = append(f.loads, []uuid.UUID{id})
	s, ok := f.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (f *fakeServiceRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	f.loads = append(f.loads, ids)
	out := []catalog.Service{}
	for _, id := range ids {
		if s, ok := f.items[id]; ok {
			out = append(out, s)
		}
	}
	if hook := f.afterLoad; hook != nil {
		f.afterLoad = nil
		hook()
	}
	return out, nil
}

func (f *fakeServiceRepo) Save(_ context.Context, s *catalog.Service) error {
	f.items[s.ID] = *s
	return nil
}

func (f *fakeServiceRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func newService(t *testing.T, name string, price int64) catalog.Service {
	t.Helper()
	s, err := catalog.NewService(valueobject.NewLocalizedText(name, name+" ar"), decimal.NewFromInt(price), true, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetPrice(decimal.NewFromInt(price), valueobject.PercentOff(15)))
	return *s
}

func setup(t *testing.T) (*miniredis.Miniredis, *fakeServiceRepo, *ServiceRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &fakeServiceRepo{items: map[uuid.UUID]catalog.Service{}}
	return mr, inner, NewServiceRepository(inner, NewCatalogCache(client, time.Minute))
}

func TestServiceRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mr, inner, repo := setup(t)
	a, b := newService(t, "Photo", 100), newService(t, "Web", 300)
	inner.items[a.ID], inner.items[b.ID] = a, b

	got, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, mr.Exists(catalogKey("services", a.ID)))
	assert.Equal(t, time.Minute, mr.TTL(catalogKey("services", a.ID)))

	missing := uuid.New()
	got, err = repo.FindByIDs(ctx, []uuid.UUID{b.ID, a.ID, missing})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.True(t, got[1].Discount.Equals(valueobject.PercentOff(15)))
	assert.True(t, got[1].Price.Equal(decimal.NewFromInt(100)))

	// the second call only loaded what the cache did not hold
	require.Len(t, inner.loads, 2)
	assert.ElementsMatch(t, []uuid.UUID{b.ID, missing}, inner.loads[1])
}

func TestServiceRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	_, inner, repo := setup(t)
	a := newService(t, "Reels", 50)
	inner.items[a.ID] = a

	for range 3 {
		got, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Reels ar", got.Name.Ar)
	}
	assert.Len(t, inner.loads, 1)

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, inner, repo := setup(t)
	a := newService(t, "Photo", 100)
	inner.items[a.ID] = a
	key := catalogKey("services", a.ID)

	_, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(key))

	a.Price = decimal.NewFromInt(120)
	require.NoError(t, repo.Save(ctx, &a))
	marker, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, invalidatedMarker, marker)
	assert.Equal(t, defaultInvalidationHold, mr.TTL(key))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(120)))
	marker, _ = mr.Get(key)
	assert.Equal(t, invalidatedMarker, marker, "reads do not cache during the hold")

	mr.FastForward(defaultInvalidationHold + time.Second)
	_, err = repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	cached, _ := mr.Get(key)
	assert.NotEqual(t, invalidatedMarker, cached)

	require.NoError(t, repo.SoftDelete(ctx, a.ID))
	marker, _ = mr.Get(key)
	assert.Equal(t, invalidatedMarker, marker)
	assert.Equal(t, time.Minute, mr.TTL(key), "tombstone lasts the cache ttl")
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceRepository_DeleteDuringReadIsNotCached(t *testing.T) {
	ctx := context.Background()
	_, inner, repo := setup(t)
	a := newService(t, "Photo", 100)
	inner.items[a.ID] = a

	inner.afterLoad = func() {
		require.NoError(t, repo.SoftDelete(ctx, a.ID))
	}
	got, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1, "the racing read still sees the row it loaded")

	got, err = repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestServiceRepository_UpdateDuringReadIsNotCached(t *testing.T) {
	ctx := context.Background()
	mr, inner, repo := setup(t)
	a := newService(t, "Photo", 100)
	inner.items[a.ID] = a

	inner.afterLoad = func() {
		updated := a
		updated.Price = decimal.NewFromInt(150)
		require.NoError(t, repo.Save(ctx, &updated))
	}
	_, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)

	got, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(150)))

	mr.FastForward(defaultInvalidationHold + time.Second)
	got, err = repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(150)))
}

func TestNewCatalogCache_HoldCappedByTTL(t *testing.T) {
	c := NewCatalogCache(nil, 3*time.Second, WithInvalidationHold(time.Minute))
	assert.Equal(t, 3*time.Second, c.hold)
}

func TestServiceRepository_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr, inner, repo := setup(t)
	a := newService(t, "Photo", 100)
	inner.items[a.ID] = a
	mr.Close()

	got, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestServiceRepository_CorruptEntryIsReloaded(t *testing.T) {
	ctx := context.Background()
	mr, inner, repo := setup(t)
	a := newService(t, "Photo", 100)
	inner.items[a.ID] = a
	require.NoError(t, mr.Set(catalogKey("services", a.ID), "{not json"))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Len(t, inner.loads, 1)
}

func TestFindByIDs_EmptyIDs(t *testing.T) {
	_, inner, repo := setup(t)
	got, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, inner.loads)
}
