package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/cache"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is a CacheStore that keeps JSON encoded values in memory.
type memStore struct {
	values   map[string][]byte
	counters map[string]int64
	ttl      time.Duration
}

func newMemStore() *memStore {
	return &memStore{values: map[string][]byte{}, counters: map[string]int64{}, ttl: -1}
}

func (m *memStore) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memStore) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}

func (m *memStore) IncrementWindow(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memStore) GetTTL(context.Context, string) (time.Duration, error) {
	return m.ttl, nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func TestCacheService_CheckRateLimit(t *testing.T) {
	store := newMemStore()
	service := NewCacheService(store, time.Minute, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := service.CheckRateLimit(ctx, "public:ip:10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := service.CheckRateLimit(ctx, "public:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.Equal(t, time.Minute, result.RetryAfter)
	assert.Contains(t, store.counters, utils.CacheRateLimitPrefix+"public:ip:10.0.0.1")

	store.ttl = 12 * time.Second
	result, err = service.CheckRateLimit(ctx, "public:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, result.RetryAfter)
}

func TestCacheService_GetMiss(t *testing.T) {
	service := NewCacheService(newMemStore(), time.Minute, logger.NewNop())

	var dest map[string]string
	assert.ErrorIs(t, service.Get(context.Background(), "absent", &dest), ErrCacheMiss)
}

type memSeo struct {
	interfaces.SeoRepository
	items map[primitive.ObjectID]*models.SeoRecord
	reads int
}

func (m *memSeo) Create(_ context.Context, record *models.SeoRecord) error {
	record.ID = primitive.NewObjectID()
	record.Stamp(time.Now())
	m.items[record.ID] = record
	return nil
}

func (m *memSeo) GetBySlug(_ context.Context, slug string) (*models.SeoRecord, error) {
	m.reads++
	for _, record := range m.items {
		if record.Slug == slug && record.IsActive() {
			return record, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memSeo) GetByEntity(_ context.Context, entityType models.SeoEntityType, entityID string) (*models.SeoRecord, error) {
	m.reads++
	for _, record := range m.items {
		if record.EntityType == entityType && record.EntityID == entityID && record.IsActive() {
			return record, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memSeo) FindAnyByEntity(_ context.Context, entityType models.SeoEntityType, entityID string) (*models.SeoRecord, error) {
	for _, record := range m.items {
		if record.EntityType == entityType && record.EntityID == entityID {
			return record, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memSeo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SeoRecord, error) {
	record := m.items[id]
	if title, ok := updates["meta_title"].(string); ok {
		record.MetaTitle = title
	}
	return record, nil
}

func TestSeoService_ResolveReadsThroughCache(t *testing.T) {
	repo := &memSeo{items: map[primitive.ObjectID]*models.SeoRecord{}}
	cacheService := NewCacheService(newMemStore(), time.Minute, logger.NewNop())
	service := NewSeoService(repo, cacheService, time.Minute, logger.NewNop())
	ctx := context.Background()

	record, err := service.Create(ctx, &CreateSeoRequest{
		EntityType: models.SeoEntityPage,
		EntityID:   "about",
		Slug:       "about-us",
		MetaTitle:  "About us",
	})
	require.NoError(t, err)
	repo.reads = 0

	for i := 0; i < 3; i++ {
		resolved, err := service.Resolve(ctx, &SeoResolveRequest{Slug: "about-us"})
		require.NoError(t, err)
		assert.Equal(t, "About us", resolved.MetaTitle)
	}
	assert.Equal(t, 1, repo.reads)

	title := "About the store"
	_, err = service.Update(ctx, record.ID, &UpdateSeoRequest{MetaTitle: &title})
	require.NoError(t, err)

	resolved, err := service.Resolve(ctx, &SeoResolveRequest{Slug: "about-us"})
	require.NoError(t, err)
	assert.Equal(t, title, resolved.MetaTitle)
	assert.Equal(t, 2, repo.reads)

	resolved, err = service.Resolve(ctx, &SeoResolveRequest{EntityType: models.SeoEntityPage, EntityID: "about"})
	require.NoError(t, err)
	assert.Equal(t, record.ID, resolved.ID)
}

func TestSeoService_MissesAreNotCached(t *testing.T) {
	repo := &memSeo{items: map[primitive.ObjectID]*models.SeoRecord{}}
	service := NewSeoService(repo, NewCacheService(newMemStore(), time.Minute, logger.NewNop()), time.Minute, logger.NewNop())

	for i := 0; i < 2; i++ {
		_, err := service.Resolve(context.Background(), &SeoResolveRequest{Slug: "missing"})
		assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
	}
	assert.Equal(t, 2, repo.reads)
}

func TestSeoService_CreateRejectsDuplicateEntity(t *testing.T) {
	repo := &memSeo{items: map[primitive.ObjectID]*models.SeoRecord{}}
	service := NewSeoService(repo, nil, time.Minute, logger.NewNop())
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateSeoRequest{EntityType: models.SeoEntityGlobal, EntityID: "ignored", MetaTitle: "Store"})
	require.NoError(t, err)

	_, err = service.Create(ctx, &CreateSeoRequest{EntityType: models.SeoEntityGlobal, MetaTitle: "Again"})
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}
