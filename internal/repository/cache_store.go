package repository

import (
	"context"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/internal/domain/repository"
	"AgroPulse/pkg/cache"
)

const (
	bundleKeyPrefix = "predictions"
	marketKey       = "market:latest"
)

// CacheBundleStore keeps the latest bundle per locale in pkg/cache.
type CacheBundleStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheBundleStore(c cache.Service, ttl time.Duration) *CacheBundleStore {
	return &CacheBundleStore{cache: c, ttl: ttl}
}

func (s *CacheBundleStore) Save(ctx context.Context, b models.PredictionBundle) error {
	return s.cache.Set(ctx, cache.GenerateKey(bundleKeyPrefix, string(b.Locale)), b, s.ttl)
}

func (s *CacheBundleStore) Latest(ctx context.Context, locale models.Locale) (models.PredictionBundle, error) {
	b, err := cache.GetTyped[models.PredictionBundle](ctx, s.cache, cache.GenerateKey(bundleKeyPrefix, string(locale)))
	if err != nil {
		return models.PredictionBundle{}, err
	}
	return b, nil
}

// Clear drops every cached bundle.
func (s *CacheBundleStore) Clear(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, cache.BuildPattern(bundleKeyPrefix+":"))
}

// CacheMarketStore keeps the latest price list in pkg/cache.
type CacheMarketStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheMarketStore(c cache.Service, ttl time.Duration) *CacheMarketStore {
	return &CacheMarketStore{cache: c, ttl: ttl}
}

func (s *CacheMarketStore) Save(ctx context.Context, prices []models.MarketPrice) error {
	return s.cache.Set(ctx, marketKey, prices, s.ttl)
}

func (s *CacheMarketStore) Latest(ctx context.Context) ([]models.MarketPrice, error) {
	return cache.GetTyped[[]models.MarketPrice](ctx, s.cache, marketKey)
}

var (
	_ repository.BundleStore = (*CacheBundleStore)(nil)
	_ repository.MarketStore = (*CacheMarketStore)(nil)
)
