package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/jobs"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics. Invalidations requested
// through InvalidateAsync run on a background queue once StartInvalidation was called.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	queue      *jobs.Queue
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// StartInvalidation launches the background invalidation worker.
func (s *CacheService) StartInvalidation(ctx context.Context) {
	if !s.Enabled() || s.queue != nil {
		return
	}
	s.queue = jobs.NewQueue("cache-invalidation", func(ctx context.Context, job jobs.Job) error {
		return s.repo.DeleteByPattern(ctx, job.Key)
	}, jobs.QueueConfig{Workers: 1, BufferSize: 64, RetryDelay: 500 * time.Millisecond, Logger: s.logger})
	s.queue.Start(ctx)
}

// StopInvalidation stops the background worker.
func (s *CacheService) StopInvalidation() {
	if s == nil || s.queue == nil {
		return
	}
	s.queue.Stop()
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// InvalidateAsync schedules an invalidation without blocking the caller. Without a running
// worker it falls back to a synchronous delete bounded by a short timeout.
func (s *CacheService) InvalidateAsync(pattern string) {
	if !s.Enabled() {
		return
	}
	if s.queue == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Invalidate(ctx, pattern); err != nil {
			s.metrics.RecordInvalidationFailure()
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Key: pattern}); err != nil {
		s.metrics.RecordInvalidationFailure()
		s.logger.Warn("cache invalidation dropped", zap.String("pattern", pattern), zap.Error(err))
	}
}
