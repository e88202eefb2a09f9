package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-agreement-api/internal/models"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
)

const listCacheKey = "submissions:list"

// CachedStore decorates a SubmissionStore with a Redis-backed cache for the
// admin listing. Any write invalidates the cached list; reads fall through
// to the inner store on a miss or cache error.
type CachedStore struct {
	inner  SubmissionStore
	cache  *CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStore wraps the given store.
func NewCachedStore(inner SubmissionStore, cache *CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStore{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (s *CachedStore) Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error) {
	submission, err := s.inner.Create(ctx, formData, signatureDataURL)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return submission, nil
}

func (s *CachedStore) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	return s.inner.GetByID(ctx, id)
}

func (s *CachedStore) List(ctx context.Context) ([]models.Submission, error) {
	var cached []models.Submission
	err := s.cache.Get(ctx, listCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("submission list cache read failed", zap.Error(err))
	}

	submissions, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, listCacheKey, submissions, s.ttl); err != nil {
		s.logger.Warn("submission list cache write failed", zap.Error(err))
	}
	return submissions, nil
}

func (s *CachedStore) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	submission, err := s.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return submission, nil
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("submission list cache invalidation failed", zap.Error(err))
	}
}
