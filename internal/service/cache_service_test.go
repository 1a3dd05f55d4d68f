package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type cacheRepoStub struct {
	getErr   error
	patterns []string
	ttl      time.Duration
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	return s.getErr
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.ttl = ttl
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return nil
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := &cacheRepoStub{}
	svc := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, svc.Enabled())

	hit, err := svc.Get(context.Background(), "routine:semester:1", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Invalidate(context.Background(), routineCachePattern))
	assert.Empty(t, repo.patterns)
}

func TestCacheServiceHitMissAndMetrics(t *testing.T) {
	metrics := NewMetricsService()
	repo := &cacheRepoStub{}
	svc := NewCacheService(repo, metrics, 0, nil, true)
	ctx := context.Background()

	hit, err := svc.Get(ctx, routineCacheKey(models.ProjectionTeacher, 7), &struct{}{})
	require.NoError(t, err)
	assert.True(t, hit)

	repo.getErr = appErrors.ErrCacheMiss
	hit, err = svc.Get(ctx, "routine:teacher:7", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)

	repo.getErr = errors.New("redis down")
	_, err = svc.Get(ctx, "routine:teacher:7", &struct{}{})
	assert.Error(t, err)

	assert.InDelta(t, 1.0/3.0, metrics.Snapshot().CacheHitRatio, 0.0001)

	require.NoError(t, svc.Set(ctx, "routine:teacher:7", map[string]int{"a": 1}, 0))
	assert.Equal(t, 5*time.Minute, repo.ttl)

	require.NoError(t, svc.Invalidate(ctx, routineCachePattern))
	assert.Equal(t, []string{"routine:*"}, repo.patterns)
}

func TestRoutineCacheKey(t *testing.T) {
	assert.Equal(t, "routine:room:12", routineCacheKey(models.ProjectionRoom, 12))
}
