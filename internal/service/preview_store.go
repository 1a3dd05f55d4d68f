package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

const previewKeyPrefix = "routine-preview:"

// PreviewStore keeps generated routines between preview, edit and commit.
// Get returns found=false for unknown or expired previews.
type PreviewStore interface {
	Save(ctx context.Context, preview dto.PreviewResponse) error
	Get(ctx context.Context, id string) (dto.PreviewResponse, bool, error)
	Delete(ctx context.Context, id string) error
}

// MemoryPreviewStore holds previews in process memory. Previews are lost on
// restart and not shared between replicas.
type MemoryPreviewStore struct {
	mu    sync.RWMutex
	items map[string]dto.PreviewResponse
	now   func() time.Time
}

// NewMemoryPreviewStore constructs an empty in-memory store.
func NewMemoryPreviewStore() *MemoryPreviewStore {
	return &MemoryPreviewStore{items: make(map[string]dto.PreviewResponse), now: time.Now}
}

// Save stores or replaces preview.
func (s *MemoryPreviewStore) Save(_ context.Context, preview dto.PreviewResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[preview.PreviewID] = clonePreview(preview)
	return nil
}

// Get returns a copy of the preview so callers can edit it before saving.
func (s *MemoryPreviewStore) Get(ctx context.Context, id string) (dto.PreviewResponse, bool, error) {
	s.mu.RLock()
	preview, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return dto.PreviewResponse{}, false, nil
	}
	if s.now().After(preview.ExpiresAt) {
		_ = s.Delete(ctx, id)
		return dto.PreviewResponse{}, false, nil
	}
	return clonePreview(preview), true, nil
}

// Delete drops a preview.
func (s *MemoryPreviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

type previewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisPreviewStore shares previews between replicas through the cache repository.
type RedisPreviewStore struct {
	cache previewCache
	now   func() time.Time
}

// NewRedisPreviewStore wraps a cache backend.
func NewRedisPreviewStore(cache previewCache) *RedisPreviewStore {
	return &RedisPreviewStore{cache: cache, now: time.Now}
}

// Save stores preview until its ExpiresAt.
func (s *RedisPreviewStore) Save(ctx context.Context, preview dto.PreviewResponse) error {
	ttl := preview.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, previewKeyPrefix+preview.PreviewID, preview, ttl); err != nil {
		return fmt.Errorf("store preview: %w", err)
	}
	return nil
}

// Get loads a preview; Redis expiry removes stale ones.
func (s *RedisPreviewStore) Get(ctx context.Context, id string) (dto.PreviewResponse, bool, error) {
	var preview dto.PreviewResponse
	if err := s.cache.Get(ctx, previewKeyPrefix+id, &preview); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return dto.PreviewResponse{}, false, nil
		}
		return dto.PreviewResponse{}, false, fmt.Errorf("load preview: %w", err)
	}
	return preview, true, nil
}

// Delete drops a preview.
func (s *RedisPreviewStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, previewKeyPrefix+id); err != nil {
		return fmt.Errorf("delete preview: %w", err)
	}
	return nil
}

func clonePreview(preview dto.PreviewResponse) dto.PreviewResponse {
	out := preview
	out.SemesterIDs = make([]int64, len(preview.SemesterIDs))
	copy(out.SemesterIDs, preview.SemesterIDs)
	out.ProposedEntries = make([]models.PreviewEntry, len(preview.ProposedEntries))
	copy(out.ProposedEntries, preview.ProposedEntries)
	out.UnassignedCourses = make([]dto.UnassignedCourse, len(preview.UnassignedCourses))
	copy(out.UnassignedCourses, preview.UnassignedCourses)
	return out
}
