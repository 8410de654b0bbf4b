package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/cache"
	"github.com/avenard/clubregistry/internal/domain"
)

const memberListKey = "members:list"

// CachedMemberRepository decorates a MemberRepository with a cache in
// front of List, the one hot read-only view in the back office. Cache
// failures are logged and ignored; the database stays the source of
// truth. Every write path invalidates the cached list.
type CachedMemberRepository struct {
	MemberRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedMemberRepository wraps repo with cache-aside list reads.
func NewCachedMemberRepository(repo MemberRepository, c cache.Cache, ttl time.Duration) *CachedMemberRepository {
	return &CachedMemberRepository{MemberRepository: repo, cache: c, ttl: ttl}
}

// List serves the member list from cache when possible.
func (r *CachedMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	if data, ok, err := r.cache.Get(ctx, memberListKey); err != nil {
		slog.Warn("member list cache read failed", "error", err)
	} else if ok {
		var members []domain.Member
		if err := json.Unmarshal(data, &members); err == nil {
			return members, nil
		}
		// Corrupt entry: drop it and fall through to the database.
		_ = r.cache.Invalidate(ctx, memberListKey)
	}

	members, err := r.MemberRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(members); err == nil {
		if err := r.cache.Set(ctx, memberListKey, data, r.ttl); err != nil {
			slog.Warn("member list cache write failed", "error", err)
		}
	}
	return members, nil
}

func (r *CachedMemberRepository) Create(ctx context.Context, m *domain.Member) error {
	if err := r.MemberRepository.Create(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMemberRepository) Update(ctx context.Context, m *domain.Member) error {
	if err := r.MemberRepository.Update(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.MemberRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMemberRepository) invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx, memberListKey); err != nil {
		slog.Warn("member list cache invalidation failed", "error", err)
	}
}
