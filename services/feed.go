package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/utils"
)

const (
	// FeedCacheKey holds the assembled public feed.
	FeedCacheKey = "cache:feed:public"
	// FeedGenerationKey counts feed invalidations. A fill is only stored if
	// the counter did not move while the feed was being assembled.
	FeedGenerationKey = "cache:feed:gen"
)

// FeedAssembler builds the public feed: public posts, newest first, each with
// author, club and live counts.
//
// The assembled feed may be cached. Every like, comment or post mutation calls
// Invalidate after it commits and before it responds. Invalidate bumps a
// counter kept next to the entry, and a fill is written only if that counter
// is unchanged since before the store was read, so a client always reads its
// own writes, across instances too.
type FeedAssembler struct {
	posts  PostRepository
	counts *CountProjector
	cache  FeedCache
	ttl    time.Duration
}

// NewFeedAssembler creates a FeedAssembler. cache may be nil.
func NewFeedAssembler(posts PostRepository, counts *CountProjector, cache FeedCache, ttl time.Duration) *FeedAssembler {
	return &FeedAssembler{posts: posts, counts: counts, cache: cache, ttl: ttl}
}

// ListFeed returns the public feed.
func (f *FeedAssembler) ListFeed(ctx context.Context) ([]PostView, error) {
	if f.cache != nil {
		if b, ok := f.cache.GetBytes(ctx, FeedCacheKey); ok {
			var views []PostView
			if err := json.Unmarshal(b, &views); err == nil {
				return views, nil
			}
			utils.Logger.Warn("discarding undecodable feed cache entry")
		}
	}

	var gen string
	fill := false
	if f.cache != nil {
		gen, fill = f.cache.Generation(ctx, FeedGenerationKey)
	}

	posts, err := f.posts.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public posts: %w", err)
	}
	views, err := f.Assemble(ctx, posts)
	if err != nil {
		return nil, err
	}

	if fill {
		f.store(ctx, views, gen)
	}
	return views, nil
}

func (f *FeedAssembler) store(ctx context.Context, views []PostView, gen string) {
	b, err := json.Marshal(views)
	if err != nil {
		utils.Logger.Warn("feed cache encode failed", zap.Error(err))
		return
	}
	stored, err := f.cache.SetIfGeneration(ctx, FeedCacheKey, b, f.ttl, FeedGenerationKey, gen)
	switch {
	case err != nil:
		utils.Logger.Warn("feed cache fill failed", zap.String("key", FeedCacheKey), zap.Error(err))
	case !stored:
		utils.Logger.Debug("feed cache fill skipped, invalidated meanwhile", zap.String("generation", gen))
	}
}

// Assemble attaches live counts to posts, keeping their order.
func (f *FeedAssembler) Assemble(ctx context.Context, posts []models.Post) ([]PostView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := f.counts.CountsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, counts[p.ID]))
	}
	return views, nil
}

// Invalidate drops the cached feed and bumps its generation. A failed
// invalidation is logged; the entry then ages out with its TTL.
func (f *FeedAssembler) Invalidate(ctx context.Context) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Invalidate(ctx, FeedGenerationKey, FeedCacheKey); err != nil {
		utils.Logger.Warn("feed cache invalidation failed", zap.String("key", FeedCacheKey), zap.Error(err))
	}
}
