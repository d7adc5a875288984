package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/syncup/syncup/store"
)

// ToggleResult is the state after a toggle.
type ToggleResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// LikeLedger flips a user's like on a post.
type LikeLedger struct {
	posts  PostRepository
	likes  LikeRepository
	counts *CountProjector
	feed   *FeedAssembler
}

// NewLikeLedger creates a LikeLedger.
func NewLikeLedger(posts PostRepository, likes LikeRepository, counts *CountProjector, feed *FeedAssembler) *LikeLedger {
	return &LikeLedger{posts: posts, likes: likes, counts: counts, feed: feed}
}

// ToggleLike likes postID for userID if they have not liked it, and unlikes it
// otherwise. Exactly one insert or delete is attempted per call; the storage
// uniqueness constraint on (user, post) settles races between concurrent calls.
func (l *LikeLedger) ToggleLike(ctx context.Context, userID, postID uint) (ToggleResult, error) {
	ok, err := l.posts.Exists(ctx, postID)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("check post: %w", err)
	}
	if !ok {
		return ToggleResult{}, ErrPostNotFound
	}

	liked, err := l.likes.Exists(ctx, userID, postID)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("find like: %w", err)
	}

	var res ToggleResult
	if liked {
		// removed=false means a concurrent unlike got there first; the pair is unliked either way.
		if _, err := l.likes.Delete(ctx, userID, postID); err != nil {
			return ToggleResult{}, fmt.Errorf("delete like: %w", err)
		}
		res.Liked = false
	} else {
		// created=false means a concurrent like got there first; the pair is liked either way.
		if _, err := l.likes.Insert(ctx, userID, postID); err != nil {
			if errors.Is(err, store.ErrForeignKey) {
				return ToggleResult{}, ErrPostNotFound
			}
			return ToggleResult{}, fmt.Errorf("insert like: %w", err)
		}
		res.Liked = true
	}

	if l.feed != nil {
		l.feed.Invalidate(ctx)
	}

	res.LikesCount, err = l.counts.CountLikes(ctx, postID)
	if err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}
