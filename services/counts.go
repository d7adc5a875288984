package services

import (
	"context"
	"fmt"
)

// Counts holds the derived counters of one post.
type Counts struct {
	Likes    int64
	Comments int64
}

// CountProjector derives like and comment counts from the ledgers on every
// call. It holds no state of its own, so a count can never drift from its rows.
type CountProjector struct {
	likes    LikeRepository
	comments CommentRepository
}

// NewCountProjector creates a CountProjector over the two ledgers.
func NewCountProjector(likes LikeRepository, comments CommentRepository) *CountProjector {
	return &CountProjector{likes: likes, comments: comments}
}

// CountLikes returns the number of like rows for postID.
func (p *CountProjector) CountLikes(ctx context.Context, postID uint) (int64, error) {
	n, err := p.likes.CountByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

// CountComments returns the number of comment rows for postID.
func (p *CountProjector) CountComments(ctx context.Context, postID uint) (int64, error) {
	n, err := p.comments.CountByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

// CountsFor returns counts for every id in postIDs, zero for posts without rows.
func (p *CountProjector) CountsFor(ctx context.Context, postIDs []uint) (map[uint]Counts, error) {
	out := make(map[uint]Counts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	likes, err := p.likes.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := p.comments.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	for _, id := range postIDs {
		out[id] = Counts{Likes: likes[id], Comments: comments[id]}
	}
	return out, nil
}
