package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/store"
	"github.com/syncup/syncup/utils"
)

// MaxCommentLength bounds comment content, in runes.
const MaxCommentLength = 2000

// CommentLedger creates, lists and deletes comments.
type CommentLedger struct {
	posts    PostRepository
	comments CommentRepository
	users    UserRepository
	counts   *CountProjector
	feed     *FeedAssembler
}

// NewCommentLedger creates a CommentLedger.
func NewCommentLedger(posts PostRepository, comments CommentRepository, users UserRepository, counts *CountProjector, feed *FeedAssembler) *CommentLedger {
	return &CommentLedger{posts: posts, comments: comments, users: users, counts: counts, feed: feed}
}

// CreateComment stores a comment by userID on postID and returns it with the
// post's comment count after the insert.
func (l *CommentLedger) CreateComment(ctx context.Context, userID, postID uint, content string) (CommentView, int64, error) {
	if strings.TrimSpace(content) == "" {
		return CommentView{}, 0, invalid("comment content is required")
	}
	content = utils.Sanitize(content)
	if content == "" {
		return CommentView{}, 0, invalid("comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return CommentView{}, 0, invalid("comment content exceeds %d characters", MaxCommentLength)
	}

	ok, err := l.posts.Exists(ctx, postID)
	if err != nil {
		return CommentView{}, 0, fmt.Errorf("check post: %w", err)
	}
	if !ok {
		return CommentView{}, 0, ErrPostNotFound
	}

	author, err := l.users.FindByID(ctx, userID)
	if err != nil {
		return CommentView{}, 0, notFoundAs(err, ErrUserNotFound)
	}

	comment := models.Comment{UserID: userID, PostID: postID, Content: content}
	if err := l.comments.Create(ctx, &comment); err != nil {
		// the post was deleted between the check and the insert
		if errors.Is(err, store.ErrForeignKey) {
			return CommentView{}, 0, ErrPostNotFound
		}
		return CommentView{}, 0, fmt.Errorf("create comment: %w", err)
	}
	if l.feed != nil {
		l.feed.Invalidate(ctx)
	}

	comment.User = *author

	n, err := l.counts.CountComments(ctx, postID)
	if err != nil {
		return CommentView{}, 0, err
	}
	return newCommentView(comment), n, nil
}

// ListComments returns the comments on postID, newest first. An unknown post has no comments.
func (l *CommentLedger) ListComments(ctx context.Context, postID uint) ([]CommentView, error) {
	comments, err := l.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, newCommentView(c))
	}
	return views, nil
}

// DeleteComment removes commentID if userID owns it. Ownership is checked before any write.
func (l *CommentLedger) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := l.comments.FindByID(ctx, commentID)
	if err != nil {
		return notFoundAs(err, ErrCommentNotFound)
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	if err := l.comments.Delete(ctx, commentID); err != nil {
		return notFoundAs(err, ErrCommentNotFound)
	}
	if l.feed != nil {
		l.feed.Invalidate(ctx)
	}
	return nil
}
