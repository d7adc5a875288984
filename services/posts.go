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

// MaxPostLength bounds post content, in runes.
const MaxPostLength = 5000

// CreatePostInput is the payload of a new post.
type CreatePostInput struct {
	Content    string
	Visibility string
	ClubID     *uint
}

// PostService creates and deletes posts.
type PostService struct {
	posts PostRepository
	users UserRepository
	clubs ClubRepository
	feed  *FeedAssembler
}

// NewPostService creates a PostService.
func NewPostService(posts PostRepository, users UserRepository, clubs ClubRepository, feed *FeedAssembler) *PostService {
	return &PostService{posts: posts, users: users, clubs: clubs, feed: feed}
}

// Create stores a post by userID. Content and visibility are required;
// club visibility needs an existing club.
func (s *PostService) Create(ctx context.Context, userID uint, in CreatePostInput) (PostView, error) {
	content := utils.Sanitize(in.Content)
	visibility := strings.ToLower(strings.TrimSpace(in.Visibility))
	if content == "" || visibility == "" {
		return PostView{}, invalid("content and visibility are required")
	}
	if utf8.RuneCountInString(content) > MaxPostLength {
		return PostView{}, invalid("content exceeds %d characters", MaxPostLength)
	}
	switch visibility {
	case models.VisibilityPublic:
	case models.VisibilityClub:
		if in.ClubID == nil {
			return PostView{}, invalid("club_id is required for club posts")
		}
	default:
		return PostView{}, invalid("visibility must be %q or %q", models.VisibilityPublic, models.VisibilityClub)
	}

	var club *models.Club
	if in.ClubID != nil {
		c, err := s.clubs.FindByID(ctx, *in.ClubID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return PostView{}, invalid("club %d does not exist", *in.ClubID)
			}
			return PostView{}, fmt.Errorf("load club: %w", err)
		}
		club = c
	}

	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return PostView{}, notFoundAs(err, ErrUserNotFound)
	}

	post := models.Post{UserID: userID, Content: content, Visibility: visibility, ClubID: in.ClubID}
	if err := s.posts.Create(ctx, &post); err != nil {
		if errors.Is(err, store.ErrForeignKey) && in.ClubID != nil {
			return PostView{}, invalid("club %d does not exist", *in.ClubID)
		}
		return PostView{}, fmt.Errorf("create post: %w", err)
	}
	if s.feed != nil {
		s.feed.Invalidate(ctx)
	}

	post.User = *author
	post.Club = club
	return newPostView(post, Counts{}), nil
}

// Delete removes postID with its likes and comments if userID owns it.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return notFoundAs(err, ErrPostNotFound)
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return notFoundAs(err, ErrPostNotFound)
	}
	if s.feed != nil {
		s.feed.Invalidate(ctx)
	}
	return nil
}
