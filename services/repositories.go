package services

import (
	"context"
	"time"

	"github.com/syncup/syncup/models"
)

// PostRepository is the post store.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Exists(ctx context.Context, id uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	// Delete removes the post and its likes and comments.
	Delete(ctx context.Context, id uint) error
	ListPublic(ctx context.Context) ([]models.Post, error)
	ListByClub(ctx context.Context, clubID uint) ([]models.Post, error)
}

// LikeRepository is the like ledger. Implementations must enforce one row per
// (user, post) in storage; callers never lock.
type LikeRepository interface {
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	// Insert returns created=false when the pair already existed.
	Insert(ctx context.Context, userID, postID uint) (created bool, err error)
	// Delete returns removed=false when there was no row.
	Delete(ctx context.Context, userID, postID uint) (removed bool, err error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

// CommentRepository is the comment ledger.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Delete(ctx context.Context, id uint) error
	CountByPost(ctx context.Context, postID uint) (int64, error)
	CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

// ClubRepository stores clubs and memberships.
type ClubRepository interface {
	List(ctx context.Context, search string) ([]models.Club, error)
	FindByID(ctx context.Context, id uint) (*models.Club, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, club *models.Club) error
	AddMember(ctx context.Context, m *models.Membership) error
	Members(ctx context.Context, clubID uint) ([]models.Membership, error)
	CountMembers(ctx context.Context, clubIDs []uint) (map[uint]int64, error)
	CountPosts(ctx context.Context, clubIDs []uint) (map[uint]int64, error)
}

// Repositories bundles the storage handles the services run on.
type Repositories struct {
	Users    UserRepository
	Posts    PostRepository
	Likes    LikeRepository
	Comments CommentRepository
	Clubs    ClubRepository
}

// FeedCache is a byte cache keyed by string whose fills are guarded by a
// generation counter. utils.Cache satisfies it; a disabled cache misses on
// every read and never stores.
type FeedCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	Generation(ctx context.Context, genKey string) (string, bool)
	SetIfGeneration(ctx context.Context, key string, b []byte, ttl time.Duration, genKey, gen string) (bool, error)
	Invalidate(ctx context.Context, genKey string, keys ...string) error
}

// TokenIssuer mints and revokes bearer tokens.
type TokenIssuer interface {
	Generate(userID uint) (string, time.Time, error)
	Revoke(ctx context.Context, token string, expiresAt time.Time)
}
