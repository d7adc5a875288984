package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/syncup/syncup/models"
)

// PostRepository persists posts.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a PostRepository on db.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts post. A club_id that does not exist yields ErrForeignKey.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return classify(r.db.WithContext(ctx).Omit("User", "Club", "Likes", "Comments").Create(post).Error)
}

// Exists reports whether a post with id is present.
func (r *PostRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

// FindByID loads a post with its author and club.
func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("User").Preload("Club").First(&post, id).Error
	if err != nil {
		return nil, classify(err)
	}
	return &post, nil
}

// Delete removes a post together with its likes and comments in one transaction.
// It returns ErrNotFound when the post was already gone.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return classify(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return classify(err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListPublic returns public posts, newest first, with author and club preloaded.
func (r *PostRepository) ListPublic(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Club").
		Where("visibility = ?", models.VisibilityPublic).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, classify(err)
	}
	return posts, nil
}

// ListByClub returns every post attached to clubID, newest first.
func (r *PostRepository) ListByClub(ctx context.Context, clubID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, classify(err)
	}
	return posts, nil
}
