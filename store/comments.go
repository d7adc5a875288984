package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/syncup/syncup/models"
)

// CommentRepository persists comments.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a CommentRepository on db.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts comment. A post that vanished meanwhile yields ErrForeignKey.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return classify(r.db.WithContext(ctx).Omit("User").Create(comment).Error)
}

// FindByID loads a single comment.
func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, classify(err)
	}
	return &comment, nil
}

// ListByPost returns the comments of postID, newest first, with authors preloaded.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, classify(err)
	}
	return comments, nil
}

// Delete removes comment id. ErrNotFound means it was already gone.
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByPost returns the live number of comments on postID.
func (r *CommentRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, classify(err)
}

// CountByPosts returns comment counts for several posts in one grouped query.
func (r *CommentRepository) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return countGrouped(ctx, r.db, &models.Comment{}, postIDs)
}
