package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/syncup/syncup/models"
)

// LikeRepository is the gorm-backed like ledger. Uniqueness of (user, post)
// is enforced by idx_like_user_post, not by the application.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a LikeRepository on db.
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Exists reports whether userID currently likes postID.
func (r *LikeRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

// Insert adds the (user, post) row. created is false when a concurrent writer
// inserted the same pair first; that is not an error.
func (r *LikeRepository) Insert(ctx context.Context, userID, postID uint) (bool, error) {
	like := models.Like{UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("User").
		Create(&like)
	if res.Error != nil {
		if IsDuplicate(res.Error) {
			return false, nil
		}
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the (user, post) row. removed is false when there was nothing to delete.
func (r *LikeRepository) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountByPost returns the live number of likes on postID.
func (r *LikeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, classify(err)
}

// CountByPosts returns like counts for several posts in one grouped query.
// Posts without likes are absent from the map.
func (r *LikeRepository) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return countGrouped(ctx, r.db, &models.Like{}, postIDs)
}

type postCount struct {
	PostID uint
	N      int64
}

func countGrouped(ctx context.Context, db *gorm.DB, model interface{}, postIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []postCount
	err := db.WithContext(ctx).Model(model).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	for _, row := range rows {
		out[row.PostID] = row.N
	}
	return out, nil
}
