package models

import "time"

// Like is one row per (user, post) pair; idx_like_user_post enforces that.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post,priority:1" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post,priority:2;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
