package models

import "time"

const (
	VisibilityPublic = "public"
	VisibilityClub   = "club"
)

// Post is a status update owned by its author, optionally attached to a club.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Visibility string    `gorm:"size:16;not null;default:'public';index:idx_posts_visibility_created,priority:1" json:"visibility"`
	ClubID     *uint     `gorm:"index" json:"club_id"`
	CreatedAt  time.Time `gorm:"index:idx_posts_visibility_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Club       *Club     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Likes      []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments   []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
