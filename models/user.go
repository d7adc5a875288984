package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a platform account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:64;not null" json:"name"`
	Email         string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	ProfilePicURL string    `gorm:"size:512" json:"profile_pic_url"`
	Bio           string    `gorm:"size:500" json:"bio"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserPublic is the author profile attached to posts, comments and memberships.
type UserPublic struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	ProfilePicURL string `json:"profile_pic_url"`
}

// Public strips everything but the public profile fields.
func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name, ProfilePicURL: u.ProfilePicURL}
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
