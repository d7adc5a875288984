package models

import "time"

const (
	// RoleMember is the default membership role.
	RoleMember = "member"
	// RoleOwner is held by the user who created the club.
	RoleOwner = "owner"
)

// Club groups users and club-scoped posts.
type Club struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   uint      `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	Creator     User      `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Membership links a user to a club; a user joins a club at most once.
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_membership_user_club,priority:1" json:"user_id"`
	ClubID    uint      `gorm:"not null;uniqueIndex:idx_membership_user_club,priority:2;index" json:"club_id"`
	Role      string    `gorm:"size:32;not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Club      Club      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
