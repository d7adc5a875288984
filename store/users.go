package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/syncup/syncup/models"
)

// UserRepository persists accounts.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository on db.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return classify(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// FindByEmail loads a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// UpdateProfile writes the mutable profile fields of user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(user).
		Select("name", "bio", "profile_pic_url", "updated_at").
		Updates(user).Error
	return classify(err)
}
