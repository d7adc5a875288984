package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/syncup/syncup/models"
)

// ClubRepository persists clubs and their memberships.
type ClubRepository struct {
	db *gorm.DB
}

// NewClubRepository creates a ClubRepository on db.
func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

// List returns clubs newest first. A non-empty search matches name or description.
func (r *ClubRepository) List(ctx context.Context, search string) ([]models.Club, error) {
	var clubs []models.Club
	q := r.db.WithContext(ctx).Preload("Creator").Order("created_at DESC, id DESC")
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if err := q.Find(&clubs).Error; err != nil {
		return nil, classify(err)
	}
	return clubs, nil
}

// FindByID loads a club with its creator.
func (r *ClubRepository) FindByID(ctx context.Context, id uint) (*models.Club, error) {
	var club models.Club
	if err := r.db.WithContext(ctx).Preload("Creator").First(&club, id).Error; err != nil {
		return nil, classify(err)
	}
	return &club, nil
}

// Exists reports whether club id is present.
func (r *ClubRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Club{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

// Create inserts club and enrolls its creator with role owner, atomically.
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Creator").Create(club).Error; err != nil {
			return classify(err)
		}
		owner := models.Membership{UserID: club.CreatedBy, ClubID: club.ID, Role: models.RoleOwner}
		return classify(tx.Omit("User", "Club").Create(&owner).Error)
	})
}

// AddMember inserts m. Joining twice yields ErrDuplicate; an unknown club yields ErrForeignKey.
func (r *ClubRepository) AddMember(ctx context.Context, m *models.Membership) error {
	return classify(r.db.WithContext(ctx).Omit("User", "Club").Create(m).Error)
}

// Members returns the memberships of clubID with users preloaded, oldest first.
func (r *ClubRepository) Members(ctx context.Context, clubID uint) ([]models.Membership, error) {
	var members []models.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID).
		Order("created_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, classify(err)
	}
	return members, nil
}

type clubCount struct {
	ClubID uint
	N      int64
}

// CountMembers returns member counts keyed by club id.
func (r *ClubRepository) CountMembers(ctx context.Context, clubIDs []uint) (map[uint]int64, error) {
	return r.countByClub(ctx, &models.Membership{}, clubIDs)
}

// CountPosts returns post counts keyed by club id.
func (r *ClubRepository) CountPosts(ctx context.Context, clubIDs []uint) (map[uint]int64, error) {
	return r.countByClub(ctx, &models.Post{}, clubIDs)
}

func (r *ClubRepository) countByClub(ctx context.Context, model interface{}, clubIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(clubIDs))
	if len(clubIDs) == 0 {
		return out, nil
	}
	var rows []clubCount
	err := r.db.WithContext(ctx).Model(model).
		Select("club_id, COUNT(*) AS n").
		Where("club_id IN ?", clubIDs).
		Group("club_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	for _, row := range rows {
		out[row.ClubID] = row.N
	}
	return out, nil
}
