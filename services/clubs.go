package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/store"
	"github.com/syncup/syncup/utils"
)

const (
	maxClubNameLength        = 128
	maxClubDescriptionLength = 2000
)

// ClubService is the club directory.
type ClubService struct {
	clubs ClubRepository
	posts PostRepository
	feed  *FeedAssembler
}

// NewClubService creates a ClubService. feed supplies counts for club posts.
func NewClubService(clubs ClubRepository, posts PostRepository, feed *FeedAssembler) *ClubService {
	return &ClubService{clubs: clubs, posts: posts, feed: feed}
}

// List returns clubs matching search (all when empty) with member and post counts.
func (s *ClubService) List(ctx context.Context, search string) ([]ClubView, error) {
	clubs, err := s.clubs.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	ids := make([]uint, 0, len(clubs))
	for _, c := range clubs {
		ids = append(ids, c.ID)
	}
	members, err := s.clubs.CountMembers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	posts, err := s.clubs.CountPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count club posts: %w", err)
	}
	views := make([]ClubView, 0, len(clubs))
	for _, c := range clubs {
		views = append(views, newClubView(c, members[c.ID], posts[c.ID]))
	}
	return views, nil
}

// Get returns a club page with members and posts.
func (s *ClubService) Get(ctx context.Context, id uint) (ClubDetail, error) {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return ClubDetail{}, notFoundAs(err, ErrClubNotFound)
	}
	members, err := s.clubs.Members(ctx, id)
	if err != nil {
		return ClubDetail{}, fmt.Errorf("list members: %w", err)
	}
	posts, err := s.posts.ListByClub(ctx, id)
	if err != nil {
		return ClubDetail{}, fmt.Errorf("list club posts: %w", err)
	}
	for i := range posts {
		posts[i].Club = club
	}
	postViews, err := s.feed.Assemble(ctx, posts)
	if err != nil {
		return ClubDetail{}, err
	}

	detail := ClubDetail{
		ClubView: newClubView(*club, int64(len(members)), int64(len(posts))),
		Members:  make([]MemberView, 0, len(members)),
		Posts:    postViews,
	}
	for _, m := range members {
		detail.Members = append(detail.Members, MemberView{
			ID:        m.ID,
			UserID:    m.UserID,
			Role:      m.Role,
			CreatedAt: m.CreatedAt,
			User:      m.User.Public(),
		})
	}
	return detail, nil
}

// Create founds a club; the creator becomes its owner member.
func (s *ClubService) Create(ctx context.Context, userID uint, name, description string) (ClubView, error) {
	name = utils.Sanitize(name)
	description = utils.Sanitize(description)
	if name == "" {
		return ClubView{}, invalid("club name is required")
	}
	if utf8.RuneCountInString(name) > maxClubNameLength {
		return ClubView{}, invalid("club name exceeds %d characters", maxClubNameLength)
	}
	if utf8.RuneCountInString(description) > maxClubDescriptionLength {
		return ClubView{}, invalid("description exceeds %d characters", maxClubDescriptionLength)
	}

	club := models.Club{Name: name, Description: description, CreatedBy: userID}
	if err := s.clubs.Create(ctx, &club); err != nil {
		return ClubView{}, fmt.Errorf("create club: %w", err)
	}
	created, err := s.clubs.FindByID(ctx, club.ID)
	if err != nil {
		return ClubView{}, fmt.Errorf("reload club: %w", err)
	}
	return newClubView(*created, 1, 0), nil
}

// Join enrolls userID in clubID as a member. Joining twice is ErrConflict.
func (s *ClubService) Join(ctx context.Context, userID, clubID uint) (models.Membership, error) {
	ok, err := s.clubs.Exists(ctx, clubID)
	if err != nil {
		return models.Membership{}, fmt.Errorf("check club: %w", err)
	}
	if !ok {
		return models.Membership{}, ErrClubNotFound
	}
	m := models.Membership{UserID: userID, ClubID: clubID, Role: models.RoleMember}
	if err := s.clubs.AddMember(ctx, &m); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return models.Membership{}, ErrConflict
		case errors.Is(err, store.ErrForeignKey):
			return models.Membership{}, ErrClubNotFound
		}
		return models.Membership{}, fmt.Errorf("join club: %w", err)
	}
	return m, nil
}
