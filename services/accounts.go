package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/store"
	"github.com/syncup/syncup/utils"
)

const (
	maxNameLength = 64
	maxBioLength  = 500
	maxURLLength  = 512
)

// SignupInput is a new account request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate carries the profile fields to change; nil leaves a field as is.
type ProfileUpdate struct {
	Name          *string
	Bio           *string
	ProfilePicURL *string
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AccountService issues identities: signup, login, logout and profile upkeep.
type AccountService struct {
	users  UserRepository
	tokens TokenIssuer
	feed   *FeedAssembler
}

// NewAccountService creates an AccountService.
func NewAccountService(users UserRepository, tokens TokenIssuer, feed *FeedAssembler) *AccountService {
	return &AccountService{users: users, tokens: tokens, feed: feed}
}

// Signup creates an account. A taken email is a validation failure.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case name == "" || email == "" || in.Password == "":
		return nil, invalid("name, email and password are required")
	case utf8.RuneCountInString(name) > maxNameLength:
		return nil, invalid("name exceeds %d characters", maxNameLength)
	case !validEmail(email):
		return nil, invalid("invalid email address")
	case len(in.Password) < utils.MinPasswordLength:
		return nil, invalid("password must be at least %d characters", utils.MinPasswordLength)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, invalid("user already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, invalid("user already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Login checks credentials and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes token until it would have expired.
func (s *AccountService) Logout(ctx context.Context, token string, expiresAt time.Time) {
	s.tokens.Revoke(ctx, token, expiresAt)
}

// Me returns the account behind an authenticated user id.
func (s *AccountService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile applies upd to userID's profile.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxNameLength {
			return nil, invalid("name exceeds %d characters", maxNameLength)
		}
		user.Name = name
	}
	if upd.Bio != nil {
		bio := utils.Sanitize(*upd.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return nil, invalid("bio exceeds %d characters", maxBioLength)
		}
		user.Bio = bio
	}
	if upd.ProfilePicURL != nil {
		u := strings.TrimSpace(*upd.ProfilePicURL)
		if len(u) > maxURLLength {
			return nil, invalid("profile_pic_url exceeds %d characters", maxURLLength)
		}
		if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return nil, invalid("profile_pic_url must be an http(s) URL")
		}
		user.ProfilePicURL = u
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	// name and avatar are embedded in feed entries
	if s.feed != nil && (upd.Name != nil || upd.ProfilePicURL != nil) {
		s.feed.Invalidate(ctx)
	}
	return user, nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
