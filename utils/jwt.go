package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims binds a user identifier and an expiry.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	revoked *TokenBlacklist
	now     func() time.Time
}

// NewTokenService creates a TokenService. revoked may be nil when logout revocation is not needed.
func NewTokenService(secret string, ttl time.Duration, revoked *TokenBlacklist) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Generate issues a token for userID and returns it with its expiry.
func (s *TokenService) Generate(userID uint) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse checks signature and expiry and returns the claims.
func (s *TokenService) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify resolves a bearer token to its claims, rejecting revoked tokens.
func (s *TokenService) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := s.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if s.revoked != nil && s.revoked.IsRevoked(ctx, tokenStr) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blacklists a token until it would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, tokenStr string, expiresAt time.Time) {
	if s.revoked != nil {
		s.revoked.Add(ctx, tokenStr, expiresAt)
	}
}
