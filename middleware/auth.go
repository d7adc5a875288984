package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syncup/syncup/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextTokenKey stores the raw bearer token, needed to revoke it on logout.
	ContextTokenKey = "auth_token"
	// ContextTokenExpiryKey stores the token's expiry as a time.Time.
	ContextTokenExpiryKey = "auth_token_expires_at"
)

// TokenVerifier resolves a bearer token to its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*utils.Claims, error)
}

// AuthRequired ensures the request is authenticated via JWT. Every failure is a 401.
func AuthRequired(tokens TokenVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := tokens.Verify(ctx.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenRevoked) {
				utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			} else {
				utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			}
			ctx.Abort()
			return
		}

		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextTokenExpiryKey, expiresAt)
		ctx.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}
