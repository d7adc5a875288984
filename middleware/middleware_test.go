package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncup/syncup/middleware"
	"github.com/syncup/syncup/testutils"
	"github.com/syncup/syncup/utils"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

func protectedRouter(tokens middleware.TokenVerifier) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.GET("/private", middleware.AuthRequired(tokens), func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "ok": ok, "token": c.GetString(middleware.ContextTokenKey)})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tokens := utils.NewTokenService("test-secret", time.Hour, utils.NewTokenBlacklist(nil))
	good, expiresAt, err := tokens.Generate(7)
	require.NoError(t, err)
	revoked, revokedExp, err := tokens.Generate(8)
	require.NoError(t, err)
	tokens.Revoke(context.Background(), revoked, revokedExp)
	foreign, _, err := utils.NewTokenService("other-secret", time.Hour, nil).Generate(7)
	require.NoError(t, err)
	require.False(t, expiresAt.IsZero())

	cases := []struct {
		name   string
		header string
		status int
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized, 40101},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized, 40102},
		{"empty token", "Bearer   ", http.StatusUnauthorized, 40103},
		{"revoked", "Bearer " + revoked, http.StatusUnauthorized, 40104},
		{"bad signature", "Bearer " + foreign, http.StatusUnauthorized, 40105},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, 40105},
		{"valid", "Bearer " + good, http.StatusOK, 0},
	}

	r := protectedRouter(tokens)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.code != 0 {
				assert.EqualValues(t, tc.code, body["code"])
				return
			}
			assert.EqualValues(t, 7, body["user_id"])
			assert.Equal(t, true, body["ok"])
			assert.Equal(t, good, body["token"])
		})
	}
}

func TestRateLimiter(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.Use(middleware.NewRateLimiter(4).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}
	// burst is half the per-minute budget
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, statuses)

	// other clients have their own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter_DisabledWhenZero(t *testing.T) {
	assert.Nil(t, middleware.NewRateLimiter(0))

	r := testutils.SetupTestRouter()
	r.Use(middleware.NewRateLimiter(0).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}
