package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syncup/syncup/middleware"
	"github.com/syncup/syncup/services"
	"github.com/syncup/syncup/utils"
)

// AuthController handles signup, login and the caller's own profile.
type AuthController struct {
	accounts *services.AccountService
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(reg *services.Registry) *AuthController {
	return &AuthController{accounts: reg.Accounts}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name          *string `json:"name"`
	Bio           *string `json:"bio"`
	ProfilePicURL *string `json:"profile_pic_url"`
}

// Signup registers a new local account.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req signupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}

	user, err := a.accounts.Signup(ctx.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// Login authenticates by email and password and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}

	session, err := a.accounts.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       session.User,
	})
}

// Logout revokes the bearer token used for this request.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		respondError(ctx, services.ErrUnauthenticated)
		return
	}
	expiresAt, _ := ctx.Get(middleware.ContextTokenExpiryKey)
	exp, _ := expiresAt.(time.Time)

	a.accounts.Logout(ctx.Request.Context(), token, exp)
	utils.Message(ctx, http.StatusOK, "Logged out successfully")
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	user, err := a.accounts.Me(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdateProfile changes name, bio or avatar of the authenticated user.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}

	user, err := a.accounts.UpdateProfile(ctx.Request.Context(), userID, services.ProfileUpdate{
		Name:          req.Name,
		Bio:           req.Bio,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}
