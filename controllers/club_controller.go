package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syncup/syncup/services"
)

// ClubController serves the club directory.
type ClubController struct {
	clubs *services.ClubService
}

// NewClubController creates a new ClubController instance.
func NewClubController(reg *services.Registry) *ClubController {
	return &ClubController{clubs: reg.Clubs}
}

// ListClubs returns clubs, optionally filtered by ?search= on name or description.
func (c *ClubController) ListClubs(ctx *gin.Context) {
	clubs, err := c.clubs.List(ctx.Request.Context(), strings.TrimSpace(ctx.Query("search")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"clubs": clubs})
}

// GetClub returns one club with its members and posts.
func (c *ClubController) GetClub(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id", services.ErrClubNotFound)
	if !ok {
		return
	}
	club, err := c.clubs.Get(ctx.Request.Context(), clubID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"club": club})
}

// CreateClub founds a club owned by the caller.
func (c *ClubController) CreateClub(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}

	club, err := c.clubs.Create(ctx.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"club": club})
}

// JoinClub enrolls the caller as a member.
func (c *ClubController) JoinClub(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	clubID, ok := pathID(ctx, "id", services.ErrClubNotFound)
	if !ok {
		return
	}

	membership, err := c.clubs.Join(ctx.Request.Context(), userID, clubID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Joined successfully", "membership": membership})
}
