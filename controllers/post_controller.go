package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syncup/syncup/services"
	"github.com/syncup/syncup/utils"
)

// PostController serves posts, likes and comments.
type PostController struct {
	feed     *services.FeedAssembler
	posts    *services.PostService
	likes    *services.LikeLedger
	comments *services.CommentLedger
}

// NewPostController creates a new PostController instance.
func NewPostController(reg *services.Registry) *PostController {
	return &PostController{feed: reg.Feed, posts: reg.Posts, likes: reg.Likes, comments: reg.Comments}
}

// ListPosts returns the public feed.
func (p *PostController) ListPosts(ctx *gin.Context) {
	feed, err := p.feed.ListFeed(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, feed)
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	var req struct {
		Content    string `json:"content"`
		Visibility string `json:"visibility"`
		ClubID     *uint  `json:"club_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), userID, services.CreatePostInput{
		Content:    req.Content,
		Visibility: req.Visibility,
		ClubID:     req.ClubID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

// DeletePost removes a post owned by the caller along with its likes and comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id", services.ErrPostNotFound)
	if !ok {
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), userID, postID); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "Post deleted successfully")
}

// ToggleLike likes the post, or unlikes it if the caller already did.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id", services.ErrPostNotFound)
	if !ok {
		return
	}

	res, err := p.likes.ToggleLike(ctx.Request.Context(), userID, postID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	message := "Post unliked"
	if res.Liked {
		message = "Post liked"
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":     message,
		"liked":       res.Liked,
		"likes_count": res.LikesCount,
	})
}

// ListComments returns a post's comments, newest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID, ok := pathID(ctx, "id", services.ErrPostNotFound)
	if !ok {
		return
	}
	comments, err := p.comments.ListComments(ctx.Request.Context(), postID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateComment adds a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id", services.ErrPostNotFound)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}

	comment, count, err := p.comments.CreateComment(ctx.Request.Context(), userID, postID, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"comment": comment, "comments_count": count})
}

// DeleteComment removes a comment; only its author may do so.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := pathID(ctx, "id", services.ErrCommentNotFound)
	if !ok {
		return
	}
	if err := p.comments.DeleteComment(ctx.Request.Context(), userID, commentID); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "Comment deleted successfully")
}
