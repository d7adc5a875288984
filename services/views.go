package services

import (
	"time"

	"github.com/syncup/syncup/models"
)

// ClubSummary is the club reference embedded in a post.
type ClubSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostView is a post as clients render it: the row, its author, its club and live counts.
type PostView struct {
	ID            uint              `json:"id"`
	UserID        uint              `json:"user_id"`
	Content       string            `json:"content"`
	Visibility    string            `json:"visibility"`
	ClubID        *uint             `json:"club_id"`
	CreatedAt     time.Time         `json:"created_at"`
	User          models.UserPublic `json:"user"`
	Club          *ClubSummary      `json:"club"`
	LikesCount    int64             `json:"likes_count"`
	CommentsCount int64             `json:"comments_count"`
}

// CommentView is a comment with its author's public profile.
type CommentView struct {
	ID        uint              `json:"id"`
	PostID    uint              `json:"post_id"`
	UserID    uint              `json:"user_id"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	User      models.UserPublic `json:"user"`
}

// MemberView is a membership with the member's public profile.
type MemberView struct {
	ID        uint              `json:"id"`
	UserID    uint              `json:"user_id"`
	Role      string            `json:"role"`
	CreatedAt time.Time         `json:"created_at"`
	User      models.UserPublic `json:"user"`
}

// ClubView is a directory entry.
type ClubView struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	CreatedBy    uint              `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	Creator      models.UserPublic `json:"creator"`
	MembersCount int64             `json:"members_count"`
	PostsCount   int64             `json:"posts_count"`
}

// ClubDetail is a club page: the entry plus its members and posts.
type ClubDetail struct {
	ClubView
	Members []MemberView `json:"members"`
	Posts   []PostView   `json:"posts"`
}

func newPostView(p models.Post, c Counts) PostView {
	v := PostView{
		ID:            p.ID,
		UserID:        p.UserID,
		Content:       p.Content,
		Visibility:    p.Visibility,
		ClubID:        p.ClubID,
		CreatedAt:     p.CreatedAt,
		User:          p.User.Public(),
		LikesCount:    c.Likes,
		CommentsCount: c.Comments,
	}
	if p.Club != nil {
		v.Club = &ClubSummary{ID: p.Club.ID, Name: p.Club.Name}
	}
	return v
}

func newCommentView(c models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		User:      c.User.Public(),
	}
}

func newClubView(c models.Club, members, posts int64) ClubView {
	return ClubView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		CreatedBy:    c.CreatedBy,
		CreatedAt:    c.CreatedAt,
		Creator:      c.Creator.Public(),
		MembersCount: members,
		PostsCount:   posts,
	}
}
