package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/services"
)

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "ana")
	missing := uint(404)

	cases := []struct {
		name string
		in   services.CreatePostInput
	}{
		{"missing content", services.CreatePostInput{Visibility: models.VisibilityPublic}},
		{"missing visibility", services.CreatePostInput{Content: "Hello"}},
		{"unknown visibility", services.CreatePostInput{Content: "Hello", Visibility: "friends"}},
		{"club without club id", services.CreatePostInput{Content: "Hello", Visibility: models.VisibilityClub}},
		{"unknown club", services.CreatePostInput{Content: "Hello", Visibility: models.VisibilityClub, ClubID: &missing}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reg.Posts.Create(ctx, ana, tc.in)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}

	feed, err := f.reg.Feed.ListFeed(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCreatePost_ReturnsView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "ana")
	clubID := f.club(t, ana, "robotics")

	view, err := f.reg.Posts.Create(ctx, ana, services.CreatePostInput{
		Content: "Meetup friday", Visibility: "Club", ClubID: &clubID,
	})
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	assert.Equal(t, models.VisibilityClub, view.Visibility)
	assert.Equal(t, "ana", view.User.Name)
	require.NotNil(t, view.Club)
	assert.Equal(t, "robotics", view.Club.Name)
	assert.Zero(t, view.LikesCount)
	assert.Zero(t, view.CommentsCount)
}

func TestDeletePost_OwnerOnlyAndCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "ana")
	ben := f.user(t, "ben")
	postID := f.post(t, ana, "Hello")
	_, err := f.reg.Likes.ToggleLike(ctx, ben, postID)
	require.NoError(t, err)
	_, _, err = f.reg.Comments.CreateComment(ctx, ben, postID, "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, f.reg.Posts.Delete(ctx, ben, postID), services.ErrForbidden)
	assert.Equal(t, 1, f.mem.LikeRows(postID))

	require.NoError(t, f.reg.Posts.Delete(ctx, ana, postID))
	assert.Equal(t, 0, f.mem.LikeRows(postID))
	assert.Equal(t, 0, f.mem.CommentRows(postID))

	_, err = f.reg.Likes.ToggleLike(ctx, ben, postID)
	assert.ErrorIs(t, err, services.ErrPostNotFound)
	_, _, err = f.reg.Comments.CreateComment(ctx, ben, postID, "late")
	assert.ErrorIs(t, err, services.ErrPostNotFound)
	assert.ErrorIs(t, f.reg.Posts.Delete(ctx, ana, postID), services.ErrPostNotFound)
}
