package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncup/syncup/services"
)

func TestCreateComment_RejectsBlankContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana")
	postID := f.post(t, author, "Hello")

	for _, content := range []string{"", "   ", "\n\t", "<script>alert(1)</script>"} {
		_, _, err := f.reg.Comments.CreateComment(ctx, author, postID, content)
		assert.ErrorIs(t, err, services.ErrValidation, "content %q", content)
	}
	assert.Equal(t, 0, f.mem.CommentRows(postID))
}

func TestCreateComment_UnknownPost(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.reg.Comments.CreateComment(context.Background(), f.user(t, "ana"), 404, "Nice!")
	assert.ErrorIs(t, err, services.ErrPostNotFound)
}

func TestCreateComment_AttachesAuthorAndCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	postID := f.post(t, f.user(t, "ana"), "Hello")
	carl := f.user(t, "carl")

	view, n, err := f.reg.Comments.CreateComment(ctx, carl, postID, "  Nice! <b>really</b><script>x()</script> ")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, "Nice! really", view.Content)
	assert.Equal(t, carl, view.User.ID)
	assert.Equal(t, "carl", view.User.Name)
	assert.Equal(t, "https://img.example/carl", view.User.ProfilePicURL)
	assert.Equal(t, postID, view.PostID)

	_, n, err = f.reg.Comments.CreateComment(ctx, carl, postID, "again")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCreateComment_StoresPlainTextAsTyped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "ana")
	postID := f.post(t, ana, "Hello")

	view, _, err := f.reg.Comments.CreateComment(ctx, ana, postID, "Tom & Jerry's <3")
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry's <3", view.Content)

	listed, err := f.reg.Comments.ListComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Tom & Jerry's <3", listed[0].Content)
}

func TestCreateComment_LengthCountsTypedCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "ana")
	postID := f.post(t, ana, "Hello")

	_, _, err := f.reg.Comments.CreateComment(ctx, ana, postID, strings.Repeat("&", services.MaxCommentLength))
	require.NoError(t, err)

	_, _, err = f.reg.Comments.CreateComment(ctx, ana, postID, strings.Repeat("a", services.MaxCommentLength+1))
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, 1, f.mem.CommentRows(postID))
}

func TestCreateComment_UnknownAuthorWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	postID := f.post(t, f.user(t, "ana"), "Hello")

	_, _, err := f.reg.Comments.CreateComment(ctx, 999, postID, "ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	assert.Equal(t, 0, f.mem.CommentRows(postID))
}

func TestListComments_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana")
	postID := f.post(t, author, "Hello")
	for _, c := range []string{"one", "two", "three"} {
		_, _, err := f.reg.Comments.CreateComment(ctx, author, postID, c)
		require.NoError(t, err)
	}

	list, err := f.reg.Comments.ListComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].Content)
	assert.Equal(t, "one", list[2].Content)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.Equal(t, "ana", list[0].User.Name)
}

func TestListComments_UnknownPostIsEmpty(t *testing.T) {
	f := newFixture(t)
	list, err := f.reg.Comments.ListComments(context.Background(), 12345)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestDeleteComment_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "ana")
	carl := f.user(t, "carl")
	postID := f.post(t, ana, "Hello")
	view, _, err := f.reg.Comments.CreateComment(ctx, carl, postID, "Nice!")
	require.NoError(t, err)

	// the post owner is not the comment owner
	err = f.reg.Comments.DeleteComment(ctx, ana, view.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, 1, f.mem.CommentRows(postID))

	require.NoError(t, f.reg.Comments.DeleteComment(ctx, carl, view.ID))
	list, err := f.reg.Comments.ListComments(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = f.reg.Comments.DeleteComment(ctx, carl, view.ID)
	assert.ErrorIs(t, err, services.ErrCommentNotFound)
}

func TestDeleteComment_Missing(t *testing.T) {
	f := newFixture(t)
	err := f.reg.Comments.DeleteComment(context.Background(), f.user(t, "ana"), 77)
	assert.ErrorIs(t, err, services.ErrCommentNotFound)
}
