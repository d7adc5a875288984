package services_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/services"
	"github.com/syncup/syncup/store"
)

func TestToggleLike_SecondCallNegatesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana")
	fan := f.user(t, "ben")
	postID := f.post(t, author, "Hello")

	first, err := f.reg.Likes.ToggleLike(ctx, fan, postID)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.EqualValues(t, 1, first.LikesCount)

	second, err := f.reg.Likes.ToggleLike(ctx, fan, postID)
	require.NoError(t, err)
	assert.Equal(t, !first.Liked, second.Liked)
	assert.EqualValues(t, 0, second.LikesCount)
	assert.Equal(t, 0, f.mem.LikeRows(postID))
}

func TestToggleLike_CountTracksLikedUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	postID := f.post(t, f.user(t, "owner"), "poll")

	const k = 5
	users := make([]uint, k)
	for i := range users {
		users[i] = f.user(t, string(rune('a'+i))+"user")
	}

	rng := rand.New(rand.NewSource(42))
	state := map[uint]bool{}
	for i := 0; i < 60; i++ {
		u := users[rng.Intn(k)]
		res, err := f.reg.Likes.ToggleLike(ctx, u, postID)
		require.NoError(t, err)
		state[u] = !state[u]
		assert.Equal(t, state[u], res.Liked)

		want := 0
		for _, liked := range state {
			if liked {
				want++
			}
		}
		assert.EqualValues(t, want, res.LikesCount)
		assert.GreaterOrEqual(t, res.LikesCount, int64(0))
		assert.LessOrEqual(t, res.LikesCount, int64(k))
	}
}

func TestToggleLike_ConcurrentSameUserLeavesOneRow(t *testing.T) {
	f := newFixture(t)
	postID := f.post(t, f.user(t, "owner"), "race")
	fan := f.user(t, "fan")

	// hold both callers after their lookup so both take the insert branch
	var arrived sync.WaitGroup
	arrived.Add(2)
	f.mem.OnAfterLikeLookup(func() {
		arrived.Done()
		arrived.Wait()
	})

	var wg sync.WaitGroup
	results := make([]services.ToggleResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.reg.Likes.ToggleLike(context.Background(), fan, postID)
		}(i)
	}
	wg.Wait()
	f.mem.OnAfterLikeLookup(nil)

	for i := range errs {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Liked)
		assert.EqualValues(t, 1, results[i].LikesCount)
	}
	assert.Equal(t, 1, f.mem.LikeRows(postID))
}

func TestToggleLike_UnknownPost(t *testing.T) {
	f := newFixture(t)
	_, err := f.reg.Likes.ToggleLike(context.Background(), f.user(t, "fan"), 999)
	assert.ErrorIs(t, err, services.ErrPostNotFound)
}

func TestToggleLike_PostDeletedBeforeInsert(t *testing.T) {
	posts := new(mockPostRepository)
	likes := new(mockLikeRepository)
	posts.On("Exists", mock.Anything, uint(7)).Return(true, nil)
	likes.On("Exists", mock.Anything, uint(1), uint(7)).Return(false, nil)
	likes.On("Insert", mock.Anything, uint(1), uint(7)).Return(false, store.ErrForeignKey)

	ledger := services.NewLikeLedger(posts, likes, services.NewCountProjector(likes, nil), nil)
	_, err := ledger.ToggleLike(context.Background(), 1, 7)

	assert.ErrorIs(t, err, services.ErrPostNotFound)
	likes.AssertNotCalled(t, "CountByPost", mock.Anything, mock.Anything)
	likes.AssertExpectations(t)
}

func TestToggleLike_RacedInsertAndDeleteResolve(t *testing.T) {
	t.Run("insert lost the race", func(t *testing.T) {
		posts := new(mockPostRepository)
		likes := new(mockLikeRepository)
		posts.On("Exists", mock.Anything, uint(7)).Return(true, nil)
		likes.On("Exists", mock.Anything, uint(1), uint(7)).Return(false, nil)
		likes.On("Insert", mock.Anything, uint(1), uint(7)).Return(false, nil)
		likes.On("CountByPost", mock.Anything, uint(7)).Return(int64(1), nil)

		res, err := services.NewLikeLedger(posts, likes, services.NewCountProjector(likes, nil), nil).
			ToggleLike(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.Equal(t, services.ToggleResult{Liked: true, LikesCount: 1}, res)
	})

	t.Run("delete found nothing", func(t *testing.T) {
		posts := new(mockPostRepository)
		likes := new(mockLikeRepository)
		posts.On("Exists", mock.Anything, uint(7)).Return(true, nil)
		likes.On("Exists", mock.Anything, uint(1), uint(7)).Return(true, nil)
		likes.On("Delete", mock.Anything, uint(1), uint(7)).Return(false, nil)
		likes.On("CountByPost", mock.Anything, uint(7)).Return(int64(0), nil)

		res, err := services.NewLikeLedger(posts, likes, services.NewCountProjector(likes, nil), nil).
			ToggleLike(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.Equal(t, services.ToggleResult{Liked: false, LikesCount: 0}, res)
	})
}

func TestToggleLike_StorageFailureIsInternal(t *testing.T) {
	boom := errors.New("connection reset")
	posts := new(mockPostRepository)
	likes := new(mockLikeRepository)
	posts.On("Exists", mock.Anything, uint(7)).Return(true, nil)
	likes.On("Exists", mock.Anything, uint(1), uint(7)).Return(false, boom)

	_, err := services.NewLikeLedger(posts, likes, services.NewCountProjector(likes, nil), nil).
		ToggleLike(context.Background(), 1, 7)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, services.ErrPostNotFound)
}

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Post)
	return p, args.Error(1)
}

func (m *mockPostRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPostRepository) ListPublic(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]models.Post)
	return p, args.Error(1)
}

func (m *mockPostRepository) ListByClub(ctx context.Context, clubID uint) ([]models.Post, error) {
	args := m.Called(ctx, clubID)
	p, _ := args.Get(0).([]models.Post)
	return p, args.Error(1)
}

type mockLikeRepository struct {
	mock.Mock
}

func (m *mockLikeRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepository) Insert(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepository) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLikeRepository) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, postIDs)
	c, _ := args.Get(0).(map[uint]int64)
	return c, args.Error(1)
}
