package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/store"
)

type likeKey struct {
	userID uint
	postID uint
}

// MemoryStore is an in-process stand-in for the relational store. It enforces
// the same constraints the schema does: unique (user, post) likes, unique
// emails and memberships, and foreign keys from posts, likes and comments.
type MemoryStore struct {
	mu          sync.Mutex
	seq         uint
	clock       time.Time
	users       map[uint]models.User
	posts       map[uint]models.Post
	likes       map[likeKey]models.Like
	comments    map[uint]models.Comment
	clubs       map[uint]models.Club
	memberships map[uint]models.Membership

	afterLikeLookup func()
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clock:       time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
		users:       map[uint]models.User{},
		posts:       map[uint]models.Post{},
		likes:       map[likeKey]models.Like{},
		comments:    map[uint]models.Comment{},
		clubs:       map[uint]models.Club{},
		memberships: map[uint]models.Membership{},
	}
}

// OnAfterLikeLookup installs fn to run after every like existence lookup,
// outside the store lock. Tests use it to line up concurrent toggles.
func (s *MemoryStore) OnAfterLikeLookup(fn func()) {
	s.mu.Lock()
	s.afterLikeLookup = fn
	s.mu.Unlock()
}

// LikeRows returns the number of like rows for postID.
func (s *MemoryStore) LikeRows(postID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.likes {
		if k.postID == postID {
			n++
		}
	}
	return n
}

// CommentRows returns the number of comment rows for postID.
func (s *MemoryStore) CommentRows(postID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}

// nextLocked hands out an id and a strictly increasing timestamp.
func (s *MemoryStore) nextLocked() (uint, time.Time) {
	s.seq++
	s.clock = s.clock.Add(time.Second)
	return s.seq, s.clock
}

// Users returns the user repository view.
func (s *MemoryStore) Users() *MemoryUsers { return &MemoryUsers{s} }

// Posts returns the post repository view.
func (s *MemoryStore) Posts() *MemoryPosts { return &MemoryPosts{s} }

// Likes returns the like repository view.
func (s *MemoryStore) Likes() *MemoryLikes { return &MemoryLikes{s} }

// Comments returns the comment repository view.
func (s *MemoryStore) Comments() *MemoryComments { return &MemoryComments{s} }

// Clubs returns the club repository view.
func (s *MemoryStore) Clubs() *MemoryClubs { return &MemoryClubs{s} }

// MemoryUsers implements the user repository.
type MemoryUsers struct{ s *MemoryStore }

func (r *MemoryUsers) Create(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range s.users {
		if u.Email == email {
			return store.ErrDuplicate
		}
	}
	user.ID, user.CreatedAt = s.nextLocked()
	user.Email = email
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (r *MemoryUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *MemoryUsers) UpdateProfile(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.Name, cur.Bio, cur.ProfilePicURL = user.Name, user.Bio, user.ProfilePicURL
	_, cur.UpdatedAt = r.s.nextLocked()
	r.s.users[user.ID] = cur
	*user = cur
	return nil
}

// MemoryPosts implements the post repository.
type MemoryPosts struct{ s *MemoryStore }

func (r *MemoryPosts) Create(_ context.Context, post *models.Post) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[post.UserID]; !ok {
		return store.ErrForeignKey
	}
	if post.ClubID != nil {
		if _, ok := s.clubs[*post.ClubID]; !ok {
			return store.ErrForeignKey
		}
	}
	post.ID, post.CreatedAt = s.nextLocked()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = *post
	return nil
}

func (r *MemoryPosts) Exists(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.posts[id]
	return ok, nil
}

func (r *MemoryPosts) FindByID(_ context.Context, id uint) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = r.s.hydratePostLocked(p)
	return &p, nil
}

func (r *MemoryPosts) Delete(_ context.Context, id uint) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	for k := range s.likes {
		if k.postID == id {
			delete(s.likes, k)
		}
	}
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.posts, id)
	return nil
}

func (r *MemoryPosts) ListPublic(_ context.Context) ([]models.Post, error) {
	return r.s.listPosts(func(p models.Post) bool { return p.Visibility == models.VisibilityPublic }), nil
}

func (r *MemoryPosts) ListByClub(_ context.Context, clubID uint) ([]models.Post, error) {
	return r.s.listPosts(func(p models.Post) bool { return p.ClubID != nil && *p.ClubID == clubID }), nil
}

func (s *MemoryStore) listPosts(keep func(models.Post) bool) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, s.hydratePostLocked(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) hydratePostLocked(p models.Post) models.Post {
	p.User = s.users[p.UserID]
	if p.ClubID != nil {
		if c, ok := s.clubs[*p.ClubID]; ok {
			p.Club = &c
		}
	}
	return p
}

// MemoryLikes implements the like repository.
type MemoryLikes struct{ s *MemoryStore }

func (r *MemoryLikes) Exists(_ context.Context, userID, postID uint) (bool, error) {
	r.s.mu.Lock()
	_, ok := r.s.likes[likeKey{userID, postID}]
	hook := r.s.afterLikeLookup
	r.s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return ok, nil
}

func (r *MemoryLikes) Insert(_ context.Context, userID, postID uint) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		return false, store.ErrForeignKey
	}
	key := likeKey{userID, postID}
	if _, ok := s.likes[key]; ok {
		return false, nil
	}
	id, at := s.nextLocked()
	s.likes[key] = models.Like{ID: id, UserID: userID, PostID: postID, CreatedAt: at}
	return true, nil
}

func (r *MemoryLikes) Delete(_ context.Context, userID, postID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := likeKey{userID, postID}
	if _, ok := r.s.likes[key]; !ok {
		return false, nil
	}
	delete(r.s.likes, key)
	return true, nil
}

func (r *MemoryLikes) CountByPost(_ context.Context, postID uint) (int64, error) {
	return int64(r.s.LikeRows(postID)), nil
}

func (r *MemoryLikes) CountByPosts(_ context.Context, postIDs []uint) (map[uint]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uint]int64{}
	for _, id := range postIDs {
		for k := range r.s.likes {
			if k.postID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

// MemoryComments implements the comment repository.
type MemoryComments struct{ s *MemoryStore }

func (r *MemoryComments) Create(_ context.Context, comment *models.Comment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[comment.PostID]; !ok {
		return store.ErrForeignKey
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return store.ErrForeignKey
	}
	comment.ID, comment.CreatedAt = s.nextLocked()
	s.comments[comment.ID] = *comment
	return nil
}

func (r *MemoryComments) FindByID(_ context.Context, id uint) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryComments) ListByPost(_ context.Context, postID uint) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			c.User = r.s.users[c.UserID]
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryComments) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *MemoryComments) CountByPost(_ context.Context, postID uint) (int64, error) {
	return int64(r.s.CommentRows(postID)), nil
}

func (r *MemoryComments) CountByPosts(_ context.Context, postIDs []uint) (map[uint]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uint]int64{}
	for _, id := range postIDs {
		for _, c := range r.s.comments {
			if c.PostID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

// MemoryClubs implements the club repository.
type MemoryClubs struct{ s *MemoryStore }

func (r *MemoryClubs) List(_ context.Context, search string) ([]models.Club, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	search = strings.ToLower(strings.TrimSpace(search))
	out := []models.Club{}
	for _, c := range s.clubs {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		c.Creator = s.users[c.CreatedBy]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryClubs) FindByID(_ context.Context, id uint) (*models.Club, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clubs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Creator = r.s.users[c.CreatedBy]
	return &c, nil
}

func (r *MemoryClubs) Exists(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.clubs[id]
	return ok, nil
}

func (r *MemoryClubs) Create(_ context.Context, club *models.Club) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[club.CreatedBy]; !ok {
		return store.ErrForeignKey
	}
	club.ID, club.CreatedAt = s.nextLocked()
	s.clubs[club.ID] = *club
	id, at := s.nextLocked()
	s.memberships[id] = models.Membership{ID: id, UserID: club.CreatedBy, ClubID: club.ID, Role: models.RoleOwner, CreatedAt: at}
	return nil
}

func (r *MemoryClubs) AddMember(_ context.Context, m *models.Membership) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[m.ClubID]; !ok {
		return store.ErrForeignKey
	}
	if _, ok := s.users[m.UserID]; !ok {
		return store.ErrForeignKey
	}
	for _, cur := range s.memberships {
		if cur.UserID == m.UserID && cur.ClubID == m.ClubID {
			return store.ErrDuplicate
		}
	}
	m.ID, m.CreatedAt = s.nextLocked()
	s.memberships[m.ID] = *m
	return nil
}

func (r *MemoryClubs) Members(_ context.Context, clubID uint) ([]models.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Membership{}
	for _, m := range r.s.memberships {
		if m.ClubID == clubID {
			m.User = r.s.users[m.UserID]
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryClubs) CountMembers(_ context.Context, clubIDs []uint) (map[uint]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uint]int64{}
	for _, id := range clubIDs {
		for _, m := range r.s.memberships {
			if m.ClubID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

func (r *MemoryClubs) CountPosts(_ context.Context, clubIDs []uint) (map[uint]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uint]int64{}
	for _, id := range clubIDs {
		for _, p := range r.s.posts {
			if p.ClubID != nil && *p.ClubID == id {
				out[id]++
			}
		}
	}
	return out, nil
}
