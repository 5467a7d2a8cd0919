package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mingle/apperr"
	"mingle/models"
)

// Memory is a process-local Store used with STORE=memory and in tests.
// Every read returns a copy so callers cannot mutate stored state.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	emails map[string]string
	posts  map[string]*models.Post
	order  []string
}

func NewMemory() *Memory {
	return &Memory{
		users:  map[string]*models.User{},
		emails: map[string]string{},
		posts:  map[string]*models.Post{},
	}
}

func (m *Memory) Close(context.Context) error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	c.Friends = append([]string{}, u.Friends...)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = make(map[string]bool, len(p.Likes))
	for k, v := range p.Likes {
		c.Likes[k] = v
	}
	c.Comments = append([]string{}, p.Comments...)
	return &c
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := m.emails[key]; ok {
		return apperr.Validation("User already exists")
	}
	if _, ok := m.users[user.UserID]; ok {
		return apperr.Validation("User already exists")
	}
	m.users[user.UserID] = copyUser(user)
	m.emails[key] = user.UserID
	return nil
}

func (m *Memory) FindUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return copyUser(u), nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	id, ok := m.emails[strings.ToLower(email)]
	m.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return m.FindUserByID(ctx, id)
}

func (m *Memory) FindUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (m *Memory) UpdateUser(_ context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Location != nil {
		u.Location = *update.Location
	}
	if update.Occupation != nil {
		u.Occupation = *update.Occupation
	}
	if update.PicturePath != nil {
		u.PicturePath = *update.PicturePath
	}
	u.UpdatedAt = time.Now()
	return copyUser(u), nil
}

func (m *Memory) AddFriend(_ context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if !u.HasFriend(friendID) {
		u.Friends = append(u.Friends, friendID)
	}
	return nil
}

func (m *Memory) RemoveFriend(_ context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	kept := u.Friends[:0]
	for _, f := range u.Friends {
		if f != friendID {
			kept = append(kept, f)
		}
	}
	u.Friends = kept
	return nil
}

func (m *Memory) IncrementCounter(_ context.Context, userID string, counter models.Counter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	switch counter {
	case models.CounterViewedProfile:
		u.ViewedProfile++
	case models.CounterImpressions:
		u.Impressions++
	default:
		return apperr.Validation("unknown counter " + string(counter))
	}
	return nil
}

func (m *Memory) CountUsers(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *Memory) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	if post.Comments == nil {
		post.Comments = []string{}
	}
	m.posts[post.PostID] = copyPost(post)
	m.order = append(m.order, post.PostID)
	return nil
}

func (m *Memory) FindPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	return copyPost(p), nil
}

// FindPosts returns newest first; posts created in the same instant keep reverse insertion order.
func (m *Memory) FindPosts(_ context.Context, filter models.PostFilter) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []models.Post{}
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.posts[m.order[i]]
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		posts = append(posts, *copyPost(p))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if filter.Skip > 0 {
		if filter.Skip >= int64(len(posts)) {
			return []models.Post{}, nil
		}
		posts = posts[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(posts)) {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (m *Memory) SetLike(_ context.Context, postID, userID string, liked bool) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	if liked {
		p.Likes[userID] = true
	} else {
		delete(p.Likes, userID)
	}
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}

func (m *Memory) AppendComment(_ context.Context, postID, comment string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	p.Comments = append(p.Comments, comment)
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}
