package db

import (
	"context"

	"mingle/models"
)

// UserStore persists user records. Implementations return apperr kinds:
// NotFound for a missing user, Validation for a duplicate email.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)
	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	IncrementCounter(ctx context.Context, userID string, counter models.Counter) error
	CountUsers(ctx context.Context) (int64, error)
}

// PostStore persists posts.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	FindPostByID(ctx context.Context, id string) (*models.Post, error)
	FindPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	SetLike(ctx context.Context, postID, userID string, liked bool) (*models.Post, error)
	AppendComment(ctx context.Context, postID, comment string) (*models.Post, error)
}

type Store interface {
	UserStore
	PostStore
	Close(ctx context.Context) error
}
