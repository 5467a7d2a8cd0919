package posts

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/db"
	"mingle/filemgr"
	"mingle/models"
	"mingle/mq"
	"mingle/rdx"
)

// Service owns post creation, the feed and post engagement.
type Service struct {
	posts  db.PostStore
	users  db.UserStore
	cache  *rdx.Client
	events *mq.Emitter
	logger *zap.Logger
}

func NewService(posts db.PostStore, users db.UserStore, cache *rdx.Client, events *mq.Emitter, logger *zap.Logger) *Service {
	return &Service{posts: posts, users: users, cache: cache, events: events, logger: logger}
}

// Create publishes a post by authorID and returns the whole feed, newest first.
func (s *Service) Create(ctx context.Context, authorID string, req models.CreatePostRequest, picture filemgr.PictureFunc) ([]models.PostView, error) {
	author, err := s.users.FindUserByID(ctx, authorID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	var picturePath string
	if picture != nil {
		if picturePath, err = picture(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	post := &models.Post{
		PostID:          primitive.NewObjectID().Hex(),
		UserID:          author.UserID,
		FirstName:       author.FirstName,
		LastName:        author.LastName,
		Location:        author.Location,
		Description:     strings.TrimSpace(req.Description),
		PicturePath:     picturePath,
		UserPicturePath: author.PicturePath,
		Likes:           map[string]bool{},
		Comments:        []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created", zap.String("postid", post.PostID), zap.String("userid", author.UserID))
	s.events.Emit(ctx, mq.PostCreated, mq.Index{ActorID: author.UserID, EntityType: "post", EntityID: post.PostID})

	return s.Feed(ctx, models.PostFilter{})
}

// Feed lists posts newest first.
func (s *Service) Feed(ctx context.Context, filter models.PostFilter) ([]models.PostView, error) {
	posts, err := s.posts.FindPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return models.Views(posts), nil
}

// UserPosts lists the posts of userID. A visit from anyone else counts as an impression.
func (s *Service) UserPosts(ctx context.Context, viewerID, userID string, filter models.PostFilter) ([]models.PostView, error) {
	if viewerID != userID {
		if err := s.users.IncrementCounter(ctx, userID, models.CounterImpressions); err != nil {
			return nil, err
		}
		if err := s.cache.InvalidateUser(ctx, userID); err != nil {
			s.logger.Warn("user cache invalidate", zap.String("userid", userID), zap.Error(err))
		}
	}
	filter.UserID = userID
	return s.Feed(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (models.PostView, error) {
	post, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}
	return post.View(), nil
}

// ToggleLike flips userID's like on post id.
func (s *Service) ToggleLike(ctx context.Context, userID, id string) (models.PostView, error) {
	post, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}

	liked := !post.LikedBy(userID)
	updated, err := s.posts.SetLike(ctx, id, userID, liked)
	if err != nil {
		return models.PostView{}, err
	}

	event := mq.PostUnliked
	if liked {
		event = mq.PostLiked
	}
	s.events.Emit(ctx, event, mq.Index{ActorID: userID, EntityType: "post", EntityID: id})
	return updated.View(), nil
}

// Comment appends a comment to post id.
func (s *Service) Comment(ctx context.Context, userID, id string, req models.CommentRequest) (models.PostView, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return models.PostView{}, apperr.Validation("Comment cannot be empty")
	}
	updated, err := s.posts.AppendComment(ctx, id, comment)
	if err != nil {
		return models.PostView{}, err
	}
	s.events.Emit(ctx, mq.PostCommented, mq.Index{ActorID: userID, EntityType: "post", EntityID: id})
	return updated.View(), nil
}
