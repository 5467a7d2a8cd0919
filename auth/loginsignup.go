package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/db"
	"mingle/filemgr"
	"mingle/middleware"
	"mingle/models"
	"mingle/mq"
	"mingle/rdx"
)

// Service implements registration, login and logout.
type Service struct {
	users  db.UserStore
	tokens *middleware.TokenService
	redis  *rdx.Client
	events *mq.Emitter
	logger *zap.Logger
}

func NewService(users db.UserStore, tokens *middleware.TokenService, redis *rdx.Client, events *mq.Emitter, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, redis: redis, events: events, logger: logger}
}

// Register creates a user. The picture is stored only once the email is known to be free.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest, picture filemgr.PictureFunc) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	_, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Validation("User already exists")
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var picturePath string
	if picture != nil {
		if picturePath, err = picture(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:      primitive.NewObjectID().Hex(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		Password:    hashed,
		PicturePath: picturePath,
		Friends:     []string{},
		Location:    strings.TrimSpace(req.Location),
		Occupation:  strings.TrimSpace(req.Occupation),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("userid", user.UserID))
	s.events.Emit(ctx, mq.UserRegistered, mq.Index{ActorID: user.UserID, EntityType: "user", EntityID: user.UserID})

	return &models.AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("User does not exist")
		}
		return nil, err
	}

	if !CheckPassword(user.Password, req.Password) {
		return nil, apperr.Auth("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user.Public(), Token: token}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *middleware.Claims) error {
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := s.redis.RevokeToken(ctx, claims.ID, expires); err != nil {
		return apperr.Infrastructure("revoke token", err)
	}
	s.events.Emit(ctx, mq.UserLoggedOut, mq.Index{ActorID: claims.UserID, EntityType: "user", EntityID: claims.UserID})
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
