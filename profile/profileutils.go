package profile

import (
	"context"

	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/db"
	"mingle/filemgr"
	"mingle/models"
	"mingle/mq"
	"mingle/rdx"
)

// Service reads and edits user profiles and friend lists.
type Service struct {
	users  db.UserStore
	cache  *rdx.Client
	events *mq.Emitter
	logger *zap.Logger
}

func NewService(users db.UserStore, cache *rdx.Client, events *mq.Emitter, logger *zap.Logger) *Service {
	return &Service{users: users, cache: cache, events: events, logger: logger}
}

// GetUser returns user id. Viewing someone else's profile counts as a profile view.
func (s *Service) GetUser(ctx context.Context, viewerID, id string) (*models.User, error) {
	if viewerID != id {
		if err := s.users.IncrementCounter(ctx, id, models.CounterViewedProfile); err != nil {
			return nil, err
		}
		s.invalidate(ctx, id)
	}

	if cached, ok, err := s.cache.CachedUser(ctx, id); err != nil {
		s.logger.Warn("user cache read", zap.String("userid", id), zap.Error(err))
	} else if ok {
		return cached.Public(), nil
	}

	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.CacheUser(ctx, user); err != nil {
		s.logger.Warn("user cache write", zap.String("userid", id), zap.Error(err))
	}
	return user.Public(), nil
}

// Friends returns the trimmed friend views of user id.
func (s *Service) Friends(ctx context.Context, id string) ([]models.Friend, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.friendsOf(ctx, user)
}

func (s *Service) friendsOf(ctx context.Context, user *models.User) ([]models.Friend, error) {
	users, err := s.users.FindUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}
	// keep the order of the friend list; ids whose user is gone are skipped
	friends := make([]models.Friend, 0, len(user.Friends))
	for _, fid := range user.Friends {
		if f, ok := byID[fid]; ok {
			friends = append(friends, f.AsFriend())
		}
	}
	return friends, nil
}

// ToggleFriend adds or removes friendID on both sides, depending on whether id already lists it.
func (s *Service) ToggleFriend(ctx context.Context, actorID, id, friendID string) ([]models.Friend, error) {
	if actorID != id {
		return nil, apperr.Forbidden("You can only change your own friend list")
	}
	if id == friendID {
		return nil, apperr.Validation("You cannot befriend yourself")
	}

	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindUserByID(ctx, friendID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Friend not found")
		}
		return nil, err
	}

	apply := s.users.AddFriend
	if user.HasFriend(friendID) {
		apply = s.users.RemoveFriend
	}
	if err := apply(ctx, id, friendID); err != nil {
		return nil, err
	}
	if err := apply(ctx, friendID, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id, friendID)
	s.events.Emit(ctx, mq.FriendToggled, mq.Index{ActorID: id, EntityType: "user", EntityID: friendID})

	updated, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.friendsOf(ctx, updated)
}

// UpdateProfile edits the caller's own profile. The picture is stored only after the ownership check.
func (s *Service) UpdateProfile(ctx context.Context, actorID, id string, req models.UpdateProfileRequest, picture filemgr.PictureFunc) (*models.User, error) {
	if actorID != id {
		return nil, apperr.Forbidden("You can only edit your own profile")
	}

	update := models.ProfileUpdate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Location:   req.Location,
		Occupation: req.Occupation,
	}
	if picture != nil {
		name, err := picture()
		if err != nil {
			return nil, err
		}
		if name != "" {
			update.PicturePath = &name
		}
	}
	if update.Empty() {
		return nil, apperr.Validation("No fields to update")
	}

	user, err := s.users.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return user.Public(), nil
}

func (s *Service) invalidate(ctx context.Context, ids ...string) {
	if err := s.cache.InvalidateUser(ctx, ids...); err != nil {
		s.logger.Warn("user cache invalidate", zap.Strings("userids", ids), zap.Error(err))
	}
}
