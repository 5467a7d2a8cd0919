package mq

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"mingle/rdx"
)

const Channel = "mingle-events"

const (
	UserRegistered = "user-registered"
	UserLoggedOut  = "user-loggedout"
	PostCreated    = "post-created"
	PostLiked      = "post-liked"
	PostUnliked    = "post-unliked"
	PostCommented  = "post-commented"
	FriendToggled  = "friend-toggled"
)

// Index describes something that happened to an entity.
type Index struct {
	Event      string    `json:"event"`
	ActorID    string    `json:"actor_id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	At         time.Time `json:"at"`
}

// Emitter publishes events on Redis pub/sub. Publishing never fails the request.
type Emitter struct {
	redis  *rdx.Client
	logger *zap.Logger
}

func NewEmitter(redis *rdx.Client, logger *zap.Logger) *Emitter {
	return &Emitter{redis: redis, logger: logger}
}

func (e *Emitter) Emit(ctx context.Context, eventName string, content Index) {
	if e == nil {
		return
	}
	content.Event = eventName
	if content.At.IsZero() {
		content.At = time.Now().UTC()
	}
	if e.redis == nil {
		e.logger.Debug("event", zap.String("event", eventName), zap.String("entity_id", content.EntityID))
		return
	}

	data, err := json.Marshal(content)
	if err != nil {
		e.logger.Warn("marshal event", zap.String("event", eventName), zap.Error(err))
		return
	}
	if err := e.redis.Conn.Publish(ctx, Channel, data).Err(); err != nil {
		e.logger.Warn("publish event", zap.String("event", eventName), zap.Error(err))
	}
}

// StartWorker consumes events until ctx is done, passing each to handle.
func (e *Emitter) StartWorker(ctx context.Context, handle func(Index)) {
	if e == nil || e.redis == nil {
		return
	}
	sub := e.redis.Conn.Subscribe(ctx, Channel)
	defer sub.Close()

	e.logger.Info("event worker listening", zap.String("channel", Channel))
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Index
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				e.logger.Warn("parse event", zap.Error(err))
				continue
			}
			handle(ev)
		}
	}
}

// LogEvent is the default worker handler.
func (e *Emitter) LogEvent(ev Index) {
	e.logger.Info("event",
		zap.String("event", ev.Event),
		zap.String("actor_id", ev.ActorID),
		zap.String("entity_type", ev.EntityType),
		zap.String("entity_id", ev.EntityID),
		zap.Time("at", ev.At),
	)
}
