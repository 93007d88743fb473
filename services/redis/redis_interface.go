package redis

import (
	redis_models "DuoPlay/models/redis"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceStore is the part of RedisClient used by the shared presence registry
type PresenceStore interface {
	SavePresence(ctx context.Context, entry *redis_models.PresenceEntry, ttl time.Duration) error
	GetPresence(ctx context.Context, userID string) (*redis_models.PresenceEntry, error)
	RefreshPresence(ctx context.Context, userID, connectionID string, ttl time.Duration) (bool, error)
	DeletePresenceIfOwner(ctx context.Context, userID, connectionID string) (bool, error)
}

// PubSub is the part of RedisClient used by the cross-instance relay
type PubSub interface {
	Publish(ctx context.Context, channel string, msg *redis_models.RelayMessage) error
	Subscribe(ctx context.Context, channel string) (*redis.PubSub, error)
}

var (
	_ PresenceStore = (*RedisClient)(nil)
	_ PubSub        = (*RedisClient)(nil)
)
