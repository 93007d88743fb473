package presence

import (
	redis_models "DuoPlay/models/redis"
	"DuoPlay/services/redis"
	"context"
	"time"
)

const DefaultTTL = 90 * time.Second

// RedisRegistry shares presence between gateway instances. Entries expire
// after ttl unless refreshed, so a crashed instance does not leave its users
// online forever.
type RedisRegistry struct {
	store      redis.PresenceStore
	instanceID string
	ttl        time.Duration
	now        func() time.Time
}

func NewRedisRegistry(store redis.PresenceStore, instanceID string, ttl time.Duration) *RedisRegistry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRegistry{
		store:      store,
		instanceID: instanceID,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (r *RedisRegistry) MarkOnline(ctx context.Context, userID, connectionID string) error {
	return r.store.SavePresence(ctx, &redis_models.PresenceEntry{
		UserID:       userID,
		ConnectionID: connectionID,
		InstanceID:   r.instanceID,
		ConnectedAt:  r.now().UTC(),
	}, r.ttl)
}

func (r *RedisRegistry) MarkOffline(ctx context.Context, userID, connectionID string) (bool, error) {
	return r.store.DeletePresenceIfOwner(ctx, userID, connectionID)
}

func (r *RedisRegistry) IsOnline(ctx context.Context, userID string) (bool, error) {
	entry, err := r.store.GetPresence(ctx, userID)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// Refresh extends the entry of connectionID. An entry that already expired is
// recreated; one owned by another connection is left alone.
func (r *RedisRegistry) Refresh(ctx context.Context, userID, connectionID string) error {
	refreshed, err := r.store.RefreshPresence(ctx, userID, connectionID, r.ttl)
	if err != nil || refreshed {
		return err
	}

	entry, err := r.store.GetPresence(ctx, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return r.MarkOnline(ctx, userID, connectionID)
	}
	return nil
}
