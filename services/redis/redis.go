package redis

import (
	redis_models "DuoPlay/models/redis"
	redis_utils "DuoPlay/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
}

// Only deletes the presence hash when it still belongs to the given connection,
// so a late disconnect never removes the entry of a newer connection.
var deleteIfOwnerScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "connection_id") == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var refreshIfOwnerScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "connection_id") == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// NewRedisClient creates a new Redis client instance. Addr is either a
// redis:// URL or a plain host:port.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.HasPrefix(Addr, "redis://") || strings.HasPrefix(Addr, "rediss://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{client: client}, nil
}

// SavePresence stores the live connection of a user
// Key format: "presence:{userId}"
// TTL: ttl, refreshed by RefreshPresence
func (rc *RedisClient) SavePresence(ctx context.Context, entry *redis_models.PresenceEntry, ttl time.Duration) error {
	key := redis_utils.FormatPresenceKey(entry.UserID)

	pipe := rc.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"user_id", entry.UserID,
		"connection_id", entry.ConnectionID,
		"instance_id", entry.InstanceID,
		"connected_at", entry.ConnectedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.PExpire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error saving presence: %v", err)
	}
	return nil
}

// GetPresence returns the presence entry of a user, or nil if the user has no
// live connection anywhere.
func (rc *RedisClient) GetPresence(ctx context.Context, userID string) (*redis_models.PresenceEntry, error) {
	key := redis_utils.FormatPresenceKey(userID)
	fields, err := rc.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting presence: %v", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	entry := &redis_models.PresenceEntry{
		UserID:       fields["user_id"],
		ConnectionID: fields["connection_id"],
		InstanceID:   fields["instance_id"],
	}
	if raw := fields["connected_at"]; raw != "" {
		if entry.ConnectedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("error parsing presence timestamp: %v", err)
		}
	}
	return entry, nil
}

// RefreshPresence extends the TTL of the entry if it still belongs to connectionID.
func (rc *RedisClient) RefreshPresence(ctx context.Context, userID, connectionID string, ttl time.Duration) (bool, error) {
	key := redis_utils.FormatPresenceKey(userID)
	n, err := refreshIfOwnerScript.Run(ctx, rc.client, []string{key}, connectionID, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("error refreshing presence: %v", err)
	}
	return n == 1, nil
}

// DeletePresenceIfOwner removes the entry only if it belongs to connectionID.
func (rc *RedisClient) DeletePresenceIfOwner(ctx context.Context, userID, connectionID string) (bool, error) {
	key := redis_utils.FormatPresenceKey(userID)
	n, err := deleteIfOwnerScript.Run(ctx, rc.client, []string{key}, connectionID).Int()
	if err != nil {
		return false, fmt.Errorf("error deleting presence: %v", err)
	}
	return n == 1, nil
}

// Publish sends a relay message on the given channel
func (rc *RedisClient) Publish(ctx context.Context, channel string, msg *redis_models.RelayMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling relay message: %v", err)
	}
	return rc.client.Publish(ctx, channel, data).Err()
}

// Subscribe returns a subscription to channel that is already confirmed by
// the server, so no message published afterwards is missed.
func (rc *RedisClient) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	sub := rc.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("error subscribing to %s: %v", channel, err)
	}
	return sub, nil
}

// DecodeRelayMessage parses a payload received from Subscribe.
func DecodeRelayMessage(payload string) (*redis_models.RelayMessage, error) {
	var msg redis_models.RelayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, fmt.Errorf("error unmarshaling relay message: %v", err)
	}
	if msg.Room == "" || msg.Event == "" {
		return nil, errors.New("relay message without room or event")
	}
	return &msg, nil
}
