package redis

import "time"

// PresenceEntry is the value kept under "presence:{userId}" while a user has
// a live socket on some gateway instance.
type PresenceEntry struct {
	UserID       string    `json:"user_id"`
	ConnectionID string    `json:"connection_id"`
	InstanceID   string    `json:"instance_id"`
	ConnectedAt  time.Time `json:"connected_at"`
}
