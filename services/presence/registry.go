// Package presence tracks which users currently hold a live realtime
// connection. Presence is transient: the persisted lastSeenAt of a user is
// kept separately by the auth service.
package presence

import (
	"context"
	"sync"
	"time"
)

// Registry maps a user to their live connection. A newer connection replaces
// an older one, and MarkOffline only removes the entry when it still belongs
// to the given connection, so a late disconnect of a replaced socket does not
// hide a newer one.
type Registry interface {
	MarkOnline(ctx context.Context, userID, connectionID string) error
	MarkOffline(ctx context.Context, userID, connectionID string) (bool, error)
	IsOnline(ctx context.Context, userID string) (bool, error)
	// Refresh keeps an entry alive. It is a no-op for registries without expiry.
	Refresh(ctx context.Context, userID, connectionID string) error
}

type memoryEntry struct {
	connectionID string
	since        time.Time
}

// MemoryRegistry keeps presence in process memory. It is only correct for a
// single gateway instance.
type MemoryRegistry struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]memoryEntry)}
}

func (r *MemoryRegistry) MarkOnline(_ context.Context, userID, connectionID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries[userID] = memoryEntry{connectionID: connectionID, since: time.Now()}
	return nil
}

func (r *MemoryRegistry) MarkOffline(_ context.Context, userID, connectionID string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entry, ok := r.entries[userID]
	if !ok || entry.connectionID != connectionID {
		return false, nil
	}
	delete(r.entries, userID)
	return true, nil
}

func (r *MemoryRegistry) IsOnline(_ context.Context, userID string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.entries[userID]
	return ok, nil
}

func (r *MemoryRegistry) Refresh(context.Context, string, string) error {
	return nil
}

// Connection returns the connection id registered for the user
func (r *MemoryRegistry) Connection(userID string) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	entry, ok := r.entries[userID]
	return entry.connectionID, ok
}

func (r *MemoryRegistry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.entries)
}
