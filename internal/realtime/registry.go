package realtime

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry maps a user to the connection currently serving them. The last
// connection registered for a user wins.
type Registry interface {
	Register(ctx context.Context, userID uuid.UUID, connID string) error
	// Unregister removes the mapping only while it still points at connID, so
	// a stale disconnect never evicts a newer connection.
	Unregister(ctx context.Context, userID uuid.UUID, connID string) error
	// Refresh extends the mapping's lifetime while it still points at connID.
	Refresh(ctx context.Context, userID uuid.UUID, connID string) error
	Lookup(ctx context.Context, userID uuid.UUID) (string, bool, error)
	OnlineUsers(ctx context.Context) ([]uuid.UUID, error)
}

// Emitter pushes a named event to one connection. Delivery is best effort.
type Emitter interface {
	Emit(ctx context.Context, connID, event string, payload any) error
}

// Event names pushed to clients.
const (
	EventNewMessage  = "newMessage"
	EventOnlineUsers = "getOnlineUsers"
)

// Envelope is the wire shape of every pushed event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// MemoryRegistry is a process-local Registry for single node deployments.
type MemoryRegistry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{conns: make(map[uuid.UUID]string)}
}

func (r *MemoryRegistry) Register(_ context.Context, userID uuid.UUID, connID string) error {
	r.mu.Lock()
	r.conns[userID] = connID
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Unregister(_ context.Context, userID uuid.UUID, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[userID]; ok && current == connID {
		delete(r.conns, userID)
	}
	return nil
}

// Refresh is a no-op; memory mappings do not expire.
func (r *MemoryRegistry) Refresh(context.Context, uuid.UUID, string) error { return nil }

func (r *MemoryRegistry) Lookup(_ context.Context, userID uuid.UUID) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.conns[userID]
	return connID, ok, nil
}

func (r *MemoryRegistry) OnlineUsers(context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]uuid.UUID, 0, len(r.conns))
	for id := range r.conns {
		users = append(users, id)
	}
	sortIDs(users)
	return users, nil
}

func (r *MemoryRegistry) Ping(context.Context) error { return nil }

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
