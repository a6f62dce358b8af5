package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
)

// MemoryUserRepository keeps users in process. Used for local runs and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	users map[uuid.UUID]user.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]user.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.PrepareCreate(time.Now().UTC())
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, chat_errors.ErrInvalidInput)
		}
	}
	if _, ok := r.users[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	stored := *u
	stored.Contacts = append([]uuid.UUID(nil), u.Contacts...)
	r.users[u.ID] = stored
	return nil
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, chat_errors.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) GetUsersExcept(_ context.Context, id uuid.UUID) ([]user.User, error) {
	return r.filter(func(u user.User) bool { return u.ID != id }), nil
}

func (r *MemoryUserRepository) GetUsersByIDs(_ context.Context, ids []uuid.UUID) ([]user.User, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return r.filter(func(u user.User) bool {
		_, ok := wanted[u.ID]
		return ok
	}), nil
}

func (r *MemoryUserRepository) Ping(context.Context) error { return nil }

func (r *MemoryUserRepository) filter(keep func(user.User) bool) []user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []user.User{}
	for _, id := range r.order {
		u := r.users[id]
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	return out
}

func cloneUser(u user.User) user.User {
	u = u.Public()
	u.Contacts = append([]uuid.UUID{}, u.Contacts...)
	return u
}

// MemoryMessageRepository keeps messages in insertion order.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []message.Message
	now      func() time.Time
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryMessageRepository) Create(_ context.Context, m *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !m.HasContent() {
		return fmt.Errorf("message without text or image: %w", chat_errors.ErrInvalidInput)
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}
	m.UpdatedAt = m.CreatedAt
	r.messages = append(r.messages, *m)
	return nil
}

func (r *MemoryMessageRepository) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return message.Message{}, chat_errors.ErrNotFound
}

func (r *MemoryMessageRepository) GetConversation(_ context.Context, a, b uuid.UUID) ([]message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []message.Message{}
	for _, m := range r.messages {
		if m.Between(a, b) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryMessageRepository) HardDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return chat_errors.ErrNotFound
}
