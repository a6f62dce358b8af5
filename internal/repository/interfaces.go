package repository

import (
	"context"

	"github.com/google/uuid"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
)

// UserRepository is the user directory. Returned users never carry the
// credential field.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUsersExcept(ctx context.Context, id uuid.UUID) ([]user.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	// GetConversation returns every message exchanged between a and b in
	// either direction, in the order the store yields them.
	GetConversation(ctx context.Context, a, b uuid.UUID) ([]message.Message, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
