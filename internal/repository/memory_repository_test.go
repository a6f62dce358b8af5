package repository

import (
	"context"
	"testing"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	alice := &user.User{Email: "alice@example.com", FullName: "Alice", PasswordHash: "secret"}
	bob := &user.User{Email: "bob@example.com", FullName: "Bob", PasswordHash: "secret"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))
	assert.NotEqual(t, uuid.Nil, alice.ID)

	err := repo.Create(ctx, &user.User{Email: "alice@example.com"})
	assert.ErrorIs(t, err, chat_errors.ErrInvalidInput)

	got, err := repo.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FullName)
	assert.Empty(t, got.PasswordHash)

	_, err = repo.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, chat_errors.ErrNotFound)

	others, err := repo.GetUsersExcept(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, bob.ID, others[0].ID)
	assert.Empty(t, others[0].PasswordHash)

	byIDs, err := repo.GetUsersByIDs(ctx, []uuid.UUID{bob.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, bob.ID, byIDs[0].ID)

	none, err := repo.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryMessageRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessageRepository()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	first := &message.Message{SenderID: a, ReceiverID: b, Text: "hi"}
	second := &message.Message{SenderID: b, ReceiverID: a, Text: "hey"}
	other := &message.Message{SenderID: a, ReceiverID: c, Text: "unrelated"}
	for _, m := range []*message.Message{first, second, other} {
		require.NoError(t, repo.Create(ctx, m))
	}
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	conv, err := repo.GetConversation(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, first.ID, conv[0].ID)
	assert.Equal(t, second.ID, conv[1].ID)

	require.NoError(t, repo.HardDelete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, chat_errors.ErrNotFound)
	assert.ErrorIs(t, repo.HardDelete(ctx, first.ID), chat_errors.ErrNotFound)

	conv, err = repo.GetConversation(ctx, b, a)
	require.NoError(t, err)
	require.Len(t, conv, 1)
	assert.Equal(t, second.ID, conv[0].ID)
}
