package database

import (
	"context"
	"testing"

	"direct-chat/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	messages := repository.NewMemoryMessageRepository()
	cfg := &SeedConfig{Password: "pw", UserCount: 3, SeedMessages: true}

	result, err := Seed(ctx, users, messages, cfg, nil)
	require.NoError(t, err)
	require.Len(t, result.Users, 3)
	require.Len(t, result.Messages, 2)

	for i, u := range result.Users {
		assert.Empty(t, u.PasswordHash)
		assert.Len(t, u.Contacts, i)
	}

	conv, err := messages.GetConversation(ctx, result.Users[0].ID, result.Users[1].ID)
	require.NoError(t, err)
	assert.Len(t, conv, 2)

	stored, err := users.GetUserByID(ctx, result.Users[2].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{result.Users[0].ID, result.Users[1].ID}, stored.Contacts)
}

func TestSeedSkipsExistingUsers(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	cfg := &SeedConfig{Password: "pw", UserCount: 2}

	_, err := Seed(ctx, users, nil, cfg, nil)
	require.NoError(t, err)

	again, err := Seed(ctx, users, nil, cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, again.Users)

	all, err := users.GetUsersExcept(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
