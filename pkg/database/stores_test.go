package database

import (
	"context"
	"testing"

	"direct-chat/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	stores, err := Open(context.Background(), &config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	assert.NotNil(t, stores.Users)
	assert.NotNil(t, stores.Messages)
	assert.NoError(t, stores.Ping(context.Background()))
	assert.NoError(t, stores.Close(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "cassandra"})
	assert.Error(t, err)
}
