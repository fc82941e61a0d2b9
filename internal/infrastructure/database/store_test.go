package database

import (
	"context"
	"testing"

	"user-auth-service/internal/config"
	"user-auth-service/internal/infrastructure/database/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.UserRepository{}, store)
	assert.NoError(t, store.Health(context.Background()))
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}}

	_, err := Open(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown database driver")
}
