package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-box/backend/config"
	"github.com/pageza/recipe-box/backend/internal/logger"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.StoreSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "recipes.db"),
		LogLevel:    "info",
	}

	db, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestNewRejectsNonSQLDriver(t *testing.T) {
	_, err := New(&config.Config{StoreDriver: config.StoreFile}, logger.NewNop())
	assert.ErrorContains(t, err, "not a SQL database")
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "not-a-redis-url"}, logger.NewNop())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
