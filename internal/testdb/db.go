// Package testdb opens throwaway databases for the SQL recipe store tests.
package testdb

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/recipe-box/backend/config"
	"github.com/pageza/recipe-box/backend/internal/database"
	"github.com/pageza/recipe-box/backend/internal/logger"
)

const (
	postgresUser     = "postgres"
	postgresPassword = "postpass"
	postgresDB       = "recipebox"
)

// SetupSQLite opens a file-backed SQLite database in t's temp dir.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		StoreDriver: config.StoreSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "recipes.db"),
		LogLevel:    "info",
	}
	return open(t, cfg)
}

// SetupPostgres starts a disposable PostgreSQL container and connects to it.
// The test is skipped when docker is not available.
func SetupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDB,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						postgresUser, postgresPassword, host, port.Port(), postgresDB)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.Config{
		StoreDriver: config.StorePostgres,
		DBHost:      host,
		DBPort:      port.Port(),
		DBUser:      postgresUser,
		DBPassword:  postgresPassword,
		DBName:      postgresDB,
		DBSSLMode:   "disable",
		LogLevel:    "info",
	}
	return open(t, cfg)
}

func open(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.New(cfg, logger.NewNop())
	require.NoError(t, err, "failed to connect to database")
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("Error closing test database: %v", err)
		}
	})
	return db
}
