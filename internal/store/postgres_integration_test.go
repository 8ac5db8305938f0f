//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-box/backend/internal/testdb"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(testdb.SetupPostgres(t))
	require.NoError(t, s.AutoMigrate(ctx))

	records, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	seeded, err := SeedIfEmpty(ctx, s, time.Now())
	require.NoError(t, err)
	require.True(t, seeded)

	records, err = s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Spaghetti Carbonara", records[0].Name)

	records = append(records[:1], testRecipe(NextID(records), "Stew", "Main"))
	require.NoError(t, s.SaveAll(ctx, records))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, []int{got[0].ID, got[1].ID})
	assert.Equal(t, records, got)
}
