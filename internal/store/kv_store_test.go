package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantscan/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestKVStoreGetMissing(t *testing.T) {
	s := NewKVStore(openTestDB(t))

	value, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestKVStoreSetGet(t *testing.T) {
	s := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "plant_history", `[{"id":"1"}]`))

	value, ok, err := s.Get(ctx, "plant_history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, value)
}

func TestKVStoreOverwrite(t *testing.T) {
	s := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "first"))
	require.NoError(t, s.Set(ctx, "k", "second"))

	value, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestKVStoreEmptyValueIsPresent(t *testing.T) {
	s := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "[]"))

	value, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}
