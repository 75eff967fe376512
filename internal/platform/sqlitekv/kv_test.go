package sqlitekv_test

import (
	"context"
	"testing"

	"github.com/kioku-app/kioku/internal/platform/sqlitekv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *sqlitekv.Store {
	t.Helper()
	store, err := sqlitekv.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSetGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Set(ctx, "vocabulary", `[{"kanji":"勉強"}]`))

	value, ok, err := store.Get(ctx, "vocabulary")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"kanji":"勉強"}]`, value)
}

func TestGetAbsentKey(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	value, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Set(ctx, "last_synced_hash", "aaaa"))
	require.NoError(t, store.Set(ctx, "last_synced_hash", "bbbb"))

	value, ok, err := store.Get(ctx, "last_synced_hash")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bbbb", value)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Set(ctx, "key", "value"))
	require.NoError(t, store.Remove(ctx, "key"))

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is a no-op.
	assert.NoError(t, store.Remove(ctx, "key"))
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := sqlitekv.Open("")
	assert.Error(t, err)
}
