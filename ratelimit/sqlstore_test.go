package ratelimit_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/munidigital/portal-denuncias/ratelimit"
	"github.com/stretchr/testify/require"
)

func newSQLStore(t *testing.T, clk *clock) *ratelimit.SQLStore {
	t.Helper()
	store, err := ratelimit.NewSQLStore(filepath.Join(t.TempDir(), "ratelimit.db"), ratelimit.WithSQLNow(clk.Now))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLStoreWindow(t *testing.T) {
	clk := newClock()
	store := newSQLStore(t, clk)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		entry, err := store.Increment(ctx, "ratelimit:/x:cliente", time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, entry.Count)
	}

	clk.Advance(61 * time.Second)
	entry, err := store.Increment(ctx, "ratelimit:/x:cliente", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, entry.Count, "expired window restarts the count")
}

func TestSQLStoreReset(t *testing.T) {
	clk := newClock()
	store := newSQLStore(t, clk)
	ctx := context.Background()

	_, err := store.Increment(ctx, "clave", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "clave"))

	entry, err := store.Increment(ctx, "clave", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, entry.Count)
}
