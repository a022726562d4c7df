package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteConnect(t *testing.T) {
	ctx := context.Background()

	conn, err := SQLiteConnect(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Running the schema twice is harmless.
	require.NoError(t, InitializeDB(ctx, conn))
	require.NoError(t, InitializeDB(ctx, conn))

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM kv_store`))
	assert.Zero(t, count)
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Reachable server", func(t *testing.T) {
		mini := miniredis.RunT(t)

		client, err := NewRedisClient(ctx, mini.Addr())

		require.NoError(t, err)
		require.NoError(t, client.Close())
	})

	t.Run("Unreachable server", func(t *testing.T) {
		mini := miniredis.RunT(t)
		addr := mini.Addr()
		mini.Close()

		_, err := NewRedisClient(ctx, addr)

		require.Error(t, err)
	})
}
