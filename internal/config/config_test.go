package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		// When: no config file exists
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults apply
		require.NoError(t, err)
		assert.Equal(t, ":8080", conf.HTTP.Addr)
		assert.Equal(t, BackendMemory, conf.Storage.Backend)
		assert.Equal(t, "starter-kit-storage", conf.Storage.Key)
		assert.Equal(t, "localhost:6379", conf.Redis.Addr)
		assert.Equal(t, 5*time.Second, conf.HTTP.ShutdownTimeout)
		assert.False(t, conf.Telemetry.Enabled)
		assert.Equal(t, slog.LevelInfo, conf.SlogLevel())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "redis")
		t.Setenv("REDIS_CONNSTRING", "cache:6380")
		t.Setenv("LOG_LEVEL", "debug")

		conf, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, BackendRedis, conf.Storage.Backend)
		assert.Equal(t, "cache:6380", conf.Redis.Addr)
		assert.Equal(t, slog.LevelDebug, conf.SlogLevel())
	})

	t.Run("Yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "storage:\n  backend: sqlite\nsqlite:\n  path: /tmp/state.db\nbot:\n  difficulty: easy\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, BackendSQLite, conf.Storage.Backend)
		assert.Equal(t, "/tmp/state.db", conf.SQLite.Path)
		assert.Equal(t, "easy", conf.Bot.Difficulty)
	})

	t.Run("Unknown backend is rejected", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "cassandra")

		_, err := Load("")

		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
