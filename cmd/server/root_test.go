package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCommands(t *testing.T) {
	// Given: a sqlite-backed configuration in a temp dir
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "state.db"))

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", ""}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	// When: the state is shown before anything was stored
	shown := run("state", "show")

	// Then: the initial aggregate is printed
	assert.Contains(t, shown, `"count":0`)
	assert.Contains(t, shown, `"currentPlayer":"X"`)

	// And reset writes it back
	assert.Contains(t, run("state", "reset"), "state reset")
	assert.Contains(t, run("state", "show"), `"gamesPlayed":0`)
}
