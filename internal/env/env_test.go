package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("DASH_INT", "42")
	t.Setenv("DASH_BAD_INT", "forty")
	t.Setenv("DASH_BOOL", "true")

	assert.Equal(t, 42, GetInt("DASH_INT", 1))
	assert.Equal(t, 1, GetInt("DASH_BAD_INT", 1))
	assert.Equal(t, 7, GetInt("DASH_UNSET_INT", 7))
	assert.True(t, GetBool("DASH_BOOL", false))
	assert.False(t, GetBool("DASH_UNSET_BOOL", false))
	assert.Equal(t, "fallback", GetString("DASH_UNSET_STRING", "fallback"))
}

func TestLoadKeepsExistingVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DASH_FROM_FILE=file\nDASH_PRESET=file\n"), 0o600))

	t.Setenv("DASH_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("DASH_FROM_FILE") })

	require.NoError(t, Load(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "file", GetString("DASH_FROM_FILE", ""))
	assert.Equal(t, "process", GetString("DASH_PRESET", ""))
}
