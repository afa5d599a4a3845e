package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaths_RespectXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	assert.Equal(t, filepath.Join("/tmp/xdg-config", "tailor", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/xdg-data", "tailor"), DefaultDataDir())
	assert.Equal(t, filepath.Join("/tmp/xdg-state", "tailor", "tailor.log"), DefaultLogFile())
}
