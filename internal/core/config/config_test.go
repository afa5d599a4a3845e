package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:3002", cfg.Service.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Service.RequestTimeout)
		assert.Equal(t, "resume.pdf", cfg.Editor.ExportFile)
		assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "*.tex", cfg.Editor.ResumeGlob)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
service:
  base_url: https://tailor.example.com
  request_timeout: 10s
editor:
  resume_glob: "docs/**/*.tex"
tui:
  theme: gruvbox
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, "https://tailor.example.com", cfg.Service.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Service.RequestTimeout)
		assert.Equal(t, "docs/**/*.tex", cfg.Editor.ResumeGlob)
		assert.Equal(t, "gruvbox", cfg.TUI.Theme)
		// Unset fields keep their defaults.
		assert.Equal(t, 3*time.Minute, cfg.Service.GenerateTimeout)
		assert.Equal(t, dir, cfg.DataDir)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("service: [not: a map"), 0o644))

		_, err := Load(path, dir)
		assert.Error(t, err)
	})

	t.Run("empty data dir rejected", func(t *testing.T) {
		_, err := Load("", "")
		assert.Error(t, err)
	})
}

func TestValidateDeep(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Helper()
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		return &cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		cfg := base(t)
		assert.NoError(t, cfg.ValidateDeep(""))
	})

	t.Run("bad scheme", func(t *testing.T) {
		cfg := base(t)
		cfg.Service.BaseURL = "ftp://example.com"
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := base(t)
		cfg.Service.BaseURL = "http://"
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("invalid glob", func(t *testing.T) {
		cfg := base(t)
		cfg.Editor.ResumeGlob = "[unclosed"
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("config path is a directory", func(t *testing.T) {
		cfg := base(t)
		assert.Error(t, cfg.ValidateDeep(t.TempDir()))
	})

	t.Run("unknown theme", func(t *testing.T) {
		cfg := base(t)
		cfg.TUI.Theme = "solarized-disco"
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("generate timeout below request timeout", func(t *testing.T) {
		cfg := base(t)
		cfg.Service.GenerateTimeout = time.Second
		assert.Error(t, cfg.ValidateDeep(""))
	})
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	assert.Empty(t, cfg.Warnings())

	cfg.Service.RequestTimeout = 5 * time.Second
	cfg.Service.GenerateTimeout = 30 * time.Second
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Service", warnings[0].Category)
}
