// Package config handles configuration loading and validation for tailor.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Editor  EditorConfig  `yaml:"editor"`
	TUI     TUIConfig     `yaml:"tui"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// ServiceConfig points at the remote tailor service.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	// RequestTimeout bounds ordinary calls. Suggestion generation and batch
	// application get GenerateTimeout instead; the service documents those
	// as taking up to a minute.
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
}

// UnmarshalYAML decodes timeouts from Go duration strings ("30s", "3m"),
// which yaml.v3 does not handle for time.Duration natively.
func (s *ServiceConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL         string `yaml:"base_url"`
		RequestTimeout  string `yaml:"request_timeout"`
		GenerateTimeout string `yaml:"generate_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.BaseURL = raw.BaseURL
	for _, d := range []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &s.RequestTimeout},
		{"generate_timeout", raw.GenerateTimeout, &s.GenerateTimeout},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("service.%s: %w", d.field, err)
		}
		*d.dst = parsed
	}
	return nil
}

// EditorConfig holds document-pane settings.
type EditorConfig struct {
	// ResumeGlob locates the resume source when no path is given on the
	// command line. Supports doublestar patterns (e.g. "**/*.tex").
	ResumeGlob string `yaml:"resume_glob"`
	// ExportFile is the filename PDF exports are written to.
	ExportFile string `yaml:"export_file"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:         "http://localhost:3002",
			RequestTimeout:  30 * time.Second,
			GenerateTimeout: 3 * time.Minute,
		},
		Editor: EditorConfig{
			ResumeGlob: "*.tex",
			ExportFile: "resume.pdf",
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaults.Service.BaseURL
	}
	if c.Service.RequestTimeout == 0 {
		c.Service.RequestTimeout = defaults.Service.RequestTimeout
	}
	if c.Service.GenerateTimeout == 0 {
		c.Service.GenerateTimeout = defaults.Service.GenerateTimeout
	}
	if c.Editor.ResumeGlob == "" {
		c.Editor.ResumeGlob = defaults.Editor.ResumeGlob
	}
	if c.Editor.ExportFile == "" {
		c.Editor.ExportFile = defaults.Editor.ExportFile
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}
