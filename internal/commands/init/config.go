package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/colonyops/tailor/internal/core/styles"
)

// ConfigOptions holds the values collected by the wizard.
type ConfigOptions struct {
	BaseURL    string
	ResumeGlob string
	ExportFile string
	Theme      string
}

// GenerateConfig renders a commented starter config file.
func GenerateConfig(opts ConfigOptions) string {
	return fmt.Sprintf(`# tailor configuration
# Generated by 'tailor init'. Edit freely; unset values fall back to defaults.

service:
  # Base URL of the tailor service.
  base_url: %q
  # Timeout for ordinary calls. Suggestion generation and batch application
  # use generate_timeout instead.
  request_timeout: 30s
  generate_timeout: 3m

editor:
  # Glob used to locate the resume source in the working directory when no
  # path is given on the command line. Supports ** patterns.
  resume_glob: %q
  # File PDF exports are written to.
  export_file: %q

tui:
  # One of: %s
  theme: %q
`, opts.BaseURL, opts.ResumeGlob, opts.ExportFile, themeList(), opts.Theme)
}

func themeList() string {
	return strings.Join(styles.ThemeNames(), ", ")
}

// WriteConfig writes the config content, creating parent directories.
func WriteConfig(content, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(content), 0o644)
}
