package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/tailor/internal/core/config"
)

// ConfigCheck validates the configuration file and its contents.
type ConfigCheck struct {
	cfg        *config.Config
	configPath string
}

// NewConfigCheck creates a config check for the loaded configuration.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.configPath == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusWarn,
			Detail: "no path given, using built-in defaults",
		})
	} else if _, err := os.Stat(c.configPath); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%s not found, using built-in defaults (run 'tailor init')", c.configPath),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: c.configPath,
		})
	}

	if err := c.cfg.ValidateDeep(c.configPath); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "validation",
			Status: StatusFail,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "validation",
			Status: StatusPass,
		})
	}

	for _, warn := range c.cfg.Warnings() {
		result.Items = append(result.Items, CheckItem{
			Label:  warn.Item,
			Status: StatusWarn,
			Detail: warn.Message,
		})
	}

	return result
}
