package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tailor/internal/core/config"
	"github.com/colonyops/tailor/internal/core/styles"
	"github.com/colonyops/tailor/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "tailor config validate [options]",
				Description: "Validates the configuration file, checking the service URL, glob syntax, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	validationErr := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()

	if cmd.format == "json" {
		return cmd.outputJSON(c, validationErr, warnings)
	}

	return cmd.outputText(c, validationErr, warnings)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, validationErr error, warnings []config.ValidationWarning) error {
	out := struct {
		Valid    bool                       `json:"valid"`
		Error    string                     `json:"error,omitempty"`
		Warnings []config.ValidationWarning `json:"warnings,omitempty"`
	}{
		Valid:    validationErr == nil,
		Warnings: warnings,
	}
	if validationErr != nil {
		out.Error = validationErr.Error()
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if validationErr != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(c *cli.Command, validationErr error, warnings []config.ValidationWarning) error {
	w := c.Root().Writer

	for _, warn := range warnings {
		label := warn.Category
		if warn.Item != "" {
			label = fmt.Sprintf("%s (%s)", warn.Category, warn.Item)
		}
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.TextWarningStyle.Render("●"), label, warn.Message)
	}

	if validationErr != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.TextErrorStyle.Render("✘"), validationErr)
		return cli.Exit("", 1)
	}

	_, _ = fmt.Fprintln(w, styles.TextSuccessStyle.Render("Configuration is valid"))
	return nil
}
