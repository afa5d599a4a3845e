package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/tailor/internal/commands/init"
)

type InitCmd struct {
	flags   *Flags
	yes     bool
	force   bool
	baseURL string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize tailor configuration with an interactive wizard",
		UsageText: "tailor init [options]",
		Description: `Sets up tailor for first-time use with an interactive wizard.

The wizard will:
  - Ask for the tailor service URL
  - Ask how to locate your resume source and where to write PDF exports
  - Let you pick a color theme
  - Generate ~/.config/tailor/config.yaml

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "service-url",
				Usage:       "tailor service base URL",
				Destination: &cmd.baseURL,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		Yes:        cmd.yes,
		Force:      cmd.force,
		BaseURL:    cmd.baseURL,
	})
	return wizard.Run(ctx)
}
