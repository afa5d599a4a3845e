package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tailor/internal/api"
	"github.com/colonyops/tailor/internal/commands"
	"github.com/colonyops/tailor/internal/core/config"
	"github.com/colonyops/tailor/internal/core/eventbus"
	"github.com/colonyops/tailor/internal/core/styles"
	"github.com/colonyops/tailor/internal/workspace"
	"github.com/colonyops/tailor/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		busCancel context.CancelFunc
		tailorApp = &workspace.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "tailor",
		Usage:     "Tailor your resume against a job posting",
		UsageText: "tailor [global options] command [command options] [resume-file]",
		Description: `Tailor is a terminal front end for an AI resume-tailoring service.

It opens your LaTeX resume next to a conversational assistant: paste a job
posting, answer a short interview, review the suggested edits as diffs, and
export the result to PDF.

Run 'tailor' with no arguments to open the editor. A resume file may be
given as an argument; otherwise editor.resume_glob from config is used.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TAILOR_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tailor.log)",
				Sources:     cli.EnvVars("TAILOR_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TAILOR_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TAILOR_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:    "service-url",
				Usage:   "override the service base URL from config",
				Sources: cli.EnvVars("TAILOR_SERVICE_URL"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/tailor.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "tailor.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if override := c.String("service-url"); override != "" {
				cfg.Service.BaseURL = override
			}
			flags.Config = cfg

			// Apply configured theme; unknown names keep the default
			if palette, ok := styles.GetPalette(cfg.TUI.Theme); ok {
				styles.SetTheme(palette)
			}

			client := api.New(cfg.Service.BaseURL, api.Options{
				Timeout:     cfg.Service.RequestTimeout,
				LongTimeout: cfg.Service.GenerateTimeout,
			})

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tailorApp = *workspace.NewApp(cfg, client, "")
			flags.App = tailorApp

			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go tailorApp.Bus.Run(busCtx)
			eventbus.RegisterDebugLogger(tailorApp.Bus, log.With().Str("component", "eventbus").Logger())

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, tailorApp)

	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewExportCmd(flags).Register(app)
	app = commands.NewSessionCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided; a single
	// positional argument is treated as the resume file.
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 1 {
			return fmt.Errorf("unknown command %q. Run 'tailor --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
