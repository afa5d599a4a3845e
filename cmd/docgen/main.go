// Command docgen generates CLI reference documentation from the tailor
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tailor/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "tailor",
		Usage:     "Tailor your resume against a job posting",
		UsageText: "tailor [global options] command [command options] [resume-file]",
		Description: `Tailor is a terminal front end for an AI resume-tailoring service.

It opens your LaTeX resume next to a conversational assistant: paste a job
posting, answer a short interview, review the suggested edits as diffs, and
export the result to PDF.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("TAILOR_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/tailor.log)",
				Sources: cli.EnvVars("TAILOR_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("TAILOR_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("TAILOR_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
			&cli.StringFlag{
				Name:    "service-url",
				Usage:   "override the service base URL from config",
				Sources: cli.EnvVars("TAILOR_SERVICE_URL"),
			},
		},
	}

	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewDoctorCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewExportCmd(flags).Register(root)
	root = commands.NewSessionCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
