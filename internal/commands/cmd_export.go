package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tailor/internal/api"
	"github.com/colonyops/tailor/internal/core/styles"
	"github.com/colonyops/tailor/pkg/iotext"
)

type ExportCmd struct {
	flags  *Flags
	reader iotext.FileReader
	output string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Render a LaTeX resume to PDF via the tailor service",
		UsageText: "tailor export [options]",
		Description: `Sends LaTeX source to the service's PDF renderer and writes the result.

Reads the source from --file or from piped stdin:
  tailor export -f resume.tex -o resume.pdf
  cat resume.tex | tailor export`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file (defaults to editor.export_file from config)",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	source, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	output := cmd.output
	if output == "" {
		output = cmd.flags.Config.Editor.ExportFile
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.flags.Config.Service.GenerateTimeout)
	defer cancel()

	pdf, err := cmd.flags.App.Client.ExportPDF(ctx, api.ExportRequest{LatexCode: source})
	if err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}

	if err := os.WriteFile(output, pdf, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	log.Info().Str("output", output).Int("bytes", len(pdf)).Msg("exported pdf")
	fmt.Fprintln(c.Root().Writer, styles.TextSuccessStyle.Render(fmt.Sprintf("Wrote %s (%d bytes)", output, len(pdf))))
	return nil
}
