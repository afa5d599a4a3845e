package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tailor/internal/core/eventbus"
	"github.com/colonyops/tailor/internal/tui"
	tuinotify "github.com/colonyops/tailor/internal/tui/notify"
	"github.com/colonyops/tailor/internal/workspace"
)

type TuiCmd struct {
	flags *Flags
	app   *workspace.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *workspace.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	var warnings []string

	resumePath, resumeText, err := cmd.loadResume(c.Args().First())
	if err != nil {
		return err
	}
	if resumePath == "" {
		warnings = append(warnings, fmt.Sprintf("No resume source found (glob %q). Starting with an empty document.", cmd.app.Config.Editor.ResumeGlob))
	} else {
		cmd.app.Workspace.LoadDocument(resumeText)
		log.Info().Str("path", resumePath).Int("bytes", len(resumeText)).Msg("loaded resume source")
	}

	bus := tuinotify.NewBus()
	tui.WireBusNotifications(cmd.app.Bus, bus)

	// Progress events that stay out of the toast stack land in the log file.
	cmd.app.Bus.SubscribeQuestionOpened(func(p eventbus.QuestionOpenedPayload) {
		log.Info().Int("answered", p.Answered).Int("total", p.Total).Msg("question opened")
	})
	cmd.app.Bus.SubscribeDocumentUpdated(func(p eventbus.DocumentUpdatedPayload) {
		log.Debug().Int("words", p.WordCount).Msg("document updated")
	})

	m := tui.New(cmd.app, tui.Options{
		NotifyBus: bus,
		Warnings:  warnings,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

// loadResume resolves the resume source from an explicit path or the
// configured glob. A missing source is not an error; the TUI starts empty.
func (cmd *TuiCmd) loadResume(explicit string) (path, text string, err error) {
	if explicit != "" {
		data, err := os.ReadFile(explicit)
		if err != nil {
			return "", "", fmt.Errorf("read resume: %w", err)
		}
		return explicit, string(data), nil
	}

	glob := strings.TrimSpace(cmd.app.Config.Editor.ResumeGlob)
	if glob == "" {
		return "", "", nil
	}

	matches, err := doublestar.Glob(os.DirFS("."), glob)
	if err != nil {
		return "", "", fmt.Errorf("resolve resume glob %q: %w", glob, err)
	}
	if len(matches) == 0 {
		return "", "", nil
	}

	sort.Strings(matches)
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", "", fmt.Errorf("read resume: %w", err)
	}
	return matches[0], string(data), nil
}
