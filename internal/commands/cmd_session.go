package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tailor/internal/core/styles"
	"github.com/colonyops/tailor/pkg/iojson"
)

type SessionCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewSessionCmd creates a new session command
func NewSessionCmd(flags *Flags) *SessionCmd {
	return &SessionCmd{flags: flags}
}

// Register adds the session command to the application
func (cmd *SessionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "session",
		Usage: "Inspect and manage server-side interview sessions",
		Description: `Commands for inspecting and cleaning up interview sessions on the
tailor service. Session IDs are printed by the TUI status bar and by
'tailor session status'.`,
		Commands: []*cli.Command{
			cmd.statusCmd(),
			cmd.deleteCmd(),
		},
	})
	return app
}

func (cmd *SessionCmd) statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the interview state of a session",
		UsageText: "tailor session status <session-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.runStatus,
	}
}

func (cmd *SessionCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a session from the service",
		UsageText: "tailor session delete <session-id>",
		Action:    cmd.runDelete,
	}
}

func (cmd *SessionCmd) runStatus(ctx context.Context, c *cli.Command) error {
	sessionID := c.Args().First()
	if sessionID == "" {
		return fmt.Errorf("session id required; see 'tailor session status --help'")
	}

	status, err := cmd.flags.App.Client.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session status: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, status)
	}

	_, _ = fmt.Fprintf(out, "Session ID:  %s\n", status.SessionID)
	_, _ = fmt.Fprintf(out, "Progress:    %s\n", status.Progress)
	_, _ = fmt.Fprintf(out, "Created:     %s\n", status.CreatedAt)

	for i, q := range status.Questions {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.TextForegroundBoldStyle.Render(fmt.Sprintf("Q%d: %s", i+1, q)))
		if i < len(status.Answers) {
			_, _ = fmt.Fprintf(out, "    %s\n", status.Answers[i])
		} else {
			_, _ = fmt.Fprintf(out, "    %s\n", styles.TextMutedStyle.Render("(unanswered)"))
		}
	}

	return nil
}

func (cmd *SessionCmd) runDelete(ctx context.Context, c *cli.Command) error {
	sessionID := c.Args().First()
	if sessionID == "" {
		return fmt.Errorf("session id required; see 'tailor session delete --help'")
	}

	resp, err := cmd.flags.App.Client.DeleteSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, styles.TextSuccessStyle.Render(resp.Message))
	return nil
}
