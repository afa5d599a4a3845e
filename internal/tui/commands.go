package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/tailor/internal/workspace"
)

// Remote calls run on command goroutines; all state changes live inside the
// workspace service, and the completion messages only carry the outcome.
type (
	submitDoneMsg struct {
		err error
	}

	suggestionsDoneMsg struct {
		err error
	}

	applyOneDoneMsg struct {
		closed bool
		err    error
	}

	applyAllDoneMsg struct {
		err error
	}

	exportDoneMsg struct {
		path string
		size int
		err  error
	}

	deleteDoneMsg struct {
		err error
	}
)

func submitCmd(svc *workspace.Service, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := svc.Submit(ctx, text)
		return submitDoneMsg{err: err}
	}
}

func fetchSuggestionsCmd(svc *workspace.Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return suggestionsDoneMsg{err: svc.FetchSuggestions(ctx)}
	}
}

func applyOneCmd(svc *workspace.Service, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		closed, err := svc.ApplyOne(ctx, id)
		return applyOneDoneMsg{closed: closed, err: err}
	}
}

func applyAcceptedCmd(svc *workspace.Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return applyAllDoneMsg{err: svc.ApplyAccepted(ctx)}
	}
}

func exportCmd(svc *workspace.Service, path string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		pdf, err := svc.Export(ctx)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path, size: len(pdf)}
	}
}

func deleteSessionCmd(svc *workspace.Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{err: svc.Delete(ctx)}
	}
}
