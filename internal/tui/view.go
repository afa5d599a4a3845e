package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/tailor/internal/core/styles"
)

const statusBarHeight = 1

// View renders the full terminal frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}

	if m.state == stateShowingHelp {
		return m.renderHelp()
	}

	editorPane := m.renderPane(m.editorView.View(), m.focus == focusEditor)
	chatPane := m.renderPane(m.chatView.View(), m.focus == focusChat)
	content := lipgloss.JoinHorizontal(lipgloss.Top, editorPane, chatPane)

	frame := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderStatusBar(),
	)

	if m.state == stateReviewing && m.reviewView != nil {
		frame = m.reviewView.Overlay(m.width, m.height)
	}

	if m.toastController.HasToasts() {
		frame = lipgloss.JoinVertical(lipgloss.Left, frame, m.toastController.View(m.width))
	}
	return frame
}

func (m Model) renderPane(content string, focused bool) string {
	if focused {
		return styles.PaneFocusedStyle.Render(content)
	}
	return styles.PaneBlurredStyle.Render(content)
}

func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, styles.StatusKeyStyle.Render(m.interviewLabel()))

	if answered, total := m.svc.Progress(); total > 0 {
		parts = append(parts, fmt.Sprintf("question %d/%d", min(answered+1, total), total))
	}

	parts = append(parts, fmt.Sprintf("%d words", m.svc.WordCount()))

	if n := m.editorView.HighlightCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d highlighted", n))
	}

	if batch := m.svc.Batch(); batch != nil {
		parts = append(parts, fmt.Sprintf("%d suggestions pending review", batch.Len()))
	}

	if m.inFlight {
		parts = append(parts, m.spinner.View()+m.loadingMessage)
	}

	left := styles.StatusBarStyle.Render(strings.Join(parts, "  ·  "))

	hints := "tab focus · ctrl+g suggest · ctrl+r review · ctrl+e export · ? help"
	right := styles.StatusBarStyle.Render(hints)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelp() string {
	rows := []string{
		styles.ModalTitleStyle.Render("Tailor Keys"),
		"",
		helpRow("tab", "switch focus between editor and chat"),
		helpRow("enter", "submit (chat) / edit document (editor)"),
		helpRow("esc", "leave edit mode, committing changes"),
		helpRow("R", "revert to the last committed document (editor)"),
		helpRow("ctrl+g", "generate suggestions after the interview"),
		helpRow("ctrl+r", "reopen the suggestion review overlay"),
		helpRow("i", "append the selected snippet locally (review)"),
		helpRow("ctrl+e", "export the resume as PDF"),
		helpRow("ctrl+d", "delete the remote session"),
		helpRow("up/down", "recall previous submissions (chat)"),
		helpRow("pgup/pgdn", "scroll the transcript (chat)"),
		helpRow("ctrl+c", "quit"),
		"",
		styles.ModalHelpStyle.Render("press any key to close"),
	}
	panel := styles.ModalStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func helpRow(key, desc string) string {
	return fmt.Sprintf("%s  %s", styles.StatusKeyStyle.Render(fmt.Sprintf("%-10s", key)), desc)
}
