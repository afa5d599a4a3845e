// Package review renders the suggestion review overlay: the batch list with
// dispositions and an inline diff of the selected suggestion.
package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/colonyops/tailor/internal/core/review"
	"github.com/colonyops/tailor/internal/core/styles"
)

const (
	maxListRows   = 8
	maxDiffLines  = 12
	overlayMargin = 6
)

// View is the Bubble Tea sub-model for the review overlay.
type View struct {
	ctrl   *Controller
	differ *diffmatchpatch.DiffMatchPatch
	width  int
	height int
}

// New creates a review View over the given batch.
func New(batch *review.Batch) *View {
	return &View{
		ctrl:   NewController(batch),
		differ: diffmatchpatch.New(),
	}
}

// Update handles navigation keys. Disposition and apply keys are handled by
// the root model so it can drive the workspace.
func (v *View) Update(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch keyMsg.String() {
	case "up", "k":
		v.ctrl.MoveUp()
	case "down", "j":
		v.ctrl.MoveDown()
	}
}

// SetSize updates the overlay dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Controller exposes batch navigation to the root model.
func (v *View) Controller() *Controller {
	return v.ctrl
}

// View renders the overlay panel.
func (v *View) View() string {
	batch := v.ctrl.Batch()
	if batch == nil || batch.Empty() {
		return styles.ModalStyle.Render(
			styles.ModalTitleStyle.Render("Review Suggestions") + "\n\n" +
				styles.StatusBarStyle.Render("No suggestions to review."),
		)
	}

	panelWidth := min(v.width-overlayMargin, 90)
	if panelWidth < 40 {
		panelWidth = 40
	}
	innerWidth := panelWidth - 4

	var b strings.Builder

	accepted := len(batch.Accepted())
	pending := batch.PendingCount()
	title := fmt.Sprintf("Review Suggestions  %d total · %d accepted · %d pending", batch.Len(), accepted, pending)
	b.WriteString(styles.ModalTitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(v.renderList(innerWidth))
	b.WriteString("\n")
	b.WriteString(styles.DividerStyle.Render(strings.Repeat("─", innerWidth)))
	b.WriteString("\n")
	b.WriteString(v.renderDetail(innerWidth))

	help := "[a] accept  [u] undo  [x] reject  [s] apply one  [i] insert locally  [enter] apply accepted  [esc] close"
	if !batch.CanApplyAll() {
		help = "[a] accept  [u] undo  [x] reject  [s] apply one  [i] insert locally  [esc] close"
	}
	b.WriteString("\n")
	b.WriteString(styles.ModalHelpStyle.Render(help))

	return styles.ModalStyle.Width(panelWidth).Render(b.String())
}

func (v *View) renderList(width int) string {
	batch := v.ctrl.Batch()
	items := batch.Suggestions()
	cursor := v.ctrl.Cursor()

	start := 0
	if cursor >= maxListRows {
		start = cursor - maxListRows + 1
	}
	end := min(start+maxListRows, len(items))

	var b strings.Builder
	for i := start; i < end; i++ {
		sg := items[i]
		disp, _ := batch.Disposition(sg.ID)

		marker := "  "
		if i == cursor {
			marker = styles.SelectedBorderStyle.Render("┃") + " "
		}

		var badge string
		switch disp {
		case review.Accepted:
			badge = styles.ReviewAcceptedStyle.Render(styles.IconCheck + " accept")
		case review.Rejected:
			badge = styles.ReviewRejectedStyle.Render(styles.IconCross + " reject")
		default:
			badge = styles.ReviewPendingStyle.Render(styles.IconPending + " pending")
		}

		label := sg.Description
		if label == "" {
			label = sg.Kind
		}
		if sg.TargetSectionHeader != "" {
			label = sg.TargetSectionHeader + ": " + label
		}
		label = truncate(label, width-14)

		b.WriteString(fmt.Sprintf("%s%-10s %s\n", marker, badge, label))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderDetail(width int) string {
	sel, ok := v.ctrl.Selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	if sel.ContextBefore != "" {
		b.WriteString(styles.StatusBarStyle.Render(truncate("…"+sel.ContextBefore, width)))
		b.WriteString("\n")
	}
	b.WriteString(v.renderDiff(sel, width))
	if sel.ContextAfter != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusBarStyle.Render(truncate(sel.ContextAfter+"…", width)))
	}
	return b.String()
}

// renderDiff shows proposed-versus-original as inline additions and
// deletions. Pure additions (no original snippet) render plain.
func (v *View) renderDiff(sg review.Suggestion, width int) string {
	if sg.OriginalSnippet == "" {
		return styles.DiffAddStyle.Render(clipLines(sg.ProposedSnippet, maxDiffLines, width))
	}

	diffs := v.differ.DiffMain(sg.OriginalSnippet, sg.ProposedSnippet, false)
	diffs = v.differ.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(styles.DiffAddStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(styles.DiffDelStyle.Render(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return clipLines(b.String(), maxDiffLines, 0)
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func clipLines(s string, maxLines, width int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], styles.StatusBarStyle.Render("…"))
	}
	if width > 0 {
		for i, line := range lines {
			lines[i] = truncate(line, width)
		}
	}
	return strings.Join(lines, "\n")
}

// Overlay renders the panel centered over the background.
func (v *View) Overlay(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, v.View())
}
