// Package editor renders the resume pane: a read-only browse mode with line
// numbers and highlight regions, and an edit mode backed by a textarea.
package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/tailor/internal/core/document"
	"github.com/colonyops/tailor/internal/core/styles"
)

// Mode is the editor pane interaction mode.
type Mode int

const (
	// ModeBrowse shows the rendered document with highlights.
	ModeBrowse Mode = iota
	// ModeEdit gives the keyboard to the textarea.
	ModeEdit
)

// View is the Bubble Tea sub-model for the resume pane.
type View struct {
	ctrl     *Controller
	viewport viewport.Model
	textarea textarea.Model
	mode     Mode
	width    int
	height   int
	focused  bool
}

// New creates a new editor View seeded with the given document text.
func New(text string) View {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = true

	v := View{
		ctrl:     NewController(),
		viewport: viewport.New(0, 0),
		textarea: ta,
	}
	v.ctrl.SetText(text)
	return v
}

// Init returns the initial commands for the editor view.
func (v View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the editor view.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	if !v.focused {
		return v, nil
	}

	var cmd tea.Cmd
	if v.mode == ModeEdit {
		v.textarea, cmd = v.textarea.Update(msg)
		if v.textarea.Value() != v.ctrl.Text() {
			v.ctrl.MarkDirty()
		}
		return v, cmd
	}

	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the resume pane.
func (v View) View() string {
	if v.mode == ModeEdit {
		return v.textarea.View()
	}
	return v.viewport.View()
}

// SetSize updates the pane dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = height
	v.textarea.SetWidth(width)
	v.textarea.SetHeight(height)
	v.refreshContent()
}

// Focus gives the pane keyboard input.
func (v *View) Focus() tea.Cmd {
	v.focused = true
	if v.mode == ModeEdit {
		return v.textarea.Focus()
	}
	return nil
}

// Blur releases keyboard input.
func (v *View) Blur() {
	v.focused = false
	v.textarea.Blur()
}

// Mode returns the current interaction mode.
func (v View) Mode() Mode {
	return v.mode
}

// StartEdit switches to edit mode, seeding the textarea from the document.
func (v *View) StartEdit() tea.Cmd {
	v.mode = ModeEdit
	v.textarea.SetValue(v.ctrl.Text())
	return v.textarea.Focus()
}

// FinishEdit leaves edit mode and returns the buffer text and whether it
// changed.
func (v *View) FinishEdit() (text string, changed bool) {
	text = v.textarea.Value()
	changed = text != v.ctrl.Text()
	v.mode = ModeBrowse
	v.textarea.Blur()
	return text, changed
}

// CancelEdit leaves edit mode discarding the buffer.
func (v *View) CancelEdit() {
	v.mode = ModeBrowse
	v.textarea.Blur()
	v.ctrl.SetText(v.ctrl.Text())
}

// SetDocument replaces the displayed text and highlight ranges.
func (v *View) SetDocument(text string, highlights []document.Range) {
	v.ctrl.SetText(text)
	v.ctrl.SetHighlights(highlights)
	v.refreshContent()
}

// Text returns the displayed document text.
func (v View) Text() string {
	return v.ctrl.Text()
}

// HighlightCount returns the number of highlight regions.
func (v View) HighlightCount() int {
	return v.ctrl.HighlightCount()
}

// Dirty reports whether edit-mode changes have not been committed.
func (v View) Dirty() bool {
	return v.ctrl.Dirty()
}

func (v *View) refreshContent() {
	lines := v.ctrl.Lines()
	gutter := len(fmt.Sprintf("%d", len(lines)))
	if gutter < 3 {
		gutter = 3
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		num := styles.EditorLineNumberStyle.Render(fmt.Sprintf("%*d ", gutter, i+1))
		b.WriteString(num)
		if v.ctrl.Highlighted(i + 1) {
			b.WriteString(styles.EditorHighlightStyle.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	v.viewport.SetContent(b.String())
}
