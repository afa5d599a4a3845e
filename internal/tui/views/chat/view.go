// Package chat renders the assistant conversation pane: the transcript plus
// the submission input.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/tailor/internal/core/chatlog"
	"github.com/colonyops/tailor/internal/core/styles"
)

const inputHeight = 3

// View is the Bubble Tea sub-model for the conversation pane.
type View struct {
	ctrl     *Controller
	viewport viewport.Model
	input    textarea.Model
	renderer *glamour.TermRenderer
	width    int
	height   int
	focused  bool
}

// New creates a new chat View.
func New() View {
	ta := textarea.New()
	ta.Placeholder = "Paste a job posting to start, or answer the open question…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Prompt = "┃ "

	return View{
		ctrl:     NewController(),
		viewport: viewport.New(0, 0),
		input:    ta,
	}
}

// Init returns the initial commands for the chat view.
func (v View) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat view.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && v.focused {
		switch keyMsg.String() {
		case "up":
			if recalled, ok := v.ctrl.RecallPrev(v.input.Value()); ok {
				v.input.SetValue(recalled)
				v.input.CursorEnd()
				return v, nil
			}
		case "down":
			if recalled, ok := v.ctrl.RecallNext(); ok {
				v.input.SetValue(recalled)
				v.input.CursorEnd()
				return v, nil
			}
		case "pgup":
			v.viewport.LineUp(3)
			return v, nil
		case "pgdown":
			v.viewport.LineDown(3)
			return v, nil
		}
	}

	if v.focused {
		v.input, cmd = v.input.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		v.viewport, cmd = v.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return v, tea.Batch(cmds...)
}

// View renders the conversation pane.
func (v View) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		v.viewport.View(),
		styles.DividerStyle.Render(strings.Repeat("─", max(v.width, 0))),
		v.input.View(),
	)
}

// SetSize updates the pane dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height

	transcriptHeight := height - inputHeight - 1
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	v.viewport.Width = width
	v.viewport.Height = transcriptHeight
	v.input.SetWidth(width)

	v.renderer = nil // rebuild at the new wrap width
	v.refreshContent()
}

// Focus gives keyboard input to the submission field.
func (v *View) Focus() tea.Cmd {
	v.focused = true
	return v.input.Focus()
}

// Blur releases keyboard input.
func (v *View) Blur() {
	v.focused = false
	v.input.Blur()
}

// Focused reports whether the input has keyboard focus.
func (v View) Focused() bool {
	return v.focused
}

// SetMessages replaces the transcript and re-renders, keeping the view
// pinned to the newest message.
func (v *View) SetMessages(msgs []chatlog.Message) {
	v.ctrl.SetMessages(msgs)
	v.refreshContent()
	v.viewport.GotoBottom()
}

// Sending reports whether a submission is awaiting its reply.
func (v View) Sending() bool {
	return v.ctrl.Sending()
}

// TakeInput returns the trimmed input text and clears the field. The text is
// recorded for history recall.
func (v *View) TakeInput() string {
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return ""
	}
	v.input.Reset()
	v.ctrl.Record(text)
	return text
}

func (v *View) refreshContent() {
	var b strings.Builder
	for i, msg := range v.ctrl.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.renderMessage(msg))
	}
	v.viewport.SetContent(b.String())
}

func (v *View) renderMessage(msg chatlog.Message) string {
	switch msg.Role {
	case chatlog.RoleUser:
		header := styles.ChatUserStyle.Render("You")
		switch msg.Delivery {
		case chatlog.DeliverySending:
			header += styles.ChatPendingStyle.Render(" · sending")
		case chatlog.DeliveryError:
			header += styles.ChatErrorStyle.Render(" · failed")
		}
		return header + "\n" + wrapPlain(msg.Text, v.width)
	default:
		header := styles.ChatAssistantStyle.Bold(true).Render("Tailor")
		body := v.renderMarkdown(msg.Text)
		if strings.HasPrefix(msg.Text, "⚠") {
			body = styles.ChatErrorStyle.Render(wrapPlain(msg.Text, v.width))
		}
		return header + "\n" + body
	}
}

func (v *View) renderMarkdown(text string) string {
	if v.renderer == nil {
		style := styles.GlamourStyle()
		noMargin := uint(0)
		style.Document.Margin = &noMargin

		renderer, err := glamour.NewTermRenderer(
			glamour.WithStyles(style),
			glamour.WithWordWrap(max(v.width-2, 20)),
		)
		if err != nil {
			log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
			return wrapPlain(text, v.width)
		}
		v.renderer = renderer
	}

	rendered, err := v.renderer.Render(text)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return wrapPlain(text, v.width)
	}
	return strings.TrimRight(rendered, "\n")
}

func wrapPlain(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
