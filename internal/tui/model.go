// Package tui implements the terminal workspace: the resume editor pane and
// the assistant conversation pane, with the suggestion review overlay.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/tailor/internal/core/config"
	"github.com/colonyops/tailor/internal/core/interview"
	"github.com/colonyops/tailor/internal/core/styles"
	tuinotify "github.com/colonyops/tailor/internal/tui/notify"
	"github.com/colonyops/tailor/internal/tui/views/chat"
	"github.com/colonyops/tailor/internal/tui/views/editor"
	"github.com/colonyops/tailor/internal/tui/views/review"
	"github.com/colonyops/tailor/internal/workspace"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateReviewing
	stateShowingHelp
)

// FocusPane identifies which pane owns the keyboard.
type FocusPane int

const (
	focusChat FocusPane = iota
	focusEditor
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
)

// Options configures the TUI behavior.
type Options struct {
	NotifyBus *tuinotify.Bus // Notification bus for toasts (optional)
	Warnings  []string       // Startup warnings to display as toasts
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg *config.Config
	svc *workspace.Service

	editorView editor.View
	chatView   chat.View
	reviewView *review.View

	state    UIState
	focus    FocusPane
	width    int
	height   int
	quitting bool

	spinner        spinner.Model
	inFlight       bool
	loadingMessage string

	notifyBus       *tuinotify.Bus
	notifications   *notificationBuffer
	toastController *ToastController

	startupWarnings []string
}

// New creates the root TUI model over the given workspace.
func New(app *workspace.App, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SelectedBorderStyle

	m := Model{
		cfg:             app.Config,
		svc:             app.Workspace,
		editorView:      editor.New(app.Workspace.DocumentText()),
		chatView:        chat.New(),
		spinner:         sp,
		notifyBus:       opts.NotifyBus,
		notifications:   newNotificationBuffer(opts.NotifyBus),
		toastController: NewToastController(),
		startupWarnings: opts.Warnings,
	}
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.chatView.Init(),
		m.editorView.Init(),
	}

	if len(m.startupWarnings) > 0 && m.notifyBus != nil {
		for _, w := range m.startupWarnings {
			m.notifyBus.Warnf("%s", w)
		}
		cmds = append(cmds, scheduleToastTick())
		m.toastController.SetTicking(true)
	}

	// Chat owns the keyboard on startup so the first submission can be typed
	// immediately.
	cmds = append(cmds, m.chatView.Focus())
	return tea.Batch(cmds...)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshFromService()
		return m, nil

	case toastTickMsg:
		return m.handleToastTick()

	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	case suggestionsDoneMsg:
		return m.handleSuggestionsDone(msg)
	case applyOneDoneMsg:
		return m.handleApplyOneDone(msg)
	case applyAllDoneMsg:
		return m.handleApplyAllDone(msg)
	case exportDoneMsg:
		return m.handleExportDone(msg)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateChildren(msg)
}

func (m Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)
	m.editorView, cmd = m.editorView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) layout() {
	contentHeight := m.height - statusBarHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	editorWidth := m.width * 3 / 5
	chatWidth := m.width - editorWidth
	// Pane borders cost two cells each way.
	m.editorView.SetSize(max(editorWidth-2, 10), max(contentHeight-2, 3))
	m.chatView.SetSize(max(chatWidth-2, 10), max(contentHeight-2, 3))

	if m.reviewView != nil {
		m.reviewView.SetSize(m.width, m.height)
	}
}

func (m *Model) refreshFromService() {
	m.chatView.SetMessages(m.svc.Transcript())
	m.editorView.SetDocument(m.svc.DocumentText(), m.svc.Highlights())
}

func (m *Model) startOp(message string) tea.Cmd {
	m.inFlight = true
	m.loadingMessage = message
	return m.spinner.Tick
}

func (m *Model) finishOp() {
	m.inFlight = false
	m.loadingMessage = ""
}

// pushToast surfaces a notification and ensures the tick loop runs.
func (m *Model) pushToasts() tea.Cmd {
	if m.notifications != nil {
		for _, n := range m.notifications.Drain() {
			m.toastController.Push(n)
		}
	}
	if m.toastController.HasToasts() && !m.toastController.Ticking() {
		m.toastController.SetTicking(true)
		return scheduleToastTick()
	}
	return nil
}

// awaitToasts keeps the tick loop alive after a completed operation so
// notifications published on the event bus are drained even when they arrive
// after this update.
func (m *Model) awaitToasts() tea.Cmd {
	if cmd := m.pushToasts(); cmd != nil {
		return cmd
	}
	if !m.toastController.Ticking() {
		m.toastController.SetTicking(true)
		return scheduleToastTick()
	}
	return nil
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.notifications != nil {
		for _, n := range m.notifications.Drain() {
			m.toastController.Push(n)
		}
	}
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toastController.SetTicking(false)
	return m, nil
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.finishOp()
	m.refreshFromService()

	if msg.err != nil {
		log.Debug().Err(msg.err).Msg("submission failed")
	}
	return m, m.awaitToasts()
}

func (m Model) handleSuggestionsDone(msg suggestionsDoneMsg) (tea.Model, tea.Cmd) {
	m.finishOp()
	m.refreshFromService()

	if msg.err != nil {
		log.Debug().Err(msg.err).Msg("suggestion fetch failed")
		return m, m.pushToasts()
	}

	// A fresh batch goes straight into review.
	m.reviewView = review.New(m.svc.Batch())
	m.reviewView.SetSize(m.width, m.height)
	m.state = stateReviewing
	return m, m.awaitToasts()
}

func (m Model) handleApplyOneDone(msg applyOneDoneMsg) (tea.Model, tea.Cmd) {
	m.finishOp()
	m.refreshFromService()

	if msg.err != nil {
		log.Debug().Err(msg.err).Msg("apply failed")
		return m, m.pushToasts()
	}

	if msg.closed {
		m.closeReview()
	} else if m.reviewView != nil {
		m.reviewView.Controller().SetBatch(m.svc.Batch())
	}
	return m, m.awaitToasts()
}

func (m Model) handleApplyAllDone(msg applyAllDoneMsg) (tea.Model, tea.Cmd) {
	m.finishOp()
	m.refreshFromService()

	if msg.err != nil {
		log.Debug().Err(msg.err).Msg("batch apply failed")
		return m, m.pushToasts()
	}

	m.closeReview()
	return m, m.awaitToasts()
}

func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	m.finishOp()
	m.refreshFromService()

	if m.notifyBus != nil {
		if msg.err != nil {
			m.notifyBus.Errorf("Export failed: %v", msg.err)
		} else {
			m.notifyBus.Infof("Exported %s (%d bytes)", msg.path, msg.size)
		}
	}
	return m, m.pushToasts()
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.finishOp()
	m.refreshFromService()

	if msg.err != nil {
		log.Debug().Err(msg.err).Msg("session delete failed")
	}
	return m, m.awaitToasts()
}

func (m *Model) closeReview() {
	m.reviewView = nil
	if m.state == stateReviewing {
		m.state = stateNormal
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateShowingHelp:
		m.state = stateNormal
		return m, nil
	case stateReviewing:
		return m.handleReviewKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reviewView == nil {
		m.state = stateNormal
		return m, nil
	}
	ctrl := m.reviewView.Controller()

	switch msg.String() {
	case keyEsc:
		m.closeReview()
		return m, nil

	case "a":
		if err := ctrl.AcceptSelected(); err != nil {
			log.Debug().Err(err).Msg("accept failed")
		}
		return m, nil

	case "u":
		if err := ctrl.UnacceptSelected(); err != nil {
			log.Debug().Err(err).Msg("unaccept failed")
		}
		return m, nil

	case "x":
		id, ok := ctrl.SelectedID()
		if !ok {
			return m, nil
		}
		closed, err := m.svc.Reject(id)
		if err != nil {
			log.Debug().Err(err).Msg("reject failed")
			return m, nil
		}
		if closed {
			m.closeReview()
			if m.notifyBus != nil {
				m.notifyBus.Infof("All suggestions reviewed.")
			}
			return m, m.pushToasts()
		}
		ctrl.SetBatch(m.svc.Batch())
		return m, nil

	case "s":
		id, ok := ctrl.SelectedID()
		if !ok {
			return m, nil
		}
		if m.svc.Busy() {
			return m, m.busyToast()
		}
		return m, tea.Batch(
			m.startOp("Applying suggestion"),
			applyOneCmd(m.svc, id, m.cfg.Service.GenerateTimeout),
		)

	case "i":
		// Local raw apply: append the proposed snippet without a server
		// round-trip. The suggestion stays in the batch.
		sel, ok := ctrl.Selected()
		if !ok || sel.ProposedSnippet == "" {
			return m, nil
		}
		if err := m.svc.AppendSnippet(sel.ProposedSnippet); err != nil {
			log.Debug().Err(err).Msg("append snippet failed")
			return m, nil
		}
		m.refreshFromService()
		if m.notifyBus != nil {
			m.notifyBus.Infof("Snippet appended to the document.")
		}
		return m, m.pushToasts()

	case keyEnter:
		batch := ctrl.Batch()
		if batch == nil || !batch.CanApplyAll() {
			if m.notifyBus != nil {
				m.notifyBus.Warnf("Review every suggestion and accept at least one before applying.")
			}
			return m, m.pushToasts()
		}
		if m.svc.Busy() {
			return m, m.busyToast()
		}
		return m, tea.Batch(
			m.startOp("Applying suggestions"),
			applyAcceptedCmd(m.svc, m.cfg.Service.GenerateTimeout),
		)

	default:
		m.reviewView.Update(msg)
		return m, nil
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Edit mode owns almost every key.
	if m.focus == focusEditor && m.editorView.Mode() == editor.ModeEdit {
		switch msg.String() {
		case keyEsc:
			text, changed := m.editorView.FinishEdit()
			if changed {
				m.svc.SetDocumentText(text)
			}
			m.refreshFromService()
			return m, nil
		default:
			var cmd tea.Cmd
			m.editorView, cmd = m.editorView.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "tab":
		return m.toggleFocus()

	case "?":
		if !m.chatView.Focused() {
			m.state = stateShowingHelp
			return m, nil
		}

	case "ctrl+g":
		if m.svc.Busy() {
			return m, m.busyToast()
		}
		return m, tea.Batch(
			m.startOp("Generating suggestions"),
			fetchSuggestionsCmd(m.svc, m.cfg.Service.GenerateTimeout),
		)

	case "ctrl+r":
		if m.svc.Batch() != nil {
			m.reviewView = review.New(m.svc.Batch())
			m.reviewView.SetSize(m.width, m.height)
			m.state = stateReviewing
			return m, nil
		}
		if m.notifyBus != nil {
			m.notifyBus.Warnf("No suggestion batch to review. Press ctrl+g after the interview.")
		}
		return m, m.pushToasts()

	case "ctrl+e":
		if m.svc.Busy() {
			return m, m.busyToast()
		}
		return m, tea.Batch(
			m.startOp("Rendering PDF"),
			exportCmd(m.svc, m.cfg.Editor.ExportFile, m.cfg.Service.GenerateTimeout),
		)

	case "ctrl+d":
		if m.svc.SessionID() == "" {
			if m.notifyBus != nil {
				m.notifyBus.Warnf("No active session to delete.")
			}
			return m, m.pushToasts()
		}
		if m.svc.Busy() {
			return m, m.busyToast()
		}
		return m, tea.Batch(
			m.startOp("Deleting session"),
			deleteSessionCmd(m.svc, m.cfg.Service.RequestTimeout),
		)
	}

	if m.focus == focusChat {
		return m.handleChatKey(msg)
	}
	return m.handleEditorBrowseKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		text := m.chatView.TakeInput()
		if text == "" {
			return m, nil
		}
		if m.svc.Busy() {
			return m, m.busyToast()
		}
		cmd := tea.Batch(
			m.startOp("Waiting for the assistant"),
			submitCmd(m.svc, text, m.cfg.Service.RequestTimeout),
		)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}
}

func (m Model) handleEditorBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", keyEnter:
		return m, m.editorView.StartEdit()
	case "R":
		m.svc.RevertDocument()
		m.refreshFromService()
		if m.notifyBus != nil {
			m.notifyBus.Infof("Reverted to the last committed document.")
		}
		return m, m.pushToasts()
	default:
		var cmd tea.Cmd
		m.editorView, cmd = m.editorView.Update(msg)
		return m, cmd
	}
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusChat {
		m.focus = focusEditor
		m.chatView.Blur()
		return m, m.editorView.Focus()
	}
	m.focus = focusChat
	m.editorView.Blur()
	return m, m.chatView.Focus()
}

func (m Model) busyToast() tea.Cmd {
	if m.notifyBus != nil {
		m.notifyBus.Warnf("Another request is still in flight.")
	}
	return m.pushToasts()
}

// interviewLabel summarizes the session for the status bar.
func (m Model) interviewLabel() string {
	switch m.svc.InterviewState() {
	case interview.StateQuestionOpen:
		return "interviewing"
	case interview.StateComplete:
		return "interview complete"
	default:
		return "no session"
	}
}
