// Package interview drives the question/answer loop that gathers context
// before suggestions can be generated. The machine is pure state; remote
// calls happen in the workspace layer.
package interview

import (
	"errors"
	"fmt"
)

// State is the interview lifecycle position.
type State int

const (
	// StateNoSession means no session id is held; the next submission is
	// treated as a job posting and starts a session.
	StateNoSession State = iota
	// StateQuestionOpen means exactly one question is awaiting an answer.
	StateQuestionOpen
	// StateComplete means the interview finished; further submissions are
	// rejected with a terminal notice rather than starting a new session.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no-session"
	case StateQuestionOpen:
		return "question-open"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Route is the dispatch decision for a user submission.
type Route int

const (
	// RouteStart sends the submission as the job posting of a new session.
	RouteStart Route = iota
	// RouteAnswer sends the submission as the answer to the open question.
	RouteAnswer
	// RouteRejected drops the submission with a session-complete notice.
	RouteRejected
)

// Errors returned on invalid transitions.
var (
	ErrSessionActive  = errors.New("interview already has an active session")
	ErrNoOpenQuestion = errors.New("no question is open")
)

// Machine tracks one interview engagement.
type Machine struct {
	state     State
	sessionID string
	question  string
	answered  int
	total     int
}

// New returns a machine in the NoSession state.
func New() *Machine {
	return &Machine{state: StateNoSession}
}

// Dispatch returns how the next submission must be routed. This three-way
// decision is the core control-flow contract: start iff no session id is
// held, answer iff a session id is held and a question is open, otherwise
// reject. Misrouting here (e.g. treating a post-completion message as a new
// job posting) is the primary correctness risk.
func (m *Machine) Dispatch() Route {
	switch {
	case m.sessionID == "":
		return RouteStart
	case m.state == StateQuestionOpen:
		return RouteAnswer
	default:
		return RouteRejected
	}
}

// Begin records a freshly started session and opens its first question.
func (m *Machine) Begin(sessionID, firstQuestion string, totalQuestions int) error {
	if m.sessionID != "" {
		return ErrSessionActive
	}
	m.sessionID = sessionID
	m.question = firstQuestion
	m.total = totalQuestions
	m.answered = 0
	m.state = StateQuestionOpen
	return nil
}

// Advance consumes the open question. When complete is true the interview
// ends; otherwise nextQuestion becomes the new open question.
func (m *Machine) Advance(nextQuestion string, complete bool) error {
	if m.state != StateQuestionOpen {
		return ErrNoOpenQuestion
	}
	m.answered++

	if complete {
		m.question = ""
		m.state = StateComplete
		return nil
	}
	m.question = nextQuestion
	return nil
}

// Resync overwrites the machine from a server-side status snapshot.
func (m *Machine) Resync(sessionID, currentQuestion string, answered, total int) {
	m.sessionID = sessionID
	m.answered = answered
	m.total = total
	m.question = currentQuestion

	if currentQuestion == "" {
		m.state = StateComplete
	} else {
		m.state = StateQuestionOpen
	}
}

// Reset drops all session state, returning to NoSession.
func (m *Machine) Reset() {
	*m = Machine{state: StateNoSession}
}

// State returns the current lifecycle position.
func (m *Machine) State() State { return m.state }

// SessionID returns the held session id, empty if none.
func (m *Machine) SessionID() string { return m.sessionID }

// Question returns the open question and whether one is open. At most one
// question is open at a time.
func (m *Machine) Question() (string, bool) {
	return m.question, m.state == StateQuestionOpen
}

// Progress returns answered and total question counts.
func (m *Machine) Progress() (answered, total int) {
	return m.answered, m.total
}
