// Package chatlog provides the append-only conversation transcript shared by
// the user and the assistant.
package chatlog

import (
	"errors"
	"time"

	"github.com/colonyops/tailor/pkg/randid"
)

// Validation errors for transcript entries.
var (
	ErrEmptyText    = errors.New("message text is required")
	ErrTextTooLarge = errors.New("message text exceeds maximum size")
)

// MaxTextSize is the maximum allowed message size in bytes (1MB).
const MaxTextSize = 1 << 20

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Delivery is the send state of a message. Only the most recently appended
// user message ever transitions; everything else is immutable once appended.
type Delivery string

const (
	DeliverySending Delivery = "sending"
	DeliverySent    Delivery = "sent"
	DeliveryError   Delivery = "error"
)

// Message is a single transcript entry.
type Message struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
	Delivery  Delivery
}

// Log is the ordered, insertion-order transcript. Appending is the sole way
// the transcript changes; messages are never reordered or edited in place
// apart from the delivery transition of the last user message.
type Log struct {
	messages []Message
	lastUser int // index of most recent user message, -1 if none
}

// New returns an empty transcript.
func New() *Log {
	return &Log{lastUser: -1}
}

// AppendUser appends a user message in the sending state and returns it.
func (l *Log) AppendUser(text string) (Message, error) {
	msg, err := l.append(RoleUser, text, DeliverySending)
	if err != nil {
		return Message{}, err
	}
	l.lastUser = len(l.messages) - 1
	return msg, nil
}

// AppendAssistant appends an assistant message. Assistant messages arrive
// already delivered.
func (l *Log) AppendAssistant(text string) (Message, error) {
	return l.append(RoleAssistant, text, DeliverySent)
}

// ResolveLastUser transitions the most recent user message out of the
// sending state once its remote call resolved. No-op if there is none.
func (l *Log) ResolveLastUser(ok bool) {
	if l.lastUser < 0 {
		return
	}
	if l.messages[l.lastUser].Delivery != DeliverySending {
		return
	}
	if ok {
		l.messages[l.lastUser].Delivery = DeliverySent
	} else {
		l.messages[l.lastUser].Delivery = DeliveryError
	}
}

// Messages returns a copy of the transcript in insertion order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of transcript entries.
func (l *Log) Len() int { return len(l.messages) }

// Last returns the newest entry, if any.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

func (l *Log) append(role Role, text string, delivery Delivery) (Message, error) {
	if text == "" {
		return Message{}, ErrEmptyText
	}
	if len(text) > MaxTextSize {
		return Message{}, ErrTextTooLarge
	}

	msg := Message{
		ID:        randid.Generate(8),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
		Delivery:  delivery,
	}
	l.messages = append(l.messages, msg)
	return msg, nil
}
