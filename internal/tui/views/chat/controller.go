package chat

import (
	"github.com/colonyops/tailor/internal/core/chatlog"
)

const historyLimit = 50

// Controller manages transcript data and input history recall.
// It contains pure data logic with no Bubble Tea dependencies.
type Controller struct {
	messages []chatlog.Message
	history  []string // prior submissions, oldest first
	recall   int      // index into history while recalling, len(history) = not recalling
	draft    string   // in-progress input stashed during recall
}

// NewController creates a new chat controller.
func NewController() *Controller {
	return &Controller{}
}

// SetMessages replaces the transcript snapshot.
func (c *Controller) SetMessages(msgs []chatlog.Message) {
	c.messages = msgs
}

// Messages returns the current transcript snapshot.
func (c *Controller) Messages() []chatlog.Message {
	return c.messages
}

// Len returns the number of transcript messages.
func (c *Controller) Len() int {
	return len(c.messages)
}

// Sending reports whether the newest user message is still awaiting a reply.
func (c *Controller) Sending() bool {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == chatlog.RoleUser {
			return c.messages[i].Delivery == chatlog.DeliverySending
		}
	}
	return false
}

// Record stores a submission for later recall and resets the recall cursor.
func (c *Controller) Record(text string) {
	if text == "" {
		return
	}
	c.history = append(c.history, text)
	if len(c.history) > historyLimit {
		c.history = c.history[len(c.history)-historyLimit:]
	}
	c.recall = len(c.history)
	c.draft = ""
}

// RecallPrev steps backward through submission history. The current input is
// stashed on the first step so RecallNext can restore it.
func (c *Controller) RecallPrev(current string) (string, bool) {
	if len(c.history) == 0 || c.recall == 0 {
		return "", false
	}
	if c.recall == len(c.history) {
		c.draft = current
	}
	c.recall--
	return c.history[c.recall], true
}

// RecallNext steps forward through submission history, ending at the stashed
// draft.
func (c *Controller) RecallNext() (string, bool) {
	if c.recall >= len(c.history) {
		return "", false
	}
	c.recall++
	if c.recall == len(c.history) {
		return c.draft, true
	}
	return c.history[c.recall], true
}

// ResetRecall abandons an in-progress recall.
func (c *Controller) ResetRecall() {
	c.recall = len(c.history)
	c.draft = ""
}
