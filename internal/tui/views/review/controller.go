package review

import (
	"github.com/colonyops/tailor/internal/core/review"
)

// Controller manages cursor navigation over a suggestion batch.
// It contains pure data logic with no Bubble Tea dependencies.
type Controller struct {
	batch  *review.Batch
	cursor int
}

// NewController creates a controller over the given batch.
func NewController(batch *review.Batch) *Controller {
	return &Controller{batch: batch}
}

// SetBatch replaces the batch and clamps the cursor.
func (c *Controller) SetBatch(batch *review.Batch) {
	c.batch = batch
	c.clamp()
}

// Batch returns the underlying batch, nil if none.
func (c *Controller) Batch() *review.Batch {
	return c.batch
}

// Empty reports whether there is nothing to review.
func (c *Controller) Empty() bool {
	return c.batch == nil || c.batch.Empty()
}

// MoveUp moves the cursor up one suggestion.
func (c *Controller) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown moves the cursor down one suggestion.
func (c *Controller) MoveDown() {
	if c.batch != nil && c.cursor < c.batch.Len()-1 {
		c.cursor++
	}
}

// Cursor returns the cursor position.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Selected returns the suggestion under the cursor.
func (c *Controller) Selected() (review.Suggestion, bool) {
	if c.Empty() {
		return review.Suggestion{}, false
	}
	items := c.batch.Suggestions()
	if c.cursor >= len(items) {
		return review.Suggestion{}, false
	}
	return items[c.cursor], true
}

// AcceptSelected marks the suggestion under the cursor accepted.
func (c *Controller) AcceptSelected() error {
	sel, ok := c.Selected()
	if !ok {
		return review.ErrUnknownSuggestion
	}
	return c.batch.Accept(sel.ID)
}

// UnacceptSelected returns the suggestion under the cursor to pending.
func (c *Controller) UnacceptSelected() error {
	sel, ok := c.Selected()
	if !ok {
		return review.ErrUnknownSuggestion
	}
	return c.batch.Unaccept(sel.ID)
}

// SelectedID returns the id of the suggestion under the cursor.
func (c *Controller) SelectedID() (string, bool) {
	sel, ok := c.Selected()
	return sel.ID, ok
}

// Clamp re-validates the cursor after the batch shrank.
func (c *Controller) Clamp() {
	c.clamp()
}

func (c *Controller) clamp() {
	if c.batch == nil || c.batch.Len() == 0 {
		c.cursor = 0
		return
	}
	if c.cursor >= c.batch.Len() {
		c.cursor = c.batch.Len() - 1
	}
}
