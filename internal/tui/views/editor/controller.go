package editor

import (
	"strings"

	"github.com/colonyops/tailor/internal/core/document"
)

// Controller manages document presentation data: the line split, highlight
// membership, and unsaved-edit tracking. It contains pure data logic with no
// Bubble Tea dependencies.
type Controller struct {
	text       string
	lines      []string
	highlights []document.Range
	hlLines    map[int]bool // 1-based line numbers inside a highlight
	dirty      bool
}

// NewController creates a new editor controller.
func NewController() *Controller {
	return &Controller{hlLines: map[int]bool{}}
}

// SetText replaces the displayed document text.
func (c *Controller) SetText(text string) {
	c.text = text
	c.lines = strings.Split(text, "\n")
	c.dirty = false
}

// Text returns the displayed document text.
func (c *Controller) Text() string {
	return c.text
}

// Lines returns the document split into lines.
func (c *Controller) Lines() []string {
	return c.lines
}

// LineCount returns the number of document lines.
func (c *Controller) LineCount() int {
	return len(c.lines)
}

// SetHighlights replaces the highlight ranges.
func (c *Controller) SetHighlights(ranges []document.Range) {
	c.highlights = ranges
	c.hlLines = make(map[int]bool)
	for _, r := range ranges {
		for line := r.StartLine; line <= r.EndLine; line++ {
			c.hlLines[line] = true
		}
	}
}

// Highlighted reports whether the 1-based line number falls in a highlight.
func (c *Controller) Highlighted(line int) bool {
	return c.hlLines[line]
}

// HighlightCount returns the number of highlight ranges.
func (c *Controller) HighlightCount() int {
	return len(c.highlights)
}

// MarkDirty records that the edit buffer has diverged from the document.
func (c *Controller) MarkDirty() {
	c.dirty = true
}

// Dirty reports whether uncommitted edits exist.
func (c *Controller) Dirty() bool {
	return c.dirty
}
