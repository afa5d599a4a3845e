// Package document holds the text of the resume being edited. It is the
// single source of truth for the visible content; every mutation funnels
// through Apply so the text always reflects the last committed change.
package document

import (
	"errors"
	"regexp"
	"strings"
)

// Highlight markers are LaTeX comments the service (or the user) can place
// around a region to have it emphasized in the editor pane. The rendered
// highlight is derived from the text on every change; nothing holds a mutable
// handle into the editor widget.
const (
	MarkerHighlightStart = "% tailor:hl:start"
	MarkerHighlightEnd   = "% tailor:hl:end"
)

// ChangeKind tags the two supported mutation variants.
type ChangeKind int

const (
	// RawAppend concatenates a free-form snippet to the end of the document.
	RawAppend ChangeKind = iota
	// ReplaceAll swaps the entire document text, used by suggestion
	// application (the service returns the full new document) and revert.
	ReplaceAll
)

// Change is one committed mutation of the document text.
type Change struct {
	Kind    ChangeKind
	Snippet string // RawAppend
	Text    string // ReplaceAll
}

// Errors returned by Apply.
var (
	ErrEmptySnippet = errors.New("snippet is empty")
	ErrUnknownKind  = errors.New("unknown change kind")
)

// Range is a 1-based inclusive line range to highlight.
type Range struct {
	StartLine int
	EndLine   int
}

// Store owns the document text and its derived values.
type Store struct {
	text     string
	baseline string // text as loaded, target of Revert
}

// NewStore creates a store seeded with the given text. The seed text is also
// recorded as the revert baseline.
func NewStore(text string) *Store {
	return &Store{text: text, baseline: text}
}

// Text returns the full current document text.
func (s *Store) Text() string { return s.text }

// SetText replaces the text on a direct user edit. User edits move the
// revert baseline; revert undoes service mutations, not typing.
func (s *Store) SetText(text string) {
	s.text = text
	s.baseline = text
}

// Apply commits a change and returns the resulting text.
func (s *Store) Apply(c Change) (string, error) {
	switch c.Kind {
	case RawAppend:
		if strings.TrimSpace(c.Snippet) == "" {
			return s.text, ErrEmptySnippet
		}
		if s.text != "" && !strings.HasSuffix(s.text, "\n") {
			s.text += "\n"
		}
		s.text += c.Snippet
	case ReplaceAll:
		s.text = c.Text
	default:
		return s.text, ErrUnknownKind
	}
	return s.text, nil
}

// Revert restores the baseline text.
func (s *Store) Revert() string {
	s.text = s.baseline
	return s.text
}

// latexControl matches LaTeX control sequences with optional arguments,
// mirroring how the original word counter strips markup.
var latexControl = regexp.MustCompile(`\\[a-zA-Z]+(\[[^\]]*\])?(\{[^}]*\})?`)

var latexPunct = strings.NewReplacer("{", " ", "}", " ", "\\", " ")

// WordCount strips markup-control syntax and counts the remaining
// whitespace-delimited tokens. Purely cosmetic; feeds the status bar only.
func (s *Store) WordCount() int {
	stripped := latexControl.ReplaceAllString(s.text, "")
	stripped = latexPunct.Replace(stripped)

	count := 0
	for _, tok := range strings.Fields(stripped) {
		if tok != "" {
			count++
		}
	}
	return count
}

// Highlights scans the text for marker comments and returns the line ranges
// between start/end pairs. An unclosed start extends to the last line.
func (s *Store) Highlights() []Range {
	var (
		ranges []Range
		open   = -1
	)

	lines := strings.Split(s.text, "\n")
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case MarkerHighlightStart:
			if open == -1 {
				open = i + 2 // first line after the marker, 1-based
			}
		case MarkerHighlightEnd:
			if open != -1 {
				// An end marker directly after the start encloses no lines.
				if i >= open {
					ranges = append(ranges, Range{StartLine: open, EndLine: i})
				}
				open = -1
			}
		}
	}

	if open != -1 && open <= len(lines) {
		ranges = append(ranges, Range{StartLine: open, EndLine: len(lines)})
	}
	return ranges
}
