// Package review manages a batch of proposed edits and the user's verdict on
// each one. Suggestions are produced only by the service and are immutable
// here except for their disposition.
package review

import "errors"

// Suggestion is a discrete proposed edit carrying a human-readable rationale
// and a proposed replacement fragment.
type Suggestion struct {
	ID                  string
	Kind                string
	TargetSectionHeader string
	ContextBefore       string
	ContextAfter        string
	OriginalSnippet     string
	ProposedSnippet     string
	Description         string
}

// Disposition is the user's verdict on one suggestion in the active batch.
type Disposition string

const (
	Pending  Disposition = "pending"
	Accepted Disposition = "accepted"
	Rejected Disposition = "rejected"
)

// ErrUnknownSuggestion is returned for ids not present in the batch.
var ErrUnknownSuggestion = errors.New("suggestion not in batch")

// Batch is the active suggestion batch with per-item dispositions. A fresh
// batch starts with every item pending; every item in the batch has exactly
// one disposition.
type Batch struct {
	order []string
	items map[string]Suggestion
	disp  map[string]Disposition
}

// NewBatch creates a batch with all dispositions pending.
func NewBatch(suggestions []Suggestion) *Batch {
	b := &Batch{
		items: make(map[string]Suggestion, len(suggestions)),
		disp:  make(map[string]Disposition, len(suggestions)),
	}
	for _, s := range suggestions {
		if _, dup := b.items[s.ID]; dup {
			continue
		}
		b.order = append(b.order, s.ID)
		b.items[s.ID] = s
		b.disp[s.ID] = Pending
	}
	return b
}

// Len returns the number of suggestions still in the batch.
func (b *Batch) Len() int { return len(b.order) }

// Empty reports whether all suggestions have been resolved.
func (b *Batch) Empty() bool { return len(b.order) == 0 }

// Suggestions returns the remaining suggestions in their original order.
func (b *Batch) Suggestions() []Suggestion {
	out := make([]Suggestion, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.items[id])
	}
	return out
}

// Get returns a suggestion by id.
func (b *Batch) Get(id string) (Suggestion, bool) {
	s, ok := b.items[id]
	return s, ok
}

// Disposition returns the verdict for the given suggestion id.
func (b *Batch) Disposition(id string) (Disposition, bool) {
	d, ok := b.disp[id]
	return d, ok
}

// Accept marks a suggestion accepted.
func (b *Batch) Accept(id string) error {
	if _, ok := b.items[id]; !ok {
		return ErrUnknownSuggestion
	}
	b.disp[id] = Accepted
	return nil
}

// Unaccept returns an accepted suggestion to pending.
func (b *Batch) Unaccept(id string) error {
	if _, ok := b.items[id]; !ok {
		return ErrUnknownSuggestion
	}
	b.disp[id] = Pending
	return nil
}

// Reject removes a suggestion from the batch. Rejection is purely local;
// no remote call is made for it.
func (b *Batch) Reject(id string) error {
	if _, ok := b.items[id]; !ok {
		return ErrUnknownSuggestion
	}
	b.disp[id] = Rejected
	b.remove(id)
	return nil
}

// Remove drops a suggestion after it was applied individually server-side.
// Dispositions of the remaining batch are left untouched.
func (b *Batch) Remove(id string) error {
	if _, ok := b.items[id]; !ok {
		return ErrUnknownSuggestion
	}
	b.remove(id)
	return nil
}

// Accepted returns the accepted subset in batch order.
func (b *Batch) Accepted() []Suggestion {
	var out []Suggestion
	for _, id := range b.order {
		if b.disp[id] == Accepted {
			out = append(out, b.items[id])
		}
	}
	return out
}

// PendingCount returns the number of unreviewed suggestions.
func (b *Batch) PendingCount() int {
	n := 0
	for _, id := range b.order {
		if b.disp[id] == Pending {
			n++
		}
	}
	return n
}

// FullyReviewed reports whether no suggestion in the batch is pending.
func (b *Batch) FullyReviewed() bool { return b.PendingCount() == 0 }

// CanApplyAll reports whether the batch commit is allowed: the batch must be
// non-empty, fully reviewed, and contain at least one accepted suggestion.
func (b *Batch) CanApplyAll() bool {
	return !b.Empty() && b.FullyReviewed() && len(b.Accepted()) > 0
}

func (b *Batch) remove(id string) {
	delete(b.items, id)
	delete(b.disp, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
