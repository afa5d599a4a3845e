package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch() *Batch {
	return NewBatch([]Suggestion{
		{ID: "s1", Description: "tighten summary", ProposedSnippet: "\\item Led Go migration"},
		{ID: "s2", Description: "add skills row", ProposedSnippet: "\\item Kubernetes"},
		{ID: "s3", Description: "quantify impact", ProposedSnippet: "\\item Cut costs 30\\%"},
	})
}

func TestNewBatch(t *testing.T) {
	b := newTestBatch()

	assert.Equal(t, 3, b.Len())
	for _, s := range b.Suggestions() {
		d, ok := b.Disposition(s.ID)
		require.True(t, ok)
		assert.Equal(t, Pending, d, "fresh batch item %s must be pending", s.ID)
	}
	assert.False(t, b.FullyReviewed())
	assert.False(t, b.CanApplyAll())
}

func TestNewBatch_DuplicateIDs(t *testing.T) {
	b := NewBatch([]Suggestion{{ID: "s1"}, {ID: "s1"}})
	assert.Equal(t, 1, b.Len())
}

func TestBatch_AcceptReject(t *testing.T) {
	b := newTestBatch()

	require.NoError(t, b.Accept("s1"))
	require.NoError(t, b.Accept("s2"))
	require.NoError(t, b.Reject("s3"))

	// Reject removes locally; the remaining items are all reviewed.
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.FullyReviewed())
	assert.True(t, b.CanApplyAll())

	accepted := b.Accepted()
	require.Len(t, accepted, 2)
	assert.Equal(t, "s1", accepted[0].ID)
	assert.Equal(t, "s2", accepted[1].ID)
}

func TestBatch_ApplyAllGating(t *testing.T) {
	t.Run("disabled while any item pending", func(t *testing.T) {
		b := newTestBatch()
		require.NoError(t, b.Accept("s1"))
		assert.False(t, b.CanApplyAll())
	})

	t.Run("disabled when zero accepted", func(t *testing.T) {
		b := newTestBatch()
		require.NoError(t, b.Reject("s1"))
		require.NoError(t, b.Reject("s2"))
		// One pending left: still gated.
		assert.False(t, b.CanApplyAll())

		require.NoError(t, b.Reject("s3"))
		// Fully reviewed but empty: nothing to apply.
		assert.False(t, b.CanApplyAll())
	})

	t.Run("unaccept reopens the batch", func(t *testing.T) {
		b := newTestBatch()
		require.NoError(t, b.Accept("s1"))
		require.NoError(t, b.Accept("s2"))
		require.NoError(t, b.Accept("s3"))
		require.True(t, b.CanApplyAll())

		require.NoError(t, b.Unaccept("s2"))
		assert.False(t, b.CanApplyAll())
		assert.Equal(t, 1, b.PendingCount())
	})
}

func TestBatch_RejectToEmptyClosesBatch(t *testing.T) {
	b := newTestBatch()

	require.NoError(t, b.Reject("s1"))
	require.NoError(t, b.Reject("s2"))
	assert.False(t, b.Empty())

	require.NoError(t, b.Reject("s3"))
	assert.True(t, b.Empty())
}

func TestBatch_RemoveKeepsOtherDispositions(t *testing.T) {
	b := newTestBatch()
	require.NoError(t, b.Accept("s2"))

	require.NoError(t, b.Remove("s1"))

	assert.Equal(t, 2, b.Len())
	d, ok := b.Disposition("s2")
	require.True(t, ok)
	assert.Equal(t, Accepted, d)
	d, ok = b.Disposition("s3")
	require.True(t, ok)
	assert.Equal(t, Pending, d)

	_, ok = b.Disposition("s1")
	assert.False(t, ok)
}

func TestBatch_UnknownID(t *testing.T) {
	b := newTestBatch()

	assert.ErrorIs(t, b.Accept("nope"), ErrUnknownSuggestion)
	assert.ErrorIs(t, b.Reject("nope"), ErrUnknownSuggestion)
	assert.ErrorIs(t, b.Remove("nope"), ErrUnknownSuggestion)
	assert.ErrorIs(t, b.Unaccept("nope"), ErrUnknownSuggestion)
}
