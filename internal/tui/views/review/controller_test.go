package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tailor/internal/core/review"
)

func batchOf(ids ...string) *review.Batch {
	suggestions := make([]review.Suggestion, 0, len(ids))
	for _, id := range ids {
		suggestions = append(suggestions, review.Suggestion{ID: id})
	}
	return review.NewBatch(suggestions)
}

func TestController_Navigation(t *testing.T) {
	c := NewController(batchOf("a", "b", "c"))

	assert.Equal(t, 0, c.Cursor())
	c.MoveUp()
	assert.Equal(t, 0, c.Cursor(), "cursor stays at the top")

	c.MoveDown()
	c.MoveDown()
	assert.Equal(t, 2, c.Cursor())
	c.MoveDown()
	assert.Equal(t, 2, c.Cursor(), "cursor stays at the bottom")

	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", sel.ID)
}

func TestController_AcceptSelected(t *testing.T) {
	c := NewController(batchOf("a", "b"))
	c.MoveDown()

	require.NoError(t, c.AcceptSelected())
	disp, ok := c.Batch().Disposition("b")
	require.True(t, ok)
	assert.Equal(t, review.Accepted, disp)

	require.NoError(t, c.UnacceptSelected())
	disp, _ = c.Batch().Disposition("b")
	assert.Equal(t, review.Pending, disp)
}

func TestController_ClampAfterShrink(t *testing.T) {
	b := batchOf("a", "b", "c")
	c := NewController(b)
	c.MoveDown()
	c.MoveDown()

	require.NoError(t, b.Reject("c"))
	c.Clamp()
	assert.Equal(t, 1, c.Cursor())

	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)
}

func TestController_EmptyBatch(t *testing.T) {
	c := NewController(nil)
	assert.True(t, c.Empty())

	_, ok := c.Selected()
	assert.False(t, ok)
	assert.Error(t, c.AcceptSelected())
}
