package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tailor/internal/core/eventbus"
	tuinotify "github.com/colonyops/tailor/internal/tui/notify"
)

func TestWireBusNotifications_TurnsEventsIntoToasts(t *testing.T) {
	ev := eventbus.New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ev.Run(ctx)

	bus := tuinotify.NewBus()
	WireBusNotifications(ev, bus)

	ev.PublishSuggestionsFetched(eventbus.SuggestionsFetchedPayload{SessionID: "s1", Count: 3})
	ev.PublishSessionDeleted(eventbus.SessionDeletedPayload{SessionID: "s1"})

	require.Eventually(t, func() bool {
		return len(bus.History()) == 2
	}, time.Second, 10*time.Millisecond)

	// History is newest first.
	history := bus.History()
	assert.Contains(t, history[1].Message, "3 suggestions ready")
	assert.Contains(t, history[0].Message, "Session deleted")
}
