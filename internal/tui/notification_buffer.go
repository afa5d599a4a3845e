package tui

import (
	"sync"

	"github.com/colonyops/tailor/internal/core/notify"
	tuinotify "github.com/colonyops/tailor/internal/tui/notify"
)

// notificationBuffer bridges the synchronous notify bus into the Update
// loop. Publishers may run on command goroutines; the model drains the
// buffer on its own schedule.
type notificationBuffer struct {
	mu      sync.Mutex
	pending []notify.Notification
}

func newNotificationBuffer(bus *tuinotify.Bus) *notificationBuffer {
	b := &notificationBuffer{}
	if bus != nil {
		bus.Subscribe(func(n notify.Notification) {
			b.mu.Lock()
			b.pending = append(b.pending, n)
			b.mu.Unlock()
		})
	}
	return b
}

// Drain returns and clears the pending notifications.
func (b *notificationBuffer) Drain() []notify.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}
