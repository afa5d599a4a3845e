package tui

import (
	"github.com/colonyops/tailor/internal/core/eventbus"
	tuinotify "github.com/colonyops/tailor/internal/tui/notify"
)

// WireBusNotifications turns workspace lifecycle events into toast
// notifications. The notify bus is drained into the update loop by the
// model's notification buffer, so subscribers here may run on the bus
// goroutine.
func WireBusNotifications(ev *eventbus.EventBus, bus *tuinotify.Bus) {
	ev.SubscribeInterviewStarted(func(p eventbus.InterviewStartedPayload) {
		bus.Infof("Interview started: %d questions.", p.TotalQuestions)
	})
	ev.SubscribeInterviewCompleted(func(eventbus.InterviewCompletedPayload) {
		bus.Infof("Interview complete. Press ctrl+g to generate suggestions.")
	})
	ev.SubscribeSuggestionsFetched(func(p eventbus.SuggestionsFetchedPayload) {
		bus.Infof("%d suggestions ready for review.", p.Count)
	})
	ev.SubscribeSuggestionsApplied(func(p eventbus.SuggestionsAppliedPayload) {
		bus.Infof("Applied %d suggestion(s) to your resume.", p.Applied)
	})
	ev.SubscribeSessionDeleted(func(eventbus.SessionDeletedPayload) {
		bus.Infof("Session deleted.")
	})
}
