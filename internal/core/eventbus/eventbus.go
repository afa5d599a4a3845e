// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within tailor.
package eventbus

import (
	"context"
	"sync"
)

// Event names all bus events.
type Event string

// Bus events, sorted A-Z.
const (
	EventDocumentUpdated    Event = "document.updated"
	EventInterviewCompleted Event = "interview.completed"
	EventInterviewStarted   Event = "interview.started"
	EventQuestionOpened     Event = "interview.question-opened"
	EventSessionDeleted     Event = "session.deleted"
	EventSuggestionsApplied Event = "suggestions.applied"
	EventSuggestionsFetched Event = "suggestions.fetched"
)

// InterviewStartedPayload is emitted when a session is created.
type InterviewStartedPayload struct {
	SessionID      string
	TotalQuestions int
}

// QuestionOpenedPayload is emitted each time a question becomes the open one.
type QuestionOpenedPayload struct {
	Question string
	Answered int
	Total    int
}

// InterviewCompletedPayload is emitted exactly once per interview.
type InterviewCompletedPayload struct {
	SessionID string
}

// SuggestionsFetchedPayload is emitted when a suggestion batch arrives.
type SuggestionsFetchedPayload struct {
	SessionID string
	Count     int
}

// SuggestionsAppliedPayload is emitted after a single or batch apply.
type SuggestionsAppliedPayload struct {
	Applied   int
	Remaining int
}

// DocumentUpdatedPayload is emitted whenever the document text changes.
type DocumentUpdatedPayload struct {
	WordCount int
}

// SessionDeletedPayload is emitted when a server-side session is deleted.
type SessionDeletedPayload struct {
	SessionID string
}

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches events to subscribers from a single Run loop.
// Publishing never blocks: events are dropped (with a hook) when the buffer
// is full.
type EventBus struct {
	ch          chan envelope
	mu          sync.RWMutex
	subscribers map[Event][]func(any)
	hooks       hooks
}

// New creates an event bus with the given buffer size (defaults to 64).
func New(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventBus{
		ch:          make(chan envelope, buffer),
		subscribers: make(map[Event][]func(any)),
	}
}

// Run dispatches events until ctx is cancelled. Subscriber panics are
// recovered and reported through the OnPanic hook.
func (bus *EventBus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subscribers[env.event]))
	copy(subs, bus.subscribers[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.runOnPublish(event, payload)
	default:
		bus.runOnDrop(event, payload)
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subscribers[event] = append(bus.subscribers[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// PublishInterviewStarted publishes an interview.started event.
func (bus *EventBus) PublishInterviewStarted(p InterviewStartedPayload) {
	bus.send(EventInterviewStarted, p)
}

// SubscribeInterviewStarted registers a subscriber for interview.started.
func (bus *EventBus) SubscribeInterviewStarted(fn func(InterviewStartedPayload)) {
	bus.subscribe(EventInterviewStarted, func(p any) { fn(p.(InterviewStartedPayload)) })
}

// PublishQuestionOpened publishes an interview.question-opened event.
func (bus *EventBus) PublishQuestionOpened(p QuestionOpenedPayload) {
	bus.send(EventQuestionOpened, p)
}

// SubscribeQuestionOpened registers a subscriber for interview.question-opened.
func (bus *EventBus) SubscribeQuestionOpened(fn func(QuestionOpenedPayload)) {
	bus.subscribe(EventQuestionOpened, func(p any) { fn(p.(QuestionOpenedPayload)) })
}

// PublishInterviewCompleted publishes an interview.completed event.
func (bus *EventBus) PublishInterviewCompleted(p InterviewCompletedPayload) {
	bus.send(EventInterviewCompleted, p)
}

// SubscribeInterviewCompleted registers a subscriber for interview.completed.
func (bus *EventBus) SubscribeInterviewCompleted(fn func(InterviewCompletedPayload)) {
	bus.subscribe(EventInterviewCompleted, func(p any) { fn(p.(InterviewCompletedPayload)) })
}

// PublishSuggestionsFetched publishes a suggestions.fetched event.
func (bus *EventBus) PublishSuggestionsFetched(p SuggestionsFetchedPayload) {
	bus.send(EventSuggestionsFetched, p)
}

// SubscribeSuggestionsFetched registers a subscriber for suggestions.fetched.
func (bus *EventBus) SubscribeSuggestionsFetched(fn func(SuggestionsFetchedPayload)) {
	bus.subscribe(EventSuggestionsFetched, func(p any) { fn(p.(SuggestionsFetchedPayload)) })
}

// PublishSuggestionsApplied publishes a suggestions.applied event.
func (bus *EventBus) PublishSuggestionsApplied(p SuggestionsAppliedPayload) {
	bus.send(EventSuggestionsApplied, p)
}

// SubscribeSuggestionsApplied registers a subscriber for suggestions.applied.
func (bus *EventBus) SubscribeSuggestionsApplied(fn func(SuggestionsAppliedPayload)) {
	bus.subscribe(EventSuggestionsApplied, func(p any) { fn(p.(SuggestionsAppliedPayload)) })
}

// PublishDocumentUpdated publishes a document.updated event.
func (bus *EventBus) PublishDocumentUpdated(p DocumentUpdatedPayload) {
	bus.send(EventDocumentUpdated, p)
}

// SubscribeDocumentUpdated registers a subscriber for document.updated.
func (bus *EventBus) SubscribeDocumentUpdated(fn func(DocumentUpdatedPayload)) {
	bus.subscribe(EventDocumentUpdated, func(p any) { fn(p.(DocumentUpdatedPayload)) })
}

// PublishSessionDeleted publishes a session.deleted event.
func (bus *EventBus) PublishSessionDeleted(p SessionDeletedPayload) {
	bus.send(EventSessionDeleted, p)
}

// SubscribeSessionDeleted registers a subscriber for session.deleted.
func (bus *EventBus) SubscribeSessionDeleted(fn func(SessionDeletedPayload)) {
	bus.subscribe(EventSessionDeleted, func(p any) { fn(p.(SessionDeletedPayload)) })
}
