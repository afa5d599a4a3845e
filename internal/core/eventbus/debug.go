package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger wires the bus hooks into the given logger: published
// events log at debug with their payload type, dropped events at warn, and
// recovered subscriber panics at error.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		logger.Debug().
			Str("event", string(event)).
			Type("payload", payload).
			Msg("bus event published")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().
			Str("event", string(event)).
			Msg("bus event dropped, buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("recovered", fmt.Sprint(recovered)).
			Msg("bus subscriber panicked")
	})
}
