package workspace

import (
	"github.com/colonyops/tailor/internal/api"
	"github.com/colonyops/tailor/internal/core/config"
	"github.com/colonyops/tailor/internal/core/eventbus"
)

// App is the central entry point to the application's wired dependencies.
// Commands and the TUI consume App instead of cherry-picking raw
// dependencies, so construction happens in exactly one place.
type App struct {
	Config    *config.Config
	Client    *api.Client
	Workspace *Service
	Bus       *eventbus.EventBus
}

// NewApp wires a workspace over the given configuration and client. The
// caller owns running the bus.
func NewApp(cfg *config.Config, client *api.Client, resumeText string) *App {
	bus := eventbus.New(64)
	return &App{
		Config:    cfg,
		Client:    client,
		Workspace: NewService(client, resumeText, bus),
		Bus:       bus,
	}
}
