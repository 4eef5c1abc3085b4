package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/internal/config"
	"github.com/clinicshift/shift-scheduler/pkg/core/services"
)

// AppContext holds the application dependencies shared across all commands.
// Fields are filled in by the root command before any command runs.
type AppContext struct {
	Cfg       *config.Config
	Workspace *services.Workspace
	Logger    *zap.Logger
	Ctx       context.Context
	Out       *Printer
	Now       func() time.Time
}

func (app *AppContext) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}
