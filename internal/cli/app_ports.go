package cli

import (
	"context"
	"io"
	"time"

	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/intake"
	"github.com/mujeralerta/diagnostico/internal/logger"
	"github.com/mujeralerta/diagnostico/internal/wizard"
)

// Backend is the part of the API the CLI talks to.
type Backend interface {
	intake.Backend
	wizard.Submitter
	GetInstrument(ctx context.Context) (map[string]any, error)
	GetResumen(ctx context.Context, surveyID string) (domain.Resumen, error)
}

func (a *App) logger() *logger.Logger {
	if a.Log != nil {
		return a.Log
	}
	return logger.Nop()
}

func (a *App) gate() *intake.Gate {
	return intake.NewGate(a.Backend, a.Progress, a.Locks, intake.WithLogger(a.logger()))
}

func (a *App) newMachine(surveyID string) *wizard.Machine {
	opts := []wizard.Option{
		wizard.WithLogger(a.logger()),
		wizard.WithAutosaveDelay(a.AutosaveDelay),
	}
	if a.Scheduler != nil {
		opts = append(opts, wizard.WithScheduler(a.Scheduler))
	}
	return wizard.New(surveyID, wizard.Deps{
		Progress:  a.Progress,
		Locks:     a.Locks,
		Submitter: a.Backend,
	}, opts...)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// spin starts a spinner on w when the terminal is interactive.
func (a *App) spin(w io.Writer, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(w, message)
}
