package cli

import (
	"time"

	"github.com/mujeralerta/diagnostico/internal/logger"
	"github.com/mujeralerta/diagnostico/internal/progress"
	"github.com/mujeralerta/diagnostico/internal/softlock"
	"github.com/mujeralerta/diagnostico/internal/wizard"
	"github.com/spf13/cobra"
)

// App holds the stores and backend used by CLI commands and the TUI.
type App struct {
	Backend  Backend
	Progress *progress.Store
	Locks    *softlock.Store
	Log      *logger.Logger

	// AutosaveDelay is the draft debounce; zero uses the wizard default.
	AutosaveDelay time.Duration
	// Scheduler replaces the autosave timer. Nil uses wall-clock timers.
	Scheduler wizard.Scheduler
	// Connect builds a Backend for a --api-url override.
	Connect func(baseURL string) Backend
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// Now is the clock used for relative timestamps. Nil uses time.Now.
	Now func() time.Time
}

// NewRootCmd creates the top-level "diagnostico" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "diagnostico",
		Short:        "Cuestionario diagnóstico Mujer Alerta",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyAPIOverride(app, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return printStatus(cmd, app, "")
			}
			return runTUI(app, "")
		},
	}
	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newStartCmd(app),
		newResumeCmd(app),
		newDiscardCmd(app),
		newStatusCmd(app),
		newLockCmd(app),
		newMarkCmd(app),
		newCatalogsCmd(app),
		newInstrumentCmd(app),
		newSummaryCmd(app),
	)

	return root
}
