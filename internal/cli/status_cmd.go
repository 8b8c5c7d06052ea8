package cli

import (
	"fmt"

	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var centroID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Muestra si el dispositivo puede iniciar una encuesta",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(cmd, app, centroID)
		},
	}

	cmd.Flags().StringVar(&centroID, "centro", "", "Also check the lock for this center ID")

	return cmd
}

func printStatus(cmd *cobra.Command, app *App, centroID string) error {
	ctx := cmd.Context()
	d := app.gate().Status(ctx, centroID)
	locks := app.Locks.CenterLocks(ctx)
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGateStatus(d, locks, app.now()))
	return nil
}
