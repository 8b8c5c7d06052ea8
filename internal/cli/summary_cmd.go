package cli

import (
	"fmt"

	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <survey-id>",
		Short: "Muestra el resumen de una encuesta enviada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.spin(cmd.ErrOrStderr(), "Cargando resumen...")
			r, err := app.Backend.GetResumen(cmd.Context(), args[0])
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResumen(r))
			return nil
		},
	}
}
