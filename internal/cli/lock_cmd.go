package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Administra los bloqueos por centro",
	}
	cmd.AddCommand(newLockClearCmd(app))
	return cmd
}

func newLockClearCmd(app *App) *cobra.Command {
	var centroID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Elimina el bloqueo de un centro",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.gate().ClearCenterLock(cmd.Context(), centroID)
			fmt.Fprintf(cmd.OutOrStdout(), "Bloqueo del centro %s eliminado.\n", centroID)
			return nil
		},
	}

	cmd.Flags().StringVar(&centroID, "centro", "", "Center ID")
	_ = cmd.MarkFlagRequired("centro")

	return cmd
}

func newMarkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Administra la marca de encuesta completada del dispositivo",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Elimina la marca de encuesta completada",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.gate().ClearBrowserMark(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Marca de encuesta completada eliminada.")
			return nil
		},
	})
	return cmd
}
