package cli

import (
	"fmt"

	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCatalogsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs",
		Short: "Lista los centros y géneros disponibles",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.spin(cmd.ErrOrStderr(), "Cargando catálogos...")
			cat, err := app.gate().LoadCatalogs(cmd.Context())
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalogs(cat))
			return nil
		},
	}
}
