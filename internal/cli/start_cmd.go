package cli

import (
	"fmt"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	var form domain.IntakeForm
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Inicia una nueva encuesta",
		Long: "Valida los datos de ingreso, verifica que el dispositivo pueda iniciar una encuesta,\n" +
			"la registra en el servidor e imprime su identificador.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.spin(cmd.ErrOrStderr(), "Creando encuesta...")
			id, err := app.gate().Start(cmd.Context(), form)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			if app.interactive() && !noTUI {
				return runTUI(app, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.CentroID, "centro", "", "Center ID")
	cmd.Flags().StringVar(&form.GeneroID, "genero", "", "Gender ID")
	cmd.Flags().StringVar(&form.Edad, "edad", "", "Age (15-75)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Contact email (optional)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Only create the survey, do not open the questionnaire")
	_ = cmd.MarkFlagRequired("centro")
	_ = cmd.MarkFlagRequired("genero")
	_ = cmd.MarkFlagRequired("edad")

	return cmd
}
