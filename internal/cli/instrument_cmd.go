package cli

import (
	"fmt"

	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/mujeralerta/diagnostico/internal/instrument"
	"github.com/spf13/cobra"
)

func newInstrumentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument",
		Short: "Herramientas para el instrumento",
	}
	cmd.AddCommand(newInstrumentInspectCmd(app))
	return cmd
}

func newInstrumentInspectCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe la forma del instrumento y lo valida",
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw map[string]any
			var err error
			if file != "" {
				raw, err = instrument.LoadFile(file)
			} else {
				stop := app.spin(cmd.ErrOrStderr(), "Cargando instrumento...")
				raw, err = app.Backend.GetInstrument(cmd.Context())
				stop()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatShape(instrument.Describe(raw)))
			fmt.Fprintln(out)
			problems := instrument.Validate(raw)
			fmt.Fprint(out, formatter.FormatValidation(problems))
			if len(problems) > 0 {
				return fmt.Errorf("instrument has %d problem(s)", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the instrument from a local .json or .yaml file")

	return cmd
}
