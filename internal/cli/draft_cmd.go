package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	errNoDraft             = errors.New("no hay una encuesta en progreso en este dispositivo")
	errInteractiveRequired = errors.New("this command needs an interactive terminal")
)

// resolveDraftID returns the explicit id when given, else the latest draft.
func resolveDraftID(ctx context.Context, app *App, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	draft, ok := app.Progress.FindLatestInProgress(ctx)
	if !ok {
		return "", errNoDraft
	}
	return draft.SurveyID, nil
}

func newResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume [survey-id]",
		Short: "Continúa la encuesta en progreso",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDraftID(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			if !app.interactive() {
				return fmt.Errorf("resuming %s: %w", id, errInteractiveRequired)
			}
			return runTUI(app, id)
		},
	}
}

func newDiscardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discard [survey-id]",
		Short: "Borra el progreso guardado y libera sus bloqueos",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDraftID(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			n := app.gate().Discard(cmd.Context(), id)
			fmt.Fprintf(cmd.OutOrStdout(), "Progreso borrado para %s (%d bloqueo(s) liberado(s)).\n", id, n)
			return nil
		},
	}
}
