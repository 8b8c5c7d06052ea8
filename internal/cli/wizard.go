package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/intake"
)

// brandHuhTheme returns a huh theme using the brand palette.
func brandHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorPrimary).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// intakeForm builds the huh form that fills form. Choosing a center that
// is locked on this device fails validation with the lock message.
func intakeForm(app *App, cat intake.Catalogs, form *domain.IntakeForm) *huh.Form {
	centros := make([]huh.Option[string], 0, len(cat.Centros))
	for _, c := range cat.Centros {
		centros = append(centros, huh.NewOption(c.Label(), strconv.FormatInt(c.ID, 10)))
	}
	generos := make([]huh.Option[string], 0, len(cat.Generos))
	for _, g := range cat.Generos {
		generos = append(generos, huh.NewOption(g.Etiqueta, strconv.FormatInt(g.ID, 10)))
	}

	gate := app.gate()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Centro").
				Options(centros...).
				Value(&form.CentroID).
				Validate(func(id string) error {
					if id == "" {
						return errors.New("Selecciona un centro.")
					}
					if b, ok := gate.Status(context.Background(), id).Blocker(intake.BlockerCenterLock); ok {
						return errors.New(b.Message)
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Género").
				Options(generos...).
				Value(&form.GeneroID).
				Validate(func(id string) error {
					if id == "" {
						return errors.New("Selecciona un género.")
					}
					return nil
				}),
			huh.NewInput().
				Title("Edad").
				Placeholder(fmt.Sprintf("%d-%d", intake.MinEdad, intake.MaxEdad)).
				Value(&form.Edad).
				Validate(validateEdad),
			huh.NewInput().
				Title("Correo electrónico (opcional)").
				Value(&form.Email).
				Validate(func(s string) error {
					if s = strings.TrimSpace(s); s != "" && !intake.ValidEmail(s) {
						return errors.New("Correo no válido.")
					}
					return nil
				}),
		),
	).WithTheme(brandHuhTheme()).WithShowHelp(false)
}

func validateEdad(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < intake.MinEdad || n > intake.MaxEdad {
		return fmt.Errorf("La edad debe estar entre %d y %d.", intake.MinEdad, intake.MaxEdad)
	}
	return nil
}

type resumeChoice string

const (
	resumeContinue resumeChoice = "continue"
	resumeDiscard  resumeChoice = "discard"
	resumeExit     resumeChoice = "exit"
)

// resumeForm asks what to do with a saved draft.
func resumeForm(draft domain.Draft, choice *resumeChoice) *huh.Form {
	desc := fmt.Sprintf("Encuesta %s, paso %d, %d respuesta(s) guardada(s).",
		draft.SurveyID, draft.Snapshot.QIndex+1, len(draft.Snapshot.Answers))
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[resumeChoice]().
				Title("Tienes una encuesta en progreso").
				Description(desc).
				Options(
					huh.NewOption("Continuar", resumeContinue),
					huh.NewOption("Borrar progreso guardado", resumeDiscard),
					huh.NewOption("Salir", resumeExit),
				).
				Value(choice),
		),
	).WithTheme(brandHuhTheme()).WithShowHelp(false)
}
