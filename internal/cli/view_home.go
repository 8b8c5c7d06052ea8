package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/intake"
)

type homeLoadedMsg struct {
	catalogs intake.Catalogs
	decision intake.Decision
	err      error
}

// surveyOpenMsg asks the home view to open the questionnaire for a survey.
type surveyOpenMsg struct {
	surveyID string
}

type startFailedMsg struct {
	err error
}

type draftDiscardedMsg struct {
	surveyID string
	released int
}

type homeKeys struct {
	open    key.Binding
	discard key.Binding
	reload  key.Binding
}

// homeView shows the device's gate status and opens either the intake form
// or the resume prompt.
type homeView struct {
	state    *SharedState
	keys     homeKeys
	spinner  spinner.Model
	loading  bool
	decision intake.Decision
	err      error
	notice   string
	// prompted is set once the form or resume prompt has been opened
	// automatically for the current load.
	prompted bool
	form     *domain.IntakeForm
	choice   resumeChoice
}

func newHomeView(state *SharedState) *homeView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleAccent
	return &homeView{
		state:   state,
		spinner: sp,
		loading: true,
		form:    &domain.IntakeForm{},
		keys: homeKeys{
			open:    key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "nueva / continuar")),
			discard: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "borrar progreso")),
			reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
		},
	}
}

func (v *homeView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.load())
}

func (v *homeView) load() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ctx := context.Background()
		g := app.gate()
		d := g.Status(ctx, "")
		if d.Draft != nil {
			return homeLoadedMsg{decision: d}
		}
		cat, err := g.LoadCatalogs(ctx)
		return homeLoadedMsg{catalogs: cat, decision: d, err: err}
	}
}

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		v.loading = false
		v.decision = msg.decision
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.state.Catalogs = msg.catalogs
		if v.prompted {
			return v, nil
		}
		v.prompted = true
		return v, v.open()

	case surveyOpenMsg:
		return v, replaceView(newQuestionnaireView(v.state, msg.surveyID))

	case startFailedMsg:
		return v, tea.Batch(output(formatter.Fail("No se pudo iniciar la encuesta: "+msg.err.Error())), v.reload())

	case draftDiscardedMsg:
		v.notice = fmt.Sprintf("Progreso de %s borrado (%d bloqueo(s) liberado(s)).", msg.surveyID, msg.released)
		v.prompted = false
		return v, v.reload()

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.open):
			return v, v.open()
		case key.Matches(msg, v.keys.discard):
			if d := v.decision.Draft; d != nil {
				return v, v.discard(d.SurveyID)
			}
		case key.Matches(msg, v.keys.reload):
			v.notice = ""
			return v, v.reload()
		}
	}
	return v, nil
}

func (v *homeView) reload() tea.Cmd {
	v.loading = true
	return tea.Batch(v.spinner.Tick, v.load())
}

// open pushes the resume prompt when a draft exists, else the intake form
// when nothing blocks a new survey.
func (v *homeView) open() tea.Cmd {
	if d := v.decision.Draft; d != nil {
		v.choice = resumeContinue
		draft := *d
		return pushView(newWizardView(v.state, "Continuar", resumeForm(draft, &v.choice), func() tea.Cmd {
			return v.resume(draft.SurveyID)
		}))
	}
	if !v.decision.CanStart() {
		return nil
	}
	form := v.form
	app := v.state.App
	return pushView(newWizardView(v.state, "Ingreso", intakeForm(app, v.state.Catalogs, form), func() tea.Cmd {
		submitted := *form
		return tea.Batch(loading("Creando encuesta..."), func() tea.Msg {
			id, err := app.gate().Start(context.Background(), submitted)
			if err != nil {
				return startFailedMsg{err: err}
			}
			return surveyOpenMsg{surveyID: id}
		})
	}))
}

func (v *homeView) resume(surveyID string) tea.Cmd {
	switch v.choice {
	case resumeContinue:
		return func() tea.Msg { return surveyOpenMsg{surveyID: surveyID} }
	case resumeDiscard:
		return v.discard(surveyID)
	default:
		return quit
	}
}

func (v *homeView) discard(surveyID string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		n := app.gate().Discard(context.Background(), surveyID)
		return draftDiscardedMsg{surveyID: surveyID, released: n}
	}
}

func (v *homeView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if v.loading {
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Verificando el dispositivo...") + "\n")
		return b.String()
	}
	if v.err != nil {
		b.WriteString("  " + formatter.Fail("No se pudieron cargar los catálogos: "+v.err.Error()) + "\n")
		b.WriteString("  " + formatter.Dim("Presiona r para reintentar.") + "\n")
		return b.String()
	}
	if v.notice != "" {
		b.WriteString("  " + v.notice + "\n\n")
	}
	if v.decision.CanStart() {
		b.WriteString("  " + formatter.OK("Puedes iniciar una nueva encuesta.") + "\n")
		b.WriteString("  " + formatter.Dim("Presiona n para abrir el formulario de ingreso.") + "\n")
		return b.String()
	}
	for _, bl := range v.decision.Blockers {
		b.WriteString("  " + formatter.Warn(bl.Message) + "\n")
	}
	if v.decision.Draft != nil {
		b.WriteString("\n  " + formatter.Dim("Presiona n para continuar o b para borrar el progreso.") + "\n")
	}
	return b.String()
}

func (v *homeView) ID() ViewID    { return ViewHome }
func (v *homeView) Title() string { return "Inicio" }
func (v *homeView) ShortHelp() []key.Binding {
	if v.decision.Draft != nil {
		return []key.Binding{v.keys.open, v.keys.discard, v.keys.reload}
	}
	return []key.Binding{v.keys.open, v.keys.reload}
}
