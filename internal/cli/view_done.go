package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/mujeralerta/diagnostico/internal/domain"
)

type summaryLoadedMsg struct {
	resumen domain.Resumen
	err     error
}

// doneView thanks the respondent and shows the survey summary.
type doneView struct {
	state    *SharedState
	surveyID string
	vp       viewport.Model
	loaded   bool
	err      error
	exit     key.Binding
}

func newDoneView(state *SharedState, surveyID string) *doneView {
	vp := viewport.New(max(state.Width, 40), max(state.ContentHeight()-8, 5))
	vp.KeyMap = outputViewportKeyMap()
	return &doneView{
		state:    state,
		surveyID: surveyID,
		vp:       vp,
		exit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "terminar")),
	}
}

func (v *doneView) Init() tea.Cmd {
	backend := v.state.App.Backend
	id := v.surveyID
	return func() tea.Msg {
		r, err := backend.GetResumen(context.Background(), id)
		return summaryLoadedMsg{resumen: r, err: err}
	}
}

func (v *doneView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		v.loaded = true
		v.err = msg.err
		if msg.err == nil {
			v.vp.SetContent(formatter.FormatResumen(msg.resumen))
		}
		return v, nil
	case tea.WindowSizeMsg:
		v.vp.Width = max(msg.Width, 40)
		v.vp.Height = max(v.state.ContentHeight()-8, 5)
		return v, nil
	case tea.KeyMsg:
		if key.Matches(msg, v.exit) {
			return v, quit
		}
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *doneView) View() string {
	var b strings.Builder
	b.WriteString(formatter.RenderBox("Gracias", "Tus respuestas fueron enviadas.\n"+formatter.Dim("Encuesta "+v.surveyID)))
	b.WriteString("\n\n")
	switch {
	case !v.loaded:
		b.WriteString("  " + formatter.Dim("Cargando resumen...") + "\n")
	case v.err != nil:
		b.WriteString("  " + formatter.Dim("El resumen no está disponible por ahora.") + "\n")
	default:
		b.WriteString(v.vp.View())
	}
	return b.String()
}

func (v *doneView) ID() ViewID    { return ViewDone }
func (v *doneView) Title() string { return "Enviada" }
func (v *doneView) ShortHelp() []key.Binding {
	return []key.Binding{v.exit}
}
