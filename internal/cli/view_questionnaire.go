package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mujeralerta/diagnostico/internal/cli/formatter"
	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/wizard"
)

const questionnaireBarWidth = 24

type instrumentLoadedMsg struct {
	raw map[string]any
	err error
}

type submitResultMsg struct {
	err error
}

type questionnaireKeys struct {
	up     key.Binding
	down   key.Binding
	left   key.Binding
	right  key.Binding
	next   key.Binding
	prev   key.Binding
	back   key.Binding
	submit key.Binding
	leave  key.Binding
	retry  key.Binding
}

func newQuestionnaireKeys() questionnaireKeys {
	return questionnaireKeys{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "tarjeta")),
		down:   key.NewBinding(key.WithKeys("down", "j")),
		left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→ 1-9", "opción")),
		right:  key.NewBinding(key.WithKeys("right", "l")),
		next:   key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "siguiente")),
		prev:   key.NewBinding(key.WithKeys("p", "backspace"), key.WithHelp("p", "anterior")),
		back:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "anterior")),
		submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "enviar")),
		leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "salir (se guarda)")),
		retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reintentar")),
	}
}

// questionnaireView renders one question per step and the final comment
// step, forwarding every edit to the wizard machine.
type questionnaireView struct {
	state    *SharedState
	machine  *wizard.Machine
	keys     questionnaireKeys
	comment  textarea.Model
	spinner  spinner.Model
	row      int
	loading  bool
	loadErr  error
	notice   string
	closed   bool
	lastStep int
}

func newQuestionnaireView(state *SharedState, surveyID string) *questionnaireView {
	ta := textarea.New()
	ta.Placeholder = "Escribe aquí si quieres agregar algo (opcional)"
	ta.CharLimit = wizard.MaxCommentRunes
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(5)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleAccent

	return &questionnaireView{
		state:    state,
		machine:  state.App.newMachine(surveyID),
		keys:     newQuestionnaireKeys(),
		comment:  ta,
		spinner:  sp,
		loading:  true,
		lastStep: -1,
	}
}

func (v *questionnaireView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.loadInstrument())
}

func (v *questionnaireView) loadInstrument() tea.Cmd {
	backend := v.state.App.Backend
	return func() tea.Msg {
		raw, err := backend.GetInstrument(context.Background())
		return instrumentLoadedMsg{raw: raw, err: err}
	}
}

// Close writes any pending draft and stops autosave.
func (v *questionnaireView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.machine.Flush()
	v.machine.Close()
}

func (v *questionnaireView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case instrumentLoadedMsg:
		v.loading = false
		v.loadErr = msg.err
		if msg.err != nil {
			return v, nil
		}
		if err := v.machine.Load(msg.raw); err != nil {
			return v, nil
		}
		v.machine.Hydrate(context.Background())
		return v, v.syncStep()

	case submitResultMsg:
		return v, v.handleSubmitResult(msg.err)

	case spinner.TickMsg:
		if !v.loading && v.machine.Phase() != wizard.PhaseSubmitting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}

	if v.comment.Focused() {
		var cmd tea.Cmd
		v.comment, cmd = v.comment.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *questionnaireView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, v.keys.leave) {
		v.Close()
		return quit
	}
	if v.loading {
		return nil
	}
	if v.loadErr != nil {
		if key.Matches(msg, v.keys.retry) {
			v.loading = true
			v.loadErr = nil
			return tea.Batch(v.spinner.Tick, v.loadInstrument())
		}
		return nil
	}

	v.refreshKeys()
	defer v.refreshKeys()
	switch v.machine.Phase() {
	case wizard.PhaseAnswering:
		return v.handleAnswerKey(msg)
	case wizard.PhaseComment:
		return v.handleCommentKey(msg)
	}
	return nil
}

// refreshKeys disables "next" while the current question has gaps.
func (v *questionnaireView) refreshKeys() {
	v.keys.next.SetEnabled(v.machine.CanGoNext())
}

func (v *questionnaireView) handleAnswerKey(msg tea.KeyMsg) tea.Cmd {
	q, ok := v.machine.Current()
	if !ok {
		return nil
	}
	v.notice = ""

	switch {
	case key.Matches(msg, v.keys.submit):
		return v.submit()
	case key.Matches(msg, v.keys.up):
		if v.row > 0 {
			v.row--
		}
	case key.Matches(msg, v.keys.down):
		if v.row < len(q.Cards)-1 {
			v.row++
		}
	case key.Matches(msg, v.keys.left):
		v.stepOption(q, -1)
	case key.Matches(msg, v.keys.right):
		v.stepOption(q, 1)
	case key.Matches(msg, v.keys.next):
		_ = v.machine.GoNext()
		return v.syncStep()
	case key.Matches(msg, v.keys.prev):
		_ = v.machine.GoPrev()
		return v.syncStep()
	default:
		if n, ok := optionNumber(msg); ok {
			v.pickOption(q, n-1)
		}
	}
	return nil
}

func (v *questionnaireView) handleCommentKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.submit):
		return v.submit()
	case key.Matches(msg, v.keys.back):
		_ = v.machine.GoPrev()
		return v.syncStep()
	}

	var cmd tea.Cmd
	v.comment, cmd = v.comment.Update(msg)
	if err := v.machine.SetComment(v.comment.Value()); errors.Is(err, wizard.ErrCommentTooLong) {
		v.notice = fmt.Sprintf("El comentario no puede exceder %d caracteres.", wizard.MaxCommentRunes)
	} else {
		v.notice = ""
	}
	return cmd
}

// pickOption answers the focused card with option i and moves to the next card.
func (v *questionnaireView) pickOption(q domain.Question, i int) {
	if v.row >= len(q.Cards) {
		return
	}
	card := q.Cards[v.row]
	scale, ok := v.machine.Scale(card.ScaleID)
	if !ok || i < 0 || i >= len(scale.Options) {
		return
	}
	if err := v.machine.SetAnswer(q.ID, card.Dimension, scale.Options[i].Value); err != nil {
		return
	}
	if v.row < len(q.Cards)-1 {
		v.row++
	}
}

// stepOption moves the focused card's answer by delta options.
func (v *questionnaireView) stepOption(q domain.Question, delta int) {
	if v.row >= len(q.Cards) {
		return
	}
	card := q.Cards[v.row]
	scale, ok := v.machine.Scale(card.ScaleID)
	if !ok || len(scale.Options) == 0 {
		return
	}
	i := 0
	if cur, answered := v.machine.Answer(q.ID, card.Dimension); answered {
		i = optionIndex(scale, cur) + delta
	}
	if i < 0 {
		i = 0
	}
	if i >= len(scale.Options) {
		i = len(scale.Options) - 1
	}
	_ = v.machine.SetAnswer(q.ID, card.Dimension, scale.Options[i].Value)
}

func (v *questionnaireView) submit() tea.Cmd {
	m := v.machine
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return submitResultMsg{err: m.Submit(context.Background())}
	})
}

func (v *questionnaireView) handleSubmitResult(err error) tea.Cmd {
	var incomplete *wizard.IncompleteError
	var short *wizard.CountError
	switch {
	case err == nil:
		return replaceView(newDoneView(v.state, v.machine.SurveyID()))
	case errors.As(err, &incomplete):
		v.notice = fmt.Sprintf("Falta responder el paso %d.", incomplete.Index+1)
	case errors.As(err, &short):
		v.notice = fmt.Sprintf("Faltan respuestas: %d de %d.", short.Answered, short.Expected)
	case errors.Is(err, wizard.ErrSubmitInFlight):
		return nil
	default:
		v.notice = "No se pudo enviar la encuesta. Tus respuestas siguen guardadas; intenta de nuevo."
	}
	return v.syncStep()
}

// syncStep resets the card cursor and textarea focus after the step changes.
func (v *questionnaireView) syncStep() tea.Cmd {
	v.refreshKeys()
	step := v.machine.Step()
	if step != v.lastStep {
		v.row = 0
		v.lastStep = step
	}
	if v.machine.Phase() == wizard.PhaseComment {
		if !v.comment.Focused() {
			v.comment.SetValue(v.machine.Comment())
			return v.comment.Focus()
		}
		return nil
	}
	v.comment.Blur()
	return nil
}

func (v *questionnaireView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if v.loading {
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Cargando instrumento...") + "\n")
		return b.String()
	}
	if v.loadErr != nil {
		b.WriteString("  " + formatter.Fail("No se pudo cargar el instrumento: "+v.loadErr.Error()) + "\n")
		b.WriteString("  " + formatter.Dim("Presiona r para reintentar.") + "\n")
		return b.String()
	}

	switch v.machine.Phase() {
	case wizard.PhaseNoQuestions:
		b.WriteString("  " + formatter.Warn("El instrumento se cargó, pero no se detectaron preguntas.") + "\n\n")
		b.WriteString(formatter.FormatShape(v.machine.Shape()))
		return b.String()
	case wizard.PhaseSubmitting:
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Enviando respuestas...") + "\n")
		return b.String()
	}

	meta := v.machine.Meta()
	if meta.Name != "" {
		b.WriteString("  " + formatter.Bold(meta.Name) + "\n")
	}
	b.WriteString("  " + formatter.FormatProgressLine(v.machine.Progress(), questionnaireBarWidth) + "\n\n")

	if v.machine.Phase() == wizard.PhaseComment {
		b.WriteString("  " + formatter.Bold("¿Quieres agregar un comentario?") + "\n\n")
		b.WriteString(v.comment.View() + "\n")
	} else if q, ok := v.machine.Current(); ok {
		v.renderQuestion(&b, q)
	}

	if v.notice != "" {
		b.WriteString("\n  " + formatter.StyleYellow.Render(v.notice) + "\n")
	}
	return b.String()
}

func (v *questionnaireView) renderQuestion(b *strings.Builder, q domain.Question) {
	if q.GroupLabel != "" {
		b.WriteString("  " + formatter.Dim(q.GroupLabel) + "\n")
	}
	b.WriteString("  " + formatter.Bold(q.Stem) + "\n\n")

	for i, card := range q.Cards {
		cursor := "  "
		if i == v.row {
			cursor = formatter.StyleAccent.Render("› ")
		}
		prompt := card.Prompt
		if prompt == "" {
			prompt = string(card.Dimension)
		}
		if card.Required {
			prompt += " *"
		}
		b.WriteString(cursor + prompt + "\n")

		scale, ok := v.machine.Scale(card.ScaleID)
		if !ok {
			b.WriteString("    " + formatter.Dim("(escala no disponible)") + "\n\n")
			continue
		}
		cur, answered := v.machine.Answer(q.ID, card.Dimension)
		opts := make([]string, 0, len(scale.Options))
		for j, o := range scale.Options {
			label := fmt.Sprintf("%d %s", j+1, o.Label)
			if answered && o.Value == cur {
				opts = append(opts, formatter.StyleSelected.Render(label))
			} else {
				opts = append(opts, formatter.StyleOption.Render(label))
			}
		}
		b.WriteString("    " + strings.Join(opts, " ") + "\n\n")
	}
}

func (v *questionnaireView) ID() ViewID    { return ViewQuestionnaire }
func (v *questionnaireView) Title() string { return "Cuestionario" }
func (v *questionnaireView) ShortHelp() []key.Binding {
	switch {
	case v.loadErr != nil:
		return []key.Binding{v.keys.retry, v.keys.leave}
	case v.loading:
		return []key.Binding{v.keys.leave}
	}
	switch v.machine.Phase() {
	case wizard.PhaseAnswering:
		return []key.Binding{v.keys.up, v.keys.left, v.keys.next, v.keys.prev, v.keys.submit, v.keys.leave}
	case wizard.PhaseComment:
		return []key.Binding{v.keys.back, v.keys.submit, v.keys.leave}
	}
	return []key.Binding{v.keys.leave}
}

// optionNumber maps the keys 1-9 to option numbers.
func optionNumber(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// optionIndex returns the index of value in the scale, or -1.
func optionIndex(s domain.Scale, value float64) int {
	for i, o := range s.Options {
		if o.Value == value {
			return i
		}
	}
	return -1
}
