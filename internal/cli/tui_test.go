package cli

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/testutil"
	"github.com/mujeralerta/diagnostico/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUI_FreshDeviceOpensIntakeForm(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, "")

	assert.Equal(t, []ViewID{ViewHome, ViewForm}, d.ViewStackIDs())
	assert.Contains(t, d.View(), "Centro")
}

func TestTUI_IntakeFormStartsQuestionnaire(t *testing.T) {
	app, be := testApp(t)
	d := NewTestDriver(t, app, "")
	require.Equal(t, ViewForm, d.ActiveViewID())

	d.PressEnter() // centro: first option
	d.PressEnter() // género: first option
	d.Type("20")
	d.PressEnter() // edad
	d.PressEnter() // email left blank

	require.Equal(t, ViewQuestionnaire, d.ActiveViewID())
	created := be.Created()
	require.Len(t, created, 1)
	assert.Equal(t, domain.NewEncuesta{CentroID: 1, GeneroID: 1, Edad: 20}, created[0])

	lk, ok := app.Locks.ReadCenterLock(context.Background(), "1")
	require.True(t, ok)
	assert.Equal(t, "enc-1", lk.SurveyID)
	assert.Equal(t, wizard.PhaseAnswering, d.Machine().Phase())
}

func TestTUI_EscCancelsIntakeForm(t *testing.T) {
	app, be := testApp(t)
	d := NewTestDriver(t, app, "")

	d.PressEsc()
	assert.Equal(t, []ViewID{ViewHome}, d.ViewStackIDs())
	assert.Contains(t, d.LastOutput(), "Cancelado.")
	assert.Empty(t, be.Created())

	// n reopens the form once the notice is dismissed.
	d.PressKey('n')
	assert.Equal(t, ViewForm, d.ActiveViewID())
}

func TestTUI_CompletionMarkBlocksNewSurvey(t *testing.T) {
	app, _ := testApp(t)
	app.Locks.WriteBrowserCompletionMark(context.Background(), "enc-old")

	d := NewTestDriver(t, app, "")
	assert.Equal(t, []ViewID{ViewHome}, d.ViewStackIDs())
	assert.Contains(t, d.View(), "Este dispositivo ya registró una encuesta recientemente")

	d.PressKey('n')
	assert.Equal(t, ViewHome, d.ActiveViewID())
}

func TestTUI_ResumePromptContinuesDraft(t *testing.T) {
	app, _ := testApp(t)
	seedDraft(t, app, "enc-7", 1, domain.Answers{"P1:frecuencia": 1, "P1:normalidad": 2, "P1:gravedad": 3})

	d := NewTestDriver(t, app, "")
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "Tienes una encuesta en progreso")

	d.PressEnter() // Continuar

	require.Equal(t, ViewQuestionnaire, d.ActiveViewID())
	m := d.Machine()
	assert.Equal(t, "enc-7", m.SurveyID())
	assert.Equal(t, 1, m.Step())
	v, ok := m.Answer("P1", domain.DimensionNormalidad)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.Contains(t, d.View(), "Paso 2 de 2")
}

func TestTUI_ResumePromptDiscardsDraft(t *testing.T) {
	app, _ := testApp(t)
	ctx := context.Background()
	seedDraft(t, app, "enc-7", 1, domain.Answers{"P1:frecuencia": 1})
	app.Locks.WriteCenterLock(ctx, "1", "enc-7")

	d := NewTestDriver(t, app, "")
	require.Equal(t, ViewForm, d.ActiveViewID())

	d.PressDown()
	d.PressEnter() // Borrar progreso guardado

	_, ok := app.Progress.Read(ctx, "enc-7")
	assert.False(t, ok)
	_, ok = app.Locks.ReadCenterLock(ctx, "1")
	assert.False(t, ok)

	// With the draft gone the intake form opens.
	assert.Equal(t, []ViewID{ViewHome, ViewForm}, d.ViewStackIDs())
	assert.Contains(t, d.View(), "Centro")
}

func TestTUI_ResumePromptExit(t *testing.T) {
	app, _ := testApp(t)
	seedDraft(t, app, "enc-7", 1, domain.Answers{"P1:frecuencia": 1})

	d := NewTestDriver(t, app, "")
	d.PressDown()
	d.PressDown()
	d.PressEnter() // Salir

	assert.True(t, d.IsQuitting())
	_, ok := app.Progress.Read(context.Background(), "enc-7")
	assert.True(t, ok, "exiting keeps the draft")
}

func TestTUI_AnswerAndSubmit(t *testing.T) {
	app, be := testApp(t)
	ctx := context.Background()
	app.Locks.WriteCenterLock(ctx, "1", "enc-1")

	d := NewTestDriver(t, app, "enc-1")
	require.Equal(t, ViewQuestionnaire, d.ActiveViewID())
	assert.Contains(t, d.View(), "Paso 1 de 2")
	assert.Contains(t, d.View(), "Psicológica")

	d.AnswerCurrent('3')
	d.PressEnter()
	assert.Equal(t, 1, d.Machine().Step())

	d.AnswerCurrent('5')
	d.PressEnter()
	assert.Equal(t, wizard.PhaseComment, d.Machine().Phase())
	assert.Contains(t, d.View(), "Comentario final")

	d.Type("hola")
	assert.Equal(t, "hola", d.Machine().Comment())

	d.Press(tea.KeyCtrlS)

	require.Equal(t, ViewDone, d.ActiveViewID())
	subs := be.Submitted()
	require.Len(t, subs, 1)
	assert.Equal(t, "enc-1", subs[0].EncuestaID)
	assert.Len(t, subs[0].Respuestas, 6)
	require.NotNil(t, subs[0].Comentario)
	assert.Equal(t, "hola", *subs[0].Comentario)

	_, ok := app.Progress.Read(ctx, "enc-1")
	assert.False(t, ok, "draft removed after submit")
	_, ok = app.Locks.ReadCenterLock(ctx, "1")
	assert.False(t, ok, "center lock released after submit")
	mark, ok := app.Locks.ReadBrowserCompletionMark(ctx)
	require.True(t, ok)
	assert.Equal(t, "enc-1", mark.SurveyID)

	assert.Contains(t, d.View(), "GRACIAS")
	assert.Contains(t, d.View(), "RESUMEN DE LA ENCUESTA")

	d.PressEnter()
	assert.True(t, d.IsQuitting())
}

func TestTUI_NextIsBlockedUntilStepComplete(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, "enc-1")

	assert.NotContains(t, d.View(), "enter: siguiente", "next is hidden while the step has gaps")

	d.PressKey('2')
	d.PressEnter()
	d.PressKey('n')
	assert.Equal(t, 0, d.Machine().Step())
	assert.NotContains(t, d.View(), "enter: siguiente")

	d.PressKey('2')
	d.PressKey('2')
	assert.True(t, d.Machine().CanGoNext())
	assert.Contains(t, d.View(), "enter: siguiente")

	d.PressEnter()
	assert.Equal(t, 1, d.Machine().Step())
	assert.NotContains(t, d.View(), "enter: siguiente")
}

func TestTUI_ArrowKeysMoveAcrossOptionsAndCards(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, "enc-1")
	m := d.Machine()

	d.PressRight()
	v, ok := m.Answer("P1", domain.DimensionFrecuencia)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	d.PressRight()
	d.PressRight()
	v, _ = m.Answer("P1", domain.DimensionFrecuencia)
	assert.Equal(t, 3.0, v)

	d.PressLeft()
	v, _ = m.Answer("P1", domain.DimensionFrecuencia)
	assert.Equal(t, 2.0, v)

	d.PressDown()
	d.PressKey('4')
	v, ok = m.Answer("P1", domain.DimensionNormalidad)
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	// Out-of-range option numbers are ignored.
	d.PressKey('9')
	_, ok = m.Answer("P1", domain.DimensionGravedad)
	assert.False(t, ok)
}

func TestTUI_PrevReturnsToEarlierStep(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, "enc-1")

	d.AnswerCurrent('1')
	d.PressEnter()
	require.Equal(t, 1, d.Machine().Step())

	d.PressKey('p')
	assert.Equal(t, 0, d.Machine().Step())
}

func TestTUI_SubmitWithGapJumpsToStep(t *testing.T) {
	app, be := testApp(t)
	d := NewTestDriver(t, app, "enc-1")

	d.Press(tea.KeyCtrlS)

	assert.Equal(t, ViewQuestionnaire, d.ActiveViewID())
	assert.Contains(t, d.View(), "Falta responder el paso 1.")
	assert.Empty(t, be.Submitted())
}

func TestTUI_SubmitFailureKeepsDraft(t *testing.T) {
	app, be := testApp(t)
	be.submitErr = errors.New("backend down")
	d := NewTestDriver(t, app, "enc-1")

	d.AnswerCurrent('1')
	d.PressEnter()
	d.AnswerCurrent('1')
	d.PressEnter()
	d.Press(tea.KeyCtrlS)

	assert.Equal(t, ViewQuestionnaire, d.ActiveViewID())
	assert.Equal(t, wizard.PhaseComment, d.Machine().Phase())
	assert.Contains(t, d.View(), "No se pudo enviar la encuesta.")

	d.PressEsc()
	assert.True(t, d.IsQuitting())
	snap, ok := app.Progress.Read(context.Background(), "enc-1")
	require.True(t, ok)
	assert.Len(t, snap.Answers, 6)
}

func TestTUI_EscFlushesPendingDraft(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, "enc-1")

	d.PressKey('4')
	_, ok := app.Progress.Read(context.Background(), "enc-1")
	require.False(t, ok, "autosave is still pending")

	d.PressEsc()
	assert.True(t, d.IsQuitting())

	snap, ok := app.Progress.Read(context.Background(), "enc-1")
	require.True(t, ok)
	assert.Equal(t, 4.0, snap.Answers["P1:frecuencia"])
}

func TestTUI_InstrumentWithoutQuestions(t *testing.T) {
	app, be := testApp(t)
	be.instrument = testutil.NewTestInstrument([]any{}, testutil.WithGroupsKey("types"))

	d := NewTestDriver(t, app, "enc-1")

	assert.Equal(t, wizard.PhaseNoQuestions, d.Machine().Phase())
	view := d.View()
	assert.Contains(t, view, "no se detectaron preguntas")
	assert.Contains(t, view, "array (len=0)")
}

func TestTUI_InstrumentLoadErrorCanRetry(t *testing.T) {
	app, be := testApp(t)
	be.instrumentErr = errors.New("unreachable")

	d := NewTestDriver(t, app, "enc-1")
	assert.Contains(t, d.View(), "No se pudo cargar el instrumento")

	be.mu.Lock()
	be.instrumentErr = nil
	be.mu.Unlock()
	d.PressKey('r')
	assert.Equal(t, wizard.PhaseAnswering, d.Machine().Phase())
}

func TestTUI_CatalogErrorOnHome(t *testing.T) {
	app, be := testApp(t)
	be.catalogErr = errors.New("503")

	d := NewTestDriver(t, app, "")
	assert.Equal(t, []ViewID{ViewHome}, d.ViewStackIDs())
	assert.Contains(t, d.View(), "No se pudieron cargar los catálogos")
}
