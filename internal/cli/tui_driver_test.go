package cli

import (
	"testing"

	"github.com/mujeralerta/diagnostico/internal/teatest"
	"github.com/mujeralerta/diagnostico/internal/wizard"
)

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, active questionnaire) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets the terminal size and drains
// Init. An empty surveyID starts at the home view.
func NewTestDriver(t *testing.T, app *App, surveyID string) *TestDriver {
	t.Helper()

	d := teatest.New(t, newAppModel(app, surveyID), teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// Machine returns the wizard of the active questionnaire, or nil.
func (d *TestDriver) Machine() *wizard.Machine {
	m := d.appModel()
	if q, ok := m.activeView().(*questionnaireView); ok {
		return q.machine
	}
	return nil
}

// IsQuitting reports whether the app signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the transient output shown over the content area.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// AnswerCurrent answers every card of the current question with option n.
func (d *TestDriver) AnswerCurrent(n rune) {
	d.T.Helper()
	q, ok := d.Machine().Current()
	if !ok {
		d.T.Fatalf("no current question")
	}
	for range q.Cards {
		d.PressKey(n)
	}
}
