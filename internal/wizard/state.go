package wizard

import (
	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/instrument"
)

// Progress summarizes where the respondent is, for headers and progress bars.
type Progress struct {
	Step      int // zero-based; equals Total on the comment step
	Total     int
	OnComment bool
	Answered  int
	Expected  int
	Percent   float64
}

// Progress returns the current progress summary.
func (m *Machine) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := Progress{
		Step:      m.step,
		Total:     len(m.questions),
		OnComment: m.phase == PhaseComment || (m.phase == PhaseSubmitting && m.step == len(m.questions)),
		Expected:  m.expected,
		Answered:  m.answeredCount(),
	}
	if p.Expected > 0 {
		p.Percent = float64(p.Answered) / float64(p.Expected) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}

func (m *Machine) SurveyID() string { return m.surveyID }

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Machine) Step() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Current returns the question at the current step. It reports false on
// the comment step and before a successful Load.
func (m *Machine) Current() (domain.Question, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step < 0 || m.step >= len(m.questions) {
		return domain.Question{}, false
	}
	return m.questions[m.step], true
}

// Questions returns the flattened question sequence.
func (m *Machine) Questions() []domain.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Question, len(m.questions))
	copy(out, m.questions)
	return out
}

// Answers returns a copy of the recorded answers.
func (m *Machine) Answers() domain.Answers {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.answers.Clone()
}

// Answer returns the value recorded for one card.
func (m *Machine) Answer(questionID string, dim domain.Dimension) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.AnswerKey(questionID, dim)
	if !m.answers.Has(key) {
		return 0, false
	}
	return m.answers[key], true
}

func (m *Machine) Comment() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.comment
}

func (m *Machine) Meta() domain.InstrumentMeta {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta
}

// Scale looks up a scale of the loaded instrument.
func (m *Machine) Scale(id string) (domain.Scale, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return domain.Scale{}, false
	}
	return instrument.ExtractScale(m.raw, id)
}

// Shape describes the loaded payload, for the no-questions diagnostic.
func (m *Machine) Shape() instrument.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return instrument.Describe(map[string]any{})
	}
	return instrument.Describe(m.raw)
}

// LastError returns the error of the last failed submission attempt, or nil.
func (m *Machine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
