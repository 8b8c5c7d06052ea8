// Package wizard drives the step-by-step questionnaire: one step per
// question plus a trailing comment step, with debounced autosave of the
// draft and a guarded final submission.
package wizard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/instrument"
	"github.com/mujeralerta/diagnostico/internal/logger"
)

// MaxCommentRunes is the longest comment the backend accepts.
const MaxCommentRunes = 2000

// DefaultAutosaveDelay is the quiet period before a draft is written.
const DefaultAutosaveDelay = 250 * time.Millisecond

// Phase is the coarse state of the wizard.
type Phase string

const (
	PhaseLoading     Phase = "loading-instrument"
	PhaseNoQuestions Phase = "no-questions"
	PhaseAnswering   Phase = "answering"
	PhaseComment     Phase = "comment-step"
	PhaseSubmitting  Phase = "submitting"
	PhaseDone        Phase = "done"
)

// ProgressStore persists drafts. Implementations swallow storage failures.
type ProgressStore interface {
	Read(ctx context.Context, surveyID string) (domain.Snapshot, bool)
	Write(ctx context.Context, surveyID string, snap domain.Snapshot)
	Remove(ctx context.Context, surveyID string)
}

// LockStore releases soft locks once a survey is submitted.
type LockStore interface {
	ClearLockBySurveyID(ctx context.Context, surveyID string) int
	WriteBrowserCompletionMark(ctx context.Context, surveyID string)
}

// Submitter sends the final answers to the backend.
type Submitter interface {
	SubmitRespuestas(ctx context.Context, sub domain.RespuestasSubmission) (int, error)
}

// Deps are the collaborators of a Machine.
type Deps struct {
	Progress  ProgressStore
	Locks     LockStore
	Submitter Submitter
}

// Option configures a Machine.
type Option func(*Machine)

// WithScheduler replaces the wall-clock timer used for autosave.
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) { m.schedule = s }
}

// WithAutosaveDelay overrides DefaultAutosaveDelay. Non-positive keeps it.
func WithAutosaveDelay(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// Machine is the questionnaire state machine for one survey. It is safe for
// concurrent use: the autosave timer fires on its own goroutine.
type Machine struct {
	surveyID string
	deps     Deps
	log      *logger.Logger
	schedule Scheduler
	delay    time.Duration
	autosave *debouncer

	// writeMu orders draft writes against the post-submit removal.
	writeMu sync.Mutex

	mu        sync.Mutex
	phase     Phase
	raw       map[string]any
	questions []domain.Question
	meta      domain.InstrumentMeta
	expected  int
	step      int
	answers   domain.Answers
	comment   string
	hydrated  bool
	inFlight  bool
	closed    bool
	lastErr   error
}

// New creates a Machine for surveyID in the loading phase.
func New(surveyID string, deps Deps, opts ...Option) *Machine {
	m := &Machine{
		surveyID: surveyID,
		deps:     deps,
		log:      logger.Nop(),
		schedule: TimerScheduler,
		delay:    DefaultAutosaveDelay,
		phase:    PhaseLoading,
		answers:  domain.Answers{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.autosave = newDebouncer(m.schedule, m.delay, m.save)
	return m
}

// Load installs the instrument payload. With no usable questions the
// wizard enters PhaseNoQuestions and ErrNoQuestions is returned.
func (m *Machine) Load(raw map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseLoading && m.phase != PhaseNoQuestions {
		return ErrNotEditable
	}

	inst := instrument.Unwrap(raw)
	m.raw = inst
	m.questions = instrument.FlattenQuestions(inst)
	m.meta = instrument.Meta(inst)
	m.expected = instrument.ExpectedResponses(inst, m.questions)
	m.step = 0

	if len(m.questions) == 0 {
		m.phase = PhaseNoQuestions
		m.log.Warn("instrument has no questions", "encuesta_id", m.surveyID)
		return ErrNoQuestions
	}
	m.phase = PhaseAnswering
	return nil
}

// Hydrate restores the saved draft, once. Calls before a successful Load
// do nothing and do not use up the single hydration. It reports whether a
// draft was restored.
func (m *Machine) Hydrate(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hydrated || len(m.questions) == 0 || m.phase != PhaseAnswering {
		return false
	}
	m.hydrated = true

	snap, ok := m.deps.Progress.Read(ctx, m.surveyID)
	if !ok {
		return false
	}
	m.step = clamp(snap.QIndex, 0, len(m.questions))
	m.answers = snap.Answers.Clone()
	if m.answers == nil {
		m.answers = domain.Answers{}
	}
	m.comment = snap.Comment
	m.syncPhase()
	m.log.Debug("draft restored", "encuesta_id", m.surveyID, "step", m.step, "answers", len(m.answers))
	return true
}

// SetAnswer records value for the dimension of questionID.
func (m *Machine) SetAnswer(questionID string, dim domain.Dimension, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidValue
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editable() {
		return ErrNotEditable
	}
	m.answers[domain.AnswerKey(questionID, dim)] = value
	m.lastErr = nil
	m.autosave.trigger()
	return nil
}

// SetComment replaces the free-text comment.
func (m *Machine) SetComment(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) > MaxCommentRunes {
		return ErrCommentTooLong
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editable() {
		return ErrNotEditable
	}
	if text == m.comment {
		return nil
	}
	m.comment = text
	m.autosave.trigger()
	return nil
}

// CanSubmit reports whether Submit would reach the backend.
func (m *Machine) CanSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editable() && !m.inFlight && len(m.questions) > 0 &&
		m.firstIncomplete() < 0 && m.answeredCount() >= m.expected
}

// CanGoNext reports whether GoNext would move forward.
func (m *Machine) CanGoNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseAnswering && m.answers.QuestionComplete(m.questions[m.step])
}

// GoNext advances one step. The last question leads to the comment step;
// on the comment step it does nothing.
func (m *Machine) GoNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case PhaseAnswering:
	case PhaseComment:
		return nil
	default:
		return ErrNotEditable
	}
	if !m.answers.QuestionComplete(m.questions[m.step]) {
		return ErrStepIncomplete
	}
	m.moveTo(m.step + 1)
	return nil
}

// GoPrev moves back one step, stopping at the first question.
func (m *Machine) GoPrev() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editable() {
		return ErrNotEditable
	}
	m.moveTo(m.step - 1)
	return nil
}

// FindFirstIncompleteQuestionIndex returns the index of the first question
// with an unanswered required card, or -1.
func (m *Machine) FindFirstIncompleteQuestionIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.firstIncomplete()
}

// Submit sends the answers. Gaps in required answers, or fewer answers than
// the instrument expects, move the wizard to the first incomplete question
// and return *IncompleteError without contacting the backend. On success the
// draft and this survey's locks are released and the device is marked as
// having completed a survey.
func (m *Machine) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrSubmitInFlight
	}
	if len(m.questions) == 0 {
		m.mu.Unlock()
		return ErrNoQuestions
	}
	if !m.editable() {
		m.mu.Unlock()
		return ErrNotEditable
	}
	if idx := m.firstIncomplete(); idx >= 0 {
		m.moveTo(idx)
		err := &IncompleteError{Index: idx, QuestionID: m.questions[idx].ID}
		m.lastErr = err
		m.mu.Unlock()
		return err
	}
	if answered := m.answeredCount(); answered < m.expected {
		var err error
		if idx := m.firstUnanswered(); idx >= 0 {
			m.moveTo(idx)
			err = &IncompleteError{Index: idx, QuestionID: m.questions[idx].ID}
		} else {
			err = &CountError{Answered: answered, Expected: m.expected}
		}
		m.lastErr = err
		m.mu.Unlock()
		return err
	}

	sub := m.buildSubmission()
	m.inFlight = true
	m.phase = PhaseSubmitting
	m.lastErr = nil
	m.mu.Unlock()

	inserted, err := m.deps.Submitter.SubmitRespuestas(ctx, sub)

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		m.step = len(m.questions)
		m.phase = PhaseComment
		m.lastErr = err
		m.mu.Unlock()
		m.log.Warn("submit failed", "encuesta_id", m.surveyID, "error", err)
		return fmt.Errorf("submitting responses: %w", err)
	}
	m.phase = PhaseDone
	m.mu.Unlock()

	m.autosave.drop()
	m.writeMu.Lock()
	m.deps.Progress.Remove(ctx, m.surveyID)
	m.writeMu.Unlock()
	if m.deps.Locks != nil {
		m.deps.Locks.ClearLockBySurveyID(ctx, m.surveyID)
		m.deps.Locks.WriteBrowserCompletionMark(ctx, m.surveyID)
	}
	m.log.Info("survey submitted", "encuesta_id", m.surveyID, "answers", len(sub.Respuestas), "inserted", inserted)
	return nil
}

// Flush writes a pending autosave immediately.
func (m *Machine) Flush() {
	m.autosave.flush()
}

// Close cancels any pending autosave. The machine ignores later edits.
func (m *Machine) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.autosave.stop()
}

func (m *Machine) save() {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	if m.closed || m.phase == PhaseDone || len(m.questions) == 0 {
		m.mu.Unlock()
		return
	}
	snap := domain.Snapshot{
		Version: domain.SnapshotVersion,
		QIndex:  m.step,
		Comment: m.comment,
		Answers: m.answers.Clone(),
	}
	m.mu.Unlock()
	m.deps.Progress.Write(context.Background(), m.surveyID, snap)
}

func (m *Machine) buildSubmission() domain.RespuestasSubmission {
	sub := domain.RespuestasSubmission{EncuestaID: m.surveyID}
	for _, q := range m.questions {
		for _, c := range q.Cards {
			key := domain.AnswerKey(q.ID, c.Dimension)
			if !m.answers.Has(key) {
				continue
			}
			sub.Respuestas = append(sub.Respuestas, domain.Respuesta{
				PreguntaID: q.ID,
				Dimension:  c.Dimension,
				Valor:      m.answers[key],
			})
		}
	}
	if c := strings.TrimSpace(m.comment); c != "" {
		sub.Comentario = &c
	}
	return sub
}

func (m *Machine) firstIncomplete() int {
	for i, q := range m.questions {
		for _, c := range q.Cards {
			if c.Required && !m.answers.Has(domain.AnswerKey(q.ID, c.Dimension)) {
				return i
			}
		}
	}
	return -1
}

// firstUnanswered returns the first question with any unanswered card,
// optional ones included.
func (m *Machine) firstUnanswered() int {
	for i, q := range m.questions {
		if !m.answers.QuestionComplete(q) {
			return i
		}
	}
	return -1
}

func (m *Machine) answeredCount() int {
	n := 0
	for _, q := range m.questions {
		for _, c := range q.Cards {
			if m.answers.Has(domain.AnswerKey(q.ID, c.Dimension)) {
				n++
			}
		}
	}
	return n
}

// moveTo sets the step, clamped to [0, len(questions)], and schedules an
// autosave when it changed.
func (m *Machine) moveTo(step int) {
	step = clamp(step, 0, len(m.questions))
	if step == m.step {
		m.syncPhase()
		return
	}
	m.step = step
	m.syncPhase()
	m.autosave.trigger()
}

func (m *Machine) syncPhase() {
	if m.step >= len(m.questions) {
		m.phase = PhaseComment
		return
	}
	m.phase = PhaseAnswering
}

func (m *Machine) editable() bool {
	return !m.closed && (m.phase == PhaseAnswering || m.phase == PhaseComment)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
