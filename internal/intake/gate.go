// Package intake decides whether a new survey may be started from this
// device, and starts or discards surveys accordingly.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultCentroLimit is how many centers the selector offers.
const DefaultCentroLimit = 50

var (
	// ErrDraftInProgress blocks a new survey while a draft can be resumed.
	ErrDraftInProgress = errors.New("a survey is already in progress on this device")
	// ErrBrowserCompleted blocks a new survey after a recent submission.
	ErrBrowserCompleted = errors.New("this device completed a survey recently")
	// ErrCenterLocked blocks a second survey for the same center.
	ErrCenterLocked = errors.New("a survey was started recently for this center")
)

// Backend is the part of the API the gate needs.
type Backend interface {
	ListCentros(ctx context.Context, limit int) ([]domain.Centro, error)
	ListGeneros(ctx context.Context) ([]domain.Genero, error)
	CreateEncuesta(ctx context.Context, req domain.NewEncuesta) (string, error)
}

// ProgressStore finds and removes drafts.
type ProgressStore interface {
	FindLatestInProgress(ctx context.Context) (domain.Draft, bool)
	Remove(ctx context.Context, surveyID string)
}

// LockStore reads and writes the soft locks.
type LockStore interface {
	ReadCenterLock(ctx context.Context, centerID string) (domain.ActiveLock, bool)
	WriteCenterLock(ctx context.Context, centerID, surveyID string)
	ClearCenterLock(ctx context.Context, centerID string)
	ClearLockBySurveyID(ctx context.Context, surveyID string) int
	ReadBrowserCompletionMark(ctx context.Context) (domain.ActiveLock, bool)
	ClearBrowserCompletionMark(ctx context.Context)
}

// BlockerKind names a reason a new survey cannot start.
type BlockerKind string

const (
	BlockerDraft       BlockerKind = "draft"
	BlockerBrowserMark BlockerKind = "browser-mark"
	BlockerCenterLock  BlockerKind = "center-lock"
)

// Blocker is one active reason a new survey cannot start.
type Blocker struct {
	Kind      BlockerKind
	SurveyID  string
	Remaining time.Duration
	Message   string
}

// Err returns the sentinel error for the blocker kind.
func (b Blocker) Err() error {
	switch b.Kind {
	case BlockerDraft:
		return ErrDraftInProgress
	case BlockerBrowserMark:
		return ErrBrowserCompleted
	default:
		return ErrCenterLocked
	}
}

// Decision is the outcome of the gating checks, in precedence order.
type Decision struct {
	Draft    *domain.Draft
	Blockers []Blocker
}

// CanStart reports whether nothing blocks a new survey. Field validity is
// checked separately by Validate.
func (d Decision) CanStart() bool {
	return len(d.Blockers) == 0
}

// Blocked reports whether a blocker of kind is active.
func (d Decision) Blocked(kind BlockerKind) bool {
	_, ok := d.Blocker(kind)
	return ok
}

// Blocker returns the active blocker of kind.
func (d Decision) Blocker(kind BlockerKind) (Blocker, bool) {
	for _, b := range d.Blockers {
		if b.Kind == kind {
			return b, true
		}
	}
	return Blocker{}, false
}

// Catalogs are the reference lists offered by the intake form.
type Catalogs struct {
	Centros []domain.Centro
	Generos []domain.Genero
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gate) { g.log = l }
}

// WithCentroLimit overrides DefaultCentroLimit.
func WithCentroLimit(n int) Option {
	return func(g *Gate) { g.centroLimit = n }
}

// Gate applies the one-survey-per-device policy.
type Gate struct {
	backend     Backend
	progress    ProgressStore
	locks       LockStore
	log         *logger.Logger
	centroLimit int
}

// NewGate creates a Gate.
func NewGate(backend Backend, progress ProgressStore, locks LockStore, opts ...Option) *Gate {
	g := &Gate{
		backend:     backend,
		progress:    progress,
		locks:       locks,
		log:         logger.Nop(),
		centroLimit: DefaultCentroLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoadCatalogs fetches centers and genders concurrently. Either failure
// fails the load.
func (g *Gate) LoadCatalogs(ctx context.Context) (Catalogs, error) {
	var cat Catalogs
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		centros, err := g.backend.ListCentros(ctx, g.centroLimit)
		if err != nil {
			return fmt.Errorf("loading centros: %w", err)
		}
		cat.Centros = centros
		return nil
	})
	eg.Go(func() error {
		generos, err := g.backend.ListGeneros(ctx)
		if err != nil {
			return fmt.Errorf("loading generos: %w", err)
		}
		cat.Generos = generos
		return nil
	})
	if err := eg.Wait(); err != nil {
		return Catalogs{}, err
	}
	return cat, nil
}

// Status runs the gating checks. centerID may be blank when no center has
// been chosen yet.
func (g *Gate) Status(ctx context.Context, centerID string) Decision {
	var d Decision

	if draft, ok := g.progress.FindLatestInProgress(ctx); ok {
		d.Draft = &draft
		d.Blockers = append(d.Blockers, Blocker{
			Kind:     BlockerDraft,
			SurveyID: draft.SurveyID,
			Message:  "Tienes una encuesta en progreso. Continúala o borra el progreso para iniciar otra.",
		})
	}
	if mark, ok := g.locks.ReadBrowserCompletionMark(ctx); ok {
		d.Blockers = append(d.Blockers, Blocker{
			Kind:      BlockerBrowserMark,
			SurveyID:  mark.SurveyID,
			Remaining: mark.Remaining,
			Message:   "Este dispositivo ya registró una encuesta recientemente. Intenta más tarde (restante aprox: " + FormatRemaining(mark.Remaining) + ").",
		})
	}
	if centerID != "" {
		if lk, ok := g.locks.ReadCenterLock(ctx, centerID); ok {
			d.Blockers = append(d.Blockers, Blocker{
				Kind:      BlockerCenterLock,
				SurveyID:  lk.SurveyID,
				Remaining: lk.Remaining,
				Message:   "Ya se inició una encuesta reciente para este centro en este dispositivo. Puedes continuarla o esperar " + FormatRemaining(lk.Remaining) + ".",
			})
		}
	}
	return d
}

// Start validates the form, re-checks the gate, creates the survey and
// locks its center. It returns the new survey id.
func (g *Gate) Start(ctx context.Context, form domain.IntakeForm) (string, error) {
	req, err := Validate(form)
	if err != nil {
		return "", err
	}
	centerID := strconv.FormatInt(req.CentroID, 10)
	if d := g.Status(ctx, centerID); !d.CanStart() {
		b := d.Blockers[0]
		return "", fmt.Errorf("%w: %s", b.Err(), b.Message)
	}

	surveyID, err := g.backend.CreateEncuesta(ctx, req)
	if err != nil {
		return "", fmt.Errorf("creating encuesta: %w", err)
	}
	g.locks.WriteCenterLock(ctx, centerID, surveyID)
	g.log.Info("survey started", "encuesta_id", surveyID, "centro_id", req.CentroID)
	return surveyID, nil
}

// Discard removes the draft of surveyID and every center lock bound to it.
// It returns how many locks were released.
func (g *Gate) Discard(ctx context.Context, surveyID string) int {
	if surveyID == "" {
		return 0
	}
	g.progress.Remove(ctx, surveyID)
	n := g.locks.ClearLockBySurveyID(ctx, surveyID)
	g.log.Info("draft discarded", "encuesta_id", surveyID, "locks_released", n)
	return n
}

// ClearCenterLock removes the lock for centerID regardless of its survey.
func (g *Gate) ClearCenterLock(ctx context.Context, centerID string) {
	g.locks.ClearCenterLock(ctx, centerID)
}

// ClearBrowserMark removes the device-wide completion mark.
func (g *Gate) ClearBrowserMark(ctx context.Context) {
	g.locks.ClearBrowserCompletionMark(ctx)
}
