// Package progress persists in-progress questionnaire drafts, one per survey
// instance. Every operation is best-effort: storage failures and malformed
// entries are logged and reported as "absent", never returned to the caller.
package progress

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/kvstore"
	"github.com/mujeralerta/diagnostico/internal/logger"
)

const (
	keyPrefix = "mujer_alerta:diagnostico:"
	keySuffix = ":v1"
)

// Key returns the storage key of the draft for surveyID.
func Key(surveyID string) string {
	return keyPrefix + surveyID + keySuffix
}

// surveyIDFromKey extracts the survey id from a draft key.
func surveyIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, keySuffix) {
		return "", false
	}
	if len(key) < len(keyPrefix)+len(keySuffix) {
		return "", false
	}
	id := strings.TrimSpace(key[len(keyPrefix) : len(key)-len(keySuffix)])
	return id, id != ""
}

// Store reads and writes draft snapshots.
type Store struct {
	kv  kvstore.Store
	log *logger.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store over kv.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{kv: kv, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wireSnapshot is the persisted JSON layout.
type wireSnapshot struct {
	V         int                `json:"v"`
	UpdatedAt int64              `json:"updated_at"`
	QIndex    int                `json:"qIndex"`
	Comment   string             `json:"comentario"`
	Answers   map[string]float64 `json:"answers"`
}

// Read returns the draft for surveyID. ok is false when the draft is
// missing, unreadable, or fails validation.
func (s *Store) Read(ctx context.Context, surveyID string) (domain.Snapshot, bool) {
	raw, ok, err := s.kv.Get(ctx, Key(surveyID))
	if err != nil {
		s.log.Warn("progress read failed", "survey_id", surveyID, "error", err)
		return domain.Snapshot{}, false
	}
	if !ok || raw == "" {
		return domain.Snapshot{}, false
	}
	snap, ok := parseSnapshot(raw)
	if !ok {
		s.log.Debug("discarding malformed progress", "survey_id", surveyID)
	}
	return snap, ok
}

// Write stores snap as the draft for surveyID. A zero UpdatedAt is stamped
// with the store clock.
func (s *Store) Write(ctx context.Context, surveyID string, snap domain.Snapshot) {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = s.now()
	}
	answers := make(map[string]float64, len(snap.Answers))
	for k, v := range snap.Answers {
		if snap.Answers.Has(k) {
			answers[k] = v
		}
	}
	data, err := json.Marshal(wireSnapshot{
		V:         domain.SnapshotVersion,
		UpdatedAt: snap.UpdatedAt.UnixMilli(),
		QIndex:    snap.QIndex,
		Comment:   snap.Comment,
		Answers:   answers,
	})
	if err != nil {
		s.log.Warn("progress encode failed", "survey_id", surveyID, "error", err)
		return
	}
	if err := s.kv.Set(ctx, Key(surveyID), string(data)); err != nil {
		s.log.Warn("progress write failed", "survey_id", surveyID, "error", err)
	}
}

// Remove deletes the draft for surveyID.
func (s *Store) Remove(ctx context.Context, surveyID string) {
	if err := s.kv.Remove(ctx, Key(surveyID)); err != nil {
		s.log.Warn("progress remove failed", "survey_id", surveyID, "error", err)
	}
}

// FindLatestInProgress scans every stored draft and returns the most
// recently updated one that has content worth resuming.
func (s *Store) FindLatestInProgress(ctx context.Context) (domain.Draft, bool) {
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		s.log.Warn("progress scan failed", "error", err)
		return domain.Draft{}, false
	}

	var best domain.Draft
	found := false
	for _, k := range keys {
		id, ok := surveyIDFromKey(k)
		if !ok {
			continue
		}
		raw, ok, err := s.kv.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		snap, ok := parseSnapshot(raw)
		if !ok || !snap.HasContent() {
			continue
		}
		if !found || snap.UpdatedAt.After(best.Snapshot.UpdatedAt) {
			best = domain.Draft{SurveyID: id, Snapshot: snap}
			found = true
		}
	}
	return best, found
}

func parseSnapshot(raw string) (domain.Snapshot, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc == nil {
		return domain.Snapshot{}, false
	}

	v, ok := domain.ParseNumber(doc["v"])
	if !ok || v != domain.SnapshotVersion {
		return domain.Snapshot{}, false
	}
	updatedAt, ok := domain.ParseNumber(doc["updated_at"])
	if !ok {
		return domain.Snapshot{}, false
	}
	qIndex, ok := domain.ParseNumber(doc["qIndex"])
	if !ok {
		return domain.Snapshot{}, false
	}

	comment := ""
	if c, present := doc["comentario"]; present && c != nil {
		str, isStr := c.(string)
		if !isStr {
			return domain.Snapshot{}, false
		}
		comment = str
	}

	rawAnswers, ok := doc["answers"].(map[string]any)
	if !ok {
		return domain.Snapshot{}, false
	}
	answers := make(domain.Answers, len(rawAnswers))
	for k, val := range rawAnswers {
		if n, ok := domain.ParseNumber(val); ok {
			answers[k] = n
		}
	}

	return domain.Snapshot{
		Version:   domain.SnapshotVersion,
		UpdatedAt: time.UnixMilli(int64(updatedAt)),
		QIndex:    clampIndex(qIndex),
		Comment:   comment,
		Answers:   answers,
	}, true
}

func clampIndex(f float64) int {
	switch {
	case f < math.MinInt32:
		return math.MinInt32
	case f < 0:
		return int(math.Ceil(f))
	case f > math.MaxInt32:
		return math.MaxInt32
	default:
		return int(math.Floor(f))
	}
}
