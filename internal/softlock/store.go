// Package softlock keeps the client-side markers that discourage duplicate
// submissions from one device: a per-center lock written when a survey is
// started, and a device-wide mark written when a survey is submitted.
//
// These are deterrents, not access control. Anyone can clear local storage.
package softlock

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/kvstore"
	"github.com/mujeralerta/diagnostico/internal/logger"
)

const (
	centerKeyPrefix = "mujer_alerta:lock:centro:"
	keySuffix       = ":v1"
	browserMarkKey  = "mujer_alerta:done:browser:v1"

	// DefaultCenterTTL is how long a started survey blocks its center.
	DefaultCenterTTL = 24 * time.Hour
	// DefaultMarkTTL is how long a submission blocks the whole device.
	DefaultMarkTTL = 30 * 24 * time.Hour
)

// CenterKey returns the storage key of the lock for centerID.
func CenterKey(centerID string) string {
	return centerKeyPrefix + centerID + keySuffix
}

// BrowserMarkKey returns the storage key of the device-wide completion mark.
func BrowserMarkKey() string {
	return browserMarkKey
}

// Store reads and writes soft locks. Failures are logged and swallowed.
type Store struct {
	kv        kvstore.Store
	log       *logger.Logger
	now       func() time.Time
	centerTTL time.Duration
	markTTL   time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for stamping and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithTTLs overrides the center lock and completion mark lifetimes.
// Non-positive values keep the defaults.
func WithTTLs(center, mark time.Duration) Option {
	return func(s *Store) {
		if center > 0 {
			s.centerTTL = center
		}
		if mark > 0 {
			s.markTTL = mark
		}
	}
}

// New creates a Store over kv.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		log:       logger.Nop(),
		now:       time.Now,
		centerTTL: DefaultCenterTTL,
		markTTL:   DefaultMarkTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type wireCenterLock struct {
	V         int    `json:"v"`
	CreatedAt int64  `json:"created_at"`
	SurveyID  string `json:"encuesta_id"`
}

type wireBrowserMark struct {
	V        int    `json:"v"`
	DoneAt   int64  `json:"done_at"`
	SurveyID string `json:"encuesta_id,omitempty"`
}

// ReadCenterLock returns the active lock for centerID. Expired locks are
// removed and reported as absent.
func (s *Store) ReadCenterLock(ctx context.Context, centerID string) (domain.ActiveLock, bool) {
	if strings.TrimSpace(centerID) == "" {
		return domain.ActiveLock{}, false
	}
	key := CenterKey(centerID)
	doc, ok := s.readDoc(ctx, key)
	if !ok {
		return domain.ActiveLock{}, false
	}
	createdAt, ok := versionedStamp(doc, "created_at")
	if !ok {
		return domain.ActiveLock{}, false
	}
	surveyID := stringField(doc, "encuesta_id")
	if surveyID == "" {
		return domain.ActiveLock{}, false
	}
	return s.activeOrExpire(ctx, key, surveyID, createdAt, s.centerTTL)
}

// WriteCenterLock stamps a fresh lock for centerID guarding surveyID.
func (s *Store) WriteCenterLock(ctx context.Context, centerID, surveyID string) {
	s.writeDoc(ctx, CenterKey(centerID), wireCenterLock{
		V:         domain.LockVersion,
		CreatedAt: s.now().UnixMilli(),
		SurveyID:  surveyID,
	})
}

// ClearCenterLock removes the lock for centerID.
func (s *Store) ClearCenterLock(ctx context.Context, centerID string) {
	s.remove(ctx, CenterKey(centerID))
}

// ClearLockBySurveyID removes every center lock guarding surveyID and
// returns how many were removed. Entries that cannot be parsed are skipped.
func (s *Store) ClearLockBySurveyID(ctx context.Context, surveyID string) int {
	if surveyID == "" {
		return 0
	}
	keys, err := s.kv.Keys(ctx, centerKeyPrefix)
	if err != nil {
		s.log.Warn("lock scan failed", "error", err)
		return 0
	}
	removed := 0
	for _, k := range keys {
		if !strings.HasSuffix(k, keySuffix) {
			continue
		}
		doc, ok := s.readDoc(ctx, k)
		if !ok {
			continue
		}
		if stringField(doc, "encuesta_id") != surveyID {
			continue
		}
		if err := s.kv.Remove(ctx, k); err != nil {
			s.log.Warn("lock remove failed", "key", k, "error", err)
			continue
		}
		removed++
	}
	return removed
}

// CenterLocks lists the active center locks keyed by center id. Expired
// locks found on the way are removed.
func (s *Store) CenterLocks(ctx context.Context) map[string]domain.ActiveLock {
	out := make(map[string]domain.ActiveLock)
	keys, err := s.kv.Keys(ctx, centerKeyPrefix)
	if err != nil {
		s.log.Warn("lock scan failed", "error", err)
		return out
	}
	for _, k := range keys {
		if !strings.HasSuffix(k, keySuffix) {
			continue
		}
		centerID := strings.TrimSuffix(strings.TrimPrefix(k, centerKeyPrefix), keySuffix)
		if lk, ok := s.ReadCenterLock(ctx, centerID); ok {
			out[centerID] = lk
		}
	}
	return out
}

// ReadBrowserCompletionMark returns the active device-wide completion mark.
// An expired mark is removed and reported as absent.
func (s *Store) ReadBrowserCompletionMark(ctx context.Context) (domain.ActiveLock, bool) {
	doc, ok := s.readDoc(ctx, browserMarkKey)
	if !ok {
		return domain.ActiveLock{}, false
	}
	doneAt, ok := versionedStamp(doc, "done_at")
	if !ok {
		return domain.ActiveLock{}, false
	}
	return s.activeOrExpire(ctx, browserMarkKey, stringField(doc, "encuesta_id"), doneAt, s.markTTL)
}

// WriteBrowserCompletionMark records that surveyID was submitted from this device.
func (s *Store) WriteBrowserCompletionMark(ctx context.Context, surveyID string) {
	s.writeDoc(ctx, browserMarkKey, wireBrowserMark{
		V:        domain.LockVersion,
		DoneAt:   s.now().UnixMilli(),
		SurveyID: surveyID,
	})
}

// ClearBrowserCompletionMark removes the device-wide completion mark.
func (s *Store) ClearBrowserCompletionMark(ctx context.Context) {
	s.remove(ctx, browserMarkKey)
}

func (s *Store) activeOrExpire(ctx context.Context, key, surveyID string, stamp time.Time, ttl time.Duration) (domain.ActiveLock, bool) {
	remaining := ttl - s.now().Sub(stamp)
	if remaining <= 0 {
		s.remove(ctx, key)
		return domain.ActiveLock{}, false
	}
	return domain.ActiveLock{SurveyID: surveyID, CreatedAt: stamp, Remaining: remaining}, true
}

func (s *Store) readDoc(ctx context.Context, key string) (map[string]any, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("lock read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc == nil {
		return nil, false
	}
	return doc, true
}

func (s *Store) writeDoc(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("lock encode failed", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.log.Warn("lock write failed", "key", key, "error", err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.Warn("lock remove failed", "key", key, "error", err)
	}
}

// versionedStamp checks the schema version and returns the named
// millisecond timestamp field.
func versionedStamp(doc map[string]any, field string) (time.Time, bool) {
	v, ok := domain.ParseNumber(doc["v"])
	if !ok || v != domain.LockVersion {
		return time.Time{}, false
	}
	ms, ok := domain.ParseNumber(doc[field])
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

func stringField(doc map[string]any, field string) string {
	switch t := doc[field].(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
