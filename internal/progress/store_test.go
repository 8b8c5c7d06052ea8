package progress

import (
	"context"
	"testing"
	"time"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(t0)
	return New(testutil.NewTestStore(t), WithClock(clock.Now)), clock
}

func TestStore_WriteThenRead(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Write(ctx, "S1", domain.Snapshot{
		QIndex:  2,
		Comment: "borrador",
		Answers: domain.Answers{"P1:frecuencia": 3, "P1:gravedad": 5},
	})

	snap, ok := store.Read(ctx, "S1")
	require.True(t, ok)
	assert.Equal(t, domain.SnapshotVersion, snap.Version)
	assert.Equal(t, 2, snap.QIndex)
	assert.Equal(t, "borrador", snap.Comment)
	assert.Equal(t, domain.Answers{"P1:frecuencia": 3, "P1:gravedad": 5}, snap.Answers)
	assert.Equal(t, t0.UnixMilli(), snap.UpdatedAt.UnixMilli())
}

func TestStore_ReadMissingIsAbsent(t *testing.T) {
	store, _ := newTestStore(t)
	_, ok := store.Read(context.Background(), "nope")
	assert.False(t, ok)
}

func TestStore_ReadRejectsMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"v":1,`,
		"null":               `null`,
		"array":              `[1,2]`,
		"wrong version":      `{"v":2,"updated_at":1,"qIndex":0,"comentario":"","answers":{}}`,
		"missing updated_at": `{"v":1,"qIndex":0,"comentario":"","answers":{}}`,
		"qIndex not numeric": `{"v":1,"updated_at":1,"qIndex":"x","comentario":"","answers":{}}`,
		"comment not string": `{"v":1,"updated_at":1,"qIndex":0,"comentario":5,"answers":{}}`,
		"answers not object": `{"v":1,"updated_at":1,"qIndex":0,"comentario":"","answers":[]}`,
		"answers missing":    `{"v":1,"updated_at":1,"qIndex":0,"comentario":""}`,
		"updated_at is bool": `{"v":1,"updated_at":true,"qIndex":0,"comentario":"","answers":{}}`,
		"version as garbage": `{"v":"uno","updated_at":1,"qIndex":0,"comentario":"","answers":{}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := testutil.NewTestStore(t)
			require.NoError(t, kv.Set(context.Background(), Key("S1"), raw))

			_, ok := New(kv).Read(context.Background(), "S1")
			assert.False(t, ok)
		})
	}
}

func TestStore_ReadDropsNonNumericAnswers(t *testing.T) {
	kv := testutil.NewTestStore(t)
	ctx := context.Background()
	raw := `{"v":1,"updated_at":1700000000000,"qIndex":1,"answers":{"P1:frecuencia":2,"P1:normalidad":"4","P1:gravedad":"mucho","P2:frecuencia":null}}`
	require.NoError(t, kv.Set(ctx, Key("S1"), raw))

	snap, ok := New(kv).Read(ctx, "S1")
	require.True(t, ok)
	assert.Equal(t, domain.Answers{"P1:frecuencia": 2, "P1:normalidad": 4}, snap.Answers)
	assert.Equal(t, "", snap.Comment, "missing comment reads as empty")
}

func TestStore_WriteSwallowsStorageFailure(t *testing.T) {
	failing := &testutil.FailingStore{Inner: testutil.NewTestStore(t), FailSet: true}
	store := New(failing)

	assert.NotPanics(t, func() {
		store.Write(context.Background(), "S1", domain.Snapshot{QIndex: 1})
	})
	assert.Equal(t, 1, failing.SetCalls())
}

func TestStore_ReadAndRemoveSwallowFailures(t *testing.T) {
	failing := &testutil.FailingStore{Inner: testutil.NewTestStore(t), FailGet: true, FailRemove: true, FailKeys: true}
	store := New(failing)
	ctx := context.Background()

	_, ok := store.Read(ctx, "S1")
	assert.False(t, ok)
	store.Remove(ctx, "S1")
	_, ok = store.FindLatestInProgress(ctx)
	assert.False(t, ok)
}

func TestStore_Remove(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Write(ctx, "S1", domain.Snapshot{QIndex: 1})
	store.Remove(ctx, "S1")

	_, ok := store.Read(ctx, "S1")
	assert.False(t, ok)
}

func TestStore_FindLatestInProgress_PicksNewestMeaningfulDraft(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	store.Write(ctx, "old", domain.Snapshot{Answers: domain.Answers{"P1:frecuencia": 1}})
	clock.Advance(time.Minute)
	store.Write(ctx, "newest-but-empty", domain.Snapshot{Comment: "  "})
	clock.Advance(-30 * time.Second)
	store.Write(ctx, "middle", domain.Snapshot{QIndex: 3})

	draft, ok := store.FindLatestInProgress(ctx)
	require.True(t, ok)
	assert.Equal(t, "middle", draft.SurveyID)
	assert.Equal(t, 3, draft.Snapshot.QIndex)
}

func TestStore_FindLatestInProgress_IgnoresForeignKeys(t *testing.T) {
	kv := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "mujer_alerta:diagnostico:S1:v2", `{"v":1,"updated_at":1,"qIndex":1,"answers":{}}`))
	require.NoError(t, kv.Set(ctx, "mujer_alerta:diagnostico: :v1", `{"v":1,"updated_at":1,"qIndex":1,"answers":{}}`))
	require.NoError(t, kv.Set(ctx, "mujer_alerta:diagnostico:S2:v1", `garbage`))

	_, ok := New(kv).FindLatestInProgress(ctx)
	assert.False(t, ok)
}

func TestSurveyIDFromKey(t *testing.T) {
	id, ok := surveyIDFromKey(Key("abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = surveyIDFromKey("mujer_alerta:diagnostico::v1")
	assert.False(t, ok)
	_, ok = surveyIDFromKey("mujer_alerta:lock:centro:1:v1")
	assert.False(t, ok)
}
