package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RedactsEmailAndHashesSurveyID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("survey created", "email", "ana@example.org", "survey_id", "abc-123", "center_id", 7)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["email"])
	assert.Contains(t, fields["survey_id"], "hash:")
	assert.NotContains(t, fields["survey_id"], "abc-123")
	assert.EqualValues(t, 7, fields["center_id"])
}

func TestLogger_OddKeyValuesKeepTrailingValue(t *testing.T) {
	out := sanitizeKVs([]interface{}{"token", "secret", "dangling"})
	assert.Equal(t, []interface{}{"token", "[REDACTED]", "dangling"}, out)
}

func TestHashValue_EmptyStaysEmpty(t *testing.T) {
	assert.Equal(t, "", hashValue(""))
	assert.Equal(t, hashValue("x"), hashValue("x"))
}

func TestNew_FallsBackToWarn(t *testing.T) {
	l, err := New("dev", "nonsense")
	require.NoError(t, err)
	assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.WarnLevel))
}
