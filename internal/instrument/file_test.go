package instrument

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mujeralerta/diagnostico/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]any{"data": testutil.TwoQuestionInstrument()})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "instrumento.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	raw, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, questionIDs(FlattenQuestions(Unwrap(raw))))
}

func TestLoadFile_YAML(t *testing.T) {
	doc := `
name: Diagnóstico
scales:
  likert_1_5:
    type: likert
    options:
      - {value: 1, label: Nunca}
      - {value: 5, label: Siempre}
scoring:
  total_responses_expected: 3
types_of_violence:
  - order: 2
    label: Física
    questions:
      - question_id: F1
        stem: ¿Te han empujado?
        cards:
          - {dimension: frecuencia, scale_id: likert_1_5, required: true}
  - order: 1
    label: Psicológica
    questions:
      - question_id: S1
        stem: ¿Te han humillado?
        cards:
          - {dimension: frecuencia, scale_id: likert_1_5, required: true}
`
	path := filepath.Join(t.TempDir(), "instrumento.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	raw, err := LoadFile(path)
	require.NoError(t, err)

	qs := FlattenQuestions(raw)
	assert.Equal(t, []string{"S1", "F1"}, questionIDs(qs))
	assert.Equal(t, 3, ExpectedResponses(raw, qs))

	scale, ok := ExtractScale(raw, "likert_1_5")
	require.True(t, ok)
	assert.True(t, scale.HasValue(5))
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1,2]`), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	scalar := filepath.Join(dir, "scalar.yml")
	require.NoError(t, os.WriteFile(scalar, []byte("just text"), 0o600))
	_, err = LoadFile(scalar)
	assert.Error(t, err)
}
