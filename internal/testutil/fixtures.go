package testutil

import "fmt"

// LikertScaleID is the scale every fixture card points at.
const LikertScaleID = "likert_1_5"

// InstrumentOption customizes a fixture instrument.
type InstrumentOption func(map[string]any)

// WithExpectedResponses sets scoring.total_responses_expected.
func WithExpectedResponses(n int) InstrumentOption {
	return func(inst map[string]any) {
		inst["scoring"] = map[string]any{"total_responses_expected": float64(n)}
	}
}

// WithGroupsKey moves the violence-type groups under another top-level key.
func WithGroupsKey(key string) InstrumentOption {
	return func(inst map[string]any) {
		groups := inst["types_of_violence"]
		delete(inst, "types_of_violence")
		inst[key] = groups
	}
}

// NewTestInstrument builds an instrument payload shaped like the backend's
// JSON after decoding into map[string]any.
func NewTestInstrument(groups []any, opts ...InstrumentOption) map[string]any {
	inst := map[string]any{
		"instrument_id": "mujer-alerta",
		"name":          "Diagnóstico Mujer Alerta",
		"version":       "1.0",
		"instructions":  "Responde pensando en los últimos 12 meses.",
		"dimensions": []any{
			map[string]any{"key": "frecuencia", "label": "Frecuencia", "scale_id": LikertScaleID},
			map[string]any{"key": "normalidad", "label": "Normalidad", "scale_id": LikertScaleID},
			map[string]any{"key": "gravedad", "label": "Gravedad", "scale_id": LikertScaleID},
		},
		"scales": map[string]any{
			LikertScaleID: map[string]any{
				"type": "likert",
				"min":  float64(1),
				"max":  float64(5),
				"options": []any{
					map[string]any{"value": float64(1), "label": "Nunca"},
					map[string]any{"value": float64(2), "label": "Casi nunca"},
					map[string]any{"value": float64(3), "label": "A veces"},
					map[string]any{"value": float64(4), "label": "Casi siempre"},
					map[string]any{"value": float64(5), "label": "Siempre"},
				},
			},
		},
		"types_of_violence": groups,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// NewTestGroup builds one violence-type group.
func NewTestGroup(order int, label string, questions ...any) map[string]any {
	return map[string]any{
		"type_id":   fmt.Sprintf("T%d", order),
		"order":     float64(order),
		"label":     label,
		"questions": questions,
	}
}

// NewTestQuestion builds a question with the three standard required cards.
func NewTestQuestion(id string, order int) map[string]any {
	return map[string]any{
		"question_id": id,
		"order":       float64(order),
		"stem":        "Pregunta " + id,
		"cards": []any{
			newTestCard("frecuencia", true),
			newTestCard("normalidad", true),
			newTestCard("gravedad", true),
		},
	}
}

// NewTestQuestionWithOptionalCard builds a question whose gravedad card is optional.
func NewTestQuestionWithOptionalCard(id string, order int) map[string]any {
	q := NewTestQuestion(id, order)
	q["cards"] = []any{
		newTestCard("frecuencia", true),
		newTestCard("normalidad", true),
		newTestCard("gravedad", false),
	}
	return q
}

func newTestCard(dim string, required bool) map[string]any {
	return map[string]any{
		"dimension": dim,
		"prompt":    "¿" + dim + "?",
		"scale_id":  LikertScaleID,
		"required":  required,
	}
}

// TwoQuestionInstrument is the fresh-start scenario fixture: two groups,
// one question each, three cards per question.
func TwoQuestionInstrument() map[string]any {
	return NewTestInstrument([]any{
		NewTestGroup(1, "Psicológica", NewTestQuestion("P1", 1)),
		NewTestGroup(2, "Física", NewTestQuestion("P2", 1)),
	})
}
