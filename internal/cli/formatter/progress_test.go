package formatter

import (
	"strings"
	"testing"

	"github.com/mujeralerta/diagnostico/internal/wizard"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0%"},
		{"half", 50, 10, 5, " 50%"},
		{"full", 100, 10, 10, "100%"},
		{"over 100 clamps", 150, 10, 10, "100%"},
		{"negative clamps", -5, 10, 0, "  0%"},
		{"tiny width clamps to 2", 50, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.pct, tt.width))
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}

func TestStepLabel(t *testing.T) {
	assert.Equal(t, "Paso 2 de 16", StepLabel(wizard.Progress{Step: 1, Total: 16}))
	assert.Equal(t, "Comentario final", StepLabel(wizard.Progress{Step: 16, Total: 16, OnComment: true}))
}

func TestFormatProgressLine(t *testing.T) {
	got := stripANSI(FormatProgressLine(wizard.Progress{Step: 0, Total: 2, Answered: 3, Expected: 6, Percent: 50}, 10))
	assert.Contains(t, got, "Paso 1 de 2")
	assert.Contains(t, got, " 50%")
	assert.Contains(t, got, "3/6 respuestas")
}
