package formatter

import (
	"fmt"
	"strings"

	"github.com/mujeralerta/diagnostico/internal/wizard"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45%. pct is in [0, 100].
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 2 {
		width = 2
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", StyleAccent.Render(bar), pct)
}

// StepLabel renders "Paso 2 de 16" or the comment step label.
func StepLabel(p wizard.Progress) string {
	if p.OnComment {
		return "Comentario final"
	}
	return fmt.Sprintf("Paso %d de %d", p.Step+1, p.Total)
}

// FormatProgressLine renders the step label, bar and answer count on one line.
func FormatProgressLine(p wizard.Progress, width int) string {
	return fmt.Sprintf("%s  %s  %s",
		Bold(StepLabel(p)),
		RenderProgress(p.Percent, width),
		Dim(fmt.Sprintf("%d/%d respuestas", p.Answered, p.Expected)))
}
