package formatter

import (
	"fmt"
	"strings"

	"github.com/mujeralerta/diagnostico/internal/instrument"
)

// FormatShape renders the diagnostic shown when an instrument loads but
// yields nothing to answer.
func FormatShape(s instrument.Shape) string {
	var b strings.Builder
	b.WriteString(Header("Instrumento"))
	b.WriteString("\n\n")

	groupsKey := s.GroupsKey
	if groupsKey == "" {
		groupsKey = strings.Join(instrument.GroupKeys, "|")
	}
	b.WriteString(fmt.Sprintf("  claves      %s\n", strings.Join(s.Keys, ", ")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", groupsKey, s.GroupsKind))
	b.WriteString(fmt.Sprintf("  grupos      %d\n", s.Groups))
	b.WriteString(fmt.Sprintf("  preguntas   %d\n", s.Questions))
	b.WriteString(fmt.Sprintf("  esperadas   %d\n", s.Expected))
	if len(s.ScaleIDs) > 0 {
		b.WriteString(fmt.Sprintf("  escalas     %s\n", strings.Join(s.ScaleIDs, ", ")))
	}
	if len(s.MissingScales) > 0 {
		b.WriteString("  ")
		b.WriteString(Warn("escalas faltantes: " + strings.Join(s.MissingScales, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatValidation renders instrument validation problems, or a success
// line when there are none.
func FormatValidation(errs []error) string {
	if len(errs) == 0 {
		return OK("Instrumento válido.") + "\n"
	}
	var b strings.Builder
	b.WriteString(Fail(fmt.Sprintf("%d problema(s) en el instrumento:", len(errs))))
	b.WriteString("\n")
	for _, err := range errs {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}
