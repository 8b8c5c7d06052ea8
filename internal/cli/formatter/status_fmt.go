package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/mujeralerta/diagnostico/internal/intake"
)

// FormatGateStatus renders the gate decision followed by every active
// center lock.
func FormatGateStatus(d intake.Decision, locks map[string]domain.ActiveLock, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Estado del dispositivo"))
	b.WriteString("\n\n")

	if d.CanStart() {
		b.WriteString(OK("Se puede iniciar una nueva encuesta."))
		b.WriteString("\n")
	}
	for _, bl := range d.Blockers {
		b.WriteString(Warn(bl.Message))
		b.WriteString("\n")
	}

	if d.Draft != nil {
		snap := d.Draft.Snapshot
		b.WriteString("\n")
		b.WriteString(Bold("Borrador"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  encuesta    %s\n", d.Draft.SurveyID))
		b.WriteString(fmt.Sprintf("  paso        %d\n", snap.QIndex+1))
		b.WriteString(fmt.Sprintf("  respuestas  %d\n", len(snap.Answers)))
		b.WriteString(fmt.Sprintf("  guardado    %s\n", HumanTimestampFrom(snap.UpdatedAt, now)))
	}

	if len(locks) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatCenterLocks(locks))
	}
	return b.String()
}

// FormatCenterLocks renders the active center locks sorted by center id.
func FormatCenterLocks(locks map[string]domain.ActiveLock) string {
	ids := make([]string, 0, len(locks))
	for id := range locks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		lk := locks[id]
		rows = append(rows, []string{id, lk.SurveyID, Remaining(lk.Remaining)})
	}
	return RenderTableAligned([]string{"CENTRO", "ENCUESTA", "RESTANTE"}, rows, map[int]bool{2: true})
}
