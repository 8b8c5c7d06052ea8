package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mujeralerta/diagnostico/internal/intake"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanTimestampFrom renders how long ago t was, relative to now.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case t.IsZero():
		return "--"
	case diff < 0:
		return t.Format("2006-01-02 15:04")
	case diff < time.Minute:
		return "justo ahora"
	case diff < time.Hour:
		return fmt.Sprintf("hace %d min", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("hace %d h", int(diff.Hours()))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// Remaining renders a lock's remaining time, colored by how long is left.
func Remaining(d time.Duration) string {
	text := intake.FormatRemaining(d)
	if d < time.Hour {
		return StyleGreen.Render(text)
	}
	return StyleYellow.Render(text)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return Dim(id)
}
