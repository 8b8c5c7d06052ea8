package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette built around the Mujer Alerta purple.
var (
	ColorPrimary = lipgloss.Color("#7F017F")
	ColorAccent  = lipgloss.Color("#D36BD3")
	ColorGreen   = lipgloss.Color("#8ec07c")
	ColorYellow  = lipgloss.Color("#fabd2f")
	ColorRed     = lipgloss.Color("#fb4934")
	ColorDim     = lipgloss.Color("#928374")
	ColorFg      = lipgloss.Color("#ebdbb2")
	ColorHeader  = lipgloss.Color("#D36BD3")
)

var (
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleGreen   = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow  = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed     = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim     = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg      = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold    = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	// StyleSelected highlights the chosen Likert option.
	StyleSelected = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorPrimary).Bold(true).Padding(0, 1)
	StyleOption   = lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1)
)

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// OK renders a green check line.
func OK(text string) string {
	return StyleGreen.Render("✔ ") + text
}

// Warn renders a yellow warning line.
func Warn(text string) string {
	return StyleYellow.Render("▲ ") + text
}

// Fail renders a red error line.
func Fail(text string) string {
	return StyleRed.Render("✖ ") + text
}
