package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor switches every style to plain text. Used when stdout is not
// a terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// TaskStatusPill returns a colored indicator for a task's progress state.
// Delayed open or running tasks are flagged in red.
func TaskStatusPill(status domain.TaskStatus, delayed bool) string {
	switch {
	case status == domain.TaskDone && delayed:
		return StyleYellowBold.Render("✔ Done late")
	case status == domain.TaskDone:
		return StyleDim.Render("✔ Done")
	case delayed:
		return StyleRed.Render("▲ Delayed")
	case status == domain.TaskInProgress:
		return StyleGreen.Render("● Running")
	case status == domain.TaskOpen:
		return StyleBlue.Render("○ Open")
	default:
		return StyleDim.Render(string(status))
	}
}

// LevelBadge returns a purple label for a structural level.
func LevelBadge(l domain.Level) string {
	return StylePurple.Render(l.Label())
}

// OutcomeBadge distinguishes audited writes from no-op writes.
func OutcomeBadge(logged bool) string {
	if logged {
		return StyleGreen.Render("● changed")
	}
	return StyleDim.Render("○ unchanged")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
