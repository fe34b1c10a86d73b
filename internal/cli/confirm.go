package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// taktplanHuhTheme returns a huh theme using the formatter palette.
func taktplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(taktplanHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// confirmDestructive asks before a destructive command. --yes skips the
// prompt; without a terminal the command refuses to run.
func confirmDestructive(app *App, yes bool, title string) error {
	if yes {
		return nil
	}
	if !app.interactive() {
		return fmt.Errorf("%s: refusing without --yes in a non-interactive session", title)
	}
	confirm := app.Confirm
	if confirm == nil {
		confirm = huhConfirm
	}
	ok, err := confirm(title)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}

var errAborted = errors.New("aborted")
