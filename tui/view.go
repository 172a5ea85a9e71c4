package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	logStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	imageStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8"))

	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	waitingStyle = lipgloss.NewStyle().Faint(true).Padding(1, 2)
)

func (a *App) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s  %d fps  zoom %dx",
		a.cycle.Current().Name(), a.fps.Rate(), a.zoom))

	logLine := ""
	if a.lastLog != "" {
		style := logStyle
		if a.lastLogError {
			style = logErrorStyle
		}
		logLine = style.Render(a.lastLog)
	}

	body := waitingStyle.Render("waiting for first frame")
	if a.frame != nil {
		if a.dirty {
			a.rendered = a.cycle.Current().Render(a.frame, a.font, a.zoom)
			a.dirty = false
		}
		body = imageStyle.Render(a.rendered)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		logLine,
		body,
		legendStyle.Render(a.keys.legend()),
	)
}
