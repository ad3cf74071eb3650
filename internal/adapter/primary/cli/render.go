package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"exposure-debugpanel/internal/adapter/secondary/bus"
	"exposure-debugpanel/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

func renderAlert(a domain.Alert) string {
	body := titleStyle.Render(a.Title) + "\n\n" + a.Message
	if len(a.Actions) > 0 {
		body += "\n\n" + dimStyle.Render("["+strings.Join(a.Actions, "] [")+"]")
	}
	return boxStyle.Render(body)
}

func renderScreen(ev bus.ScreenEvent) string {
	if !ev.Visible {
		return dimStyle.Render(fmt.Sprintf("(%s closed)", ev.Screen.ID))
	}
	if ev.Screen.ID == domain.ScreenLoading {
		return dimStyle.Render(ev.Screen.Message + "…")
	}
	return boxStyle.Render(titleStyle.Render(string(ev.Screen.ID)) + "\n\n" + ev.Screen.Message)
}

func renderNotification(n domain.LocalNotification) string {
	return titleStyle.Render("🔔 "+n.Title) + " " + n.Body + dimStyle.Render(" ("+n.Identifier+")")
}

func renderMenu(labels []string) string {
	var b strings.Builder
	for i, l := range labels {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, l)
	}
	return b.String()
}
