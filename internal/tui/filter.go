package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/recentdrive/internal/session"
)

// tabBar renders the type filter. Only tabs with files behind them are shown.
type tabBar struct {
	tabs   []session.Tab
	active session.Tab
}

func (t tabBar) index() int {
	return max(0, slices.Index(t.tabs, t.active))
}

// next returns the tab delta positions away, wrapping around.
func (t tabBar) next(delta int) session.Tab {
	if len(t.tabs) == 0 {
		return session.TabAll
	}
	n := len(t.tabs)
	return t.tabs[((t.index()+delta)%n+n)%n]
}

// at returns the tab for a 1-based number key.
func (t tabBar) at(n int) (session.Tab, bool) {
	if n < 1 || n > len(t.tabs) {
		return "", false
	}
	return t.tabs[n-1], true
}

func (t tabBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string
	for i, tab := range t.tabs {
		style := tabInactiveStyle
		if tab == t.active {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, tab.Label())))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
