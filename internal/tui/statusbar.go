package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/recentdrive/internal/service"
	"github.com/matheuskafuri/recentdrive/internal/session"
)

type statusInfo struct {
	count      int
	tab        session.Tab
	sort       session.SortKey
	refreshing bool
	spinner    string
	latest     string
	hints      string
	failure    service.Failure
}

// failureNotice tells the user how to recover from an empty failed load.
func failureNotice(f service.Failure) string {
	switch f {
	case service.FailureAuth:
		return "not signed in: run recentdrive login"
	case service.FailureFetch:
		return "could not reach Drive: press r to retry"
	default:
		return ""
	}
}

func renderStatusBar(s statusInfo, width int) string {
	left := fmt.Sprintf(" %d files", s.count)
	if s.count == 1 {
		left = " 1 file"
	}
	if s.tab != session.TabAll {
		left += " · " + s.tab.Label()
	}
	if notice := failureNotice(s.failure); notice != "" {
		left += " · " + errorStyle.Render(notice)
	}
	left += " · sort " + statusSortStyle.Render(s.sort.Label())
	if s.refreshing {
		left = s.spinner + left + " (refreshing...)"
	}
	if s.latest != "" {
		left += " · " + updateStyle.Render("update v"+s.latest)
	}

	right := " " + s.hints + " "
	// Hints go first when the terminal is narrow
	if lipgloss.Width(left)+lipgloss.Width(right) > width-2 {
		right = ""
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
