package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/recentdrive/internal/browser"
	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/classify"
)

// renderPreview shows the details of the selected file under the list.
func renderPreview(f *cache.FileRecord, clicks int, width int) string {
	if f == nil {
		return ""
	}
	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	cat := classify.Classify(f.MimeType)
	meta := fmt.Sprintf("%s · modified %s", classify.Label(cat), formatStamp(f.Modified()))
	if viewed, err := time.Parse(time.RFC3339, f.ViewedByMeTime); err == nil && f.ViewedByMeTime != f.ModifiedTime {
		meta += " · viewed " + formatStamp(viewed)
	}
	if clicks > 0 {
		meta += fmt.Sprintf(" · opened %d×", clicks)
	}

	title := previewTitleStyle.Width(contentWidth).Render(truncateStr(f.Name, contentWidth))
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(meta, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render(truncateStr(browser.FileURL(f.ID), contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, title, body, link)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("Jan 2, 15:04")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
