package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/classify"
)

const emptyText = "No recent files"

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(f cache.FileRecord, clicks int, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	cat := classify.Classify(f.MimeType)
	glyph := categoryStyle(string(cat)).Render(classify.Glyph(cat))

	ago := " · " + relativeTime(f.Modified())
	count := ""
	if clicks > 0 {
		count = fmt.Sprintf(" · %d×", clicks)
	}
	// "> " + glyph + " " take four cells
	nameWidth := width - 4 - len([]rune(ago+count))

	var line string
	if selected {
		line = itemSelectedStyle.Render("> ") + glyph + " " + itemSelectedStyle.Render(truncateStr(f.Name, nameWidth))
	} else {
		line = "  " + glyph + " " + itemNameStyle.Render(truncateStr(f.Name, nameWidth))
	}

	line += itemTimeStyle.Render(ago)
	if count != "" {
		line += itemCountStyle.Render(count)
	}
	return line
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(files []cache.FileRecord, counts func(string) int, cursor int, height int, width int) string {
	if len(files) == 0 {
		return lipglossCenter(emptyStyle.Render(emptyText), len(emptyText), width, height)
	}

	var b strings.Builder
	for i, f := range files {
		b.WriteString(renderListItem(f, counts(f.ID), i == cursor, width))
		if i < len(files)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func lipglossCenter(s string, plainWidth, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max(0, (width-plainWidth)/2)) + s
}
