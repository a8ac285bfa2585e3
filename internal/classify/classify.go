package classify

import (
	"fmt"
	"strings"
)

// Category is the type bucket a Drive file falls into.
type Category string

const (
	Docs   Category = "docs"
	Sheets Category = "sheets"
	Slides Category = "slides"
	Other  Category = "other"
)

// AllCategories returns all categories in tab order.
func AllCategories() []Category {
	return []Category{Docs, Sheets, Slides, Other}
}

type rule struct {
	substr string
	cat    Category
}

// Checked in order; the first match wins.
var rules = []rule{
	{"document", Docs},
	{"spreadsheet", Sheets},
	{"presentation", Slides},
}

// Aliases maps alternate spellings to a category. Only Parse accepts the
// singular forms; Lookup and Matches know "others" alone.
var Aliases = map[string]Category{
	"others": Other,
	"doc":    Docs,
	"sheet":  Sheets,
	"slide":  Slides,
}

// Classify derives the category from a mime type by substring match.
func Classify(mimeType string) Category {
	for _, r := range rules {
		if strings.Contains(mimeType, r.substr) {
			return r.cat
		}
	}
	return Other
}

// Parse resolves a category name case-insensitively, accepting aliases.
func Parse(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, cat := range AllCategories() {
		if string(cat) == s {
			return cat, nil
		}
	}
	if cat, ok := Aliases[s]; ok {
		return cat, nil
	}
	return "", fmt.Errorf("unknown file type %q (valid: docs, sheets, slides, other)", s)
}

// Lookup resolves a category name case-insensitively. "others" is the only
// alternate spelling it accepts.
func Lookup(name string) (Category, bool) {
	for _, cat := range AllCategories() {
		if strings.EqualFold(name, string(cat)) {
			return cat, true
		}
	}
	if strings.EqualFold(name, "others") {
		return Other, true
	}
	return "", false
}

// Matches reports whether name refers to cat, treating "other" and "others" alike.
func Matches(cat Category, name string) bool {
	got, ok := Lookup(name)
	return ok && got == cat
}

var icons = map[Category]string{
	Docs:   "icons/doc-icon-48x48.png",
	Sheets: "icons/sheet-icon-48x48.png",
	Slides: "icons/slide-icon-48x48.png",
}

// Icon returns the icon asset for a category.
func Icon(cat Category) string {
	if p, ok := icons[cat]; ok {
		return p
	}
	return "icons/other-icon-48x48.png"
}

// IconForMimeType mirrors Classify one-to-one.
func IconForMimeType(mimeType string) string {
	return Icon(Classify(mimeType))
}

var glyphs = map[Category]string{
	Docs:   "▤",
	Sheets: "▦",
	Slides: "▭",
}

// Glyph is the terminal counterpart of Icon.
func Glyph(cat Category) string {
	if g, ok := glyphs[cat]; ok {
		return g
	}
	return "◇"
}

// Label is the tab caption for a category.
func Label(cat Category) string {
	switch cat {
	case Docs:
		return "Docs"
	case Sheets:
		return "Sheets"
	case Slides:
		return "Slides"
	default:
		return "Other"
	}
}
