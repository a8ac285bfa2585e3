package session

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/classify"
)

const (
	// MaxFiles caps the list shown to the user.
	MaxFiles = 5
	// PlaceholderPrefix marks documents that were never renamed.
	PlaceholderPrefix = "Untitled"
)

// Tab is a type filter: "all" or one of the classify categories.
type Tab string

const TabAll Tab = "all"

// Tabs returns every tab in display order.
func Tabs() []Tab {
	tabs := []Tab{TabAll}
	for _, c := range classify.AllCategories() {
		tabs = append(tabs, Tab(c))
	}
	return tabs
}

// ParseTab normalizes a tab name; "others" is accepted for "other".
func ParseTab(s string) (Tab, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(TabAll)) {
		return TabAll, nil
	}
	cat, err := classify.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unknown tab %q (valid: all, docs, sheets, slides, other)", s)
	}
	return Tab(cat), nil
}

// lookupTab canonicalizes a tab name the way Filter matches it: any case,
// with "others" standing for the other tab.
func lookupTab(t Tab) (Tab, bool) {
	if strings.EqualFold(string(t), string(TabAll)) {
		return TabAll, true
	}
	cat, ok := classify.Lookup(string(t))
	return Tab(cat), ok
}

// Label is the caption shown on the tab.
func (t Tab) Label() string {
	if t == TabAll {
		return "All"
	}
	return classify.Label(classify.Category(t))
}

type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortFrequency SortKey = "frequency"
)

func ParseSort(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortRecent:
		return SortRecent, nil
	case SortFrequency:
		return SortFrequency, nil
	}
	return "", fmt.Errorf("unknown sort %q (valid: recent, frequency)", s)
}

func (k SortKey) Label() string {
	if k == SortFrequency {
		return "Frequency"
	}
	return "Recent"
}

// PostProcess drops placeholder-named files, keeps the first MaxFiles in the
// order received and fills a missing viewedByMeTime from modifiedTime.
func PostProcess(files []cache.FileRecord) []cache.FileRecord {
	named := lo.Filter(files, func(f cache.FileRecord, _ int) bool {
		return !strings.HasPrefix(f.Name, PlaceholderPrefix)
	})
	if len(named) > MaxFiles {
		named = named[:MaxFiles]
	}
	return lo.Map(named, func(f cache.FileRecord, _ int) cache.FileRecord {
		if f.ViewedByMeTime == "" {
			f.ViewedByMeTime = f.ModifiedTime
		}
		return f
	})
}

// Categories returns the distinct categories present, in first-seen order.
func Categories(files []cache.FileRecord) []classify.Category {
	return lo.Uniq(lo.Map(files, func(f cache.FileRecord, _ int) classify.Category {
		return classify.Classify(f.MimeType)
	}))
}

// VisibleTabs returns "all" plus a tab for each category present, in display order.
func VisibleTabs(files []cache.FileRecord) []Tab {
	present := Categories(files)
	return lo.Filter(Tabs(), func(t Tab, _ int) bool {
		return t == TabAll || lo.Contains(present, classify.Category(t))
	})
}

// Filter returns the files of the given tab without reordering them.
func Filter(files []cache.FileRecord, tab Tab) []cache.FileRecord {
	if strings.EqualFold(string(tab), string(TabAll)) {
		return slices.Clone(files)
	}
	return lo.Filter(files, func(f cache.FileRecord, _ int) bool {
		return classify.Matches(classify.Classify(f.MimeType), string(tab))
	})
}

// Sort returns a stably sorted copy: newest modifiedTime first for
// SortRecent, highest click count first for SortFrequency.
func Sort(files []cache.FileRecord, key SortKey, freq cache.FrequencyTable) []cache.FileRecord {
	out := slices.Clone(files)
	switch key {
	case SortRecent:
		slices.SortStableFunc(out, func(a, b cache.FileRecord) int {
			return b.Modified().Compare(a.Modified())
		})
	case SortFrequency:
		slices.SortStableFunc(out, func(a, b cache.FileRecord) int {
			return cmp.Compare(freq[b.ID], freq[a.ID])
		})
	}
	return out
}
