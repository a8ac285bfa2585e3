package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/classify"
)

const (
	mimeDoc    = "application/vnd.google-apps.document"
	mimeSheet  = "application/vnd.google-apps.spreadsheet"
	mimeSlides = "application/vnd.google-apps.presentation"
	mimePNG    = "image/png"
)

func file(id, name, mime, modified string) cache.FileRecord {
	return cache.FileRecord{ID: id, Name: name, MimeType: mime, ModifiedTime: modified}
}

func ids(files []cache.FileRecord) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.ID
	}
	return out
}

func mixed() []cache.FileRecord {
	return []cache.FileRecord{
		file("d1", "Plan", mimeDoc, "2026-10-19T10:00:00Z"),
		file("s1", "Budget", mimeSheet, "2026-10-19T09:00:00Z"),
		file("d2", "Notes", mimeDoc, "2026-10-19T08:00:00Z"),
		file("p1", "Photo", mimePNG, "2026-10-19T07:00:00Z"),
	}
}

func TestPostProcessTruncatesAndDropsPlaceholders(t *testing.T) {
	var fetched []cache.FileRecord
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("File %02d", i)
		if i == 0 || i == 2 || i == 4 {
			name = "Untitled document"
		}
		fetched = append(fetched, file(fmt.Sprintf("f%02d", i), name, mimeDoc, "2026-10-19T10:00:00Z"))
	}

	got := PostProcess(fetched)

	assert.Equal(t, []string{"f01", "f03", "f05", "f06", "f07"}, ids(got))
	for _, f := range got {
		assert.NotContains(t, f.Name, PlaceholderPrefix)
	}
}

func TestPostProcessKeepsShortLists(t *testing.T) {
	got := PostProcess([]cache.FileRecord{file("a", "Untitled", mimeDoc, ""), file("b", "Report", mimeDoc, "")})
	assert.Equal(t, []string{"b"}, ids(got))

	assert.Empty(t, PostProcess(nil))
}

func TestPostProcessPrefixIsCaseSensitive(t *testing.T) {
	got := PostProcess([]cache.FileRecord{file("a", "untitled ideas", mimeDoc, ""), file("b", "My Untitled", mimeDoc, "")})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestPostProcessNormalizesViewedTime(t *testing.T) {
	in := []cache.FileRecord{
		{ID: "a", Name: "A", ModifiedTime: "2026-10-19T10:00:00Z"},
		{ID: "b", Name: "B", ModifiedTime: "2026-10-19T10:00:00Z", ViewedByMeTime: "2026-10-19T11:00:00Z"},
	}
	got := PostProcess(in)

	assert.Equal(t, "2026-10-19T10:00:00Z", got[0].ViewedByMeTime)
	assert.Equal(t, "2026-10-19T11:00:00Z", got[1].ViewedByMeTime)
	assert.Empty(t, in[0].ViewedByMeTime, "input is not mutated")
}

func TestVisibleTabs(t *testing.T) {
	assert.Equal(t, []Tab{TabAll, Tab(classify.Docs), Tab(classify.Sheets), Tab(classify.Other)}, VisibleTabs(mixed()))
	assert.Equal(t, []Tab{TabAll}, VisibleTabs(nil))
	assert.Equal(t, []Tab{TabAll, Tab(classify.Slides)}, VisibleTabs([]cache.FileRecord{file("x", "Deck", mimeSlides, "")}))
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []classify.Category{classify.Docs, classify.Sheets, classify.Other}, Categories(mixed()))
}

func TestFilter(t *testing.T) {
	files := mixed()

	assert.Equal(t, []string{"d1", "d2"}, ids(Filter(files, Tab(classify.Docs))))
	assert.Equal(t, []string{"s1"}, ids(Filter(files, Tab(classify.Sheets))))
	assert.Empty(t, Filter(files, Tab(classify.Slides)))
	assert.Equal(t, []string{"p1"}, ids(Filter(files, Tab("others"))))
	assert.Equal(t, []string{"d1", "d2"}, ids(Filter(files, Tab("DOCS"))))
	assert.Equal(t, []string{"p1"}, ids(Filter(files, Tab("Others"))))
	assert.Empty(t, Filter(files, Tab("doc")), "short forms are for the command line only")
}

func TestFilterAllIsUnfilteredAndUnreordered(t *testing.T) {
	files := []cache.FileRecord{
		file("old", "Old", mimeDoc, "2026-01-01T00:00:00Z"),
		file("new", "New", mimeSheet, "2026-10-01T00:00:00Z"),
	}
	got := Filter(files, TabAll)
	assert.Equal(t, files, got)
	assert.Equal(t, files, Filter(files, Tab("ALL")))

	got[0].Name = "changed"
	assert.Equal(t, "Old", files[0].Name, "Filter returns a copy")
}

func TestSortRecent(t *testing.T) {
	files := []cache.FileRecord{
		file("a", "A", mimeDoc, "2026-10-17T10:00:00Z"),
		file("b", "B", mimeDoc, "2026-10-19T10:00:00Z"),
		file("c", "C", mimeDoc, "2026-10-18T10:00:00.500Z"),
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Sort(files, SortRecent, nil)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(files), "input order untouched")
}

func TestSortRecentIsStable(t *testing.T) {
	same := "2026-10-19T10:00:00Z"
	files := []cache.FileRecord{
		file("x", "X", mimeDoc, same),
		file("newest", "N", mimeDoc, "2026-10-20T10:00:00Z"),
		file("y", "Y", mimeDoc, same),
		file("z", "Z", mimeDoc, same),
	}
	assert.Equal(t, []string{"newest", "x", "y", "z"}, ids(Sort(files, SortRecent, nil)))
}

func TestSortFrequencyIsStable(t *testing.T) {
	files := []cache.FileRecord{
		file("a", "A", mimeDoc, ""),
		file("b", "B", mimeDoc, ""),
		file("c", "C", mimeDoc, ""),
		file("d", "D", mimeDoc, ""),
	}
	freq := cache.FrequencyTable{"c": 3, "b": 1, "d": 1}

	assert.Equal(t, []string{"c", "b", "d", "a"}, ids(Sort(files, SortFrequency, freq)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Sort(files, SortFrequency, nil)), "absent counts are zero")
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		wantErr bool
	}{
		{"all", TabAll, false},
		{"ALL", TabAll, false},
		{"docs", Tab(classify.Docs), false},
		{"Others", Tab(classify.Other), false},
		{"pdfs", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSort(t *testing.T) {
	k, err := ParseSort("Frequency")
	require.NoError(t, err)
	assert.Equal(t, SortFrequency, k)

	k, err = ParseSort("recent")
	require.NoError(t, err)
	assert.Equal(t, SortRecent, k)

	_, err = ParseSort("alpha")
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "All", TabAll.Label())
	assert.Equal(t, "Sheets", Tab(classify.Sheets).Label())
	assert.Equal(t, "Frequency", SortFrequency.Label())
	assert.Equal(t, "Recent", SortRecent.Label())
}
