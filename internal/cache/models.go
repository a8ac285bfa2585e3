package cache

import "time"

// Keys of the two persisted records.
const (
	KeyCachedFiles   = "cachedFiles"
	KeyFrequencyData = "frequencyData"
)

// FileRecord is the remote metadata of one Drive file.
type FileRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	MimeType       string `json:"mimeType"`
	ModifiedTime   string `json:"modifiedTime"`
	ViewedByMeTime string `json:"viewedByMeTime,omitempty"`
}

// Modified parses ModifiedTime. Unparseable values yield the zero time.
func (f FileRecord) Modified() time.Time {
	t, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Entry is the single cached listing. Timestamp is epoch milliseconds.
type Entry struct {
	Files     []FileRecord `json:"files"`
	Timestamp int64        `json:"timestamp"`
}

// Age returns how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(e.Timestamp))
}

// FrequencyTable maps file id to click count.
type FrequencyTable map[string]int

type Stats struct {
	Path           string
	Size           int64
	CachedFiles    int
	CachedAt       time.Time
	HasEntry       bool
	TrackedFiles   int
	TotalClicks    int
	FrequencySaved time.Time
}
