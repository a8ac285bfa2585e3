// Package session holds the state of one popup session and derives the list
// the user sees from the background service's response.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/matheuskafuri/recentdrive/internal/browser"
	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/service"
)

// ErrTabHidden is returned when selecting a tab with no files behind it.
var ErrTabHidden = errors.New("tab is not visible")

// ErrUnknownTab is returned when selecting a name that is no tab at all.
var ErrUnknownTab = errors.New("unknown tab")

// Backend answers session requests; *service.Service implements it.
type Backend interface {
	Handle(ctx context.Context, req service.Request) service.Response
}

// FrequencyStore persists click counts across sessions.
type FrequencyStore interface {
	LoadFrequency() (cache.FrequencyTable, error)
	SaveFrequency(cache.FrequencyTable) error
}

type Options struct {
	Backend   Backend
	Frequency FrequencyStore
	// Open launches a URL; defaults to the system browser.
	Open   func(string) error
	Logger zerolog.Logger
	// Initial tab and sort. The tab name is matched like SelectTab's; an
	// unknown or hidden tab falls back to "all".
	Tab  Tab
	Sort SortKey
}

type Session struct {
	backend Backend
	store   FrequencyStore
	open    func(string) error
	log     zerolog.Logger

	files   []cache.FileRecord
	view    []cache.FileRecord
	visible []Tab
	tab     Tab
	sort    SortKey
	freq    cache.FrequencyTable
	failure service.Failure
}

func New(opts Options) *Session {
	if opts.Open == nil {
		opts.Open = browser.Open
	}
	if tab, ok := lookupTab(opts.Tab); ok {
		opts.Tab = tab
	} else {
		if opts.Tab != "" {
			opts.Logger.Warn().Str("tab", string(opts.Tab)).Msg("ignoring unknown initial tab")
		}
		opts.Tab = TabAll
	}
	if opts.Sort == "" {
		opts.Sort = SortRecent
	}

	freq, err := opts.Frequency.LoadFrequency()
	if err != nil {
		opts.Logger.Warn().Err(err).Msg("could not load frequency data")
		freq = cache.FrequencyTable{}
	}

	return &Session{
		backend: opts.Backend,
		store:   opts.Frequency,
		open:    opts.Open,
		log:     opts.Logger,
		visible: []Tab{TabAll},
		tab:     opts.Tab,
		sort:    opts.Sort,
		freq:    freq,
	}
}

// Load fetches the list, served from cache when fresh.
func (s *Session) Load(ctx context.Context) {
	s.Apply(s.Fetch(ctx, false))
}

// Refresh fetches the list bypassing the cache.
func (s *Session) Refresh(ctx context.Context) {
	s.Apply(s.Fetch(ctx, true))
}

// Fetch asks the backend for the list without touching session state, so
// it may run off the UI goroutine. Hand the response to Apply.
func (s *Session) Fetch(ctx context.Context, force bool) service.Response {
	return s.backend.Handle(ctx, service.GetFileList{ForceRefresh: force})
}

// Apply installs a service response and re-derives the view.
func (s *Session) Apply(resp service.Response) {
	s.failure = resp.Failure
	s.files = PostProcess(resp.Files)
	s.visible = VisibleTabs(s.files)
	if !slices.Contains(s.visible, s.tab) {
		s.log.Debug().Str("tab", string(s.tab)).Msg("active tab no longer visible")
		s.tab = s.visible[0]
	}
	s.rederive()
}

// SelectTab filters the list by tab. Names match case-insensitively and
// "others" selects the other tab. Unlike a plain filter, the active sort is
// re-applied to the subset instead of keeping fetch order.
func (s *Session) SelectTab(tab Tab) error {
	canonical, ok := lookupTab(tab)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
	if !slices.Contains(s.visible, canonical) {
		return fmt.Errorf("%w: %s", ErrTabHidden, canonical)
	}
	s.tab = canonical
	s.rederive()
	return nil
}

// SetSort reorders the filtered list.
func (s *Session) SetSort(key SortKey) {
	s.sort = key
	s.view = Sort(s.view, s.sort, s.freq)
}

// ToggleSort flips between recent and frequency.
func (s *Session) ToggleSort() SortKey {
	if s.sort == SortRecent {
		s.SetSort(SortFrequency)
	} else {
		s.SetSort(SortRecent)
	}
	return s.sort
}

// RecordClick bumps the file's click count, persists the table and returns
// the URL to open. The current order is left alone.
func (s *Session) RecordClick(id string) string {
	s.freq[id]++
	if err := s.store.SaveFrequency(s.freq); err != nil {
		s.log.Warn().Err(err).Str("file", id).Msg("could not save frequency data")
	}
	return browser.FileURL(id)
}

// ClickThrough records the click and opens the file in the browser.
func (s *Session) ClickThrough(id string) error {
	url := s.RecordClick(id)
	if err := s.open(url); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

func (s *Session) rederive() {
	s.view = Sort(Filter(s.files, s.tab), s.sort, s.freq)
}

// View is the list to render.
func (s *Session) View() []cache.FileRecord { return slices.Clone(s.view) }

// Files is the post-processed list before tab filtering.
func (s *Session) Files() []cache.FileRecord { return slices.Clone(s.files) }

func (s *Session) VisibleTabs() []Tab { return slices.Clone(s.visible) }

func (s *Session) Tab() Tab { return s.tab }

func (s *Session) Sort() SortKey { return s.sort }

// Failure reports why the last applied response was empty, if it failed.
func (s *Session) Failure() service.Failure { return s.failure }

// Count returns the click count of a file.
func (s *Session) Count(id string) int { return s.freq[id] }

// Frequency returns a copy of the click counts.
func (s *Session) Frequency() cache.FrequencyTable { return maps.Clone(s.freq) }
