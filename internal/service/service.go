// Package service is the background side of recentdrive: it owns the cached
// listing and talks to the credential provider and the Drive API.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/matheuskafuri/recentdrive/internal/auth"
	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/drive"
)

// Freshness is how long a cached listing may be served without a fetch.
const Freshness = 5 * time.Minute

// EntryStore holds the single cached listing.
type EntryStore interface {
	LoadEntry() (cache.Entry, bool, error)
	SaveEntry(cache.Entry) error
}

type Options struct {
	Store  EntryStore
	Tokens auth.TokenProvider
	Lister drive.Lister
	Logger zerolog.Logger
	// Timeout bounds token acquisition plus the fetch. Zero means no bound.
	Timeout time.Duration
	Now     func() time.Time
}

type Service struct {
	store   EntryStore
	tokens  auth.TokenProvider
	lister  drive.Lister
	log     zerolog.Logger
	timeout time.Duration
	now     func() time.Time
}

func New(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:   opts.Store,
		tokens:  opts.Tokens,
		lister:  opts.Lister,
		log:     opts.Logger,
		timeout: opts.Timeout,
		now:     opts.Now,
	}
}

// Handle dispatches a UI request.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	switch r := req.(type) {
	case GetFileList:
		files, failure := s.list(ctx, r.ForceRefresh)
		return Response{Files: files, Failure: failure}
	default:
		s.log.Error().Msgf("unhandled request %T", req)
		return Response{Files: []cache.FileRecord{}}
	}
}

// GetFileList returns the cached listing while it is fresh, and otherwise
// fetches a new one. Failures are logged and yield an empty list; they never
// replace the cached entry.
func (s *Service) GetFileList(ctx context.Context, forceRefresh bool) []cache.FileRecord {
	files, _ := s.list(ctx, forceRefresh)
	return files
}

func (s *Service) list(ctx context.Context, forceRefresh bool) ([]cache.FileRecord, Failure) {
	if !forceRefresh {
		if files, ok := s.cached(); ok {
			return files, FailureNone
		}
	}

	files, err := s.fetch(ctx)
	if err != nil {
		return []cache.FileRecord{}, s.logFailure(err)
	}

	entry := cache.Entry{Files: files, Timestamp: s.now().UnixMilli()}
	if err := s.store.SaveEntry(entry); err != nil {
		s.log.Warn().Err(err).Msg("could not cache file list")
	}
	s.log.Debug().Int("files", len(files)).Bool("forced", forceRefresh).Msg("fetched file list")
	return files, FailureNone
}

func (s *Service) cached() ([]cache.FileRecord, bool) {
	entry, ok, err := s.store.LoadEntry()
	if err != nil {
		s.log.Warn().Err(err).Msg("could not read cached file list")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	age := entry.Age(s.now())
	if age >= Freshness {
		s.log.Debug().Dur("age", age).Msg("cached file list is stale")
		return nil, false
	}
	s.log.Debug().Dur("age", age).Msg("returning cached files")
	if entry.Files == nil {
		return []cache.FileRecord{}, true
	}
	return entry.Files, true
}

func (s *Service) fetch(ctx context.Context) ([]cache.FileRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		var ae *auth.AuthError
		if !errors.As(err, &ae) {
			err = &auth.AuthError{Reason: "token provider", Err: err}
		}
		return nil, err
	}

	files, err := s.lister.ListRecent(ctx, token)
	if err != nil {
		var fe *drive.FetchError
		if !errors.As(err, &fe) {
			err = &drive.FetchError{Err: err}
		}
		return nil, err
	}
	if files == nil {
		files = []cache.FileRecord{}
	}
	return files, nil
}

func (s *Service) logFailure(err error) Failure {
	var (
		ae *auth.AuthError
		fe *drive.FetchError
	)
	switch {
	case errors.As(err, &ae):
		s.log.Error().Err(err).Str("kind", string(FailureAuth)).Msg("error fetching files")
		return FailureAuth
	case errors.As(err, &fe):
		s.log.Error().Err(err).Str("kind", string(FailureFetch)).Int("status", fe.Status).Msg("error fetching files")
		return FailureFetch
	default:
		s.log.Error().Err(err).Msg("error fetching files")
		return FailureFetch
	}
}
