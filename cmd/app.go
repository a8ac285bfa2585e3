package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/matheuskafuri/recentdrive/internal/auth"
	"github.com/matheuskafuri/recentdrive/internal/cache"
	"github.com/matheuskafuri/recentdrive/internal/config"
	"github.com/matheuskafuri/recentdrive/internal/drive"
	"github.com/matheuskafuri/recentdrive/internal/service"
	"github.com/matheuskafuri/recentdrive/internal/session"
)

// app bundles the long-lived pieces a command needs.
type app struct {
	cfg  *config.Config
	log  zerolog.Logger
	db   *cache.Cache
	auth *auth.OAuth
	svc  *service.Service
}

func newApp(log zerolog.Logger) (*app, error) {
	db, err := cache.Open(config.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	// Non-interactive: consent happens in ensureLogin before any request.
	oa := auth.NewOAuth(auth.Options{
		ClientID:     cfg.OAuthClientID(),
		ClientSecret: cfg.OAuthClientSecret(),
		LoginTimeout: cfg.LoginTimeoutDuration(),
		Logger:       log,
	})

	svc := service.New(service.Options{
		Store:   db,
		Tokens:  oa,
		Lister:  drive.NewClient(cfg.Endpoint, &http.Client{}),
		Logger:  log,
		Timeout: cfg.RequestTimeoutDuration(),
	})

	return &app{cfg: cfg, log: log, db: db, auth: oa, svc: svc}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) session(tab session.Tab, sort session.SortKey) *session.Session {
	return session.New(session.Options{
		Backend:   a.svc,
		Frequency: a.db,
		Logger:    a.log,
		Tab:       tab,
		Sort:      sort,
	})
}

// ensureLogin runs the consent flow when no token is stored yet.
func (a *app) ensureLogin(ctx context.Context) error {
	if !a.cfg.OAuthConfigured() {
		return errNoClient()
	}
	if a.auth.LoggedIn() {
		return nil
	}
	return a.login(ctx)
}

func (a *app) login(ctx context.Context) error {
	pterm.Info.Println("Opening your browser to connect Google Drive...")
	if _, err := a.auth.Login(ctx); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	pterm.Success.Println("Connected to Google Drive")
	return nil
}

func errNoClient() error {
	path := flagConfig
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return fmt.Errorf("no OAuth client configured: set client_id in %s or %s", path, config.EnvClientID)
}
