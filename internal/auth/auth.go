// Package auth acquires Drive bearer tokens through the OAuth loopback flow.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"

	"github.com/matheuskafuri/recentdrive/internal/browser"
)

// ErrLoginRequired is returned by a non-interactive provider without a usable token.
var ErrLoginRequired = errors.New("login required: run `recentdrive login`")

// AuthError reports that no bearer token could be obtained.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authorization failed: %s: %v", e.Reason, e.Err)
	}
	return "authorization failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// TokenProvider hands out a bearer token, possibly after prompting the user.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type Options struct {
	ClientID     string
	ClientSecret string
	// Endpoint overrides the Google OAuth endpoint.
	Endpoint *oauth2.Endpoint
	Store    TokenStore
	// Interactive allows the browser consent flow when no token is stored.
	Interactive  bool
	LoginTimeout time.Duration
	// OpenURL launches the consent page; defaults to the system browser.
	OpenURL func(string) error
	Logger  zerolog.Logger
}

type OAuth struct {
	cfg          *oauth2.Config
	store        TokenStore
	interactive  bool
	loginTimeout time.Duration
	openURL      func(string) error
	log          zerolog.Logger
}

func NewOAuth(opts Options) *OAuth {
	endpoint := google.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	if opts.Store == nil {
		opts.Store = NewKeyringStore()
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = 2 * time.Minute
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.Open
	}
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{drivev3.DriveMetadataReadonlyScope},
		},
		store:        opts.Store,
		interactive:  opts.Interactive,
		loginTimeout: opts.LoginTimeout,
		openURL:      opts.OpenURL,
		log:          opts.Logger,
	}
}

// Token returns a valid access token, refreshing or logging in as needed.
func (o *OAuth) Token(ctx context.Context) (string, error) {
	if o.cfg.ClientID == "" {
		return "", &AuthError{Reason: "no OAuth client id configured"}
	}

	stored, err := o.store.Load()
	switch {
	case err == nil:
		tok, err := o.cfg.TokenSource(ctx, stored).Token()
		if err == nil {
			if tok.AccessToken != stored.AccessToken {
				if err := o.store.Save(tok); err != nil {
					o.log.Warn().Err(err).Msg("could not persist refreshed token")
				}
			}
			return tok.AccessToken, nil
		}
		o.log.Warn().Err(err).Msg("stored token could not be refreshed")
	case !errors.Is(err, ErrNoToken):
		o.log.Warn().Err(err).Msg("could not read stored token")
	}

	if !o.interactive {
		return "", &AuthError{Reason: "no usable token", Err: ErrLoginRequired}
	}

	tok, err := o.Login(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

type callbackResult struct {
	code string
	err  error
}

// Login runs the browser consent flow against a loopback redirect and stores
// the resulting token.
func (o *OAuth) Login(ctx context.Context) (*oauth2.Token, error) {
	if o.cfg.ClientID == "" {
		return nil, &AuthError{Reason: "no OAuth client id configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, o.loginTimeout)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, &AuthError{Reason: "starting callback listener", Err: err}
	}

	cfg := *o.cfg
	cfg.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, &AuthError{Reason: "generating state", Err: err}
	}
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliver(callbackResult{err: &AuthError{Reason: "state mismatch in callback"}})
			return
		}
		if reason := q.Get("error"); reason != "" {
			fmt.Fprintln(w, "Authorization was not granted. You can close this tab.")
			deliver(callbackResult{err: &AuthError{Reason: reason}})
			return
		}
		fmt.Fprintln(w, "recentdrive is authorized. You can close this tab.")
		deliver(callbackResult{code: q.Get("code")})
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln) //nolint:errcheck
	defer srv.Shutdown(context.Background()) //nolint:errcheck

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	if err := o.openURL(authURL); err != nil {
		o.log.Warn().Err(err).Str("url", authURL).Msg("could not open browser; visit the URL manually")
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, &AuthError{Reason: "waiting for consent", Err: ctx.Err()}
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}
	if res.code == "" {
		return nil, &AuthError{Reason: "callback carried no code"}
	}

	tok, err := cfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, &AuthError{Reason: "exchanging code", Err: err}
	}
	if err := o.store.Save(tok); err != nil {
		o.log.Warn().Err(err).Msg("could not persist token")
	}
	o.log.Info().Msg("logged in to Google Drive")
	return tok, nil
}

// Logout forgets the stored token.
func (o *OAuth) Logout() error {
	return o.store.Delete()
}

// LoggedIn reports whether a token is stored.
func (o *OAuth) LoggedIn() bool {
	tok, err := o.store.Load()
	return err == nil && tok != nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
