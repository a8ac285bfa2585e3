package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

type memoryStore struct {
	mu    sync.Mutex
	tok   *oauth2.Token
	saves int
}

func (m *memoryStore) Load() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tok == nil {
		return nil, ErrNoToken
	}
	cp := *m.tok
	return &cp, nil
}

func (m *memoryStore) Save(tok *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tok
	m.tok = &cp
	m.saves++
	return nil
}

func (m *memoryStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = nil
	return nil
}

type tokenServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []url.Values
}

func newTokenServer(t *testing.T) *tokenServer {
	t.Helper()
	ts := &tokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		ts.mu.Lock()
		ts.requests = append(ts.requests, r.PostForm)
		ts.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh-1"}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) endpoint() *oauth2.Endpoint {
	return &oauth2.Endpoint{
		AuthURL:   ts.URL + "/auth",
		TokenURL:  ts.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func (ts *tokenServer) calls() []url.Values {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]url.Values(nil), ts.requests...)
}

func newProvider(ts *tokenServer, store TokenStore, interactive bool, open func(string) error) *OAuth {
	return NewOAuth(Options{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     ts.endpoint(),
		Store:        store,
		Interactive:  interactive,
		LoginTimeout: 2 * time.Second,
		OpenURL:      open,
		Logger:       zerolog.Nop(),
	})
}

// consent simulates the user approving in the browser.
func consent(t *testing.T, params url.Values) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		require.NoError(t, err)
		q := u.Query()
		cb, err := url.Parse(q.Get("redirect_uri"))
		require.NoError(t, err)

		cbq := url.Values{}
		cbq.Set("state", q.Get("state"))
		for k, v := range params {
			cbq[k] = v
		}
		cb.RawQuery = cbq.Encode()

		resp, err := http.Get(cb.String())
		require.NoError(t, err)
		resp.Body.Close()
		return nil
	}
}

func TestTokenUsesValidStoredToken(t *testing.T) {
	ts := newTokenServer(t)
	store := &memoryStore{tok: &oauth2.Token{AccessToken: "stored", Expiry: time.Now().Add(time.Hour)}}

	tok, err := newProvider(ts, store, false, nil).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", tok)
	assert.Empty(t, ts.calls(), "no network call for a valid token")
	assert.Zero(t, store.saves)
}

func TestTokenRefreshesExpiredToken(t *testing.T) {
	ts := newTokenServer(t)
	store := &memoryStore{tok: &oauth2.Token{
		AccessToken:  "old",
		RefreshToken: "refresh-0",
		Expiry:       time.Now().Add(-time.Hour),
	}}

	tok, err := newProvider(ts, store, false, nil).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)

	calls := ts.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "refresh_token", calls[0].Get("grant_type"))
	assert.Equal(t, "refresh-0", calls[0].Get("refresh_token"))

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", saved.AccessToken)
}

func TestTokenNonInteractiveWithoutToken(t *testing.T) {
	ts := newTokenServer(t)
	_, err := newProvider(ts, &memoryStore{}, false, nil).Token(context.Background())

	var ae *AuthError
	require.True(t, errors.As(err, &ae))
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestTokenWithoutClientID(t *testing.T) {
	p := NewOAuth(Options{Store: &memoryStore{}, Logger: zerolog.Nop()})
	_, err := p.Token(context.Background())

	var ae *AuthError
	require.True(t, errors.As(err, &ae))
	assert.Contains(t, ae.Reason, "client id")
}

func TestTokenInteractiveLogin(t *testing.T) {
	ts := newTokenServer(t)
	store := &memoryStore{}
	p := newProvider(ts, store, true, consent(t, url.Values{"code": {"auth-code"}}))

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)

	calls := ts.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "authorization_code", calls[0].Get("grant_type"))
	assert.Equal(t, "auth-code", calls[0].Get("code"))
	assert.NotEmpty(t, calls[0].Get("code_verifier"))

	assert.True(t, p.LoggedIn())
	saved, _ := store.Load()
	assert.Equal(t, "refresh-1", saved.RefreshToken)
}

func TestLoginDenied(t *testing.T) {
	ts := newTokenServer(t)
	p := newProvider(ts, &memoryStore{}, true, consent(t, url.Values{"error": {"access_denied"}}))

	_, err := p.Login(context.Background())
	var ae *AuthError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "access_denied", ae.Reason)
	assert.Empty(t, ts.calls())
}

func TestLoginTimesOut(t *testing.T) {
	ts := newTokenServer(t)
	p := NewOAuth(Options{
		ClientID:     "client",
		Endpoint:     ts.endpoint(),
		Store:        &memoryStore{},
		Interactive:  true,
		LoginTimeout: 50 * time.Millisecond,
		OpenURL:      func(string) error { return nil },
		Logger:       zerolog.Nop(),
	})

	_, err := p.Login(context.Background())
	var ae *AuthError
	require.True(t, errors.As(err, &ae))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogout(t *testing.T) {
	ts := newTokenServer(t)
	store := &memoryStore{tok: &oauth2.Token{AccessToken: "x"}}
	p := newProvider(ts, store, false, nil)

	require.True(t, p.LoggedIn())
	require.NoError(t, p.Logout())
	assert.False(t, p.LoggedIn())
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	s := NewKeyringStore()

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	exp := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: exp}))

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.True(t, tok.Expiry.Equal(exp))

	require.NoError(t, s.Delete())
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.NoError(t, s.Delete(), "deleting twice is not an error")
}

func TestAuthErrorMessage(t *testing.T) {
	assert.Equal(t, "authorization failed: access_denied", (&AuthError{Reason: "access_denied"}).Error())
	err := &AuthError{Reason: "exchanging code", Err: errors.New("boom")}
	assert.Equal(t, "authorization failed: exchanging code: boom", err.Error())
}
