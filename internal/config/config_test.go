package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Endpoint != "https://www.googleapis.com/drive/v3/" {
		t.Errorf("unexpected default endpoint %q", cfg.Endpoint)
	}
	if cfg.RequestTimeout == "" {
		t.Error("expected request_timeout to be set")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults should validate: %v", err)
	}
}

func TestRequestTimeoutDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"10s", 10 * time.Second},
		{"1m", time.Minute},
		{"", 30 * time.Second},
		{"invalid", 30 * time.Second},
		{"-5s", 30 * time.Second},
	}
	for _, tt := range tests {
		cfg := &Config{RequestTimeout: tt.input}
		if got := cfg.RequestTimeoutDuration(); got != tt.want {
			t.Errorf("RequestTimeoutDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoginTimeoutDuration(t *testing.T) {
	cfg := &Config{LoginTimeout: "5m"}
	if got := cfg.LoginTimeoutDuration(); got != 5*time.Minute {
		t.Errorf("expected 5m, got %v", got)
	}
	cfg.LoginTimeout = ""
	if got := cfg.LoginTimeoutDuration(); got != 2*time.Minute {
		t.Errorf("expected 2m default, got %v", got)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.input}
		if got := cfg.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOAuthCredentialsFallBackToEnv(t *testing.T) {
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")

	cfg := &Config{}
	if got := cfg.OAuthClientID(); got != "env-id" {
		t.Errorf("expected env client id, got %q", got)
	}
	if got := cfg.OAuthClientSecret(); got != "env-secret" {
		t.Errorf("expected env client secret, got %q", got)
	}
	if !cfg.OAuthConfigured() {
		t.Error("expected OAuthConfigured with env id")
	}

	cfg.ClientID = "file-id"
	if got := cfg.OAuthClientID(); got != "file-id" {
		t.Errorf("config value should win over env, got %q", got)
	}
}

func TestOAuthNotConfigured(t *testing.T) {
	t.Setenv(EnvClientID, "")
	cfg := &Config{}
	if cfg.OAuthConfigured() {
		t.Error("expected OAuthConfigured to be false without a client id")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `client_id: my-client
request_timeout: 10s
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClientID != "my-client" {
		t.Errorf("expected my-client, got %s", cfg.ClientID)
	}
	if cfg.RequestTimeoutDuration() != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.RequestTimeoutDuration())
	}
	// Keys absent from the file keep their defaults
	if cfg.Endpoint != "https://www.googleapis.com/drive/v3/" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint == "" {
		t.Error("expected default endpoint when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults to be written on first run: %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("endpoint: ftp://example.com/\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected error for ftp endpoint")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"https endpoint", Config{Endpoint: "https://www.googleapis.com/drive/v3/"}, false},
		{"http endpoint", Config{Endpoint: "http://127.0.0.1:8080/"}, false},
		{"missing endpoint", Config{}, true},
		{"file scheme", Config{Endpoint: "file:///etc/passwd"}, true},
		{"bad timeout", Config{Endpoint: "https://x/", RequestTimeout: "soon"}, true},
		{"negative timeout", Config{Endpoint: "https://x/", LoginTimeout: "-1m"}, true},
		{"bad level", Config{Endpoint: "https://x/", LogLevel: "loud"}, true},
		{"good level", Config{Endpoint: "https://x/", LogLevel: "debug"}, false},
	}
	for _, tt := range tests {
		err := validate(&tt.cfg)
		if tt.wantErr && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}

func TestLoadEnvWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Errorf("LoadEnv without .env should be a no-op, got %v", err)
	}
}

func TestLoadEnvReadsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvClientID, "")
	os.Unsetenv(EnvClientID)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvClientID+"=dotenv-id\n"), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv(EnvClientID); got != "dotenv-id" {
		t.Errorf("expected dotenv-id, got %q", got)
	}
}
