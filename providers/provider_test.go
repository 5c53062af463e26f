package providers

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/google"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantURL string
	}{
		{"google canonical", "google", true, google.Endpoint.AuthURL},
		{"google mixed case", "Google", true, google.Endpoint.AuthURL},
		{"github upper case", "GITHUB", true, "https://github.com/login/oauth/authorize"},
		{"facebook", "Facebook", true, endpoints.Facebook.AuthURL},
		{"unknown", "myidp", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, ok := Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && ep.AuthURL != tt.wantURL {
				t.Errorf("Lookup(%q).AuthURL = %q, want %q", tt.input, ep.AuthURL, tt.wantURL)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	names := Known()
	if len(names) != len(wellKnown) {
		t.Errorf("Known() returned %d names, want %d", len(names), len(wellKnown))
	}
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Known() returned %q which Lookup does not resolve", name)
		}
	}
}

func TestDefaultScopes_ReturnsCopy(t *testing.T) {
	scopes := DefaultScopes("google")
	if len(scopes) != 3 {
		t.Fatalf("DefaultScopes(google) = %v, want 3 scopes", scopes)
	}
	scopes[0] = "mutated"

	if again := DefaultScopes("Google"); again[0] != "openid" {
		t.Errorf("DefaultScopes() shares state with callers: got %v", again)
	}
	if got := DefaultScopes("slack"); got != nil {
		t.Errorf("DefaultScopes(slack) = %v, want nil", got)
	}
}

func TestNewOAuth2Config(t *testing.T) {
	custom := &oauth2.Endpoint{
		AuthURL:  "https://idp.example.com/authorize",
		TokenURL: "https://idp.example.com/token",
	}

	tests := []struct {
		name        string
		provider    string
		cfg         *Config
		wantErr     error
		wantScopes  []string
		wantAuthURL string
	}{
		{
			name:     "google with explicit scopes",
			provider: "Google",
			cfg: &Config{
				ClientID:     "id",
				ClientSecret: "secret",
				RedirectURL:  "https://app.example.com/callback",
				Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly"},
			},
			wantScopes:  []string{"https://www.googleapis.com/auth/gmail.readonly"},
			wantAuthURL: google.Endpoint.AuthURL,
		},
		{
			name:        "google default scopes",
			provider:    "Google",
			cfg:         &Config{ClientID: "id", ClientSecret: "secret"},
			wantScopes:  []string{"openid", "email", "profile"},
			wantAuthURL: google.Endpoint.AuthURL,
		},
		{
			name:        "custom endpoint for unknown provider",
			provider:    "Corporate",
			cfg:         &Config{ClientID: "id", ClientSecret: "secret", Endpoint: custom},
			wantScopes:  nil,
			wantAuthURL: custom.AuthURL,
		},
		{
			name:     "unknown provider without endpoint",
			provider: "Corporate",
			cfg:      &Config{ClientID: "id", ClientSecret: "secret"},
			wantErr:  ErrUnknownEndpoint,
		},
		{
			name:     "empty client id",
			provider: "Google",
			cfg:      &Config{ClientSecret: "secret"},
			wantErr:  ErrIncompleteCredential,
		},
		{
			name:     "empty client secret",
			provider: "Google",
			cfg:      &Config{ClientID: "id"},
			wantErr:  ErrIncompleteCredential,
		},
		{
			name:     "nil config",
			provider: "Google",
			cfg:      nil,
			wantErr:  ErrIncompleteCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewOAuth2Config(tt.provider, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewOAuth2Config() error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.provider) {
					t.Errorf("error %q does not name provider %q", err, tt.provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewOAuth2Config() error = %v", err)
			}

			if got.ClientID != tt.cfg.ClientID || got.ClientSecret != tt.cfg.ClientSecret {
				t.Errorf("credentials not carried over: %+v", got)
			}
			if got.RedirectURL != tt.cfg.RedirectURL {
				t.Errorf("RedirectURL = %q, want %q", got.RedirectURL, tt.cfg.RedirectURL)
			}
			if got.Endpoint.AuthURL != tt.wantAuthURL {
				t.Errorf("AuthURL = %q, want %q", got.Endpoint.AuthURL, tt.wantAuthURL)
			}
			if strings.Join(got.Scopes, " ") != strings.Join(tt.wantScopes, " ") {
				t.Errorf("Scopes = %v, want %v", got.Scopes, tt.wantScopes)
			}
		})
	}
}

func TestNewOAuth2Config_ScopesCopied(t *testing.T) {
	scopes := []string{"email"}
	cfg, err := NewOAuth2Config("google", &Config{ClientID: "id", ClientSecret: "secret", Scopes: scopes})
	if err != nil {
		t.Fatalf("NewOAuth2Config() error = %v", err)
	}
	cfg.Scopes[0] = "mutated"
	if scopes[0] != "email" {
		t.Error("NewOAuth2Config() shares the Scopes slice with the caller")
	}
}
