package providers

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var (
	// ErrIncompleteCredential is returned when a client ID or secret is empty.
	ErrIncompleteCredential = errors.New("client ID and client secret are required")

	// ErrUnknownEndpoint is returned when no endpoint is known for a provider
	// and none was supplied.
	ErrUnknownEndpoint = errors.New("no OAuth endpoint known for provider")
)

// wellKnown maps lower-cased provider names to their endpoints.
var wellKnown = map[string]oauth2.Endpoint{
	"google":    google.Endpoint,
	"github":    github.Endpoint,
	"facebook":  endpoints.Facebook,
	"gitlab":    endpoints.GitLab,
	"bitbucket": endpoints.Bitbucket,
	"slack":     endpoints.Slack,
	"linkedin":  endpoints.LinkedIn,
	"amazon":    endpoints.Amazon,
	"spotify":   endpoints.Spotify,
	"twitch":    endpoints.Twitch,
	"yahoo":     endpoints.Yahoo,
	"yandex":    endpoints.Yandex,
	"zoom":      endpoints.Zoom,
}

// defaultScopes are applied by NewOAuth2Config when no scope is configured.
var defaultScopes = map[string][]string{
	"google": {"openid", "email", "profile"},
	"github": {"read:user", "user:email"},
}

// Config holds the inputs for an OAuth 2.0 client configuration
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Endpoint overrides the well-known endpoint for the provider.
	// Required for providers that are not in the built-in table.
	Endpoint *oauth2.Endpoint
}

// Lookup returns the well-known endpoint for a provider. Names are matched
// case-insensitively, so "Google" and "google" are equivalent.
func Lookup(name string) (oauth2.Endpoint, bool) {
	ep, ok := wellKnown[strings.ToLower(name)]
	return ep, ok
}

// Known returns the names of all providers with a built-in endpoint.
func Known() []string {
	names := make([]string, 0, len(wellKnown))
	for name := range wellKnown {
		names = append(names, name)
	}
	return names
}

// DefaultScopes returns the scopes applied when a credential declares none.
// Returns nil for providers without defaults.
func DefaultScopes(name string) []string {
	scopes := defaultScopes[strings.ToLower(name)]
	if scopes == nil {
		return nil
	}
	return append([]string(nil), scopes...)
}

// NewOAuth2Config builds an oauth2.Config for the named provider.
func NewOAuth2Config(name string, cfg *Config) (*oauth2.Config, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("provider %q: %w", name, ErrIncompleteCredential)
	}

	var endpoint oauth2.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	} else {
		ep, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("provider %q: %w", name, ErrUnknownEndpoint)
		}
		endpoint = ep
	}

	scopes := append([]string(nil), cfg.Scopes...)
	if len(scopes) == 0 {
		scopes = DefaultScopes(name)
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}, nil
}
