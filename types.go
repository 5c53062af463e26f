package consumers

import (
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/oauth2"

	"github.com/giantswarm/oauth-consumers/internal/util"
	"github.com/giantswarm/oauth-consumers/providers"
)

// clientIDLogLength is the number of client ID characters included in logs
const clientIDLogLength = 12

// StorageBackend names the token storage strategy the consuming OAuth library
// should instantiate (for example `\OAuth\Common\Storage\Session`).
// It is passed through verbatim and never validated here.
type StorageBackend string

// String returns the selector as configured
func (s StorageBackend) String() string {
	return string(s)
}

// ProviderCredential holds this application's client credentials for one
// OAuth provider.
type ProviderCredential struct {
	// Provider is the provider name, identical to its key in the registry
	Provider string

	// ClientID may be empty while waiting for operator input
	ClientID string

	// ClientSecret must never be logged. String, GoString and LogValue redact it.
	ClientSecret string

	// Scope is the ordered list of requested scopes. May be empty.
	Scope []string
}

// clone returns a copy that shares no mutable state with c
func (c ProviderCredential) clone() ProviderCredential {
	c.Scope = slices.Clone(c.Scope)
	return c
}

// HasClientCredentials reports whether both client ID and secret are set
func (c ProviderCredential) HasClientCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OAuth2Config builds an oauth2.Config for this credential using the
// provider's well-known endpoint. See providers.NewOAuth2Config.
func (c ProviderCredential) OAuth2Config(redirectURL string) (*oauth2.Config, error) {
	return providers.NewOAuth2Config(c.Provider, &providers.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       c.Scope,
	})
}

// LogValue implements slog.LogValuer. The secret is reduced to a presence flag
// and the client ID is truncated.
func (c ProviderCredential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", c.Provider),
		slog.String("client_id", util.SafeTruncate(c.ClientID, clientIDLogLength)),
		slog.Bool("client_secret_set", c.ClientSecret != ""),
		slog.Any("scope", c.Scope),
	)
}

// String implements fmt.Stringer with the secret redacted
func (c ProviderCredential) String() string {
	return fmt.Sprintf("ProviderCredential{Provider:%q ClientID:%q ClientSecret:%s Scope:%q}",
		c.Provider, c.ClientID, redactSecret(c.ClientSecret), c.Scope)
}

// GoString implements fmt.GoStringer so %#v does not print the secret either
func (c ProviderCredential) GoString() string {
	return c.String()
}

func redactSecret(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	return "<redacted>"
}
