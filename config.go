package consumers

import (
	"log/slog"

	"github.com/giantswarm/oauth-consumers/instrumentation"
	"github.com/giantswarm/oauth-consumers/security"
)

// DefaultEnvPrefix is prepended to every environment variable the loader reads
const DefaultEnvPrefix = "OAUTH_CONSUMERS_"

// Config controls how a consumers document is loaded.
// A nil *Config is valid and uses the defaults.
type Config struct {
	// Source names the document in errors and logs.
	// LoadFile uses the file path when empty.
	Source string

	// Logger for structured logging (optional, uses slog.Default() if not provided)
	Logger *slog.Logger

	// EnvPrefix is prepended to environment variable names.
	// Default: "OAUTH_CONSUMERS_"
	EnvPrefix string

	// Environment replaces the process environment when non-nil.
	// Mostly useful in tests.
	Environment map[string]string

	// DisableEnvOverlay turns off every environment lookup, including the
	// encryption key variables.
	DisableEnvOverlay bool

	// EncryptionKey is the AES-256 key (32 bytes) for "enc:" client secrets.
	// Takes precedence over the ENCRYPTION_KEY and ENCRYPTION_PASSPHRASE variables.
	EncryptionKey []byte

	// Instrumentation records load and lookup metrics and traces (optional)
	Instrumentation *instrumentation.Instrumentation

	// Auditor records registry security events (optional)
	Auditor *security.Auditor
}

// withDefaults returns a copy of c with defaults applied
func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.EnvPrefix == "" {
		out.EnvPrefix = DefaultEnvPrefix
	}
	return out
}
