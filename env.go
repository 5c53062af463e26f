package consumers

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/giantswarm/oauth-consumers/internal/util"
	"github.com/giantswarm/oauth-consumers/security"
)

// registryEnv holds the document-wide environment settings, read with
// Config.EnvPrefix (e.g. OAUTH_CONSUMERS_STORAGE).
type registryEnv struct {
	Storage              string `env:"STORAGE"`
	EncryptionKey        string `env:"ENCRYPTION_KEY"`
	EncryptionPassphrase string `env:"ENCRYPTION_PASSPHRASE"`
}

// consumerEnv holds per-provider overrides, read with the prefix
// Config.EnvPrefix + util.EnvKey(provider) + "_" (e.g. OAUTH_CONSUMERS_GOOGLE_CLIENT_ID).
type consumerEnv struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	Scope        []string `env:"SCOPE" envSeparator:","`
}

// parseEnv fills target from the configured environment
func (c *Config) parseEnv(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{
		Prefix:      prefix,
		Environment: c.Environment,
	}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// readRegistryEnv returns the document-wide settings, or zero values when the
// overlay is disabled
func (c *Config) readRegistryEnv() (registryEnv, error) {
	var raw registryEnv
	if c.DisableEnvOverlay {
		return raw, nil
	}
	if err := c.parseEnv(&raw, c.EnvPrefix); err != nil {
		return registryEnv{}, &ConfigParseError{Source: c.Source, Field: c.EnvPrefix + "*", Reason: "invalid environment", Err: err}
	}
	return raw, nil
}

// applyConsumerEnv replaces credential fields with non-empty environment
// values and returns the names of the fields it replaced
func (c *Config) applyConsumerEnv(cred *ProviderCredential) ([]string, error) {
	if c.DisableEnvOverlay {
		return nil, nil
	}
	key := util.EnvKey(cred.Provider)
	if key == "" {
		return nil, nil
	}

	prefix := c.EnvPrefix + key + "_"
	var raw consumerEnv
	if err := c.parseEnv(&raw, prefix); err != nil {
		return nil, &ConfigParseError{Source: c.Source, Field: prefix + "*", Reason: "invalid environment", Err: err}
	}

	var fields []string
	if raw.ClientID != "" {
		cred.ClientID = raw.ClientID
		fields = append(fields, keyClientID)
	}
	if raw.ClientSecret != "" {
		cred.ClientSecret = raw.ClientSecret
		fields = append(fields, keyClientSecret)
	}
	if scope := util.TrimList(raw.Scope); scope != nil {
		cred.Scope = scope
		fields = append(fields, keyScope)
	}
	return fields, nil
}

// encryptor builds the secret decryptor. Config.EncryptionKey wins over the
// environment; a passphrase is only used when no key is given.
func (c *Config) encryptor(raw registryEnv) (*security.Encryptor, error) {
	key := c.EncryptionKey
	field := "EncryptionKey"

	if len(key) == 0 {
		var err error
		switch {
		case raw.EncryptionKey != "":
			field = c.EnvPrefix + "ENCRYPTION_KEY"
			key, err = security.KeyFromBase64(raw.EncryptionKey)
		case raw.EncryptionPassphrase != "":
			field = c.EnvPrefix + "ENCRYPTION_PASSPHRASE"
			key, err = security.DeriveKey([]byte(raw.EncryptionPassphrase))
		}
		if err != nil {
			return nil, &ConfigParseError{Source: c.Source, Field: field, Reason: "invalid encryption key", Err: err}
		}
	}

	enc, err := security.NewEncryptor(key)
	if err != nil {
		return nil, &ConfigParseError{Source: c.Source, Field: field, Reason: "invalid encryption key", Err: err}
	}
	return enc, nil
}

// noteOverride logs, audits and counts a field replaced from the environment.
// Values are never logged.
func (c *Config) noteOverride(ctx context.Context, provider, field string) {
	c.Logger.Debug("Applied environment override",
		"source", c.Source,
		"provider", provider,
		"field", field)
	c.Auditor.LogEnvOverride(c.Source, provider, field)
	if c.Instrumentation != nil {
		c.Instrumentation.Metrics().RecordEnvOverride(ctx, field)
	}
}
