// Package consumers loads the OAuth consumer configuration of an application:
// the token storage backend selector and the client credentials registered
// with each third-party provider.
//
// The document is YAML or JSON:
//
//	storage: '\OAuth\Common\Storage\Session'
//	consumers:
//	  Google:
//	    client_id: ""
//	    client_secret: ""
//	    scope: []
//
// A Registry is built once at startup and is read-only afterwards, so it can
// be shared between goroutines without locking.
package consumers

import (
	"bytes"
	"context"
	"io"
	"os"
	"slices"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/giantswarm/oauth-consumers/instrumentation"
	"github.com/giantswarm/oauth-consumers/security"
)

// Registry maps provider names to consumer credentials.
// Provider names are case-sensitive.
type Registry struct {
	source    string
	storage   StorageBackend
	consumers map[string]ProviderCredential

	auditor *security.Auditor
	inst    *instrumentation.Instrumentation
	gauge   metric.Registration
}

// Load parses a consumers document from r
func Load(ctx context.Context, r io.Reader, cfg *Config) (*Registry, error) {
	c := cfg.withDefaults()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigParseError{Source: c.Source, Reason: "failed to read document", Err: err}
	}
	return load(ctx, data, c)
}

// LoadBytes parses a consumers document held in memory
func LoadBytes(ctx context.Context, data []byte, cfg *Config) (*Registry, error) {
	return Load(ctx, bytes.NewReader(data), cfg)
}

// LoadFile reads and parses the consumers document at path.
// Read failures are reported as *ConfigParseError wrapping the os error.
func LoadFile(ctx context.Context, path string, cfg *Config) (*Registry, error) {
	c := cfg.withDefaults()
	if c.Source == "" {
		c.Source = path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigParseError{Source: c.Source, Reason: "failed to read file", Err: err}
	}
	return load(ctx, data, c)
}

func load(ctx context.Context, data []byte, c Config) (reg *Registry, err error) {
	start := time.Now()

	var span trace.Span
	if c.Instrumentation != nil {
		ctx, span = c.Instrumentation.Tracer("registry").Start(ctx, "registry.load")
		defer span.End()
		instrumentation.AddLoadAttributes(span, c.Source)
	}
	defer func() {
		if err != nil {
			c.Logger.Error("Failed to load OAuth consumer registry", "source", c.Source, "error", err)
		}
		c.recordLoad(ctx, span, start, reg, err)
	}()

	doc, err := parseDocument(data, c.Source, c.Logger)
	if err != nil {
		return nil, err
	}

	raw, err := c.readRegistryEnv()
	if err != nil {
		return nil, err
	}
	if raw.Storage != "" {
		doc.storage = raw.Storage
		c.noteOverride(ctx, "", keyStorage)
	}
	if doc.storage == "" {
		reason := "missing required key"
		if doc.storageLine > 0 {
			reason = "must not be empty"
		}
		return nil, &ConfigParseError{Source: c.Source, Line: doc.storageLine, Field: keyStorage, Reason: reason}
	}

	// Built on the first "enc:" secret only.
	var enc *security.Encryptor

	for _, name := range doc.order {
		cred := doc.consumers[name]

		fields, err := c.applyConsumerEnv(&cred)
		if err != nil {
			return nil, err
		}
		for _, field := range fields {
			c.noteOverride(ctx, name, field)
		}

		if security.IsEncryptedSecret(cred.ClientSecret) {
			if enc == nil {
				if enc, err = c.encryptor(raw); err != nil {
					return nil, err
				}
			}
			secret, err := enc.DecryptSecret(cred.ClientSecret)
			if err != nil {
				return nil, &ConfigParseError{
					Source: c.Source,
					Line:   doc.lines[name],
					Field:  keyConsumers + "." + name + "." + keyClientSecret,
					Reason: "cannot decrypt secret",
					Err:    err,
				}
			}
			cred.ClientSecret = secret
			c.Auditor.LogSecretDecrypted(c.Source, name)
			if c.Instrumentation != nil {
				c.Instrumentation.Metrics().RecordSecretDecrypted(ctx)
			}
		}

		doc.consumers[name] = cred
	}

	reg = &Registry{
		source:    c.Source,
		storage:   StorageBackend(doc.storage),
		consumers: doc.consumers,
		auditor:   c.Auditor,
		inst:      c.Instrumentation,
	}

	if c.Instrumentation != nil {
		gauge, err := c.Instrumentation.RegisterRegistrySizeCallback(c.Source, func() int64 {
			return int64(len(reg.consumers))
		})
		if err != nil {
			c.Logger.Warn("Failed to register registry size gauge", "error", err)
		} else {
			reg.gauge = gauge
		}
	}

	c.Logger.Info("Loaded OAuth consumer registry",
		"source", c.Source,
		"providers", len(reg.consumers),
		"storage", doc.storage)
	for _, name := range doc.order {
		c.Logger.Debug("Registered OAuth consumer", "credential", reg.consumers[name])
	}
	c.Auditor.LogRegistryLoaded(c.Source, len(reg.consumers), doc.storage)

	return reg, nil
}

// recordLoad records metrics and span status for a finished load
func (c *Config) recordLoad(ctx context.Context, span trace.Span, start time.Time, reg *Registry, err error) {
	if c.Instrumentation == nil {
		return
	}

	durationMs := float64(time.Since(start).Microseconds()) / 1000
	result := "success"
	if err != nil {
		code := errorCode(err)
		result = code
		instrumentation.RecordError(span, err)
		instrumentation.AddResultAttributes(span, "error", code)
	} else {
		instrumentation.AddRegistryAttributes(span, string(reg.storage), len(reg.consumers))
		instrumentation.AddResultAttributes(span, result, "")
		instrumentation.SetSpanSuccess(span)
	}

	c.Instrumentation.Metrics().RecordLoad(ctx, result, durationMs)
}

// Get returns the credential for provider name.
// It fails with *UnknownProviderError when no entry exists.
// The returned value shares no state with the registry.
func (r *Registry) Get(name string) (ProviderCredential, error) {
	if r == nil {
		return ProviderCredential{}, &UnknownProviderError{Provider: name}
	}

	cred, ok := r.consumers[name]
	if !ok {
		r.auditor.LogUnknownProvider(r.source, name)
		r.recordLookup(name, instrumentation.LookupResultMiss)
		return ProviderCredential{}, &UnknownProviderError{Provider: name}
	}

	r.recordLookup(name, instrumentation.LookupResultHit)
	return cred.clone(), nil
}

func (r *Registry) recordLookup(name, result string) {
	if r.inst == nil {
		return
	}
	r.inst.Metrics().RecordLookup(context.Background(), name, result)
}

// StorageBackend returns the configured storage backend selector.
// It fails with *ConfigParseError when no selector is configured, which can
// only happen on a Registry that was not built by Load.
func (r *Registry) StorageBackend() (StorageBackend, error) {
	if r == nil || r.storage == "" {
		var source string
		if r != nil {
			source = r.source
		}
		return "", &ConfigParseError{Source: source, Field: keyStorage, Reason: "missing required key"}
	}
	return r.storage, nil
}

// Providers returns the declared provider names in sorted order
func (r *Registry) Providers() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.consumers))
	for name := range r.consumers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of declared providers
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.consumers)
}

// Source returns the name of the document the registry was loaded from
func (r *Registry) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

// OAuth2Config resolves the credential for provider name and builds an
// oauth2.Config with the given redirect URL.
func (r *Registry) OAuth2Config(name, redirectURL string) (*oauth2.Config, error) {
	cred, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return cred.OAuth2Config(redirectURL)
}

// Close releases the instrumentation callback registered by Load.
// The registry remains usable for lookups. Not safe to call concurrently
// with itself.
func (r *Registry) Close() error {
	if r == nil || r.gauge == nil {
		return nil
	}
	err := r.gauge.Unregister()
	r.gauge = nil
	return err
}
