package security

import (
	"log/slog"
	"time"
)

// Audit event types emitted by the registry.
const (
	EventRegistryLoaded  = "registry_loaded"
	EventUnknownProvider = "unknown_provider"
	EventEnvOverride     = "env_override"
	EventSecretDecrypted = "secret_decrypted"
)

// Auditor handles security event logging for credential handling.
// Events carry provider names and field names only, never credential values.
type Auditor struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditor creates a new security auditor
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		logger:  logger,
		enabled: enabled,
	}
}

// Event represents a security audit event
type Event struct {
	Type      string
	Provider  string
	Source    string
	Details   map[string]any
	Timestamp time.Time
}

// LogEvent logs a security event. Safe to call on a nil Auditor.
func (a *Auditor) LogEvent(event Event) {
	if a == nil || !a.enabled {
		return
	}

	event.Timestamp = time.Now()

	a.logger.Info("security_audit",
		"event_type", event.Type,
		"provider", event.Provider,
		"source", event.Source,
		"details", event.Details,
		"timestamp", event.Timestamp,
	)
}

// LogRegistryLoaded logs a successful registry load
func (a *Auditor) LogRegistryLoaded(source string, providers int, storage string) {
	a.LogEvent(Event{
		Type:   EventRegistryLoaded,
		Source: source,
		Details: map[string]any{
			"providers": providers,
			"storage":   storage,
		},
	})
}

// LogUnknownProvider logs a lookup for a provider that is not configured
func (a *Auditor) LogUnknownProvider(source, provider string) {
	a.LogEvent(Event{
		Type:     EventUnknownProvider,
		Provider: provider,
		Source:   source,
	})
}

// LogEnvOverride logs that an environment variable replaced a configured field.
// Only the field name is recorded.
func (a *Auditor) LogEnvOverride(source, provider, field string) {
	a.LogEvent(Event{
		Type:     EventEnvOverride,
		Provider: provider,
		Source:   source,
		Details: map[string]any{
			"field": field,
		},
	})
}

// LogSecretDecrypted logs that an encrypted client secret was decrypted
func (a *Auditor) LogSecretDecrypted(source, provider string) {
	a.LogEvent(Event{
		Type:     EventSecretDecrypted,
		Provider: provider,
		Source:   source,
	})
}
