package consumers

import (
	"errors"
	"strings"
	"testing"

	"github.com/giantswarm/oauth-consumers/security"
)

func TestApplyConsumerEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantID     string
		wantSecret string
		wantScope  []string
		wantFields []string
	}{
		{
			name:       "no variables",
			env:        map[string]string{},
			wantID:     "doc-id",
			wantSecret: "doc-secret",
			wantScope:  []string{"email"},
		},
		{
			name: "all fields",
			env: map[string]string{
				"OAUTH_CONSUMERS_GOOGLE_CLIENT_ID":     "env-id",
				"OAUTH_CONSUMERS_GOOGLE_CLIENT_SECRET": "env-secret",
				"OAUTH_CONSUMERS_GOOGLE_SCOPE":         "openid, profile ,",
			},
			wantID:     "env-id",
			wantSecret: "env-secret",
			wantScope:  []string{"openid", "profile"},
			wantFields: []string{"client_id", "client_secret", "scope"},
		},
		{
			name: "empty values do not override",
			env: map[string]string{
				"OAUTH_CONSUMERS_GOOGLE_CLIENT_ID":     "",
				"OAUTH_CONSUMERS_GOOGLE_CLIENT_SECRET": "",
				"OAUTH_CONSUMERS_GOOGLE_SCOPE":         " , ",
			},
			wantID:     "doc-id",
			wantSecret: "doc-secret",
			wantScope:  []string{"email"},
		},
		{
			name: "other provider untouched",
			env: map[string]string{
				"OAUTH_CONSUMERS_GITHUB_CLIENT_ID": "env-id",
			},
			wantID:     "doc-id",
			wantSecret: "doc-secret",
			wantScope:  []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := (&Config{Environment: tt.env}).withDefaults()
			cred := ProviderCredential{
				Provider:     "Google",
				ClientID:     "doc-id",
				ClientSecret: "doc-secret",
				Scope:        []string{"email"},
			}

			fields, err := c.applyConsumerEnv(&cred)
			if err != nil {
				t.Fatalf("applyConsumerEnv() error = %v", err)
			}
			if cred.ClientID != tt.wantID {
				t.Errorf("ClientID = %q, want %q", cred.ClientID, tt.wantID)
			}
			if cred.ClientSecret != tt.wantSecret {
				t.Errorf("ClientSecret = %q, want %q", cred.ClientSecret, tt.wantSecret)
			}
			if strings.Join(cred.Scope, " ") != strings.Join(tt.wantScope, " ") {
				t.Errorf("Scope = %v, want %v", cred.Scope, tt.wantScope)
			}
			if strings.Join(fields, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %v, want %v", fields, tt.wantFields)
			}
		})
	}
}

func TestApplyConsumerEnv_ProviderNameNormalised(t *testing.T) {
	c := (&Config{
		EnvPrefix:   "APP_",
		Environment: map[string]string{"APP_AZURE_AD_CLIENT_SECRET": "env-secret"},
	}).withDefaults()

	cred := ProviderCredential{Provider: "azure-ad"}
	if _, err := c.applyConsumerEnv(&cred); err != nil {
		t.Fatalf("applyConsumerEnv() error = %v", err)
	}
	if cred.ClientSecret != "env-secret" {
		t.Errorf("ClientSecret = %q, want env-secret", cred.ClientSecret)
	}
}

func TestApplyConsumerEnv_Disabled(t *testing.T) {
	c := (&Config{
		DisableEnvOverlay: true,
		Environment:       map[string]string{"OAUTH_CONSUMERS_GOOGLE_CLIENT_ID": "env-id"},
	}).withDefaults()

	cred := ProviderCredential{Provider: "Google", ClientID: "doc-id"}
	fields, err := c.applyConsumerEnv(&cred)
	if err != nil {
		t.Fatalf("applyConsumerEnv() error = %v", err)
	}
	if cred.ClientID != "doc-id" || fields != nil {
		t.Errorf("overlay applied while disabled: %v %v", cred, fields)
	}
}

func TestReadRegistryEnv(t *testing.T) {
	c := (&Config{Environment: map[string]string{
		"OAUTH_CONSUMERS_STORAGE":               "Memory",
		"OAUTH_CONSUMERS_ENCRYPTION_PASSPHRASE": "hunter2",
	}}).withDefaults()

	raw, err := c.readRegistryEnv()
	if err != nil {
		t.Fatalf("readRegistryEnv() error = %v", err)
	}
	if raw.Storage != "Memory" {
		t.Errorf("Storage = %q, want Memory", raw.Storage)
	}
	if raw.EncryptionPassphrase != "hunter2" {
		t.Errorf("EncryptionPassphrase not read")
	}

	c.DisableEnvOverlay = true
	raw, err = c.readRegistryEnv()
	if err != nil {
		t.Fatalf("readRegistryEnv() error = %v", err)
	}
	if raw != (registryEnv{}) {
		t.Errorf("readRegistryEnv() with overlay disabled = %+v, want zero", raw)
	}
}

func TestEncryptor(t *testing.T) {
	key, err := security.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	tests := []struct {
		name        string
		cfg         Config
		raw         registryEnv
		wantEnabled bool
		wantErr     bool
	}{
		{
			name: "no key",
		},
		{
			name:        "config key",
			cfg:         Config{EncryptionKey: key},
			wantEnabled: true,
		},
		{
			name:        "base64 env key",
			raw:         registryEnv{EncryptionKey: security.KeyToBase64(key)},
			wantEnabled: true,
		},
		{
			name:        "passphrase",
			raw:         registryEnv{EncryptionPassphrase: "correct horse battery staple"},
			wantEnabled: true,
		},
		{
			name:    "short config key",
			cfg:     Config{EncryptionKey: []byte("short")},
			wantErr: true,
		},
		{
			name:    "invalid base64 env key",
			raw:     registryEnv{EncryptionKey: "not base64!"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg.withDefaults()
			enc, err := c.encryptor(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("encryptor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrConfigParse) {
					t.Errorf("encryptor() error = %v, want ErrConfigParse", err)
				}
				return
			}
			if enc.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", enc.IsEnabled(), tt.wantEnabled)
			}
			if tt.raw.EncryptionPassphrase == "" {
				return
			}

			// Secrets sealed with the Argon2id-derived key must open
			derived, err := security.DeriveKey([]byte(tt.raw.EncryptionPassphrase))
			if err != nil {
				t.Fatalf("DeriveKey() error = %v", err)
			}
			sealer, err := security.NewEncryptor(derived)
			if err != nil {
				t.Fatalf("NewEncryptor() error = %v", err)
			}
			sealed, err := sealer.EncryptSecret("s3cret")
			if err != nil {
				t.Fatalf("EncryptSecret() error = %v", err)
			}
			if got, err := enc.DecryptSecret(sealed); err != nil || got != "s3cret" {
				t.Errorf("DecryptSecret() = %q, %v, want s3cret", got, err)
			}
		})
	}
}
