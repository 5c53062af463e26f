package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// SecretPrefix marks a configuration value as an encrypted secret.
// The remainder of the value is the base64 output of Encrypt.
const SecretPrefix = "enc:"

// Argon2id parameters used by DeriveKey. Changing any of them changes every
// derived key, so existing "enc:" values would no longer decrypt.
const (
	// KeyDerivationSalt is the fixed salt for passphrase-derived keys.
	KeyDerivationSalt = "oauth-consumers client secret v1"

	argon2Time    = 3
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	keyLength     = 32
)

// ErrNoEncryptionKey is returned when an encrypted secret is found but the
// encryptor has no key configured.
var ErrNoEncryptionKey = errors.New("encrypted secret found but no encryption key is configured")

// Encryptor decrypts client secrets stored in configuration using AES-256-GCM.
type Encryptor struct {
	key     []byte
	enabled bool
}

// NewEncryptor creates a new encryptor.
// If key is nil or empty, encryption is disabled.
// The key must be exactly 32 bytes for AES-256.
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) == 0 {
		return &Encryptor{enabled: false}, nil
	}

	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be exactly 32 bytes for AES-256, got %d", len(key))
	}

	return &Encryptor{
		key:     key,
		enabled: true,
	}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns base64-encoded ciphertext.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if !e.IsEnabled() {
		return plaintext, nil
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Storage format: [nonce][ciphertext]
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts base64-encoded ciphertext using AES-256-GCM.
func (e *Encryptor) Decrypt(encoded string) (string, error) {
	if !e.IsEnabled() {
		return encoded, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

// EncryptSecret encrypts a client secret into the "enc:" form understood by
// DecryptSecret. Requires an enabled encryptor.
func (e *Encryptor) EncryptSecret(secret string) (string, error) {
	if !e.IsEnabled() {
		return "", ErrNoEncryptionKey
	}
	ciphertext, err := e.Encrypt(secret)
	if err != nil {
		return "", err
	}
	return SecretPrefix + ciphertext, nil
}

// DecryptSecret returns value unchanged unless it carries SecretPrefix, in
// which case the remainder is decrypted. Safe to call on a nil Encryptor.
func (e *Encryptor) DecryptSecret(value string) (string, error) {
	if !IsEncryptedSecret(value) {
		return value, nil
	}
	if !e.IsEnabled() {
		return "", ErrNoEncryptionKey
	}
	return e.Decrypt(strings.TrimPrefix(value, SecretPrefix))
}

// IsEnabled returns true if encryption is enabled
func (e *Encryptor) IsEnabled() bool {
	return e != nil && e.enabled
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// IsEncryptedSecret reports whether value is in the "enc:" form.
func IsEncryptedSecret(value string) bool {
	return strings.HasPrefix(value, SecretPrefix)
}

// GenerateKey generates a new 32-byte encryption key for AES-256
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// DeriveKey derives a 32-byte AES-256 key from a passphrase with Argon2id
// (time=3, memory=64 MiB, threads=4) and the fixed KeyDerivationSalt.
// The same passphrase always yields the same key.
func DeriveKey(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	return argon2.IDKey(passphrase, []byte(KeyDerivationSalt), argon2Time, argon2Memory, argon2Threads, keyLength), nil
}

// KeyFromBase64 decodes a base64-encoded encryption key
func KeyFromBase64(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// KeyToBase64 encodes an encryption key to base64
func KeyToBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
