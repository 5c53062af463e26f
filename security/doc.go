// Package security provides the security features used while loading OAuth
// consumer credentials: decryption of secrets stored in configuration and
// audit logging.
//
// # Encrypted Secrets
//
// Client secrets may be committed in encrypted form. A value of the form
//
//	enc:<base64 of [nonce][AES-256-GCM ciphertext]>
//
// is decrypted by Encryptor.DecryptSecret. Values without the prefix pass
// through unchanged.
//
// Keys are 32 bytes. They can be generated with GenerateKey and exchanged as
// base64 (KeyToBase64, KeyFromBase64), or derived from a passphrase with
// DeriveKey (Argon2id with the fixed KeyDerivationSalt).
//
//	key, _ := security.KeyFromBase64(os.Getenv("OAUTH_CONSUMERS_ENCRYPTION_KEY"))
//	enc, _ := security.NewEncryptor(key)
//	sealed, _ := enc.EncryptSecret("GOCSPX-...")
//	// put sealed into the consumers document as client_secret
//
// # Audit Logging
//
// Auditor writes "security_audit" records through log/slog. Records name the
// provider and the affected field, never the credential value.
package security
