// Package util provides common utility functions used across the oauth-consumers module.
//
// This package contains helper functions for string manipulation that don't fit
// into domain-specific packages.
//
// Key utilities:
//   - SafeTruncate: Safely truncates identifiers for logging
//   - EnvKey: Normalizes provider names for use in environment variable names
//   - TrimList: Cleans comma-separated list values
package util
