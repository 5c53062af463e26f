package util

import "strings"

// SafeTruncate safely truncates a string to maxLen bytes without panicking.
// Returns the original string if it's shorter than maxLen, otherwise returns
// the first maxLen bytes. Used when logging identifiers where only a prefix
// should be shown.
//
// If maxLen is negative, it's treated as 0 and returns an empty string.
//
// Example:
//
//	SafeTruncate("1234567890-abc.apps.googleusercontent.com", 12) // Returns: "1234567890-a"
//	SafeTruncate("short", 10)                                      // Returns: "short"
//	SafeTruncate("test", -1)                                       // Returns: ""
func SafeTruncate(s string, maxLen int) string {
	if maxLen < 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// EnvKey converts a provider name into the form used inside environment
// variable names: upper case, with every run of characters outside [A-Z0-9]
// collapsed into a single underscore. Leading and trailing underscores are
// dropped.
//
// Example:
//
//	EnvKey("Google")        // Returns: "GOOGLE"
//	EnvKey("azure-ad.v2")   // Returns: "AZURE_AD_V2"
//	EnvKey("  My  App ")    // Returns: "MY_APP"
func EnvKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// TrimList trims whitespace from each entry and drops empty ones.
// Returns nil when nothing is left.
func TrimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
