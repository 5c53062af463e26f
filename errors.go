package consumers

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes, used as metric labels and span attributes
const (
	ErrorCodeConfigParse     = "config_parse_error"
	ErrorCodeUnknownProvider = "unknown_provider"
	errorCodeOther           = "error"
)

var (
	// ErrConfigParse matches every *ConfigParseError via errors.Is
	ErrConfigParse = errors.New(ErrorCodeConfigParse)

	// ErrUnknownProvider matches every *UnknownProviderError via errors.Is
	ErrUnknownProvider = errors.New(ErrorCodeUnknownProvider)
)

// ConfigParseError reports a malformed or incomplete configuration document.
// It indicates a deployment defect and is never retried.
type ConfigParseError struct {
	Source string // document name, usually the file path
	Line   int    // 1-based line, 0 when unknown
	Field  string // dotted path such as "consumers.Google.scope"
	Reason string
	Err    error // underlying cause, if any
}

// Error implements the error interface
func (e *ConfigParseError) Error() string {
	var b strings.Builder
	b.WriteString("config parse error")
	if e.Source != "" {
		b.WriteString(": ")
		b.WriteString(e.Source)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	} else if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfigParse
func (e *ConfigParseError) Is(target error) bool {
	return target == ErrConfigParse
}

// Code returns ErrorCodeConfigParse
func (e *ConfigParseError) Code() string {
	return ErrorCodeConfigParse
}

// UnknownProviderError is returned when a lookup names a provider that has no entry
type UnknownProviderError struct {
	Provider string
}

// Error implements the error interface
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

// Is reports whether target is ErrUnknownProvider
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// Code returns ErrorCodeUnknownProvider
func (e *UnknownProviderError) Code() string {
	return ErrorCodeUnknownProvider
}

// errorCode extracts the error code used for metrics and spans
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return errorCodeOther
}
