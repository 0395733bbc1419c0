package rdf

import (
	"errors"
	"fmt"
)

// ErrorCode is a programmatic error classification.
type ErrorCode string

const (
	// ErrCodeConfig indicates missing or malformed configuration.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
	// ErrCodeUnboundNamespace indicates a reference to an unregistered prefix.
	ErrCodeUnboundNamespace ErrorCode = "UNBOUND_NAMESPACE"
	// ErrCodeUnsupportedFormat indicates a format outside the supported set.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeIO indicates a write failure.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeUnencodable indicates a value the chosen format cannot carry.
	ErrCodeUnencodable ErrorCode = "UNENCODABLE_VALUE"
	// ErrCodeUnknown is returned for errors outside the kinds above.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrConfig indicates missing or malformed configuration, or a missing
	// base URI when named subjects were requested.
	ErrConfig = errors.New("configuration error")
	// ErrUnboundNamespace indicates a prefix that was never registered.
	ErrUnboundNamespace = errors.New("unbound namespace")
	// ErrUnsupportedFormat indicates an unsupported serialization format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrIO indicates that output could not be written.
	ErrIO = errors.New("i/o error")
	// ErrUnencodable indicates a term holding characters the output format
	// cannot represent.
	ErrUnencodable = errors.New("value cannot be encoded")
)

// Code returns the error code for err, or "" for nil.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return ErrCodeConfig
	case errors.Is(err, ErrUnboundNamespace):
		return ErrCodeUnboundNamespace
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrIO):
		return ErrCodeIO
	case errors.Is(err, ErrUnencodable):
		return ErrCodeUnencodable
	default:
		return ErrCodeUnknown
	}
}

// ConfigError describes a configuration problem.
type ConfigError struct {
	Source string // file path or option name, if known
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "config"
	if e.Source != "" {
		msg += " " + e.Source
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the ErrConfig sentinel and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(source string, err error, format string, args ...any) *ConfigError {
	return &ConfigError{Source: source, Reason: fmt.Sprintf(format, args...), Err: err}
}

// UnboundNamespaceError reports a term built from an unregistered prefix.
type UnboundNamespaceError struct {
	Prefix string
	Local  string
}

func (e *UnboundNamespaceError) Error() string {
	return fmt.Sprintf("unbound namespace: prefix %q (term %s:%s) was never registered", e.Prefix, e.Prefix, e.Local)
}

// Unwrap returns ErrUnboundNamespace.
func (e *UnboundNamespaceError) Unwrap() error { return ErrUnboundNamespace }

// UnsupportedFormatError reports a format token outside the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.Format)
}

// Unwrap returns ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// IOError reports a failed write to a destination.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the ErrIO sentinel and the underlying cause.
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
