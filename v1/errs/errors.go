// Package errs defines the error taxonomy shared by the compilation layer.
//
// Every failure produced while building a wire message falls into one of
// two classes, both detected before any transport call:
//
//   - InputError: the caller supplied something malformed (empty vector,
//     operator/value mismatch, missing required field).
//   - UnsupportedFeatureError: the connected server is too old for the
//     requested feature. It carries the minimum version needed.
//
// Transport failures are not wrapped in a type of their own; they are
// returned with their original identity so callers can keep using
// errors.Is and grpc status inspection on them.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can
// classify with errors.Is without caring about details.
var (
	// ErrInvalidInput is the class of all caller input mistakes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFeature is the class of all server version mismatches.
	ErrUnsupportedFeature = errors.New("unsupported feature")
)

// InputError reports a malformed request detected during compilation.
type InputError struct {
	// Field names the option or value that was rejected, e.g. "nearVector.vector".
	Field string
	// Reason is a short human-readable description.
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Input is a shorthand constructor for *InputError.
func Input(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedFeatureError reports a feature the connected server cannot serve.
type UnsupportedFeatureError struct {
	// Feature is the human-readable feature name.
	Feature string
	// MinVersion is the lowest server version supporting Feature.
	MinVersion string
	// ServerVersion is the version the check was made against.
	ServerVersion string
	// Message is the full upgrade hint shown to the user.
	Message string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s requires server version %s or newer (connected: %s)",
		e.Feature, e.MinVersion, e.ServerVersion)
}

func (e *UnsupportedFeatureError) Unwrap() error { return ErrUnsupportedFeature }

// IsInputError reports whether err is (or wraps) an input error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupportedFeature reports whether err is (or wraps) an unsupported feature error.
func IsUnsupportedFeature(err error) bool {
	return errors.Is(err, ErrUnsupportedFeature)
}

// AsUnsupportedFeature extracts the typed error, if any.
func AsUnsupportedFeature(err error) (*UnsupportedFeatureError, bool) {
	var target *UnsupportedFeatureError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
