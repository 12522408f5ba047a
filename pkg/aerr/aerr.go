// Package aerr provides the structured error type shared across the
// wallet core, following the teacher's pkg/errors shape (a code,
// message, details map, cause, and helpers for wrapping/annotating)
// adapted from a CLI exit-code model to the host-error taxonomy this
// spec requires (§7): host-side codes that the RPC handler later maps
// onto EIP-1193 dApp-facing codes via EIP1193Code.
package aerr

import (
	"errors"
	"fmt"
	"sort"
)

// AurumError is the structured error type returned across package
// boundaries in this module.
type AurumError struct {
	Code       string
	Message    string
	Details    map[string]string
	Suggestion string
	Cause      error
}

func (e *AurumError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AurumError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is by comparing codes, so errors.Is(err,
// ErrWalletLocked) matches any AurumError sharing that code regardless of
// details or cause.
func (e *AurumError) Is(target error) bool {
	var t *AurumError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates an AurumError with the given code and message.
func New(code, message string) *AurumError {
	return &AurumError{Code: code, Message: message}
}

// Wrap adds context to err, preserving its code when err is an
// AurumError so errors.Is checks against a sentinel keep working through
// the wrap.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ae *AurumError
	if errors.As(err, &ae) {
		return &AurumError{
			Code:       ae.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ae.Message),
			Details:    ae.Details,
			Suggestion: ae.Suggestion,
			Cause:      err,
		}
	}

	return &AurumError{Code: CodeInternal, Message: msg, Cause: err}
}

// WithDetails attaches diagnostic details (method, address, etc.) to an
// error. Details must never contain secret material — they are surfaced
// to logs and, for dApp-facing errors, never sent to the page at all
// (see EIP1193Code/Message).
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ae *AurumError
	if errors.As(err, &ae) {
		return &AurumError{
			Code:       ae.Code,
			Message:    ae.Message,
			Details:    details,
			Suggestion: ae.Suggestion,
			Cause:      ae.Cause,
		}
	}

	return &AurumError{Code: CodeInternal, Message: err.Error(), Details: details, Cause: err}
}

// Code returns the machine-readable code for an error, or CodeInternal
// if err is not an AurumError.
func Code(err error) string {
	var ae *AurumError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is wraps errors.Is for convenience, matching the teacher's pkg/errors
// surface.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
