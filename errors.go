package taskview

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed classification every surfaced failure falls into.
type Kind string

const (
	// KindValidation is bad local input; the request never left the process.
	KindValidation Kind = "validation"
	// KindNetwork is a transport-level failure (DNS, timeout, reset).
	// Retryable by caller policy.
	KindNetwork Kind = "network"
	// KindHTTP is a non-2xx server response. Carries status and the server's
	// error envelope. Not retryable: the request was rejected on its merits.
	KindHTTP Kind = "http"
	// KindSerialization means the response body violated the contract.
	// Treated as a defect signal, not retryable.
	KindSerialization Kind = "serialization"
	// KindUnknown is the coercion bucket for anything unclassified, so
	// callers always have a total error -> message mapping.
	KindUnknown Kind = "unknown"
)

// FieldViolation names one field that failed validation and why.
type FieldViolation struct {
	Field  string
	Reason string
}

// Error is the single error type surfaced by this package.
type Error struct {
	Kind       Kind
	Status     int            // HTTP status; set only for KindHTTP
	Message    string         // server-supplied or locally derived
	Details    map[string]any // server envelope details, if any
	Violations []FieldViolation
	cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("taskview: ")
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "; %s: %s", v.Field, v.Reason)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether caller policy may retry the failed call.
// Only transport-level failures qualify.
func (e *Error) Retryable() bool { return e.Kind == KindNetwork }

// UserMessage derives a human-readable message deterministically from the
// kind and, for http, the status code.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return "invalid input"
	case KindNetwork:
		return "connection problem, try again"
	case KindSerialization:
		return "unexpected server response"
	case KindHTTP:
		switch {
		case e.Status == 401:
			return "sign in required"
		case e.Status == 403:
			return "not allowed"
		case e.Status == 404:
			return "not found"
		case e.Status >= 500:
			return "service unavailable, try again"
		default:
			return "request rejected"
		}
	default:
		return "something went wrong"
	}
}

func validationErr(msg string, violations ...FieldViolation) *Error {
	return &Error{Kind: KindValidation, Message: msg, Violations: violations}
}

func networkErr(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", cause: cause}
}

func serializationErr(msg string, cause error) *Error {
	return &Error{Kind: KindSerialization, Message: msg, cause: cause}
}

// Coerce maps any error into the closed taxonomy. Errors already produced
// by this package pass through unchanged; everything else lands in the
// unknown bucket. Coerce(nil) is nil.
func Coerce(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: KindUnknown, Message: "unclassified failure", cause: err}
}
