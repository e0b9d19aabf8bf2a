package raindrop

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind partitions failures into the categories callers dispatch on.
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindRateLimit  ErrorKind = "rate_limited"
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindUpstream   ErrorKind = "upstream"
	KindTimeout    ErrorKind = "timeout"
	KindAggregate  ErrorKind = "aggregate"
)

// Error is the single error type produced by this package. Op names the
// failing operation (method + path, or a handler-level operation name) and
// Status carries the upstream HTTP status when one was received.
type Error struct {
	Kind    ErrorKind
	Op      string
	Status  int
	Message string
	Errs    []error // sub-errors for KindAggregate
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Op != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Op)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Status != 0 {
		sb.WriteString(fmt.Sprintf(" (status %d)", e.Status))
	}
	for _, sub := range e.Errs {
		sb.WriteString("; ")
		sb.WriteString(sub.Error())
	}
	return sb.String()
}

// Unwrap exposes aggregate sub-errors to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	return e.Errs
}

// NewValidationError reports caller-supplied bad or missing input; no network
// round-trip has happened when this is returned.
func NewValidationError(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// NewAggregateError reports partial failure across a batch of sub-calls.
func NewAggregateError(op string, errs []error) *Error {
	return &Error{
		Kind:    KindAggregate,
		Op:      op,
		Message: fmt.Sprintf("%d of the batch sub-calls failed", len(errs)),
		Errs:    errs,
	}
}

// classifyStatus maps a non-2xx upstream status to an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindUpstream
	default:
		return KindValidation
	}
}

// KindOf extracts the ErrorKind from any error in the chain, or "" when the
// error did not originate here.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err classifies as an upstream 404.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
