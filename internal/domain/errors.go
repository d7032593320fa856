package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the core can surface to a caller.
// Adapter-layer errors carry their kind unchanged through the facade; the
// HTTP layer maps kinds to status codes.
type ErrorKind int

const (
	// KindUnknown is the zero value; errors without a kind map to it.
	KindUnknown ErrorKind = iota
	// KindValidationFailed marks bad input rejected before any remote call.
	KindValidationFailed
	// KindAuthenticationFailed marks a remote credential rejection.
	KindAuthenticationFailed
	// KindNotFound marks an absent entity or region.
	KindNotFound
	// KindAlreadyExists marks the marker idempotency guard firing.
	KindAlreadyExists
	// KindMalformed marks a structurally invalid marker pair.
	KindMalformed
	// KindSiteInactive marks an operation against a disconnected site.
	KindSiteInactive
	// KindRemoteRejected marks a well-formed write refused by the platform.
	KindRemoteRejected
	// KindRenderTimeout marks universal detection exceeding its time budget.
	KindRenderTimeout
)

// String returns the stable name used in API payloads and logs.
func (k ErrorKind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindMalformed:
		return "malformed"
	case KindSiteInactive:
		return "site_inactive"
	case KindRemoteRejected:
		return "remote_rejected"
	case KindRenderTimeout:
		return "render_timeout"
	default:
		return "unknown"
	}
}

// Error is the structured failure type crossing component boundaries.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a kinded error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and message to an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or KindUnknown when err carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
