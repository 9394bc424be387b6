package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the application's failure classes.
// Every error that crosses a handler boundary carries a Kind so the error
// mapping middleware can pick the HTTP status and a user-safe detail string.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindUnknownUser
	KindDuplicateUsername
	KindUpstreamAuth
	KindUpstreamRateLimit
	KindUpstreamQuota
	KindUpstreamPermission
	KindUpstreamMalformed
	KindUpstreamGeneric
	KindAllServicesFailed
	KindPersistenceFailure
)

// Error is the application error type. Detail is safe to show to callers
// for input/auth kinds; upstream and internal kinds get a canned message
// from PublicDetail instead, so raw upstream text never leaks.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error with no wrapped cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap creates an application error around an underlying cause.
func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the Kind from an error chain. Unknown errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to the response status code.
// DuplicateUsername intentionally maps to 401: the legacy API surfaced
// taken usernames that way and clients depend on it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized, KindDuplicateUsername:
		return http.StatusUnauthorized
	case KindUnknownUser:
		return http.StatusNotFound
	case KindUpstreamAuth, KindUpstreamRateLimit, KindUpstreamQuota,
		KindUpstreamPermission, KindUpstreamMalformed, KindUpstreamGeneric:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicDetail returns the caller-visible detail for err. Input, auth and
// aggregation errors carry their own message; upstream kinds map to a short
// categorized message; everything else collapses to a generic detail.
func PublicDetail(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "Internal Server Error"
	}

	switch appErr.Kind {
	case KindInvalidInput, KindUnauthorized, KindUnknownUser,
		KindDuplicateUsername, KindAllServicesFailed:
		return appErr.Detail
	case KindUpstreamAuth:
		return "Image service authentication failed"
	case KindUpstreamRateLimit:
		return "Image service rate limit reached, please retry shortly"
	case KindUpstreamQuota:
		return "Image service quota exceeded"
	case KindUpstreamPermission:
		return "Image service denied the request"
	case KindUpstreamMalformed:
		return "Image service rejected the request"
	case KindUpstreamGeneric:
		return "Image generation failed"
	default:
		return "Internal Server Error"
	}
}
