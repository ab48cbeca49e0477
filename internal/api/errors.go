package api

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure so callers can pick the right UX for it.
type Kind string

const (
	// KindValidation means the request was rejected as malformed or
	// incomplete; the user should fix the input, not retry as-is.
	KindValidation Kind = "validation"
	// KindAuth means the session is missing, expired or refused; the user
	// should log in again.
	KindAuth Kind = "auth"
	// KindForbidden means the authenticated user lacks the required role.
	KindForbidden Kind = "forbidden"
	// KindNotFound means the referenced resource does not exist.
	KindNotFound Kind = "not_found"
	// KindTransient covers network failures and server errors. Whether a
	// retry is safe is up to the caller: reads are idempotent, a check
	// submission is not.
	KindTransient Kind = "transient"
)

// Error is a failed API call.
type Error struct {
	Kind       Kind
	StatusCode int    // 0 when the request never got a response
	Message    string // server-provided detail when available
	RequestID  string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuth reports whether err means the user needs to (re)authenticate.
func IsAuth(err error) bool { return IsKind(err, KindAuth) }

// IsValidation reports whether err means the input should be corrected.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == 401:
		return KindAuth
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 400 || status == 422:
		return KindValidation
	default:
		return KindTransient
	}
}
