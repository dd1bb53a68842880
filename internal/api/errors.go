package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/svera/snapgram/internal/backend"
)

// Reason classifies why an operation failed
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonNotFound
	ReasonUnauthorized
	ReasonConflict
	ReasonInvalid
	ReasonUnavailable
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonUnauthorized:
		return "unauthorized"
	case ReasonConflict:
		return "conflict"
	case ReasonInvalid:
		return "invalid"
	case ReasonUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Sentinels to be used with errors.Is
var (
	ErrNotFound     = &Error{Reason: ReasonNotFound}
	ErrUnauthorized = &Error{Reason: ReasonUnauthorized}
	ErrConflict     = &Error{Reason: ReasonConflict}
	ErrInvalid      = &Error{Reason: ReasonInvalid}
	ErrUnavailable  = &Error{Reason: ReasonUnavailable}
)

// Error is returned by every Service operation that fails
type Error struct {
	Op     string
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels, which only carry a reason
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Reason == e.Reason
}

// ReasonOf returns the reason err failed, or ReasonUnknown if err did not come from a Service
func ReasonOf(err error) Reason {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ReasonUnknown
}

func classify(err error) Reason {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		switch {
		case backendErr.Code == http.StatusNotFound:
			return ReasonNotFound
		case backendErr.Code == http.StatusUnauthorized, backendErr.Code == http.StatusForbidden:
			return ReasonUnauthorized
		case backendErr.Code == http.StatusConflict:
			return ReasonConflict
		case backendErr.Code >= 400 && backendErr.Code < 500:
			return ReasonInvalid
		}
		return ReasonUnavailable
	}
	// transport failures, cancellations and timeouts
	return ReasonUnavailable
}
