package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidResponse = errors.New("invalid response")
)

// ErrorKind separates failures the UI collapses into one message.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation failures are detected locally; no request was sent.
	KindValidation
	// KindTransport covers unreachable servers, timeouts, unreadable bodies
	// and error statuses that carry no explanation.
	KindTransport
	// KindApplication is a failure the server explained, e.g. a wrong OTP.
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	default:
		return "none"
	}
}

// Error is the failure detail carried by an unsuccessful Result.
type Error struct {
	Kind ErrorKind
	// Status is the HTTP status, 0 when no response was received.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.Status, e.Cause)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// mapStatus turns an error status of the catalogue or assistant endpoints
// into a sentinel error.
func mapStatus(status int, message string) error {
	var base error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		base = ErrUnauthorized
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status == http.StatusRequestTimeout, status >= http.StatusBadGateway && status <= http.StatusGatewayTimeout:
		base = ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", status, message)
	}
	if message == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, message)
}
