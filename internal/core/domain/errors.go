package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidIdentityKind = errors.New("invalid identity kind")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
)

// DefaultErrorMessage is used when the API returns an error body that cannot
// be decoded.
const DefaultErrorMessage = "An error occurred"

// ErrorKind classifies an APIError for callers that branch on failure type.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNetwork
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
	KindServerError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServerError:
		return "server_error"
	default:
		return "other"
	}
}

// APIError is the single failure shape produced by the REST client.
//
// StatusCode is the HTTP status of the failed response, or 0 when the request
// never produced a response (transport failure); Cause then holds the
// underlying error.
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("api: network error: %v", e.Cause)
		}
		return "api: network error: " + e.Message
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Kind maps the status code onto the error taxonomy.
func (e *APIError) Kind() ErrorKind {
	switch {
	case e.StatusCode == 0:
		return KindNetwork
	case e.StatusCode == http.StatusBadRequest:
		return KindBadRequest
	case e.StatusCode == http.StatusUnauthorized:
		return KindUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return KindNotFound
	case e.StatusCode == http.StatusConflict:
		return KindConflict
	case e.StatusCode >= 500:
		return KindServerError
	default:
		return KindOther
	}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an
// APIError (or is a transport failure).
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
