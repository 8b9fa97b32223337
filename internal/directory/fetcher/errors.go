package fetcher

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	// ErrorNetwork covers transport failures: DNS, refused connections, timeouts.
	ErrorNetwork ErrorKind = "network"

	// ErrorHTTPStatus indicates a non-2xx response.
	ErrorHTTPStatus ErrorKind = "http_status"

	// ErrorDecode indicates the body was not the expected JSON envelope.
	ErrorDecode ErrorKind = "decode"
)

// FetchError is the single error type returned by Client.FetchPeople.
type FetchError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int // set for ErrorHTTPStatus
	Underlying error
}

func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("fetch people [%s]: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("fetch people [%s]: %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Underlying
}

func newError(kind ErrorKind, message string, underlying error) *FetchError {
	return &FetchError{Kind: kind, Message: message, Underlying: underlying}
}

// KindOf extracts the failure kind, or "" when err is not a FetchError.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
