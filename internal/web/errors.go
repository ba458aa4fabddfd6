package web

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL             = errors.New("invalid URL")
	ErrInvalidReferrer        = errors.New("invalid referrer")
	ErrInvalidOption          = errors.New("invalid option")
	ErrFetchFailed            = errors.New("fetch failed")
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrTooManyRedirects is the cause of a fetch failure when a redirect
	// chain exceeds the configured number of hops.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Error is returned for every failed acquisition except constructor errors,
// which are passed through untouched. Kind is one of the Err* sentinels above
// and matches with errors.Is.
type Error struct {
	Kind error
	// StatusCode is the HTTP status of the response that caused a fetch
	// failure, or 0 when no response was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidURL(raw string, err error) error {
	return &Error{Kind: ErrInvalidURL, Message: fmt.Sprintf("invalid URL %q", raw), Err: err}
}

func invalidReferrer(raw string, err error) error {
	return &Error{Kind: ErrInvalidReferrer, Message: fmt.Sprintf("invalid referrer %q", raw), Err: err}
}

func invalidOption(name string) error {
	return &Error{
		Kind:    ErrInvalidOption,
		Message: fmt.Sprintf("option %q cannot be supplied, it is derived from the response", name),
	}
}

func fetchFailed(status int, err error) error {
	return &Error{Kind: ErrFetchFailed, StatusCode: status, Message: "fetch failed", Err: err}
}

func unsupportedContentType(declared string) error {
	return &Error{
		Kind:    ErrUnsupportedContentType,
		Message: fmt.Sprintf(`The given content type of "%s" was not a HTML or XML content type`, declared),
	}
}
