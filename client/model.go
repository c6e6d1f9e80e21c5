package client

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// maxErrBodySize caps the amount of response body read when
	// building an error for an unexpected status code.
	maxErrBodySize = 4 << 10 // 4KB

	// maxDiscardSize bounds how much of an unused body is drained so the
	// connection can be reused. Anything larger is simply closed.
	maxDiscardSize = 256 << 10 // 256KB
)

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")

	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden, usually an expired
	// session cookie.
	ErrAuthFailure = errors.New("auth failure")
)

// UnexpectedStatusError is returned when the HTTP response status code
// does not match the expected value.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}
