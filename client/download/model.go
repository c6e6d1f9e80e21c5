package download

import (
	"errors"
	"fmt"
)

// tempPattern names the in-flight file created next to the destination.
const tempPattern = ".oszdl-dl-*"

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrMissingLength         = errors.New("missing content length")
	ErrDownloadCancelled     = errors.New("download cancelled")
	ErrTransfer              = errors.New("reading response body")
	ErrWrite                 = errors.New("writing destination")
)

type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
