package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/adamwoolhether/oszdl/client"
)

// Kind classifies why a single archive failed.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindHTTP
	KindIO
	KindMissingLength
	KindCancelled
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindIO:
		return "io"
	case KindMissingLength:
		return "missing length"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ItemError is the failure recorded for one beatmapset. Status is only set
// for KindHTTP.
type ItemError struct {
	Kind   Kind
	Status int
	ID     uint64
	Name   string
	Err    error
}

func (e *ItemError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("%d %s: http status %d: %v", e.ID, e.Name, e.Status, e.Err)
	}
	return fmt.Sprintf("%d %s: %s: %v", e.ID, e.Name, e.Kind, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// classify maps an error from the client stack onto a Kind.
func classify(err error) (Kind, int) {
	var statusErr *client.UnexpectedStatusError

	switch {
	case errors.Is(err, client.ErrDownloadCancelled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindCancelled, 0
	case errors.As(err, &statusErr):
		return KindHTTP, statusErr.StatusCode
	case errors.Is(err, client.ErrMissingLength):
		return KindMissingLength, 0
	case errors.Is(err, client.ErrWrite):
		return KindIO, 0
	default:
		return KindNetwork, 0
	}
}

func newItemError(id uint64, name string, err error) *ItemError {
	kind, status := classify(err)
	return &ItemError{Kind: kind, Status: status, ID: id, Name: name, Err: err}
}
