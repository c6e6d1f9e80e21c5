package download

import (
	"errors"

	"github.com/spf13/afero"
)

// ProgressFunc receives the number of bytes written so far and the declared
// total, or -1 when the server sent no Content-Length.
type ProgressFunc func(written, total int64)

// Option defines optional settings for downloading files.
//
// WithProgress registers a func that's called after every chunk lands
// on disk.
//
// WithRequireLength rejects responses without a Content-Length.
//
// WithFs swaps the filesystem the temp file and destination live on.
type Option func(*options) error

type options struct {
	progress      ProgressFunc
	requireLength bool
	fs            afero.Fs
}

func WithProgress(fn ProgressFunc) Option {
	return func(opts *options) error {
		if fn == nil {
			return errors.New("progress func must not be nil")
		}
		opts.progress = fn
		return nil
	}
}

func WithRequireLength() Option {
	return func(opts *options) error {
		opts.requireLength = true
		return nil
	}
}

func WithFs(fs afero.Fs) Option {
	return func(opts *options) error {
		if fs == nil {
			return errors.New("fs must not be nil")
		}
		opts.fs = fs
		return nil
	}
}
