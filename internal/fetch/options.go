package fetch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is where beatmapset archives are served from. An archive
// lives at {base}/{id}/download.
const DefaultBaseURL = "https://osu.ppy.sh/beatmapsets"

// Observer is told about every finished item, e.g. to record metrics.
type Observer interface {
	Observe(o Outcome, elapsed time.Duration)
}

// Option configures a [Downloader].
type Option func(*options) error

type options struct {
	base          *url.URL
	logger        *slog.Logger
	tracer        trace.Tracer
	observer      Observer
	fs            afero.Fs
	jobs          int
	itemTimeout   time.Duration
	skipExisting  bool
	requireLength bool
}

// WithBaseURL overrides [DefaultBaseURL].
func WithBaseURL(raw string) Option {
	return func(opts *options) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", raw)
		}
		opts.base = u
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		opts.logger = logger
		return nil
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		opts.tracer = tracer
		return nil
	}
}

func WithObserver(o Observer) Option {
	return func(opts *options) error {
		if o == nil {
			return errors.New("observer must not be nil")
		}
		opts.observer = o
		return nil
	}
}

// WithFs sets the filesystem archives are written to.
func WithFs(fs afero.Fs) Option {
	return func(opts *options) error {
		if fs == nil {
			return errors.New("fs must not be nil")
		}
		opts.fs = fs
		return nil
	}
}

// WithJobs downloads up to n archives at once. The default of 1 keeps the
// batch strictly sequential.
func WithJobs(n int) Option {
	return func(opts *options) error {
		if n < 1 {
			return fmt.Errorf("jobs[%d] must be at least 1", n)
		}
		opts.jobs = n
		return nil
	}
}

// WithItemTimeout bounds each archive, request and body included.
func WithItemTimeout(d time.Duration) Option {
	return func(opts *options) error {
		if d < 0 {
			return errors.New("item timeout must not be negative")
		}
		opts.itemTimeout = d
		return nil
	}
}

// WithSkipExisting reports an archive that is already on disk as completed
// without requesting it again.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithRequireLength fails archives served without a Content-Length.
func WithRequireLength() Option {
	return func(opts *options) error {
		opts.requireLength = true
		return nil
	}
}
