package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/oszdl/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error

type options struct {
	rt             http.RoundTripper
	connectTimeout time.Duration
	userAgent      string
	throttle       *throttle.Config
	logger         *slog.Logger
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithConnectTimeout bounds dialing, the TLS handshake and the wait for
// response headers. The body is not limited, so large archives are
// unaffected. Zero leaves the transport's defaults. The base transport
// must be an [*http.Transport].
func WithConnectTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("connect timeout must not be negative")
		}
		c.connectTimeout = d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps float64, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("throttle: %w", err)
		}
		c.throttle = &cfg
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// /////////////////////////////////////////////////////////////////

// DoOption is a functional option for [Client.Do].
type DoOption func(options *doOpts) error

type doOpts struct {
	responseBody any
}

// WithDestination decodes the HTTP response body into bodyTemplate.
// bodyTemplate must be a pointer.
func WithDestination[T any](bodyTemplate *T) DoOption {
	return func(opts *doOpts) error {
		if bodyTemplate == nil {
			return errors.New("destination must not be nil")
		}
		opts.responseBody = bodyTemplate
		return nil
	}
}

// /////////////////////////////////////////////////////////////////

// RequestOption is a functional option for [Request].
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	headers map[string][]string
}

// WithHeaders adds custom headers to the outgoing request. Repeated use
// merges the header sets.
func WithHeaders(headers map[string][]string) RequestOption {
	return func(opts *requestOpts) error {
		if opts.headers == nil {
			opts.headers = make(map[string][]string, len(headers))
		}
		for k, v := range headers {
			opts.headers[k] = append(opts.headers[k], v...)
		}
		return nil
	}
}
