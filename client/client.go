package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/adamwoolhether/oszdl/client/download"
	"github.com/adamwoolhether/oszdl/client/throttle"
)

// Client wraps the std-lib *http.Client.
// It uses http.DefaultTransport unless a transport or connect timeout is
// given via optional funcs.
type Client struct {
	c      *http.Client
	logger *slog.Logger
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	transport := http.DefaultTransport
	if opts.rt != nil {
		transport = opts.rt
	}

	if opts.connectTimeout > 0 {
		base, ok := transport.(*http.Transport)
		if !ok {
			return nil, fmt.Errorf("connect timeout needs an *http.Transport, got %T", transport)
		}

		t := base.Clone()
		t.DialContext = (&net.Dialer{Timeout: opts.connectTimeout, KeepAlive: 30 * time.Second}).DialContext
		t.TLSHandshakeTimeout = opts.connectTimeout
		t.ResponseHeaderTimeout = opts.connectTimeout
		transport = t
	}

	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}

	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}

	client.c.Transport = transport

	return client, nil
}

// Do will fire the request, and write response to the given dest object if any.
func (c *Client) Do(req *http.Request, expCode int, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.responseBody == nil {
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(settings.responseBody); err != nil {
			return fmt.Errorf("decoding body: %w", err)
		}

		return nil
	}

	return c.exec(req, expCode, doFunc)
}

// Download streams the response body of req into destPath and reports the
// number of bytes that reached the disk. The body is written to a temp file
// in the same directory and renamed onto destPath only on success, so a
// failed or cancelled transfer never leaves a partial archive behind.
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...DownloadOption) (int64, error) {
	if destPath == "" {
		return 0, errors.New("destPath must not be empty")
	}

	var written int64
	dlFunc := func(resp *http.Response) error {
		n, err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...)
		written = n
		if err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	err := c.exec(req, expCode, dlFunc)

	return written, err
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// exec runs the request and injected function on success after validating the expected status code.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDiscardSize)); err != nil {
				c.logger.Debug("failed to discard unused body", "error", err)
			}
		}

		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != expCode {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		statusErr := ErrUnexpectedStatusCode
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			statusErr = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
		}

		return &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        statusErr,
		}
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// Request instantiates a body-less *http.Request with the provided
// information. Headers from repeated [WithHeaders] calls are merged.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// Endpoint resolves elem against base and attaches the query strings, if
// any. base is never modified.
func Endpoint(base *url.URL, query map[string]string, elem ...string) *url.URL {
	endpoint := base.JoinPath(elem...)

	if len(query) > 0 {
		queryParams := endpoint.Query()
		for k, v := range query {
			queryParams.Set(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return endpoint
}
