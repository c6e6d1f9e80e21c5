package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/adamwoolhether/oszdl/client"
)

// DefaultSearchURL is the catalog search endpoint.
const DefaultSearchURL = "https://osu.ppy.sh/beatmapsets/search"

// ErrSearchFailed wraps every error returned by [Searcher.Search].
var ErrSearchFailed = errors.New("catalog search failed")

type searchResponse struct {
	Beatmapsets []Entry `json:"beatmapsets"`
}

// Searcher queries the catalog on behalf of a logged-in session.
type Searcher struct {
	c        *client.Client
	endpoint *url.URL
	cookie   string
	logger   *slog.Logger
}

// SearchOption configures a [Searcher].
type SearchOption func(*searchOptions) error

type searchOptions struct {
	endpoint *url.URL
	logger   *slog.Logger
}

// WithSearchURL points the searcher at a different endpoint.
func WithSearchURL(raw string) SearchOption {
	return func(opts *searchOptions) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing search url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("search url %q must be absolute", raw)
		}
		opts.endpoint = u
		return nil
	}
}

func WithSearchLogger(logger *slog.Logger) SearchOption {
	return func(opts *searchOptions) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		opts.logger = logger
		return nil
	}
}

// NewSearcher returns a Searcher that forwards cookie with every request.
func NewSearcher(c *client.Client, cookie string, optFns ...SearchOption) (*Searcher, error) {
	if c == nil {
		return nil, errors.New("client must not be nil")
	}

	var opts searchOptions
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying search option: %w", err)
		}
	}

	if opts.endpoint == nil {
		opts.endpoint, _ = url.Parse(DefaultSearchURL)
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	return &Searcher{
		c:        c,
		endpoint: opts.endpoint,
		cookie:   strings.TrimSpace(cookie),
		logger:   opts.logger,
	}, nil
}

// Search runs query with the given filters and returns the matches in the
// order the catalog ranked them.
func (s *Searcher) Search(ctx context.Context, query string, filters map[string]string) ([]Entry, error) {
	params := make(map[string]string, len(filters)+1)
	for k, v := range filters {
		params[k] = v
	}
	params["q"] = query

	endpoint := client.Endpoint(s.endpoint, params)

	req, err := s.c.Request(ctx, endpoint, http.MethodGet,
		client.WithHeaders(map[string][]string{"Cookie": {s.cookie}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	s.logger.Debug("searching catalog", "query", query, "filters", filters)

	var resp searchResponse
	if err := s.c.Do(req, http.StatusOK, client.WithDestination(&resp)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	s.logger.Debug("catalog search complete", "query", query, "results", len(resp.Beatmapsets))

	return resp.Beatmapsets, nil
}
