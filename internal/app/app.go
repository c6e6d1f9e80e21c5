// Package app wires the oszdl command together: settings, catalog search,
// selection and the download batch.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"

	"github.com/adamwoolhether/oszdl"
	"github.com/adamwoolhether/oszdl/client"
	"github.com/adamwoolhether/oszdl/internal/catalog"
	"github.com/adamwoolhether/oszdl/internal/config"
	"github.com/adamwoolhether/oszdl/internal/fetch"
	"github.com/adamwoolhether/oszdl/internal/metrics"
	"github.com/adamwoolhether/oszdl/internal/progress"
	"github.com/adamwoolhether/oszdl/internal/selection"
)

const (
	tracerName   = "github.com/adamwoolhether/oszdl"
	selectPrompt = "Select the maps you wish to download (e.g. 1 3-5 11)"
)

type App struct {
	opts   Options
	env    Env
	log    *slog.Logger
	prompt *config.Prompter
}

func New(opts Options, env Env) *App {
	if env.Fs == nil {
		env.Fs = afero.NewOsFs()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	lo := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opts.Verbose {
		lo.Level = slog.LevelDebug
	}

	return &App{
		opts:   opts,
		env:    env,
		log:    slog.New(slog.NewTextHandler(env.Stderr, lo)),
		prompt: config.NewPrompter(env.Stdin, env.Stdout),
	}
}

// Run executes one search and download session and returns the process
// exit code.
func (a *App) Run(ctx context.Context) int {
	report, err := a.run(ctx)
	if err != nil {
		fmt.Fprintf(a.env.Stderr, "oszdl: %v\n", err)
		return ExitFatal
	}

	if report == nil {
		return ExitOK
	}

	fmt.Fprintln(a.env.Stdout, report.Summary())
	for _, o := range report.Failures() {
		fmt.Fprintf(a.env.Stdout, "  failed: %v\n", o.Err)
	}

	if !report.OK() {
		return ExitFailures
	}

	return ExitOK
}

// run returns a nil report when there was nothing to download.
func (a *App) run(ctx context.Context) (*fetch.BatchReport, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}

	sink, err := a.sink()
	if err != nil {
		return nil, err
	}

	c, err := a.client()
	if err != nil {
		return nil, err
	}

	entries, err := a.search(ctx, c, settings)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.env.Stdout, "No beatmapsets found.")
		return nil, nil
	}

	if err := catalog.WriteList(a.env.Stdout, entries); err != nil {
		return nil, err
	}

	indices, err := a.selection(len(entries))
	if err != nil {
		return nil, err
	}

	picked := selection.Pick(entries, indices)
	if len(picked) == 0 {
		fmt.Fprintln(a.env.Stdout, "Nothing selected.")
		return nil, nil
	}

	var recorder *metrics.Recorder
	fetchOpts := []fetch.Option{
		fetch.WithLogger(a.log),
		fetch.WithTracer(otel.Tracer(tracerName)),
		fetch.WithFs(a.env.Fs),
		fetch.WithJobs(max(a.opts.Jobs, 1)),
		fetch.WithItemTimeout(a.opts.Timeout),
	}
	if a.opts.BaseURL != "" {
		fetchOpts = append(fetchOpts, fetch.WithBaseURL(a.opts.BaseURL))
	}
	if a.opts.SkipExisting {
		fetchOpts = append(fetchOpts, fetch.WithSkipExisting())
	}
	if a.opts.RequireLength {
		fetchOpts = append(fetchOpts, fetch.WithRequireLength())
	}
	if a.opts.MetricsFile != "" {
		recorder = metrics.New()
		fetchOpts = append(fetchOpts, fetch.WithObserver(recorder))
	}

	d, err := fetch.New(c, fetchOpts...)
	if err != nil {
		return nil, err
	}

	if err := d.Prepare(settings.DownloadDirectory); err != nil {
		return nil, err
	}

	report := d.DownloadAll(ctx, picked, settings.DownloadDirectory, settings.Cookie, sink)

	if recorder != nil {
		if err := recorder.WriteFile(a.opts.MetricsFile); err != nil {
			a.log.Warn("metrics not written", "path", a.opts.MetricsFile, "error", err)
		}
	}

	return report, nil
}

func (a *App) settings() (config.Settings, error) {
	path := a.opts.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return config.Settings{}, err
		}
	}

	var dotenv map[string]string
	if a.opts.EnvFile != "" {
		var err error
		if dotenv, err = config.ReadDotEnv(a.env.Fs, a.opts.EnvFile); err != nil {
			return config.Settings{}, err
		}
	}

	env := config.Lookup(a.env.LookupEnv, dotenv)

	// --output wins over the environment and never reaches the settings file.
	lookup := func(key string) (string, bool) {
		if key == config.EnvDownloadDirectory && a.opts.Dir != "" {
			return a.opts.Dir, true
		}
		return env(key)
	}

	settings, err := config.Resolve(config.NewStore(a.env.Fs, path), lookup, a.prompt)
	if err != nil {
		return config.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	a.log.Debug("settings resolved", "path", path, "download_directory", settings.DownloadDirectory)

	return settings, nil
}

func (a *App) sink() (progress.Sink, error) {
	switch a.opts.Progress {
	case ProgressBar, "":
		return progress.NewBar(a.env.Stderr), nil
	case ProgressLog:
		return progress.NewLog(a.log), nil
	case ProgressNone:
		return progress.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown progress renderer %q: want %s, %s or %s", a.opts.Progress, ProgressBar, ProgressLog, ProgressNone)
	}
}

func (a *App) client() (*client.Client, error) {
	opts := []client.Option{
		client.WithLogger(a.log),
		client.WithUserAgent(oszdl.UserAgent + "/" + a.opts.Version),
	}
	if a.opts.ConnectTimeout > 0 {
		opts = append(opts, client.WithConnectTimeout(a.opts.ConnectTimeout))
	}
	if a.opts.RPS > 0 {
		opts = append(opts, client.WithThrottle(a.opts.RPS, 1))
	}

	return oszdl.NewClient(opts...)
}

func (a *App) search(ctx context.Context, c *client.Client, settings config.Settings) ([]catalog.Entry, error) {
	searchOpts := []catalog.SearchOption{catalog.WithSearchLogger(a.log)}
	if a.opts.SearchURL != "" {
		searchOpts = append(searchOpts, catalog.WithSearchURL(a.opts.SearchURL))
	}

	s, err := catalog.NewSearcher(c, settings.Cookie, searchOpts...)
	if err != nil {
		return nil, err
	}

	filters := catalog.Filters(settings.Filters, a.opts.Mode, a.opts.Recommended)

	return s.Search(ctx, a.opts.Query, filters)
}

// selection returns the picked indices, asking again until the answer
// parses when it comes from the prompt.
func (a *App) selection(available int) ([]int, error) {
	if strings.TrimSpace(a.opts.Select) != "" {
		indices, err := selection.Parse(a.opts.Select, available)
		if err != nil {
			return nil, fmt.Errorf("parsing --select: %w", err)
		}
		return indices, nil
	}

	for {
		answer, err := a.prompt.Ask(selectPrompt)
		if err != nil {
			return nil, fmt.Errorf("reading selection: %w", err)
		}

		indices, err := selection.Parse(answer, available)
		if err == nil {
			return indices, nil
		}

		var selErr *selection.Error
		if !errors.As(err, &selErr) {
			return nil, err
		}

		fmt.Fprintf(a.env.Stdout, "%v, try again\n", selErr)
	}
}
