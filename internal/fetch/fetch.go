// Package fetch downloads a batch of beatmapset archives.
//
// Every selected entry gets exactly one [Outcome] in the [BatchReport],
// in selection order. A failing archive never stops the batch; the only
// thing that does is the caller's context, after which the remaining
// entries are recorded as cancelled without being requested.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/oszdl/client"
	"github.com/adamwoolhether/oszdl/client/download"
	"github.com/adamwoolhether/oszdl/internal/catalog"
	"github.com/adamwoolhether/oszdl/internal/filename"
	"github.com/adamwoolhether/oszdl/internal/progress"
)

// Downloader fetches archives through a [client.Client].
type Downloader struct {
	c             *client.Client
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

func New(c *client.Client, optFns ...Option) (*Downloader, error) {
	if c == nil {
		return nil, errors.New("client must not be nil")
	}

	opts := options{jobs: 1}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying fetch option: %w", err)
		}
	}

	if opts.base == nil {
		opts.base, _ = url.Parse(DefaultBaseURL)
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	if opts.tracer == nil {
		opts.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	if opts.fs == nil {
		opts.fs = afero.NewOsFs()
	}

	return &Downloader{
		c:             c,
		base:          opts.base,
		logger:        opts.logger,
		tracer:        opts.tracer,
		observer:      opts.observer,
		fs:            opts.fs,
		jobs:          opts.jobs,
		itemTimeout:   opts.itemTimeout,
		skipExisting:  opts.skipExisting,
		requireLength: opts.requireLength,
	}, nil
}

// Prepare creates destDir if it does not exist yet.
func (d *Downloader) Prepare(destDir string) error {
	if err := d.fs.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	return nil
}

// DownloadAll saves every entry under destDir as "{id}-{display}.osz",
// sending token as the session cookie. sink may be nil.
func (d *Downloader) DownloadAll(ctx context.Context, entries []catalog.Entry, destDir, token string, sink progress.Sink) *BatchReport {
	if sink == nil {
		sink = progress.Nop{}
	}

	runID := uuid.NewString()
	logger := d.logger.With("run", runID)
	token = strings.TrimSpace(token)

	ctx, span := d.tracer.Start(ctx, "fetch.batch")
	span.SetAttributes(
		attribute.String("run", runID),
		attribute.Int("items", len(entries)),
		attribute.Int("jobs", d.jobs),
	)
	defer span.End()

	report := newBatchReport(runID, len(entries))

	logger.Info("starting batch", "items", len(entries), "jobs", d.jobs, "dir", destDir)

	if d.jobs <= 1 {
		for i, e := range entries {
			report.set(i, d.fetchOne(ctx, logger, e, destDir, token, sink))
		}
	} else {
		q := download.NewQueue(d.jobs)
		results := make([]*download.Result, len(entries))
		for i, e := range entries {
			results[i] = q.Start(ctx, func(ctx context.Context) error {
				o := d.fetchOne(ctx, logger, e, destDir, token, sink)
				report.set(i, o)
				return o.Err
			})
		}

		if err := q.Wait(); err != nil {
			logger.Debug("queue drained with failures", "error", err)
		}

		// The queue skips work whose context ended while it waited for a slot.
		for i, r := range results {
			if !r.Started() {
				report.set(i, d.notStarted(logger, entries[i], destDir, r.Err()))
			}
		}
	}

	span.SetAttributes(
		attribute.Int("completed", report.Completed()),
		attribute.Int("failed", report.Failed()),
	)
	if !report.OK() {
		span.SetStatus(codes.Error, report.Summary())
	}

	logger.Info("batch finished", "completed", report.Completed(), "failed", report.Failed(), "bytes", report.Bytes())

	return report
}

// notStarted records an entry the queue never ran. It is observed like any
// other outcome so metrics match a sequential batch.
func (d *Downloader) notStarted(logger *slog.Logger, e catalog.Entry, destDir string, cause error) Outcome {
	label := catalog.Display(e)
	o := Outcome{
		Entry: e,
		Path:  filepath.Join(destDir, filename.Archive(e.ID, label)),
		Err:   &ItemError{Kind: KindCancelled, ID: e.ID, Name: label, Err: cause},
	}

	logger.Error("download failed", "id", e.ID, "name", label, "error", o.Err)

	if d.observer != nil {
		d.observer.Observe(o, 0)
	}

	return o
}

// fetchOne downloads a single archive. It never panics and never returns
// without an outcome.
func (d *Downloader) fetchOne(ctx context.Context, logger *slog.Logger, e catalog.Entry, destDir, token string, sink progress.Sink) (o Outcome) {
	label := catalog.Display(e)
	o = Outcome{
		Entry: e,
		Path:  filepath.Join(destDir, filename.Archive(e.ID, label)),
	}

	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "fetch.item")
	span.SetAttributes(
		attribute.Int64("beatmapset.id", int64(e.ID)),
		attribute.String("beatmapset.name", label),
	)

	defer func() {
		if r := recover(); r != nil {
			o.Err = &ItemError{Kind: KindUnknown, ID: e.ID, Name: label, Err: fmt.Errorf("panic: %v", r)}
		}

		if o.Err != nil {
			span.RecordError(o.Err)
			span.SetStatus(codes.Error, o.Err.Error())
			logger.Error("download failed", "id", e.ID, "name", label, "error", o.Err)
		} else {
			span.SetAttributes(attribute.Int64("bytes", o.Bytes), attribute.Bool("skipped", o.Skipped))
			logger.Info("download complete", "id", e.ID, "path", o.Path, "bytes", o.Bytes, "skipped", o.Skipped)
		}
		span.End()

		if d.observer != nil {
			d.observer.Observe(o, time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		o.Err = newItemError(e.ID, label, err)
		return o
	}

	if d.skipExisting {
		if fi, err := d.fs.Stat(o.Path); err == nil && fi.Mode().IsRegular() {
			o.Skipped = true
			o.Bytes = fi.Size()
			return o
		}
	}

	if d.itemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.itemTimeout)
		defer cancel()
	}

	id := strconv.FormatUint(e.ID, 10)
	referer := client.Endpoint(d.base, nil, id)

	req, err := d.c.Request(ctx, client.Endpoint(d.base, nil, id, "download"), http.MethodGet,
		client.WithHeaders(map[string][]string{
			"Cookie":  {token},
			"Referer": {referer.String()},
		}),
	)
	if err != nil {
		o.Err = newItemError(e.ID, label, err)
		return o
	}

	dlOpts := []client.DownloadOption{
		client.WithFs(d.fs),
		client.WithProgress(func(written, total int64) {
			sink.Report(label, written, total)
		}),
	}
	if d.requireLength {
		dlOpts = append(dlOpts, client.WithRequireLength())
	}

	defer sink.Finish(label)

	logger.Debug("requesting archive", "id", e.ID, "url", req.URL.String())

	n, err := d.c.Download(req, http.StatusOK, o.Path, dlOpts...)
	o.Bytes = n
	if err != nil {
		o.Err = newItemError(e.ID, label, err)
	}

	return o
}
