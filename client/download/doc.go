// Package download streams HTTP response bodies to disk with byte-accurate
// progress reporting.
//
// # Single Download
//
// [Handle] writes the response body to a temporary file alongside the
// destination path, then renames it on success:
//
//	n, err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithProgress(func(written, total int64) { ... }),
//	)
//
// A missing Content-Length is reported to the progress func as a total of
// -1 unless [WithRequireLength] is set, in which case Handle fails with
// [ErrMissingLength] before touching the filesystem.
//
// # Queue
//
// [Queue] runs work funcs with a bounded concurrency limit and records
// every failure for [Queue.Wait].
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/oszdl/client] package, which invokes
// Handle internally and re-exports the download options.
package download
