package client

import (
	"github.com/spf13/afero"

	"github.com/adamwoolhether/oszdl/client/download"
)

// -------------------------------------------------------------------------
// Type aliases: re-export user-facing types from [download].
// -------------------------------------------------------------------------

type (
	// DownloadOption configures a single [Client.Download] call.
	DownloadOption = download.Option

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// ProgressFunc receives the clamped byte count after every chunk.
	ProgressFunc = download.ProgressFunc
)

// -------------------------------------------------------------------------
// Sentinel errors
// -------------------------------------------------------------------------

var (
	// ErrContentLengthMismatch indicates fewer bytes arrived than Content-Length declared.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch
	// ErrMissingLength indicates the response had no Content-Length and one was required.
	ErrMissingLength = download.ErrMissingLength
	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled
	// ErrTransfer indicates the response body failed mid-stream.
	ErrTransfer = download.ErrTransfer
	// ErrWrite indicates the destination could not be created or written.
	ErrWrite = download.ErrWrite
)

// -------------------------------------------------------------------------
// Download option forwarding functions
// -------------------------------------------------------------------------

// WithProgress calls fn after every chunk written to disk.
func WithProgress(fn ProgressFunc) DownloadOption { return download.WithProgress(fn) }

// WithRequireLength fails the download when the response carries no
// Content-Length instead of streaming with an unknown total.
func WithRequireLength() DownloadOption { return download.WithRequireLength() }

// WithFs writes the temp file and the destination through fs instead of
// the OS filesystem.
func WithFs(fs afero.Fs) DownloadOption { return download.WithFs(fs) }
