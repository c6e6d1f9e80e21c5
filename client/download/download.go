package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Handle streams body to a temp file in the same directory as destPath,
// which is renamed onto destPath on success. On any error the temp file
// is removed. The returned count is the number of bytes written to disk.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) (int64, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return 0, fmt.Errorf("applying option: %w", err)
		}
	}

	if opts.fs == nil {
		opts.fs = afero.NewOsFs()
	}

	if contentLength < 0 {
		if opts.requireLength {
			return 0, ErrMissingLength
		}
		contentLength = -1
	}

	file, err := afero.TempFile(opts.fs, filepath.Dir(destPath), tempPattern)
	if err != nil {
		return 0, fmt.Errorf("%w: creating temp file: %w", ErrWrite, err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) && !successful {
			logger.Debug("defer closing temp file", "error", err)
		}

		if !successful {
			if err := opts.fs.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "path", file.Name(), "error", err)
			}
		}
	}()

	writer := &progressWriter{
		w:      file,
		total:  contentLength,
		report: opts.progress,
	}

	n, err := io.Copy(writer, &contextReader{ctx: ctx, r: body})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return n, fmt.Errorf("%w: %w", ErrDownloadCancelled, ctxErr)
		}
		return n, fmt.Errorf("copying file body: %w", err)
	}

	if contentLength >= 0 && n < contentLength {
		return n, &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if contentLength >= 0 && n > contentLength {
		logger.Warn("server sent more bytes than declared", "path", destPath, "declared", contentLength, "written", n)
	}

	if err := file.Sync(); err != nil {
		return n, fmt.Errorf("%w: syncing temp file: %w", ErrWrite, err)
	}

	if err := file.Close(); err != nil {
		return n, fmt.Errorf("%w: closing temp file: %w", ErrWrite, err)
	}

	if err := opts.fs.Rename(file.Name(), destPath); err != nil {
		return n, fmt.Errorf("%w: renaming temp file: %w", ErrWrite, err)
	}

	successful = true

	return n, nil
}
