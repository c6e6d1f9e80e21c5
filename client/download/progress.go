package download

import (
	"context"
	"fmt"
	"io"
)

// progressWriter is an io.Writer that counts every byte that reaches the
// destination and reports the count after each chunk.
type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  ProgressFunc
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += int64(n)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if pw.report != nil {
		pw.report(pw.reported(), pw.total)
	}

	return n, nil
}

// reported clamps the running count to the declared total so a server that
// over-delivers never pushes a progress bar past 100%.
func (pw *progressWriter) reported() int64 {
	if pw.total >= 0 && pw.written > pw.total {
		return pw.total
	}
	return pw.written
}

// contextReader stops reading as soon as ctx is done, even when the
// underlying body would keep blocking.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := cr.r.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	return n, err
}
