package download

// Result represents an in-flight or completed unit of queued work.
type Result struct {
	done    chan struct{}
	err     error
	started bool
}

// Err blocks until the work completes and returns its error. Work skipped
// by a cancelled context reports the context's error.
func (r *Result) Err() error {
	<-r.done
	return r.err
}

// Started blocks until the work completes and reports whether its func
// actually ran, as opposed to being skipped by a cancelled context.
func (r *Result) Started() bool {
	<-r.done
	return r.started
}
