package download

import (
	"context"
	"errors"
	"sync"
)

// WorkFunc is the signature for queued work.
type WorkFunc func(ctx context.Context) error

// Queue runs work funcs concurrently up to a fixed limit.
type Queue struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	sem  chan struct{}
	errs []error
}

// NewQueue creates a Queue with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewQueue(maxConcurrent int) *Queue {
	q := &Queue{}
	if maxConcurrent > 0 {
		q.sem = make(chan struct{}, maxConcurrent)
	}

	return q
}

// Wait blocks until all work in the queue completes.
// Returns all errors joined via errors.Join.
func (q *Queue) Wait() error {
	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	return errors.Join(q.errs...)
}

// Start launches fn in a new goroutine managed by the queue
// and returns a Result for tracking it. fn does not run at all if ctx
// ends while it is still waiting for a free slot.
func (q *Queue) Start(ctx context.Context, fn WorkFunc) *Result {
	ctx, cancel := context.WithCancel(ctx)

	r := &Result{done: make(chan struct{})}

	q.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(r.done)
			q.wg.Done()
		}()

		if q.sem != nil {
			select {
			case q.sem <- struct{}{}:
				defer func() {
					<-q.sem
				}()
			case <-ctx.Done():
				r.err = ctx.Err()
				q.recordErr(r.err)
				return
			}
		}

		if err := ctx.Err(); err != nil {
			r.err = err
			q.recordErr(r.err)
			return
		}

		r.started = true
		r.err = fn(ctx)
		if r.err != nil {
			q.recordErr(r.err)
		}
	}()

	return r
}

// recordErr appends err to the queue's error slice under the mutex.
func (q *Queue) recordErr(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.errs = append(q.errs, err)
}
