package download

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestResult_Err(t *testing.T) {
	wantErr := errors.New("boom")
	q := NewQueue(0)

	r := q.Start(t.Context(), func(ctx context.Context) error {
		return wantErr
	})

	if err := r.Err(); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}

	if !r.Started() {
		t.Error("expected work func to have run")
	}
}

func TestQueue_Wait_MixedSuccessAndError(t *testing.T) {
	err1 := errors.New("error one")
	err2 := errors.New("error two")
	q := NewQueue(0)

	q.Start(t.Context(), func(ctx context.Context) error { return nil })
	q.Start(t.Context(), func(ctx context.Context) error { return err1 })
	q.Start(t.Context(), func(ctx context.Context) error { return err2 })

	err := q.Wait()
	if !errors.Is(err, err1) {
		t.Errorf("expected error to contain %v", err1)
	}
	if !errors.Is(err, err2) {
		t.Errorf("expected error to contain %v", err2)
	}
}

func TestQueue_Wait_NilWhenAllSucceed(t *testing.T) {
	q := NewQueue(2)

	for range 4 {
		q.Start(t.Context(), func(ctx context.Context) error { return nil })
	}

	if err := q.Wait(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestQueue_ConcurrencyLimit(t *testing.T) {
	testCases := []struct {
		name    string
		limit   int
		total   int
		wantMax int32
	}{
		{name: "sequential", limit: 1, total: 4, wantMax: 1},
		{name: "bounded", limit: 2, total: 5, wantMax: 2},
		{name: "unlimited", limit: 0, total: 6, wantMax: 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQueue(tc.limit)

			var running atomic.Int32
			var peak atomic.Int32
			barrier := make(chan struct{})

			for range tc.total {
				q.Start(t.Context(), func(ctx context.Context) error {
					cur := running.Add(1)
					for {
						old := peak.Load()
						if cur <= old || peak.CompareAndSwap(old, cur) {
							break
						}
					}
					<-barrier
					running.Add(-1)
					return nil
				})
			}

			// Let every goroutine that can run reach the barrier.
			time.Sleep(50 * time.Millisecond)
			close(barrier)

			if err := q.Wait(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := peak.Load()
			if tc.limit > 0 && got > tc.wantMax {
				t.Errorf("max concurrent was %d, want <= %d", got, tc.wantMax)
			}
			if tc.limit == 0 && got != tc.wantMax {
				t.Errorf("expected all %d to run concurrently, peak was %d", tc.wantMax, got)
			}
		})
	}
}

func TestResult_ParentCancelled(t *testing.T) {
	q := NewQueue(0)
	started := make(chan struct{})

	ctx, cancel := context.WithCancel(t.Context())
	r := q.Start(ctx, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	cancel()

	if err := r.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !r.Started() {
		t.Error("work that began before the cancel must report Started")
	}
}

func TestQueue_CancelledWhileWaitingForSlot(t *testing.T) {
	q := NewQueue(1)

	release := make(chan struct{})
	q.Start(t.Context(), func(ctx context.Context) error {
		<-release
		return nil
	})

	// Give the first goroutine time to take the only slot.
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := q.Start(ctx, func(ctx context.Context) error {
		t.Error("work function should not have run")
		return nil
	})

	if err := r.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if r.Started() {
		t.Error("expected Started to report false for skipped work")
	}

	close(release)

	if err := q.Wait(); err == nil {
		t.Error("expected queue error from cancelled work")
	}
}
