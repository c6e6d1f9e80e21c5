package fetch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/adamwoolhether/oszdl/internal/catalog"
)

// Outcome is the result for one selected entry. Err is nil for a completed
// archive and an *ItemError otherwise.
type Outcome struct {
	Entry   catalog.Entry
	Path    string
	Bytes   int64
	Skipped bool
	Err     error
}

func (o Outcome) Completed() bool {
	return o.Err == nil
}

// ItemError returns the failure as an *ItemError, or nil if o completed.
func (o Outcome) ItemError() *ItemError {
	var itemErr *ItemError
	if errors.As(o.Err, &itemErr) {
		return itemErr
	}
	return nil
}

// BatchReport holds one Outcome per selected entry, in selection order.
type BatchReport struct {
	RunID string

	mu       sync.Mutex
	outcomes []Outcome
}

func newBatchReport(runID string, n int) *BatchReport {
	return &BatchReport{
		RunID:    runID,
		outcomes: make([]Outcome, n),
	}
}

func (r *BatchReport) set(i int, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes[i] = o
}

// Outcomes returns a copy of every outcome in selection order.
func (r *BatchReport) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)

	return out
}

// Failures returns the failed outcomes in selection order.
func (r *BatchReport) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes() {
		if !o.Completed() {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r *BatchReport) Completed() int {
	var n int
	for _, o := range r.Outcomes() {
		if o.Completed() {
			n++
		}
	}
	return n
}

func (r *BatchReport) Failed() int {
	return len(r.Outcomes()) - r.Completed()
}

// OK reports whether every selected entry completed. An empty batch is OK.
func (r *BatchReport) OK() bool {
	return r.Failed() == 0
}

// Bytes sums the bytes written by this run. Skipped archives are not
// counted since nothing was transferred for them.
func (r *BatchReport) Bytes() int64 {
	var total int64
	for _, o := range r.Outcomes() {
		if o.Completed() && !o.Skipped {
			total += o.Bytes
		}
	}
	return total
}

// Summary renders the one line end of run summary.
func (r *BatchReport) Summary() string {
	return fmt.Sprintf("completed %d, failed %d (%s downloaded)", r.Completed(), r.Failed(), humanize.Bytes(uint64(r.Bytes())))
}
