// Package progress renders per-archive download progress.
//
// A [Sink] is told about every chunk that lands on disk and when an
// archive's stream ends. Sinks only observe; nothing they do feeds back
// into the download.
package progress

// Sink receives progress for downloads identified by label. total is -1
// when the size is unknown. Implementations must be safe for concurrent
// use across different labels.
type Sink interface {
	Report(label string, downloaded, total int64)
	Finish(label string)
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Report(string, int64, int64) {}
func (Nop) Finish(string)               {}
