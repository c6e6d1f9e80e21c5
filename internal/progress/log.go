package progress

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

type logState struct {
	last       time.Time
	downloaded int64
	total      int64
}

// Log writes progress as structured log lines, at most one per Interval
// per label, plus a final line on Finish. It suits non-interactive runs
// where a redrawn bar would only clutter the output.
type Log struct {
	Logger   *slog.Logger
	Interval time.Duration

	now    func() time.Time
	mu     sync.Mutex
	states map[string]*logState
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{
		Logger:   logger,
		Interval: time.Second,
		now:      time.Now,
		states:   make(map[string]*logState),
	}
}

func (l *Log) Report(label string, downloaded, total int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	st, ok := l.states[label]
	if !ok {
		st = &logState{}
		l.states[label] = st
	}
	st.downloaded, st.total = downloaded, total

	if ok && now.Sub(st.last) < l.Interval {
		return
	}
	st.last = now

	l.Logger.Info("downloading", l.attrs(label, st)...)
}

func (l *Log) Finish(label string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.states[label]
	if !ok {
		return
	}
	delete(l.states, label)

	l.Logger.Info("download finished", l.attrs(label, st)...)
}

func (l *Log) attrs(label string, st *logState) []any {
	attrs := []any{"label", label, "downloaded", humanize.Bytes(uint64(st.downloaded))}

	if st.total >= 0 {
		attrs = append(attrs, "total", humanize.Bytes(uint64(st.total)))
		if st.total > 0 {
			attrs = append(attrs, "percent", st.downloaded*100/st.total)
		}
	}

	return attrs
}
