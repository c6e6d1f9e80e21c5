package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

type barState struct {
	bar        *progressbar.ProgressBar
	downloaded int64
	total      int64
}

// Bar draws one terminal progress bar per label. Unknown sizes render as
// a spinner with a running byte count.
type Bar struct {
	w    io.Writer
	mu   sync.Mutex
	bars map[string]*barState
}

func NewBar(w io.Writer) *Bar {
	return &Bar{
		w:    w,
		bars: make(map[string]*barState),
	}
}

func (b *Bar) Report(label string, downloaded, total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.bars[label]
	if !ok {
		st = &barState{bar: b.newBar(label, total), total: total}
		b.bars[label] = st
	}

	st.downloaded = downloaded
	_ = st.bar.Set64(downloaded)
}

// Finish completes the bar for label. A bar whose stream ended short of
// its total is left where it stopped rather than filled.
func (b *Bar) Finish(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.bars[label]
	if !ok {
		return
	}
	delete(b.bars, label)

	if st.total >= 0 && st.downloaded < st.total {
		_ = st.bar.Exit()
	} else {
		_ = st.bar.Finish()
	}

	fmt.Fprintln(b.w)
}

func (b *Bar) newBar(label string, total int64) *progressbar.ProgressBar {
	if total < 0 {
		total = -1
	}

	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription("Downloading "+label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
