package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultResizeDuration is the debounce window for resize events
const DefaultResizeDuration = 150 * time.Millisecond

// resizeSettledMsg reports the size a burst of resizes settled on.
type resizeSettledMsg struct {
	seq           int
	width, height int
}

// ResizeDebouncer coalesces bursts of window resizes. Each resize schedules
// a tick tagged with a sequence number; only the newest tick is honoured.
type ResizeDebouncer struct {
	duration time.Duration
	seq      int
	width    int
	height   int
}

// NewResizeDebouncer creates a debouncer with the given window.
func NewResizeDebouncer(d time.Duration) *ResizeDebouncer {
	if d <= 0 {
		d = DefaultResizeDuration
	}
	return &ResizeDebouncer{duration: d}
}

// Resize records a pending size and returns the tick that may settle it.
func (rd *ResizeDebouncer) Resize(width, height int) tea.Cmd {
	rd.seq++
	seq := rd.seq
	return tea.Tick(rd.duration, func(time.Time) tea.Msg {
		return resizeSettledMsg{seq: seq, width: width, height: height}
	})
}

// Settle reports whether msg is the newest scheduled resize and, if so,
// records it as the current size.
func (rd *ResizeDebouncer) Settle(msg resizeSettledMsg) bool {
	if msg.seq != rd.seq {
		return false
	}
	rd.width, rd.height = msg.width, msg.height
	return true
}

// LastSize returns the last settled size
func (rd *ResizeDebouncer) LastSize() (width, height int) {
	return rd.width, rd.height
}
