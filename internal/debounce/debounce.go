// Package debounce coalesces bursts of input into a single action that
// runs once the input has been quiet for a fixed window.
//
// The Debouncer does not own a timer. Each Schedule call hands back a
// Ticket; the caller arranges for the ticket to come back after the
// window (tea.Tick in the TUI) and asks Ready whether it is still the
// latest one. Older tickets are silently dropped, which is all that
// cancellation needs to do since nothing has started yet.
package debounce

import "time"

// DefaultWindow is the quiet period used for search input
const DefaultWindow = 300 * time.Millisecond

// Ticket identifies one scheduled action
type Ticket struct {
	Seq uint64
	Due time.Time
}

// Debouncer tracks the most recently scheduled ticket
type Debouncer struct {
	window time.Duration
	seq    uint64
}

// New creates a Debouncer. A non-positive window means DefaultWindow.
func New(window time.Duration) Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return Debouncer{window: window}
}

// Window returns the quiet period
func (d Debouncer) Window() time.Duration {
	return d.window
}

// Schedule supersedes any pending ticket and returns a new one due a
// full window after now.
func (d *Debouncer) Schedule(now time.Time) Ticket {
	d.seq++
	return Ticket{Seq: d.seq, Due: now.Add(d.window)}
}

// Ready reports whether t is the latest scheduled ticket. A ready ticket
// is consumed: Ready returns true at most once per ticket.
func (d *Debouncer) Ready(t Ticket) bool {
	if t.Seq == 0 || t.Seq != d.seq {
		return false
	}
	d.seq++
	return true
}

// Cancel discards any pending ticket
func (d *Debouncer) Cancel() {
	d.seq++
}
