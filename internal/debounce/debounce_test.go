package debounce

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulate replays keystrokes (ms offsets) and ticket deliveries in time
// order and returns the offsets at which the action fired, plus the
// keystroke that triggered each.
func simulate(t *testing.T, window time.Duration, keystrokes []int) (fired []int, triggers []int) {
	t.Helper()

	type event struct {
		at        int
		keystroke bool
		ticket    Ticket
		source    int
	}

	base := time.Unix(0, 0)
	d := New(window)
	queue := make([]event, 0, len(keystrokes)*2)
	for _, k := range keystrokes {
		queue = append(queue, event{at: k, keystroke: true})
	}

	for len(queue) > 0 {
		// keystrokes before deliveries at the same instant
		sort.SliceStable(queue, func(i, j int) bool {
			if queue[i].at != queue[j].at {
				return queue[i].at < queue[j].at
			}
			return queue[i].keystroke && !queue[j].keystroke
		})
		ev := queue[0]
		queue = queue[1:]

		now := base.Add(time.Duration(ev.at) * time.Millisecond)
		if ev.keystroke {
			tk := d.Schedule(now)
			due := int(tk.Due.Sub(base) / time.Millisecond)
			queue = append(queue, event{at: due, ticket: tk, source: ev.at})
			continue
		}
		if d.Ready(ev.ticket) {
			fired = append(fired, ev.at)
			triggers = append(triggers, ev.source)
		}
	}
	return fired, triggers
}

func TestDebouncer(t *testing.T) {
	t.Run("Settles On Last Keystroke", func(t *testing.T) {
		fired, triggers := simulate(t, 300*time.Millisecond, []int{0, 50, 100, 350})
		require.Len(t, fired, 1)
		assert.Equal(t, 650, fired[0])
		assert.Equal(t, 350, triggers[0])
	})

	t.Run("Separate Bursts Fire Separately", func(t *testing.T) {
		fired, _ := simulate(t, 300*time.Millisecond, []int{0, 100, 1000, 1100})
		assert.Equal(t, []int{400, 1400}, fired)
	})

	t.Run("Single Keystroke", func(t *testing.T) {
		fired, _ := simulate(t, 300*time.Millisecond, []int{20})
		assert.Equal(t, []int{320}, fired)
	})

	t.Run("Ticket Fires At Most Once", func(t *testing.T) {
		d := New(time.Second)
		tk := d.Schedule(time.Now())
		assert.True(t, d.Ready(tk))
		assert.False(t, d.Ready(tk))
	})

	t.Run("Cancel Drops Pending Ticket", func(t *testing.T) {
		d := New(time.Second)
		tk := d.Schedule(time.Now())
		d.Cancel()
		assert.False(t, d.Ready(tk))
	})

	t.Run("Zero Ticket Never Fires", func(t *testing.T) {
		d := New(0)
		assert.Equal(t, DefaultWindow, d.Window())
		assert.False(t, d.Ready(Ticket{}))
	})
}
