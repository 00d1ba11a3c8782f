package dispatch

import (
	"sync"
	"time"
)

// Debouncer runs a function after a settle delay, keyed by logical
// identity. Scheduling the same key again before the delay elapses cancels
// the pending run; only the latest one proceeds. A generation counter
// covers the window where an old timer has already expired but its callback
// has not yet run: the stale callback sees a newer generation and gives up.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	gens   map[string]uint64
}

// NewDebouncer creates a debouncer with the given settle delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		gens:   make(map[string]uint64),
	}
}

// Schedule arranges for fn to run after the settle delay, superseding any
// pending run for the same key.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gens[key]++
	gen := d.gens[key]

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}

	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gens[key] != gen {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel stops a pending run for the key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
		delete(d.timers, key)
	}
	d.gens[key]++
}

// Stop cancels every pending run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
		d.gens[key]++
	}
}
