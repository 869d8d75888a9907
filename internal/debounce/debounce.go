// Package debounce coalesces rapid repeated edits into a single deferred
// call, e.g. title keystrokes into one store write. Each logical edit
// stream gets its own key; re-triggering a key restarts its timer and
// cancelling a key discards the pending call so teardown never leaves a
// dangling write behind.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules at most one pending function per key.
type Debouncer struct {
	window time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a Debouncer with the given quiet window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger schedules fn to run after the quiet window. A pending fn for the
// same key is discarded first, so only the last call within the window
// fires.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel discards the pending call for a key, if any. Reports whether a
// call was pending.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.timers[key]
	if !ok {
		return false
	}
	delete(d.timers, key)
	return t.Stop()
}

// CancelAll discards every pending call. Called on session teardown.
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

// Pending reports whether the key has a scheduled call.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[key]
	return ok
}
