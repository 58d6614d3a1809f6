// Package activity keeps the busy flag and progress percentage that the
// request interceptors drive, and fans changes out to whoever renders them.
package activity

import "sync"

// State is a snapshot of the indicator. Listeners run outside the lock, so
// snapshots can reach them out of order; Version orders them.
type State struct {
	Busy     bool
	Inflight int
	Percent  int
	Version  uint64
}

// Supersedes reports whether s was taken after prev.
func (s State) Supersedes(prev State) bool { return s.Version > prev.Version }

// Tracker counts outstanding requests. It is busy while at least one is
// outstanding and idle once the last one settles, whatever the outcome.
type Tracker struct {
	mu        sync.Mutex
	inflight  int
	percent   int
	version   uint64
	listeners []func(State)
}

func New() *Tracker { return &Tracker{} }

// Subscribe registers fn for every subsequent change. fn runs on the goroutine
// that caused the change and must not call back into the tracker.
func (t *Tracker) Subscribe(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Start marks a request as outstanding and resets progress.
func (t *Tracker) Start() {
	t.mu.Lock()
	t.inflight++
	t.percent = 0
	t.notifyLocked()
}

// Update moves the progress bar while a body streams. Values outside 0..100
// are clamped.
func (t *Tracker) Update(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	t.mu.Lock()
	t.percent = percent
	t.notifyLocked()
}

// Stop settles one request: full bar on success, empty bar on failure.
func (t *Tracker) Stop(ok bool) {
	t.mu.Lock()
	if t.inflight > 0 {
		t.inflight--
	}
	if ok {
		t.percent = 100
	} else {
		t.percent = 0
	}
	t.notifyLocked()
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

func (t *Tracker) stateLocked() State {
	return State{Busy: t.inflight > 0, Inflight: t.inflight, Percent: t.percent, Version: t.version}
}

// notifyLocked releases the lock before calling listeners.
func (t *Tracker) notifyLocked() {
	t.version++
	s := t.stateLocked()
	ls := append([]func(State){}, t.listeners...)
	t.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}
