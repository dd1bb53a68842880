package feed

import (
	"sync"
	"time"
)

// Debouncer holds a value that only follows its input once the input has
// stayed unchanged for the configured delay. Every new input cancels and
// restarts the pending update.
type Debouncer[T comparable] struct {
	clock   Clock
	delay   time.Duration
	settled func(T)

	// emit serialises settled callbacks so they are delivered in input order
	emit sync.Mutex

	mu      sync.Mutex
	value   T
	pending Timer
	gen     uint64
	stopped bool
}

// NewDebouncer starts with initial as its settled value. settled, if not nil,
// is called every time the settled value changes; it may call Value but not Set.
func NewDebouncer[T comparable](initial T, delay time.Duration, clock Clock, settled func(T)) *Debouncer[T] {
	if clock == nil {
		clock = SystemClock
	}
	return &Debouncer[T]{
		clock:   clock,
		delay:   delay,
		settled: settled,
		value:   initial,
	}
}

// Set feeds a new input value
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
	gen := d.gen
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fire(gen, v)
		return
	}
	d.pending = d.clock.AfterFunc(d.delay, func() { d.fire(gen, v) })
	d.mu.Unlock()
}

// Value returns the current settled value
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Stop drops any pending update. Inputs set afterwards are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.emit.Lock()
	defer d.emit.Unlock()

	d.mu.Lock()
	// a timer that could not be stopped in time carries an old generation
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	changed := d.value != v
	d.value = v
	d.mu.Unlock()

	if changed && d.settled != nil {
		d.settled(v)
	}
}
