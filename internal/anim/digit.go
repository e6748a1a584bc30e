// internal/anim/digit.go
//
// Animated digit transition for a displayed score.
// Responsibilities:
//   - Track the settled value and the value currently animating in.
//   - Pick a slide direction (up when the value grows, down otherwise).
//   - Settle on the new value after a fixed window via a fire-once timer.
//
// Notes:
//   - A new value arriving inside the window cancels the pending timer and
//     restarts the window from the settled value; stale timers are ignored
//     through a generation counter.
//   - Returning to the settled value inside the window settles at once.
package anim

import (
	"sync"
	"time"
)

// DefaultDuration is the length of one transition window.
const DefaultDuration = 260 * time.Millisecond

// Direction is the slide direction of a transition.
type Direction string

const (
	None Direction = ""
	Up   Direction = "up"
	Down Direction = "down"
)

// Frame is what the view renders for one digit at a point in time.
type Frame struct {
	Value     int       `json:"value"`
	Previous  *int      `json:"previous,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Animating reports whether both the old and the new value are on screen.
func (f Frame) Animating() bool { return f.Previous != nil && f.Direction != None }

// OutClass is the CSS class of the value sliding out.
func (f Frame) OutClass() string {
	switch f.Direction {
	case Up:
		return "score-animate-out-down"
	case Down:
		return "score-animate-out-up"
	}
	return ""
}

// InClass is the CSS class of the value sliding in.
func (f Frame) InClass() string {
	switch f.Direction {
	case Up:
		return "score-animate-in-up"
	case Down:
		return "score-animate-in-down"
	}
	return ""
}

// Timer is the handle of a scheduled settle.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through a wrapper.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Digit.
type Option func(*Digit)

// WithDuration sets the transition window. Non-positive values settle immediately.
func WithDuration(d time.Duration) Option { return func(dg *Digit) { dg.duration = d } }

// WithOnSettle registers a callback run, outside the digit lock, each time a
// transition completes.
func WithOnSettle(fn func(Frame)) Option { return func(dg *Digit) { dg.onSettle = fn } }

// WithAfterFunc replaces the scheduler, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option { return func(dg *Digit) { dg.after = fn } }

// Digit is one animated score display.
type Digit struct {
	mu       sync.Mutex
	duration time.Duration
	after    AfterFunc
	onSettle func(Frame)

	settled  int
	target   int
	previous *int
	dir      Direction
	timer    Timer
	gen      uint64
}

// NewDigit returns a digit settled on value.
func NewDigit(value int, opts ...Option) *Digit {
	d := &Digit{
		duration: DefaultDuration,
		after:    stdAfterFunc,
		settled:  value,
		target:   value,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Set moves the digit towards v and returns the frame to render now.
func (d *Digit) Set(v int) Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v == d.target && d.timer != nil {
		return d.frameLocked()
	}
	d.cancelLocked()
	d.target = v
	if v == d.settled || d.duration <= 0 {
		d.settleLocked()
		return d.frameLocked()
	}

	prev := d.settled
	d.previous = &prev
	d.dir = Down
	if v > prev {
		d.dir = Up
	}
	gen := d.gen
	d.timer = d.after(d.duration, func() { d.fire(gen) })
	return d.frameLocked()
}

// Frame returns the frame to render now.
func (d *Digit) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frameLocked()
}

// Close cancels any pending transition and settles on the target value.
func (d *Digit) Close() {
	d.mu.Lock()
	d.cancelLocked()
	d.settleLocked()
	d.mu.Unlock()
}

func (d *Digit) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.settleLocked()
	f := d.frameLocked()
	cb := d.onSettle
	d.mu.Unlock()

	if cb != nil {
		cb(f)
	}
}

func (d *Digit) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Digit) settleLocked() {
	d.settled = d.target
	d.previous = nil
	d.dir = None
}

func (d *Digit) frameLocked() Frame {
	f := Frame{Value: d.target, Direction: d.dir}
	if d.previous != nil {
		p := *d.previous
		f.Previous = &p
	}
	return f
}
