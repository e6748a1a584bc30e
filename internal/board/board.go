// internal/board/board.go
//
// A mounted scoreboard.
// Responsibilities:
//   - Own one score.State and serialise every action on it.
//   - Drive one animated digit per team from the current scores.
//   - Fan the rendered View out to subscribers (page event streams).
//
// Notes:
//   - Lock order is board then digit; digit settle callbacks run outside the
//     digit lock and only take the board lock.
//   - Broadcast never blocks: a subscriber that is not keeping up misses frames.
package board

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scoreboard/internal/anim"
	"github.com/robalobadob/scoreboard/internal/score"
)

// Board is one scoreboard instance, created at mount and discarded at unmount.
type Board struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    score.State
	digits   map[score.Team]*anim.Digit
	watchers map[chan []byte]struct{}
	lastSeen time.Time
	closed   bool
}

// Option configures a Board.
type Option func(*config)

type config struct {
	id        string
	digitOpts []anim.Option
}

// WithID fixes the board ID instead of generating one.
func WithID(id string) Option { return func(c *config) { c.id = id } }

// WithDigitOptions passes options to both team digits.
func WithDigitOptions(opts ...anim.Option) Option {
	return func(c *config) { c.digitOpts = append(c.digitOpts, opts...) }
}

// New mounts a fresh board at (0,0) with empty history.
func New(opts ...Option) *Board {
	c := config{}
	for _, o := range opts {
		o(&c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	now := time.Now()
	b := &Board{
		ID:        c.id,
		CreatedAt: now,
		state:     score.New(),
		digits:    make(map[score.Team]*anim.Digit, len(score.Teams)),
		watchers:  make(map[chan []byte]struct{}),
		lastSeen:  now,
	}
	for _, t := range score.Teams {
		dopts := append([]anim.Option{anim.WithOnSettle(func(anim.Frame) { b.Broadcast() })}, c.digitOpts...)
		b.digits[t] = anim.NewDigit(0, dopts...)
	}
	return b
}

// Dispatch applies a to the board. It returns the view after the action and
// whether the state changed; no-op actions return false and broadcast nothing.
func (b *Board) Dispatch(a score.Action) (View, bool) {
	b.mu.Lock()
	b.lastSeen = time.Now()
	changed := b.state.Do(a)
	if changed {
		for _, t := range score.Teams {
			b.digits[t].Set(b.state.Score(t))
		}
	}
	v := b.viewLocked()
	if changed {
		b.broadcastLocked(v)
	}
	b.mu.Unlock()

	if !changed {
		log.Debug().Str("board", b.ID).Str("action", string(a.Kind)).Str("team", string(a.Team)).Msg("no-op action")
	}
	return v, changed
}

// State returns a copy of the current scores and history.
func (b *Board) State() score.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := make([]score.Snapshot, len(b.state.History))
	copy(h, b.state.History)
	return score.State{Blue: b.state.Blue, Red: b.state.Red, History: h}
}

// View renders the current state.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Touch marks the board as in use.
func (b *Board) Touch() {
	b.mu.Lock()
	b.lastSeen = time.Now()
	b.mu.Unlock()
}

// LastSeen is the time of the last action or touch.
func (b *Board) LastSeen() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen
}

// Subscribe registers a view stream. The returned cancel func must be called
// when the subscriber goes away. The channel is closed when the board closes.
func (b *Board) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.watchers[ch] = struct{}{}
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.watchers[ch]; ok {
			delete(b.watchers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Watchers returns the number of live subscribers.
func (b *Board) Watchers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers)
}

// Broadcast sends the current view to all subscribers.
func (b *Board) Broadcast() {
	b.mu.Lock()
	b.broadcastLocked(b.viewLocked())
	b.mu.Unlock()
}

// Close unmounts the board: pending animations are cancelled and every
// subscriber channel is closed. Close is idempotent.
func (b *Board) Close() {
	for _, d := range b.digits {
		d.Close()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.watchers {
		delete(b.watchers, ch)
		close(ch)
	}
}

func (b *Board) broadcastLocked(v View) {
	if b.closed || len(b.watchers) == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("board", b.ID).Msg("marshal view")
		return
	}
	for ch := range b.watchers {
		select {
		case ch <- data:
		default:
		}
	}
}
