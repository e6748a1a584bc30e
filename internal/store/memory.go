// internal/store/memory.go
//
// In-memory registry of mounted boards.
// Boards live only as long as the page that mounted them; nothing survives a
// process restart.
//
// Characteristics:
//   - Stores *board.Board objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete and Sweep close the boards they remove (unmount).
//   - ErrNotFound is returned for missing board IDs on Get() and Delete().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scoreboard/internal/board"
)

// ErrNotFound is returned when no board is mounted under an ID.
var ErrNotFound = errors.New("board not found")

// Store defines the registry interface for mounted boards.
type Store interface {
	// Save registers or replaces a board.
	Save(ctx context.Context, b *board.Board) error

	// Get retrieves a board by ID.
	Get(ctx context.Context, id string) (*board.Board, error)

	// Delete unmounts and forgets a board.
	Delete(ctx context.Context, id string) error

	// Sweep unmounts boards not seen for longer than idle and returns how many.
	Sweep(ctx context.Context, idle time.Duration) (int, error)

	// Len reports the number of mounted boards.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex            // guards boards map
	boards map[string]*board.Board // keyed by Board.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{boards: make(map[string]*board.Board)}
}

// Save adds or updates the board in the map.
func (m *memory) Save(ctx context.Context, b *board.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.boards[b.ID]; ok && old != b {
		old.Close()
	}
	m.boards[b.ID] = b
	return nil
}

// Get looks up a board by ID.
func (m *memory) Get(ctx context.Context, id string) (*board.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.boards[id]; ok {
		return b, nil
	}
	return nil, ErrNotFound
}

// Delete removes the board and closes it.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	b, ok := m.boards[id]
	delete(m.boards, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	b.Close()
	return nil
}

// Sweep removes boards idle for longer than idle.
func (m *memory) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var stale []*board.Board
	m.mu.Lock()
	for id, b := range m.boards {
		if time.Since(b.LastSeen()) > idle {
			stale = append(stale, b)
			delete(m.boards, id)
		}
	}
	m.mu.Unlock()

	for _, b := range stale {
		b.Close()
	}
	return len(stale), nil
}

// Len returns the number of mounted boards.
func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.boards)
}

// RunSweeper calls Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, s Store, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sweep(ctx, idle)
			if err != nil {
				log.Warn().Err(err).Msg("sweep boards")
				continue
			}
			if n > 0 {
				log.Info().Int("removed", n).Int("mounted", s.Len()).Msg("swept idle boards")
			}
		}
	}
}
