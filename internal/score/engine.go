// internal/score/engine.go
//
// Transition functions for a single scoreboard.
// Responsibilities:
//   - Apply increment / decrement / reset / undo to a State.
//   - Record the pre-mutation snapshot for every mutating action.
//   - Absorb boundary no-ops (decrement at zero, undo with empty history).
//
// Notes:
//   - Apply is pure: the input State, including its history backing array,
//     is never written. Pushes copy; pops reslice with capped capacity.
//   - Do and the *State methods are the in-place form used by the owner of
//     a state: pushes append to the tail (amortised O(1)), pops truncate.
//   - History is unbounded for the life of the board.
package score

import "slices"

// New returns a board at (0,0) with empty history.
func New() State { return State{} }

// Apply returns the state that results from a on s. Unknown kinds or teams
// leave the state unchanged.
func Apply(s State, a Action) State {
	switch a.Kind {
	case KindIncrement:
		if !a.Team.Valid() {
			return s
		}
		next := s.push()
		next.set(a.Team, s.Score(a.Team)+1)
		return next
	case KindDecrement:
		if !s.CanDecrement(a.Team) {
			return s
		}
		next := s.push()
		next.set(a.Team, s.Score(a.Team)-1)
		return next
	case KindReset:
		// Pushes even at (0,0) so that reset is always undoable.
		next := s.push()
		next.Blue, next.Red = 0, 0
		return next
	case KindUndo:
		if !s.CanUndo() {
			return s
		}
		n := len(s.History) - 1
		last := s.History[n]
		return State{Blue: last.Blue, Red: last.Red, History: s.History[:n:n]}
	}
	return s
}

// Do applies a to s in place and reports whether the state changed.
// It may write into the history backing array, so s must not share it with
// a State that is still in use.
func (s *State) Do(a Action) bool {
	switch a.Kind {
	case KindIncrement:
		if !a.Team.Valid() {
			return false
		}
		s.History = append(s.History, s.Snapshot())
		s.set(a.Team, s.Score(a.Team)+1)
		return true
	case KindDecrement:
		if !s.CanDecrement(a.Team) {
			return false
		}
		s.History = append(s.History, s.Snapshot())
		s.set(a.Team, s.Score(a.Team)-1)
		return true
	case KindReset:
		s.History = append(s.History, s.Snapshot())
		s.Blue, s.Red = 0, 0
		return true
	case KindUndo:
		if !s.CanUndo() {
			return false
		}
		n := len(s.History) - 1
		last := s.History[n]
		s.Blue, s.Red = last.Blue, last.Red
		s.History = s.History[:n]
		return true
	}
	return false
}

// Increment adds a point to t.
func (s *State) Increment(t Team) bool { return s.Do(Increment(t)) }

// Decrement removes a point from t unless it is already zero.
func (s *State) Decrement(t Team) bool { return s.Do(Decrement(t)) }

// Reset zeroes both scores.
func (s *State) Reset() bool { return s.Do(Reset()) }

// Undo reverts the most recent mutation, if any.
func (s *State) Undo() bool { return s.Do(Undo()) }

// Score returns the current score of t, or 0 for an unknown team.
func (s State) Score(t Team) int {
	switch t {
	case Blue:
		return s.Blue
	case Red:
		return s.Red
	}
	return 0
}

// CanDecrement reports whether a decrement of t would change the state.
func (s State) CanDecrement(t Team) bool { return t.Valid() && s.Score(t) > 0 }

// CanUndo reports whether there is a mutation to revert.
func (s State) CanUndo() bool { return len(s.History) > 0 }

// Snapshot returns the current scores as a history entry.
func (s State) Snapshot() Snapshot { return Snapshot{Blue: s.Blue, Red: s.Red} }

// Changed reports whether b differs from a in scores or history length.
// Every successful transition changes the history length, so this is exact
// for states derived from one another by Apply.
func Changed(a, b State) bool {
	return a.Blue != b.Blue || a.Red != b.Red || len(a.History) != len(b.History)
}

// Equal reports whether a and b hold the same scores and history.
func Equal(a, b State) bool {
	return a.Blue == b.Blue && a.Red == b.Red && slices.Equal(a.History, b.History)
}

// push returns a copy of s with its current snapshot appended to history.
func (s State) push() State {
	h := make([]Snapshot, len(s.History), len(s.History)+1)
	copy(h, s.History)
	return State{Blue: s.Blue, Red: s.Red, History: append(h, s.Snapshot())}
}

func (s *State) set(t Team, v int) {
	switch t {
	case Blue:
		s.Blue = v
	case Red:
		s.Red = v
	}
}
