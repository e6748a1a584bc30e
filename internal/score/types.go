// internal/score/types.go
//
// Core type definitions for the scoreboard state machine.
// Defines:
//   - Team: which side of the board a score belongs to.
//   - Snapshot: a recorded (blue, red) pair taken before a mutation.
//   - State: both scores plus the undo history.
//   - Action: one input event (kind + optional team).

package score

import (
	"errors"
	"fmt"
)

// Team identifies one side of the board.
type Team string

const (
	Blue Team = "blue"
	Red  Team = "red"
)

// Teams lists both sides in render order (blue first).
var Teams = [2]Team{Blue, Red}

// Kind names a state transition.
type Kind string

const (
	KindIncrement Kind = "increment"
	KindDecrement Kind = "decrement"
	KindReset     Kind = "reset"
	KindUndo      Kind = "undo"
)

var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrUnknownAction = errors.New("unknown action")
)

// Snapshot is the pair of scores immediately before a mutating action.
type Snapshot struct {
	Blue int `json:"blue"`
	Red  int `json:"red"`
}

// State holds the scores of a single board and its linear undo log.
// The zero value is a fresh board.
type State struct {
	Blue    int        `json:"blue"`
	Red     int        `json:"red"`
	History []Snapshot `json:"history"`
}

// Action is a single input event. Team is ignored for reset and undo.
type Action struct {
	Kind Kind `json:"kind"`
	Team Team `json:"team,omitempty"`
}

// Increment, Decrement, Reset and Undo build actions.
func Increment(t Team) Action { return Action{Kind: KindIncrement, Team: t} }
func Decrement(t Team) Action { return Action{Kind: KindDecrement, Team: t} }
func Reset() Action           { return Action{Kind: KindReset} }
func Undo() Action            { return Action{Kind: KindUndo} }

// ParseTeam maps a transport string onto a Team.
func ParseTeam(s string) (Team, error) {
	switch t := Team(s); t {
	case Blue, Red:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTeam, s)
}

// ParseKind maps a transport string onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindIncrement, KindDecrement, KindReset, KindUndo:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Valid reports whether t is one of the two board sides.
func (t Team) Valid() bool { return t == Blue || t == Red }
