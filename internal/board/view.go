package board

import (
	"github.com/robalobadob/scoreboard/internal/anim"
	"github.com/robalobadob/scoreboard/internal/score"
)

// TeamView is the renderable state of one team region and its decrement control.
type TeamView struct {
	Team         score.Team `json:"team"`
	Score        int        `json:"score"`
	Digit        anim.Frame `json:"digit"`
	CanDecrement bool       `json:"canDecrement"`
}

// View is everything the page needs to draw the board.
type View struct {
	Kind       string     `json:"kind"`
	BoardID    string     `json:"boardId"`
	Teams      []TeamView `json:"teams"`
	CanUndo    bool       `json:"canUndo"`
	HistoryLen int        `json:"historyLen"`
}

// Team returns the view of t.
func (v View) Team(t score.Team) TeamView {
	for _, tv := range v.Teams {
		if tv.Team == t {
			return tv
		}
	}
	return TeamView{Team: t}
}

func (b *Board) viewLocked() View {
	v := View{
		Kind:       "view",
		BoardID:    b.ID,
		Teams:      make([]TeamView, 0, len(score.Teams)),
		CanUndo:    b.state.CanUndo(),
		HistoryLen: len(b.state.History),
	}
	for _, t := range score.Teams {
		v.Teams = append(v.Teams, TeamView{
			Team:         t,
			Score:        b.state.Score(t),
			Digit:        b.digits[t].Frame(),
			CanDecrement: b.state.CanDecrement(t),
		})
	}
	return v
}
