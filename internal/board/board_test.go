package board

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scoreboard/internal/anim"
	"github.com/robalobadob/scoreboard/internal/score"
)

type manualTimer struct{ stopped bool }

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

type manualClock struct {
	mu  sync.Mutex
	fns []func()
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) anim.Timer {
	c.mu.Lock()
	c.fns = append(c.fns, f)
	c.mu.Unlock()
	return &manualTimer{}
}

func (c *manualClock) fire() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func newTestBoard(clk *manualClock) *Board {
	return New(WithID("b1"), WithDigitOptions(anim.WithAfterFunc(clk.AfterFunc)))
}

func TestNewBoardStartsEmpty(t *testing.T) {
	b := New()
	require.NotEmpty(t, b.ID)
	v := b.View()
	assert.Equal(t, 0, v.Team(score.Blue).Score)
	assert.Equal(t, 0, v.Team(score.Red).Score)
	assert.False(t, v.CanUndo)
	assert.False(t, v.Team(score.Blue).CanDecrement)
	assert.Equal(t, []score.Team{score.Blue, score.Red}, []score.Team{v.Teams[0].Team, v.Teams[1].Team})
}

func TestDispatchUpdatesViewAndDigits(t *testing.T) {
	clk := &manualClock{}
	b := newTestBoard(clk)

	v, changed := b.Dispatch(score.Increment(score.Red))
	require.True(t, changed)
	red := v.Team(score.Red)
	assert.Equal(t, 1, red.Score)
	assert.True(t, red.CanDecrement)
	assert.True(t, v.CanUndo)
	assert.Equal(t, 1, v.HistoryLen)
	assert.Equal(t, anim.Up, red.Digit.Direction)
	assert.Equal(t, anim.None, v.Team(score.Blue).Digit.Direction)

	clk.fire()
	assert.Equal(t, anim.Frame{Value: 1}, b.View().Team(score.Red).Digit)
}

func TestDispatchNoopDoesNotBroadcast(t *testing.T) {
	b := newTestBoard(&manualClock{})
	ch, cancel := b.Subscribe()
	defer cancel()

	_, changed := b.Dispatch(score.Decrement(score.Blue))
	assert.False(t, changed)
	_, changed = b.Dispatch(score.Undo())
	assert.False(t, changed)

	select {
	case msg := <-ch:
		t.Fatalf("unexpected broadcast: %s", msg)
	default:
	}
}

func TestSubscribersReceiveChangesAndSettles(t *testing.T) {
	clk := &manualClock{}
	b := newTestBoard(clk)
	ch, cancel := b.Subscribe()
	defer cancel()
	assert.Equal(t, 1, b.Watchers())

	b.Dispatch(score.Increment(score.Blue))
	var v View
	require.NoError(t, json.Unmarshal(<-ch, &v))
	assert.Equal(t, "view", v.Kind)
	assert.Equal(t, 1, v.Team(score.Blue).Score)
	assert.True(t, v.Team(score.Blue).Digit.Animating())

	clk.fire()
	var settled View
	require.NoError(t, json.Unmarshal(<-ch, &settled))
	digit := settled.Team(score.Blue).Digit
	assert.False(t, digit.Animating())
	assert.Nil(t, digit.Previous)
	assert.Equal(t, anim.None, digit.Direction)
	assert.Equal(t, 1, digit.Value)
}

func TestStateReturnsCopy(t *testing.T) {
	b := newTestBoard(&manualClock{})
	b.Dispatch(score.Increment(score.Blue))
	s := b.State()
	s.History[0] = score.Snapshot{Blue: 9, Red: 9}
	assert.Equal(t, score.Snapshot{}, b.State().History[0])
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := newTestBoard(&manualClock{})
	ch, cancel := b.Subscribe()
	b.Close()
	_, ok := <-ch
	assert.False(t, ok)
	cancel()
	b.Close()

	late, _ := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestTouchUpdatesLastSeen(t *testing.T) {
	b := New()
	before := b.LastSeen()
	time.Sleep(time.Millisecond)
	b.Touch()
	assert.True(t, b.LastSeen().After(before))
}
