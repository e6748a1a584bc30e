package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scoreboard/internal/board"
	"github.com/robalobadob/scoreboard/internal/score"
)

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	b := board.New(board.WithID("abc"))

	require.NoError(t, s.Save(ctx, b))
	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, 1, s.Len())

	ch, _ := b.Subscribe()
	require.NoError(t, s.Delete(ctx, "abc"))
	_, ok := <-ch
	assert.False(t, ok, "delete should close the board")

	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "abc"), ErrNotFound)
}

func TestSweepRemovesIdleBoards(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	fresh := board.New(board.WithID("fresh"))
	old := board.New(board.WithID("old"))
	require.NoError(t, s.Save(ctx, fresh))
	require.NoError(t, s.Save(ctx, old))

	time.Sleep(20 * time.Millisecond)
	fresh.Dispatch(score.Increment(score.Blue))

	n, err := s.Sweep(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, board.New(board.WithID("x"))))

	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, s, time.Millisecond, 0)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
