package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pairs/internal/boards"
	"github.com/robalobadob/pairs/internal/game"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var duel = boards.Board{Name: "duel", Rows: 2, Cols: 2}

func newTestSession(t *testing.T, c *clock) *Session {
	t.Helper()
	e, err := game.NewFromGrid([][]game.Symbol{{0, 1}, {1, 0}})
	require.NoError(t, err)
	return newSession(e, duel, "ada", c.now)
}

func TestSessionSelectOutcomes(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestSession(t, c)

	out := s.Select(0, 0)
	assert.Equal(t, game.FirstSelection, out.Status)
	assert.Equal(t, 0, out.Code)
	require.NotNil(t, out.Cell)
	assert.Equal(t, Cell{Row: 0, Col: 0, Value: 0}, *out.Cell)
	assert.Nil(t, out.Previous)

	c.advance(time.Second)
	out = s.Select(0, 1)
	assert.Equal(t, game.Mismatch, out.Status)
	assert.Equal(t, -1, out.Code)
	require.NotNil(t, out.Previous)
	assert.Equal(t, Cell{Row: 0, Col: 0, Value: 0}, *out.Previous)
	assert.Equal(t, Cell{Row: 0, Col: 1, Value: 1}, *out.Cell)
	assert.Equal(t, 2, out.Moves)
	assert.Equal(t, 1, out.Attempts)

	out = s.Select(5, 5)
	assert.Equal(t, game.NoOp, out.Status)
	assert.Equal(t, 2, out.Code)
	assert.Nil(t, out.Cell)
	assert.Equal(t, 2, out.Moves)

	s.Select(0, 0)
	out = s.Select(1, 1)
	assert.Equal(t, game.Match, out.Status)
	assert.Equal(t, game.Symbol(0), out.Cell.Value, "value is reported as it was before clearing")
	assert.False(t, out.Won)

	s.Select(0, 1)
	c.advance(4 * time.Second)
	out = s.Select(1, 0)
	assert.Equal(t, game.Match, out.Status)
	assert.True(t, out.Won)
	assert.Equal(t, int64(5000), out.Elapsed)
	assert.Equal(t, c.now(), s.FinishedAt())

	c.advance(time.Hour)
	assert.Equal(t, 5*time.Second, s.Elapsed(), "elapsed time freezes at the win")
	out = s.Select(0, 0)
	assert.Equal(t, game.NoOp, out.Status)
	assert.True(t, out.Won)
}

func TestPauseFreezesClockAndBoard(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestSession(t, c)

	c.advance(10 * time.Second)
	require.Equal(t, game.FirstSelection, s.Select(0, 0).Status)

	require.NoError(t, s.Pause())
	require.NoError(t, s.Pause())
	assert.True(t, s.Paused())

	c.advance(time.Hour)
	out := s.Select(1, 1)
	assert.Equal(t, game.NoOp, out.Status)
	assert.True(t, out.Paused)
	assert.Nil(t, out.Cell)
	assert.Equal(t, 1, out.Moves)
	assert.Equal(t, int64(10_000), out.Elapsed)
	assert.True(t, s.Snapshot().Paused)

	s.Resume()
	s.Resume()
	assert.False(t, s.Paused())
	c.advance(5 * time.Second)

	out = s.Select(1, 1)
	assert.Equal(t, game.Match, out.Status, "pending selection survives the pause")
	assert.False(t, out.Paused)
	assert.Equal(t, int64(15_000), out.Elapsed)

	require.Equal(t, game.FirstSelection, s.Select(0, 1).Status)
	out = s.Select(1, 0)
	require.True(t, out.Won)
	assert.ErrorIs(t, s.Pause(), ErrFinished)
	c.advance(time.Minute)
	assert.Equal(t, 15*time.Second, s.Elapsed())
}

func TestSnapshotHidesSymbols(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := newTestSession(t, c)

	s.Select(0, 1)
	snap := s.Snapshot()
	assert.Equal(t, s.ID, snap.ID)
	assert.Equal(t, "duel", snap.Board)
	assert.Equal(t, [][]bool{{false, false}, {false, false}}, snap.Cleared)
	require.NotNil(t, snap.Pending)
	assert.Equal(t, Cell{Row: 0, Col: 1, Value: 1}, *snap.Pending)
	assert.Equal(t, 2, snap.PairsLeft)

	s.Select(1, 0)
	snap = s.Snapshot()
	assert.Nil(t, snap.Pending)
	assert.Equal(t, [][]bool{{false, true}, {true, false}}, snap.Cleared)
	assert.Equal(t, 1, snap.PairsLeft)
	assert.Equal(t, 1, snap.Attempts)
	assert.False(t, snap.Won)
}

func TestSessionSerializesConcurrentSelects(t *testing.T) {
	e, err := game.New(4, 5)
	require.NoError(t, err)
	s := NewSession(e, boards.Board{Name: "intermediate", Rows: 4, Cols: 5}, "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for r := 0; r < 4; r++ {
				for c := 0; c < 5; c++ {
					s.Select((r+i)%4, (c+i)%5)
				}
			}
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	cleared := 0
	for _, row := range snap.Cleared {
		for _, v := range row {
			if v {
				cleared++
			}
		}
	}
	assert.Equal(t, 0, cleared%2, "cells are always cleared in pairs")
	assert.Equal(t, 10-cleared/2, snap.PairsLeft)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewMemoryStore()

	a := newTestSession(t, c)
	b := newTestSession(t, c)
	require.NotEqual(t, a.ID, b.ID)
	require.NoError(t, st.Save(ctx, a))
	require.NoError(t, st.Save(ctx, b))

	got, err := st.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = st.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	c.advance(time.Hour)
	b.Select(0, 0) // keeps b fresh
	assert.Equal(t, 1, st.Sweep(ctx, c.now().Add(-time.Minute)))

	_, err = st.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, b.ID)
	assert.NoError(t, err)

	require.NoError(t, st.Delete(ctx, b.ID))
	require.NoError(t, st.Delete(ctx, b.ID))
	_, err = st.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
