// internal/store/session.go
//
// A Session wraps one game engine for the HTTP bridge.
// The engine has no locking of its own, so every call goes through the
// session mutex. A session also carries the bookkeeping the engine does not
// know about: board preset, player label, daily date and wall-clock times.
// A paused session ignores clicks and its clock stands still.

package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/pairs/internal/boards"
	"github.com/robalobadob/pairs/internal/game"
)

// ErrFinished is returned when pausing a game that is already won.
var ErrFinished = errors.New("game finished")

// Session is one in-progress (or just finished) game.
type Session struct {
	ID        string
	Board     boards.Board
	Player    string
	Daily     string // date key for daily games, empty otherwise
	StartedAt time.Time

	mu         sync.Mutex
	engine     *game.Engine
	finishedAt time.Time
	touchedAt  time.Time
	pausedAt   time.Time     // zero unless paused
	pausedFor  time.Duration // completed pauses
	now        func() time.Time
}

// Cell is a revealed coordinate and its symbol.
type Cell struct {
	Row   int         `json:"row"`
	Col   int         `json:"col"`
	Value game.Symbol `json:"value"`
}

// Outcome describes a single selection for the presentation layer.
type Outcome struct {
	Status   game.Status `json:"status"`
	Code     int         `json:"code"`
	Cell     *Cell       `json:"cell,omitempty"`     // selected cell, nil on NoOp
	Previous *Cell       `json:"previous,omitempty"` // first pick when the pair resolved
	Moves    int         `json:"moves"`
	Attempts int         `json:"attempts"`
	Won      bool        `json:"won"`
	Paused   bool        `json:"paused"`
	Elapsed  int64       `json:"elapsedMs"`
}

// Snapshot is a view of the board that never exposes hidden symbols.
// Only the pending cell is revealed, since the player already turned it.
type Snapshot struct {
	ID        string   `json:"gameId"`
	Board     string   `json:"board"`
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	Cleared   [][]bool `json:"cleared"`
	Pending   *Cell    `json:"pending,omitempty"`
	Moves     int      `json:"moves"`
	Attempts  int      `json:"attempts"`
	PairsLeft int      `json:"pairsLeft"`
	Won       bool     `json:"won"`
	Daily     string   `json:"daily,omitempty"`
	Paused    bool     `json:"paused"`
	Elapsed   int64    `json:"elapsedMs"`
}

// NewSession wraps e under a fresh random ID.
func NewSession(e *game.Engine, b boards.Board, player string) *Session {
	return newSession(e, b, player, time.Now)
}

func newSession(e *game.Engine, b boards.Board, player string, now func() time.Time) *Session {
	t := now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Board:     b,
		Player:    player,
		StartedAt: t,
		engine:    e,
		touchedAt: t,
		now:       now,
	}
}

// Select forwards to the engine and enriches the result.
// The winning move stamps the finish time; later calls are all NoOp.
// While paused every call is NoOp and the engine is not consulted.
func (s *Session) Select(row, col int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pausedAt.IsZero() {
		s.touchedAt = s.now().UTC()
		return Outcome{
			Status:   game.NoOp,
			Code:     game.NoOp.Code(),
			Moves:    s.engine.Moves(),
			Attempts: s.engine.Attempts(),
			Paused:   true,
			Elapsed:  s.elapsedLocked().Milliseconds(),
		}
	}

	var prev *Cell
	if r, c, ok := s.engine.Pending(); ok {
		prev = &Cell{Row: r, Col: c, Value: s.engine.ValueAt(r, c)}
	}
	var cell *Cell
	if s.engine.InBounds(row, col) {
		cell = &Cell{Row: row, Col: col, Value: s.engine.ValueAt(row, col)}
	}

	st := s.engine.Select(row, col)
	s.touchedAt = s.now().UTC()

	out := Outcome{
		Status:   st,
		Code:     st.Code(),
		Moves:    s.engine.Moves(),
		Attempts: s.engine.Attempts(),
	}
	if st != game.NoOp {
		out.Cell = cell
	}
	if st.Resolved() {
		out.Previous = prev
	}
	if st == game.Match && s.finishedAt.IsZero() && s.engine.IsWon() {
		s.finishedAt = s.touchedAt
	}
	out.Won = !s.finishedAt.IsZero()
	out.Elapsed = s.elapsedLocked().Milliseconds()
	return out
}

// Snapshot returns the render-safe board state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.engine
	cleared := make([][]bool, e.Rows())
	for r := range cleared {
		cleared[r] = make([]bool, e.Cols())
		for c := range cleared[r] {
			cleared[r][c] = e.Cleared(r, c)
		}
	}
	snap := Snapshot{
		ID:        s.ID,
		Board:     s.Board.Name,
		Rows:      e.Rows(),
		Cols:      e.Cols(),
		Cleared:   cleared,
		Moves:     e.Moves(),
		Attempts:  e.Attempts(),
		PairsLeft: e.PairsLeft(),
		Won:       !s.finishedAt.IsZero(),
		Daily:     s.Daily,
		Paused:    !s.pausedAt.IsZero(),
		Elapsed:   s.elapsedLocked().Milliseconds(),
	}
	if r, c, ok := e.Pending(); ok {
		snap.Pending = &Cell{Row: r, Col: c, Value: e.ValueAt(r, c)}
	}
	return snap
}

// Pause stops the clock and locks the board. Pausing twice is a no-op.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finishedAt.IsZero() {
		return ErrFinished
	}
	t := s.now().UTC()
	s.touchedAt = t
	if s.pausedAt.IsZero() {
		s.pausedAt = t
	}
	return nil
}

// Resume restarts the clock after Pause. Resuming a running game is a no-op.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now().UTC()
	s.touchedAt = t
	if !s.pausedAt.IsZero() {
		s.pausedFor += t.Sub(s.pausedAt)
		s.pausedAt = time.Time{}
	}
}

// Paused reports whether the game is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.pausedAt.IsZero()
}

// FinishedAt returns the time of the winning move, or zero.
func (s *Session) FinishedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedAt
}

// Elapsed is the play time so far, excluding pauses and frozen once the
// game is won.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	end := s.finishedAt
	switch {
	case !end.IsZero():
	case !s.pausedAt.IsZero():
		end = s.pausedAt
	default:
		end = s.now().UTC()
	}
	return end.Sub(s.StartedAt) - s.pausedFor
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}
