// internal/game/engine.go
//
// Core engine for a single pair-matching game.
// Responsibilities:
//   - Build a shuffled grid where every symbol appears exactly twice.
//   - Run the two-step selection protocol (first pick, then match/mismatch).
//   - Count moves and detect the win.
//
// Notes:
//   - The engine performs no I/O and no locking; callers serialize Select.
//   - A finished or abandoned game is replaced by a new Engine, never reset.
package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
)

const aboutText = "Version 1.0\nAuthor: Daniel K."

// seedSource feeds New. Tests swap it out.
var seedSource io.Reader = crand.Reader

// Engine holds the hidden grid, the pending selection and the move counter.
type Engine struct {
	grid    [][]Symbol
	rows    int
	cols    int
	pending *selection
	moves   int
}

// New builds a shuffled rows x cols game seeded from crypto/rand.
func New(rows, cols int) (*Engine, error) {
	var b [8]byte
	if _, err := io.ReadFull(seedSource, b[:]); err != nil {
		return nil, fmt.Errorf("seed game: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	return NewWithRand(rows, cols, rand.New(rand.NewSource(seed)))
}

// NewWithRand builds a rows x cols game shuffled by rng.
// The same seed always yields the same layout.
func NewWithRand(rows, cols int, rng *rand.Rand) (*Engine, error) {
	if err := checkDimensions(rows, cols); err != nil {
		return nil, err
	}
	return &Engine{grid: shuffledGrid(rows, cols, rng), rows: rows, cols: cols}, nil
}

// NewFromGrid builds a game from a fixed layout. The grid is copied.
func NewFromGrid(grid [][]Symbol) (*Engine, error) {
	if err := validGrid(grid); err != nil {
		return nil, err
	}
	rows, cols := len(grid), len(grid[0])
	cp := make([][]Symbol, rows)
	for r := range grid {
		cp[r] = append([]Symbol(nil), grid[r]...)
	}
	return &Engine{grid: cp, rows: rows, cols: cols}, nil
}

// Select opens the cell at (row, col) and reports what happened.
//
// Ignored selections (out of bounds, cleared cell, or the pending cell
// itself) return NoOp without counting a move. Otherwise the move counter
// is incremented and the call either records the first pick or resolves
// the pair: Match clears both cells, Mismatch leaves them as they were.
func (e *Engine) Select(row, col int) Status {
	if !e.InBounds(row, col) || e.grid[row][col] == Empty {
		return NoOp
	}
	if p := e.pending; p != nil && p.row == row && p.col == col {
		return NoOp
	}

	e.moves++
	sym := e.grid[row][col]

	if e.pending == nil {
		e.pending = &selection{row: row, col: col, symbol: sym}
		return FirstSelection
	}

	first := e.pending
	e.pending = nil
	if first.symbol != sym {
		return Mismatch
	}
	e.grid[row][col] = Empty
	e.grid[first.row][first.col] = Empty
	return Match
}

// IsWon reports whether every cell has been cleared.
func (e *Engine) IsWon() bool {
	for _, row := range e.grid {
		for _, s := range row {
			if s != Empty {
				return false
			}
		}
	}
	return true
}

// ValueAt returns the symbol at (row, col), or Empty once matched.
// The coordinate must be on the board; anything else panics.
func (e *Engine) ValueAt(row, col int) Symbol { return e.grid[row][col] }

// Moves returns the number of accepted selections so far.
func (e *Engine) Moves() int { return e.moves }

// Attempts returns the number of pair attempts, two moves each.
func (e *Engine) Attempts() int { return e.moves / 2 }

// About returns the version banner shown by clients.
func (e *Engine) About() string { return About() }

// About returns the version banner without needing a game.
func About() string { return aboutText }

// Rows and Cols return the board size.
func (e *Engine) Rows() int { return e.rows }
func (e *Engine) Cols() int { return e.cols }

// InBounds reports whether (row, col) addresses a cell on this board.
func (e *Engine) InBounds(row, col int) bool {
	return row >= 0 && row < e.rows && col >= 0 && col < e.cols
}

// Cleared reports whether the cell at (row, col) has been matched.
// Out-of-bounds coordinates report false.
func (e *Engine) Cleared(row, col int) bool {
	return e.InBounds(row, col) && e.grid[row][col] == Empty
}

// Pending returns the coordinate of the first pick of an open attempt.
func (e *Engine) Pending() (row, col int, ok bool) {
	if e.pending == nil {
		return 0, 0, false
	}
	return e.pending.row, e.pending.col, true
}

// PairsLeft counts the pairs that are still hidden.
func (e *Engine) PairsLeft() int {
	n := 0
	for _, row := range e.grid {
		for _, s := range row {
			if s != Empty {
				n++
			}
		}
	}
	return n / 2
}
