// internal/game/grid.go
//
// Board construction and validation.
// Responsibilities:
//   - Check a requested size before anything is allocated.
//   - Deal rows*cols/2 symbols twice each into a shuffled grid.
//   - Validate fixed layouts handed to NewFromGrid.

package game

import (
	"errors"
	"math/rand"
)

// MaxCells bounds rows*cols for generated boards.
const MaxCells = 1 << 20

var (
	// ErrInvalidDimensions is returned when rows or cols is not positive.
	ErrInvalidDimensions = errors.New("rows and cols must be positive")
	// ErrOddBoard is returned when rows*cols is odd and cannot hold whole pairs.
	ErrOddBoard = errors.New("rows*cols must be even")
	// ErrBoardTooLarge is returned when rows*cols exceeds MaxCells.
	ErrBoardTooLarge = errors.New("board has too many cells")
	// ErrMalformedGrid is returned by NewFromGrid for ragged grids or
	// symbols that do not appear exactly twice.
	ErrMalformedGrid = errors.New("grid must be rectangular with every symbol exactly twice")
)

// checkDimensions validates a board size before any allocation.
func checkDimensions(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrInvalidDimensions
	}
	// divide first so the product cannot overflow
	if cols > MaxCells/rows {
		return ErrBoardTooLarge
	}
	if (rows*cols)%2 != 0 {
		return ErrOddBoard
	}
	return nil
}

// shuffledGrid lays out rows*cols/2 symbols, each twice, in a shuffled
// row-major order. Dimensions must already be validated.
func shuffledGrid(rows, cols int, rng *rand.Rand) [][]Symbol {
	n := rows * cols
	deck := make([]Symbol, 0, n)
	for i := 0; i < n/2; i++ {
		deck = append(deck, Symbol(i), Symbol(i))
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	grid := make([][]Symbol, rows)
	for r := range grid {
		grid[r] = deck[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return grid
}

// validGrid checks that grid is rectangular, even-sized and holds every
// non-empty symbol exactly twice.
func validGrid(grid [][]Symbol) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ErrInvalidDimensions
	}
	cols := len(grid[0])
	counts := make(map[Symbol]int)
	for _, row := range grid {
		if len(row) != cols {
			return ErrMalformedGrid
		}
		for _, s := range row {
			if s == Empty {
				continue
			}
			if s < 0 {
				return ErrMalformedGrid
			}
			counts[s]++
		}
	}
	if (len(grid)*cols)%2 != 0 {
		return ErrOddBoard
	}
	for _, c := range counts {
		if c != 2 {
			return ErrMalformedGrid
		}
	}
	return nil
}
