// internal/game/types.go
//
// Core type definitions for the pair-matching engine.
// Defines:
//   - Symbol: hidden identifier shared by the two cells of a pair.
//   - Status: result of a single selection attempt.
//   - selection: the pending first half of a pair attempt.

package game

import "fmt"

// Symbol is the hidden value of a cell. Two cells share each symbol.
type Symbol int

// Empty marks a cell whose pair has already been matched.
const Empty Symbol = -1

// Status is the outcome of Engine.Select.
type Status int

const (
	// NoOp means the selection was ignored: out of bounds, an already
	// cleared cell, or the cell that is currently pending.
	NoOp Status = iota
	// FirstSelection means the cell is now pending.
	FirstSelection
	// Match means both cells shared a symbol and were cleared.
	Match
	// Mismatch means the symbols differ; both cells keep their values.
	Mismatch
)

func (s Status) String() string {
	switch s {
	case NoOp:
		return "noop"
	case FirstSelection:
		return "first"
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Code returns the numeric result codes used by the desktop client:
// 0 first selection, 1 match, -1 mismatch, 2 ignored.
func (s Status) Code() int {
	switch s {
	case FirstSelection:
		return 0
	case Match:
		return 1
	case Mismatch:
		return -1
	default:
		return 2
	}
}

// MarshalText encodes the status by name so JSON payloads stay readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolved reports whether the status closes a pair attempt.
func (s Status) Resolved() bool {
	return s == Match || s == Mismatch
}

// selection is the pending first click of a pair attempt.
type selection struct {
	row, col int
	symbol   Symbol
}
