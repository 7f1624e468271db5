// internal/boards/boards.go
//
// Board presets for the pair game.
//
// Responsibilities:
//   - Load named board sizes from a YAML file or fall back to embedded defaults.
//   - Validate sizes before any game is built from them.
//   - Resolve a preset by name (case-insensitive).
//
// File format:
//
//	boards:
//	  - name: beginner
//	    rows: 3
//	    cols: 4
//
// Environment variables:
//
//	BOARDS_FILE=/path/to/boards.yaml (read by the config package)
package boards

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_boards.yaml
var embeddedBoards []byte

var (
	// ErrEmptyCatalog is returned when a catalog file defines no boards.
	ErrEmptyCatalog = errors.New("boards: catalog is empty")
	// ErrInvalidBoard is returned for unnamed, duplicate or oddly sized boards.
	ErrInvalidBoard = errors.New("boards: invalid board")
)

// Board is a named board size.
type Board struct {
	Name string `yaml:"name" json:"name"`
	Rows int    `yaml:"rows" json:"rows"`
	Cols int    `yaml:"cols" json:"cols"`
}

// Pairs is the number of pairs hidden on the board.
func (b Board) Pairs() int { return b.Rows * b.Cols / 2 }

// Catalog is an ordered, validated set of boards.
type Catalog struct {
	boards []Board
	byName map[string]int
}

type catalogFile struct {
	Boards []Board `yaml:"boards"`
}

// Default returns the embedded presets (beginner, intermediate, advanced).
func Default() *Catalog {
	c, err := Parse(embeddedBoards)
	if err != nil {
		panic(fmt.Sprintf("boards: embedded defaults: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns Default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(f.Boards) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{byName: make(map[string]int, len(f.Boards))}
	for _, b := range f.Boards {
		b.Name = normalizeName(b.Name)
		if err := validate(b); err != nil {
			return nil, err
		}
		if _, dup := c.byName[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidBoard, b.Name)
		}
		c.byName[b.Name] = len(c.boards)
		c.boards = append(c.boards, b)
	}
	return c, nil
}

// Lookup finds a board by name.
func (c *Catalog) Lookup(name string) (Board, bool) {
	i, ok := c.byName[normalizeName(name)]
	if !ok {
		return Board{}, false
	}
	return c.boards[i], true
}

// List returns the boards in file order.
func (c *Catalog) List() []Board {
	return append([]Board(nil), c.boards...)
}

func validate(b Board) error {
	switch {
	case b.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidBoard)
	case b.Rows <= 0 || b.Cols <= 0:
		return fmt.Errorf("%w: %s has non-positive size %dx%d", ErrInvalidBoard, b.Name, b.Rows, b.Cols)
	case (b.Rows*b.Cols)%2 != 0:
		return fmt.Errorf("%w: %s has an odd cell count %dx%d", ErrInvalidBoard, b.Name, b.Rows, b.Cols)
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
