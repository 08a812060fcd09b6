// Package tetris contains the rules of the game: the shape catalog, the
// field and the match state machine. It performs no I/O; a host drives it
// through discrete calls and observes it through events and snapshots.
package tetris

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig is returned by constructors when the game can't be set up.
var ErrInvalidConfig = errors.New("invalid configuration")

const minFieldSize = 4

// Field is the playfield.
// Columns are 0 > width-1 left to right and represent the X axis.
// Rows are 0 > height-1 top to bottom and represent the Y axis.
// A zero cell is empty, otherwise it holds the color it will be rendered with.
type Field struct {
	width, height int
	grid          [][]int
}

// NewField returns an empty field of the given size.
func NewField(width, height int) (*Field, error) {
	if width < minFieldSize || height < minFieldSize {
		return nil, fmt.Errorf("%w: field %dx%d is smaller than %dx%d", ErrInvalidConfig, width, height, minFieldSize, minFieldSize)
	}
	f := &Field{width: width, height: height, grid: make([][]int, height)}
	for y := range f.grid {
		f.grid[y] = make([]int, width)
	}
	return f, nil
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }

// Cell returns the color at (x, y), or 0 when empty or outside the field.
func (f *Field) Cell(x, y int) int {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	return f.grid[y][x]
}

// Collides reports whether the piece overlaps a wall, the floor or a locked
// cell. There is no ceiling: cells above row 0 only check the walls. A piece
// with an unknown kind or rotation always collides.
//
//	  0 1 2 3 4 5 6 7 8 9
//	0 . . . O . . . . . .
//	1 . . . O O O . . . .
//	2 . . . . . X . . . .
func (f *Field) Collides(p *Piece) bool {
	if !p.valid() {
		return true
	}
	for _, c := range p.Cells() {
		if c.Y >= f.height || c.X >= f.width || c.X < 0 {
			return true
		}
		if c.Y >= 0 && f.grid[c.Y][c.X] != 0 {
			return true
		}
	}
	return false
}

// Lock writes the piece into the field. Cells above the visible field are
// dropped, an invalid piece writes nothing.
func (f *Field) Lock(p *Piece) {
	for _, c := range p.Cells() {
		if c.Y >= 0 {
			f.grid[c.Y][c.X] = p.Color
		}
	}
}

// ClearFullRows removes every complete row, shifting the rows above it down
// and inserting empty rows at the top. It returns how many rows were removed.
func (f *Field) ClearFullRows() int {
	var cleared int
	for y := f.height - 1; y >= 0; {
		if slices.Contains(f.grid[y], 0) {
			y--
			continue
		}
		// the same index is checked again since the row above moved into it.
		copy(f.grid[1:y+1], f.grid[:y])
		f.grid[0] = make([]int, f.width)
		cleared++
	}
	return cleared
}

func (f *Field) copy() *Field {
	c := &Field{width: f.width, height: f.height, grid: make([][]int, f.height)}
	for y := range f.grid {
		c.grid[y] = slices.Clone(f.grid[y])
	}
	return c
}
