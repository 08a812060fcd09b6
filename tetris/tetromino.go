package tetris

import "fmt"

// Kind identifies one of the seven tetrominoes.
type Kind int

const (
	I Kind = iota
	Z
	S
	J
	L
	T
	O

	numKinds = 7
)

var kindNames = [numKinds]string{"I", "Z", "S", "J", "L", "T", "O"}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the seven known kinds.
func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

// Rotations returns how many rotation states the kind has, 0 for an unknown
// kind.
func (k Kind) Rotations() int {
	if !k.Valid() {
		return 0
	}
	return len(catalog[k])
}

// shape is a 4x4 bounding box stored as a bitmask, bit index = row*4 + col.
type shape uint16

func cells(idx ...int) shape {
	var s shape
	for _, i := range idx {
		s |= 1 << i
	}
	return s
}

func (s shape) occupied(row, col int) bool {
	return s&(1<<(row*4+col)) != 0
}

/*
.	Bounding box indexes

.	0  1  2  3
.	4  5  6  7
.	8  9  10 11
.	12 13 14 15
*/
var catalog = [numKinds][]shape{
	I: {cells(1, 5, 9, 13), cells(4, 5, 6, 7)},
	Z: {cells(4, 5, 9, 10), cells(2, 5, 6, 9)},
	S: {cells(6, 7, 9, 10), cells(1, 5, 6, 10)},
	J: {cells(1, 2, 5, 9), cells(0, 4, 5, 6), cells(1, 5, 8, 9), cells(4, 5, 6, 10)},
	L: {cells(1, 2, 6, 10), cells(5, 6, 7, 9), cells(2, 6, 10, 11), cells(3, 5, 6, 7)},
	T: {cells(1, 4, 5, 6), cells(1, 4, 5, 9), cells(4, 5, 6, 9), cells(1, 5, 6, 9)},
	O: {cells(1, 2, 5, 6)},
}

// Cell is an absolute position on the field.
type Cell struct {
	X, Y int
}

// Piece is a tetromino placed on the field. X and Y are the top-left corner
// of its 4x4 bounding box; Y may be negative while the piece is still above
// the visible field.
type Piece struct {
	Kind     Kind
	Rotation int
	Color    int
	X, Y     int
}

// NewPiece returns a piece of the given kind in its first rotation at (0, 0).
func NewPiece(k Kind, color int) (Piece, error) {
	if !k.Valid() {
		return Piece{}, fmt.Errorf("%w: unsupported piece kind %d", ErrInvalidConfig, int(k))
	}
	if color < 1 {
		return Piece{}, fmt.Errorf("%w: piece color %d", ErrInvalidConfig, color)
	}
	return Piece{Kind: k, Color: color}, nil
}

// valid reports whether the piece has a known kind and rotation. Pieces built
// by hand may not.
func (p *Piece) valid() bool {
	return p.Rotation >= 0 && p.Rotation < p.Kind.Rotations()
}

// shape is empty for an invalid piece.
func (p *Piece) shape() shape {
	if !p.valid() {
		return 0
	}
	return catalog[p.Kind][p.Rotation]
}

// Cells returns the absolute field positions occupied by the piece.
func (p *Piece) Cells() []Cell {
	s := p.shape()
	out := make([]Cell, 0, 4)
	for r := range 4 {
		for c := range 4 {
			if s.occupied(r, c) {
				out = append(out, Cell{X: p.X + c, Y: p.Y + r})
			}
		}
	}
	return out
}

// Move shifts the piece by (dx, dy). The move is undone if the piece would
// collide with the field.
func (p *Piece) Move(dx, dy int, f *Field) bool {
	p.X += dx
	p.Y += dy
	if f.Collides(p) {
		p.X -= dx
		p.Y -= dy
		return false
	}
	return true
}

// Rotate advances the piece to its next rotation state in place. There are no
// wall kicks: if the rotated piece collides, the rotation is undone.
func (p *Piece) Rotate(f *Field) bool {
	if !p.valid() {
		return false
	}
	prev := p.Rotation
	p.Rotation = (p.Rotation + 1) % p.Kind.Rotations()
	if f.Collides(p) {
		p.Rotation = prev
		return false
	}
	return true
}

// HardDrop moves the piece down until it rests on the lowest legal row.
func (p *Piece) HardDrop(f *Field) {
	for p.Move(0, 1, f) {
	}
}
