package model

import "fmt"

const (
	MIN_SIZE = 4
	MAX_SIZE = 10
)

type Color int

const (
	NO_COLOR Color = iota
	RED
	SILVER
)

func (c Color) Opposite() Color {
	switch c {
	case RED:
		return SILVER
	case SILVER:
		return RED
	default:
		return NO_COLOR
	}
}

func (c Color) Name() string {
	switch c {
	case RED:
		return "red"
	case SILVER:
		return "silver"
	default:
		return ""
	}
}

func (c Color) String() string {
	if c == NO_COLOR {
		return "none"
	}
	return c.Name()
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Name()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("unknown color %q", string(text))
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, bool) {
	switch s {
	case "red", "Red", "RED":
		return RED, true
	case "silver", "Silver", "SILVER":
		return SILVER, true
	case "":
		return NO_COLOR, true
	default:
		return NO_COLOR, false
	}
}

type Kind int

const (
	NO_KIND Kind = iota
	SPHINX
	PHARAOH
	PYRAMID
	SCARAB
	ANUBIS
)

func (k Kind) Name() string {
	switch k {
	case SPHINX:
		return "sphinx"
	case PHARAOH:
		return "pharaoh"
	case PYRAMID:
		return "pyramid"
	case SCARAB:
		return "scarab"
	case ANUBIS:
		return "anubis"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, bool) {
	switch s {
	case "sphinx", "sphynx":
		return SPHINX, true
	case "pharaoh":
		return PHARAOH, true
	case "pyramid":
		return PYRAMID, true
	case "scarab":
		return SCARAB, true
	case "anubis":
		return ANUBIS, true
	default:
		return NO_KIND, false
	}
}

// Direction is both a piece orientation and a beam's direction of travel.
// NONE marks the missing entry or exit of a laser segment.
type Direction int

const (
	NONE Direction = iota - 1
	UP
	RIGHT
	DOWN
	LEFT
)

var DIRECTIONS = [4]Direction{UP, RIGHT, DOWN, LEFT}

func (d Direction) Valid() bool { return d >= UP && d <= LEFT }

func (d Direction) Clockwise() Direction {
	if !d.Valid() {
		return d
	}
	return (d + 1) % 4
}

func (d Direction) CounterClockwise() Direction {
	if !d.Valid() {
		return d
	}
	return (d + 3) % 4
}

func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return (d + 2) % 4
}

// Delta is the (row, col) step of one cell in direction d; row 0 is the top edge.
func (d Direction) Delta() (int, int) {
	switch d {
	case UP:
		return -1, 0
	case RIGHT:
		return 0, 1
	case DOWN:
		return 1, 0
	case LEFT:
		return 0, -1
	default:
		return 0, 0
	}
}

func (d Direction) Name() string {
	switch d {
	case UP:
		return "up"
	case RIGHT:
		return "right"
	case DOWN:
		return "down"
	case LEFT:
		return "left"
	default:
		return ""
	}
}

func (d Direction) String() string {
	if d == NONE {
		return "none"
	}
	return d.Name()
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return UP, true
	case "right":
		return RIGHT, true
	case "down":
		return DOWN, true
	case "left":
		return LEFT, true
	case "":
		return NONE, true
	default:
		return NONE, false
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.Name()), nil }

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("unknown direction %q", string(text))
	}
	*d = parsed
	return nil
}

type Spin int

const (
	CW Spin = iota + 1
	CCW
)

func (s Spin) Name() string {
	switch s {
	case CW:
		return "cw"
	case CCW:
		return "ccw"
	default:
		return fmt.Sprintf("spin(%d)", int(s))
	}
}

func (s Spin) Apply(d Direction) Direction {
	if s == CCW {
		return d.CounterClockwise()
	}
	return d.Clockwise()
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Step(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Piece is stored by value in the board grid; the zero Piece is an empty cell.
type Piece struct {
	Kind        Kind
	Color       Color
	Orientation Direction
}

func (p Piece) Empty() bool { return p.Kind == NO_KIND }

func (p Piece) Rotated(s Spin) Piece {
	p.Orientation = s.Apply(p.Orientation)
	return p
}

func (p Piece) String() string {
	if p.Empty() {
		return "empty"
	}
	return p.Color.Name() + " " + p.Kind.Name()
}

// Board is a rows × cols grid indexed [row][col] with row 0 at the top.
type Board struct {
	Rows, Cols int
	Matrix     [][]Piece
}
