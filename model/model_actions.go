package model

import "fmt"

func NewEmptyBoard(rows, cols int) *Board {
	matrix := make([][]Piece, 0, rows)
	for r := 0; r < rows; r++ {
		matrix = append(matrix, make([]Piece, cols))
	}
	return &Board{Rows: rows, Cols: cols, Matrix: matrix}
}

func (b *Board) Dimensions() (int, int) { return b.Rows, b.Cols }

func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.Rows && p.Col >= 0 && p.Col < b.Cols
}

func (b *Board) check(p Position) error {
	if !b.InBounds(p) {
		return fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, p, b.Rows, b.Cols)
	}
	return nil
}

// Get returns the piece at p and whether the cell is occupied.
func (b *Board) Get(p Position) (Piece, bool, error) {
	if err := b.check(p); err != nil {
		return Piece{}, false, err
	}
	pc := b.Matrix[p.Row][p.Col]
	return pc, !pc.Empty(), nil
}

// Set writes pc into p; the zero Piece clears the cell.
func (b *Board) Set(p Position, pc Piece) error {
	if err := b.check(p); err != nil {
		return err
	}
	b.Matrix[p.Row][p.Col] = pc
	return nil
}

func (b *Board) Clear(p Position) error { return b.Set(p, Piece{}) }

// Find scans row by row and returns the first occupied cell matching pred.
func (b *Board) Find(pred func(Piece) bool) (Position, bool) {
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			pc := b.Matrix[r][c]
			if !pc.Empty() && pred(pc) {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

func (b *Board) FindAll(pred func(Piece) bool) []Position {
	var out []Position
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			pc := b.Matrix[r][c]
			if !pc.Empty() && pred(pc) {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

func (b *Board) Clone() *Board {
	clone := NewEmptyBoard(b.Rows, b.Cols)
	for r := range b.Matrix {
		copy(clone.Matrix[r], b.Matrix[r])
	}
	return clone
}

func (b *Board) Equal(o *Board) bool {
	if o == nil || b.Rows != o.Rows || b.Cols != o.Cols {
		return false
	}
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if b.Matrix[r][c] != o.Matrix[r][c] {
				return false
			}
		}
	}
	return true
}

// Orientations lists the orientation of every occupied cell.
func (b *Board) Orientations() map[Position]Direction {
	out := make(map[Position]Direction)
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if pc := b.Matrix[r][c]; !pc.Empty() {
				out[Position{Row: r, Col: c}] = pc.Orientation
			}
		}
	}
	return out
}

func SphinxOf(c Color) func(Piece) bool {
	return func(p Piece) bool { return p.Kind == SPHINX && p.Color == c }
}

// Validate checks the setup contract: dimension bounds, zone placement and
// exactly one Sphinx per color.
func (b *Board) Validate() error {
	if b.Rows < MIN_SIZE || b.Rows > MAX_SIZE || b.Cols < MIN_SIZE || b.Cols > MAX_SIZE {
		return fmt.Errorf("%w: size %dx%d outside %d..%d", ErrInvalidBoard, b.Rows, b.Cols, MIN_SIZE, MAX_SIZE)
	}
	if len(b.Matrix) != b.Rows {
		return fmt.Errorf("%w: %d rows declared, %d present", ErrInvalidBoard, b.Rows, len(b.Matrix))
	}
	for r, line := range b.Matrix {
		if len(line) != b.Cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(line), b.Cols)
		}
		for c, pc := range line {
			if pc.Empty() {
				continue
			}
			pos := Position{Row: r, Col: c}
			if pc.Kind < SPHINX || pc.Kind > ANUBIS {
				return fmt.Errorf("%w: unknown piece kind %d at %v", ErrInvalidBoard, int(pc.Kind), pos)
			}
			if pc.Color != RED && pc.Color != SILVER {
				return fmt.Errorf("%w: piece without color at %v", ErrInvalidBoard, pos)
			}
			if !pc.Orientation.Valid() {
				return fmt.Errorf("%w: bad orientation at %v", ErrInvalidBoard, pos)
			}
			if Forbidden(b, pc.Color, pos) {
				return fmt.Errorf("%w: %v placed in forbidden zone at %v", ErrInvalidBoard, pc, pos)
			}
		}
	}
	for _, color := range []Color{RED, SILVER} {
		if n := len(b.FindAll(SphinxOf(color))); n != 1 {
			return fmt.Errorf("%w: %d %s sphinxes, want 1", ErrInvalidBoard, n, color.Name())
		}
	}
	return nil
}
