package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Token encodes a piece as "<color>_<kind>[,<orientation>]"; Up is implied
// when the orientation is omitted. The empty piece encodes as "".
func Token(pc Piece) string {
	if pc.Empty() {
		return ""
	}
	tok := pc.Color.Name() + "_" + pc.Kind.Name()
	if pc.Orientation != UP {
		tok += "," + pc.Orientation.Name()
	}
	return tok
}

// ParseToken decodes a cell token. "", " " and the absent cell are empty.
func ParseToken(s string) (Piece, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Piece{}, nil
	}
	colorPart := s
	rest := ""
	if i := strings.IndexByte(s, '_'); i >= 0 {
		colorPart, rest = s[:i], s[i+1:]
	}
	color, ok := ParseColor(colorPart)
	if !ok || color == NO_COLOR {
		return Piece{}, fmt.Errorf("%w: bad color in token %q", ErrInvalidBoard, s)
	}
	kindPart, orientationPart := rest, ""
	if i := strings.IndexByte(rest, ','); i >= 0 {
		kindPart, orientationPart = rest[:i], strings.TrimSpace(rest[i+1:])
	}
	kind, ok := ParseKind(kindPart)
	if !ok {
		return Piece{}, fmt.Errorf("%w: bad kind in token %q", ErrInvalidBoard, s)
	}
	orientation := UP
	if orientationPart != "" {
		orientation, ok = ParseDirection(orientationPart)
		if !ok {
			return Piece{}, fmt.Errorf("%w: bad orientation in token %q", ErrInvalidBoard, s)
		}
	}
	return Piece{Kind: kind, Color: color, Orientation: orientation}, nil
}

// Tokens renders the board as a token grid, empty cells as blank.
func (b *Board) Tokens(blank string) [][]string {
	grid := make([][]string, b.Rows)
	for r := range grid {
		grid[r] = make([]string, b.Cols)
		for c := range grid[r] {
			if tok := Token(b.Matrix[r][c]); tok != "" {
				grid[r][c] = tok
			} else {
				grid[r][c] = blank
			}
		}
	}
	return grid
}

func BoardFromTokens(grid [][]string) (*Board, error) {
	cells := make([][]*string, len(grid))
	for r, line := range grid {
		cells[r] = make([]*string, len(line))
		for c := range line {
			cells[r][c] = &grid[r][c]
		}
	}
	return boardFromCells(cells)
}

func boardFromCells(cells [][]*string) (*Board, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidBoard)
	}
	b := NewEmptyBoard(len(cells), len(cells[0]))
	for r, line := range cells {
		if len(line) != b.Cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(line), b.Cols)
		}
		for c, cell := range line {
			if cell == nil {
				continue
			}
			pc, err := ParseToken(*cell)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			b.Matrix[r][c] = pc
		}
	}
	return b, nil
}

// MarshalJSON writes an array of rows, each cell null or a token.
func (b *Board) MarshalJSON() ([]byte, error) {
	cells := make([][]*string, b.Rows)
	for r := range cells {
		cells[r] = make([]*string, b.Cols)
		for c := range cells[r] {
			if tok := Token(b.Matrix[r][c]); tok != "" {
				cells[r][c] = &tok
			}
		}
	}
	return json.Marshal(cells)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var cells [][]*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	parsed, err := boardFromCells(cells)
	if err != nil {
		return err
	}
	*b = *parsed
	return nil
}

func ReadBoard(r io.Reader) (*Board, error) {
	b := &Board{}
	if err := json.NewDecoder(r).Decode(b); err != nil {
		return nil, err
	}
	return b, nil
}

func WriteBoard(w io.Writer, b *Board) error {
	enc := json.NewEncoder(w)
	return enc.Encode(b)
}

func LoadBoardFile(path string) (*Board, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	b, err := ReadBoard(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return b, nil
}

func SaveBoardFile(path string, b *Board) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBoard(file, b); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
