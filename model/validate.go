package model

import "fmt"

type MoveKind int

const (
	TRANSLATE MoveKind = iota + 1
	SWAP
)

func (m MoveKind) Name() string {
	switch m {
	case TRANSLATE:
		return "translate"
	case SWAP:
		return "swap"
	default:
		return fmt.Sprintf("n/a:%d", int(m))
	}
}

// mover returns the piece at p once the game is live and the piece belongs
// to the side to move.
func (g *Game) mover(p Position) (Piece, error) {
	if g.Over {
		return Piece{}, ErrGameOver
	}
	pc, ok, err := g.Board.Get(p)
	if err != nil {
		return Piece{}, err
	}
	if !ok {
		return Piece{}, fmt.Errorf("%w: no piece at %v", ErrIllegalMove, p)
	}
	if pc.Color != g.Turn {
		return Piece{}, fmt.Errorf("%w: %v at %v, %s to move", ErrNotYourTurn, pc, p, g.Turn.Name())
	}
	return pc, nil
}

// ValidateMove checks a translation of the piece at from onto to without
// touching the board.
func (g *Game) ValidateMove(from, to Position) (MoveKind, error) {
	pc, err := g.mover(from)
	if err != nil {
		return 0, err
	}
	if !g.Board.InBounds(to) {
		return 0, fmt.Errorf("%w: %v", ErrOutOfBounds, to)
	}
	if !contains(LegalDestinations(g.Board, pc, from), to) {
		return 0, fmt.Errorf("%w: %v from %v to %v", ErrInvalidDestination, pc, from, to)
	}
	if g.Board.Matrix[to.Row][to.Col].Empty() {
		return TRANSLATE, nil
	}
	return SWAP, nil
}

// ValidateRotation accepts any rotation of a piece owned by the side to move.
func (g *Game) ValidateRotation(p Position, s Spin) error {
	if s != CW && s != CCW {
		return fmt.Errorf("%w: unknown spin %d", ErrIllegalMove, int(s))
	}
	_, err := g.mover(p)
	return err
}
