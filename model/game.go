package model

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Game is the single mutable state of one match. It is not safe for
// concurrent use; a host serializes every call on one goroutine.
type Game struct {
	Board        *Board
	Turn         Color
	History      []HistoryEntry
	CurrentIndex int
	Over         bool
	Winner       Color

	first   Color
	initial *Board
}

func NewGame(initial *Board, first Color) (*Game, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: no board", ErrInvalidBoard)
	}
	if first != RED && first != SILVER {
		return nil, fmt.Errorf("%w: starting color %v", ErrInvalidBoard, first)
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	g := &Game{first: first, initial: initial.Clone()}
	g.Reset()
	return g, nil
}

// Reset restores the pre-game position and clears history, turn and winner.
func (g *Game) Reset() {
	g.Board = g.Initial()
	g.Turn = g.first
	g.History = nil
	g.CurrentIndex = -1
	g.Over = false
	g.Winner = NO_COLOR
}

func (g *Game) Initial() *Board { return g.initial.Clone() }

func (g *Game) First() Color { return g.first }

// ApplyMove validates and performs a translation or Scarab swap, then fires
// the mover's laser. The returned entry reflects the board after the laser.
func (g *Game) ApplyMove(from, to Position) (HistoryEntry, error) {
	kind, err := g.ValidateMove(from, to)
	if err != nil {
		return HistoryEntry{}, err
	}
	pc := g.Board.Matrix[from.Row][from.Col]
	notation := moveNotation(g.Board, pc, from, to)
	occupant := g.Board.Matrix[to.Row][to.Col]
	g.Board.Matrix[to.Row][to.Col] = pc
	g.Board.Matrix[from.Row][from.Col] = occupant

	compass, _ := CompassBetween(from, to)
	return g.commit(HistoryEntry{
		From:     from,
		To:       to,
		Action:   Action{Pos: from, Move: compass},
		MoveKind: kind,
		Notation: notation,
	})
}

// ApplyRotation turns the piece at p by 90 degrees, then fires the mover's laser.
func (g *Game) ApplyRotation(p Position, s Spin) (HistoryEntry, error) {
	if err := g.ValidateRotation(p, s); err != nil {
		return HistoryEntry{}, err
	}
	pc := g.Board.Matrix[p.Row][p.Col]
	g.Board.Matrix[p.Row][p.Col] = pc.Rotated(s)
	return g.commit(HistoryEntry{
		From:     p,
		To:       p,
		Action:   Action{Pos: p, Spin: s},
		Notation: rotationNotation(g.Board, pc, p, s),
	})
}

// ApplyAction dispatches an oracle action to ApplyMove or ApplyRotation.
func (g *Game) ApplyAction(a Action) (HistoryEntry, error) {
	if a.Rotation() {
		return g.ApplyRotation(a.Pos, a.Spin)
	}
	return g.ApplyMove(a.Pos, a.Target())
}

func (g *Game) commit(e HistoryEntry) (HistoryEntry, error) {
	e.Mover = g.Turn
	shot, err := Fire(g.Board, g.Turn)
	e.Shot = shot
	e.Board = g.Board.Clone()
	if shot.Outcome == PHARAOH_HIT {
		g.Over = true
		g.Winner = shot.Winner
		log.WithFields(log.Fields{
			"winner": g.Winner.Name(),
			"turn":   len(g.History) + 1,
		}).Info("pharaoh hit, game over")
	} else {
		g.Turn = g.Turn.Opposite()
	}
	g.record(e)
	return e.clone(), err
}

// Actions lists every legal action for the side to move.
func (g *Game) Actions() []Action {
	if g.Over {
		return nil
	}
	return LegalActions(g.Board, g.Turn)
}

// LegalActions enumerates, piece by piece in row order, every compass
// translation the piece may make followed by both rotations.
func LegalActions(b *Board, c Color) []Action {
	var out []Action
	for _, pos := range b.FindAll(func(p Piece) bool { return p.Color == c }) {
		pc := b.Matrix[pos.Row][pos.Col]
		for _, to := range LegalDestinations(b, pc, pos) {
			compass, _ := CompassBetween(pos, to)
			out = append(out, Action{Pos: pos, Move: compass})
		}
		out = append(out, Action{Pos: pos, Spin: CW}, Action{Pos: pos, Spin: CCW})
	}
	return out
}
