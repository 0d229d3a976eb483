package model

import "fmt"

// HistoryEntry is the immutable record of one accepted turn. Board is the
// position after the laser fired.
type HistoryEntry struct {
	Board    *Board   `json:"board"`
	Mover    Color    `json:"mover"`
	From     Position `json:"from"`
	To       Position `json:"to"`
	Action   Action   `json:"action"`
	MoveKind MoveKind `json:"-"`
	Notation string   `json:"notation"`
	Shot     Shot     `json:"shot"`
}

// Orientations is derived from the snapshot; orientation lives only on pieces.
func (e HistoryEntry) Orientations() map[Position]Direction {
	if e.Board == nil {
		return nil
	}
	return e.Board.Orientations()
}

// clone copies every part of e a caller could mutate.
func (e HistoryEntry) clone() HistoryEntry {
	if e.Board != nil {
		e.Board = e.Board.Clone()
	}
	e.Shot.Path = append([]Segment(nil), e.Shot.Path...)
	if e.Shot.Hit != nil {
		hit := *e.Shot.Hit
		e.Shot.Hit = &hit
	}
	if e.Shot.Destroyed != nil {
		destroyed := *e.Shot.Destroyed
		e.Shot.Destroyed = &destroyed
	}
	return e
}

// Square names a cell like "c3": files from 'a' on the left, ranks counted
// from the bottom edge.
func Square(b *Board, p Position) string {
	return fmt.Sprintf("%c%d", 'a'+rune(p.Col), b.Rows-p.Row)
}

func moveNotation(b *Board, pc Piece, from, to Position) string {
	return fmt.Sprintf("%s %s to %s", pc, Square(b, from), Square(b, to))
}

func rotationNotation(b *Board, pc Piece, at Position, s Spin) string {
	return fmt.Sprintf("%s %s rotated %s", pc, Square(b, at), s.Name())
}

// record appends e and moves CurrentIndex onto it.
func (g *Game) record(e HistoryEntry) {
	g.History = append(g.History, e)
	g.CurrentIndex = len(g.History) - 1
}

// Undo drops the latest entry and restores the position before it.
func (g *Game) Undo() (HistoryEntry, bool) {
	n := len(g.History)
	if n == 0 {
		return HistoryEntry{}, false
	}
	last := g.History[n-1]
	g.History = g.History[:n-1]
	g.CurrentIndex = len(g.History) - 1
	if g.CurrentIndex >= 0 {
		g.Board = g.History[g.CurrentIndex].Board.Clone()
	} else {
		g.Board = g.initial.Clone()
	}
	g.Turn = last.Mover
	g.Over = false
	g.Winner = NO_COLOR
	return last, true
}
