package model

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// MAX_LASER_STEPS bounds the beam loop. A beam that never repeats a
// (cell, direction) state on a 10x10 board ends within 4*10*10 steps.
const MAX_LASER_STEPS = 4 * MAX_SIZE * MAX_SIZE

type Outcome int

const (
	NOT_FIRED Outcome = iota
	OUT_OF_BOUNDS
	ABSORBED
	PHARAOH_HIT
)

func (o Outcome) Name() string {
	switch o {
	case NOT_FIRED:
		return "not-fired"
	case OUT_OF_BOUNDS:
		return "out-of-bounds"
	case ABSORBED:
		return "absorbed"
	case PHARAOH_HIT:
		return "pharaoh-hit"
	default:
		return fmt.Sprintf("n/a:%d", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.Name()), nil }

func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{NOT_FIRED, OUT_OF_BOUNDS, ABSORBED, PHARAOH_HIT} {
		if candidate.Name() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// Segment is one cell of the beam. Entry is the face the beam came in through,
// Exit the direction it leaves in; NONE marks the emitter's entry and a
// terminal hit's exit.
type Segment struct {
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	Entry Direction `json:"entry"`
	Exit  Direction `json:"exit"`
}

// Shot is the complete, already-simulated result of one laser firing.
type Shot struct {
	Color     Color     `json:"color"`
	Path      []Segment `json:"path"`
	Outcome   Outcome   `json:"outcome"`
	Hit       *Position `json:"hit,omitempty"`
	Destroyed *Piece    `json:"-"`
	Winner    Color     `json:"winner,omitempty"`
}

// Fire traces the laser of color c from its Sphinx and applies every piece
// removal to b. A board without exactly one such Sphinx yields a NOT_FIRED
// shot and no error.
func Fire(b *Board, c Color) (Shot, error) {
	return fire(b, c, MAX_LASER_STEPS)
}

func fire(b *Board, c Color, budget int) (Shot, error) {
	shot := Shot{Color: c, Outcome: NOT_FIRED}
	sphinxes := b.FindAll(SphinxOf(c))
	if len(sphinxes) != 1 {
		log.WithField("color", c.Name()).Warnf("Fire skipped, %d sphinxes on board", len(sphinxes))
		return shot, nil
	}
	pos := sphinxes[0]
	travel := b.Matrix[pos.Row][pos.Col].Orientation
	shot.Path = append(shot.Path, Segment{Row: pos.Row, Col: pos.Col, Entry: NONE, Exit: travel})

	for step := 0; step < budget; step++ {
		dr, dc := travel.Delta()
		pos = pos.Step(dr, dc)
		if !b.InBounds(pos) {
			shot.Outcome = OUT_OF_BOUNDS
			return shot, nil
		}
		entry := travel.Opposite()
		pc := b.Matrix[pos.Row][pos.Col]
		if pc.Empty() {
			shot.Path = append(shot.Path, Segment{Row: pos.Row, Col: pos.Col, Entry: entry, Exit: travel})
			continue
		}

		terminal := Segment{Row: pos.Row, Col: pos.Col, Entry: entry, Exit: NONE}
		switch pc.Kind {
		case PYRAMID, SCARAB:
			if next, ok := Reflect(pc.Kind, pc.Orientation, travel); ok {
				shot.Path = append(shot.Path, Segment{Row: pos.Row, Col: pos.Col, Entry: entry, Exit: next})
				travel = next
				continue
			}
			shot.destroy(b, pos, pc)
		case SPHINX:
			shot.stop(pos)
		case PHARAOH:
			shot.stop(pos)
			shot.Outcome = PHARAOH_HIT
			shot.Winner = pc.Color.Opposite()
		case ANUBIS:
			if AnubisBlocks(pc.Orientation, travel) {
				shot.stop(pos)
			} else {
				shot.destroy(b, pos, pc)
			}
		default:
			shot.destroy(b, pos, pc)
		}
		shot.Path = append(shot.Path, terminal)
		return shot, nil
	}

	shot.Outcome = ABSORBED
	log.WithFields(log.Fields{
		"color":  c.Name(),
		"budget": budget,
		"cell":   pos.String(),
	}).Error("laser step budget exhausted")
	return shot, fmt.Errorf("%w: %d steps from %s sphinx", ErrLaserRunaway, budget, c.Name())
}

func (s *Shot) stop(pos Position) {
	hit := pos
	s.Hit = &hit
	s.Outcome = ABSORBED
}

func (s *Shot) destroy(b *Board, pos Position, pc Piece) {
	s.stop(pos)
	destroyed := pc
	s.Destroyed = &destroyed
	b.Matrix[pos.Row][pos.Col] = Piece{}
}
