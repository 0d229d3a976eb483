package model

// Ankh cells are forbidden to red pieces: the last column plus the top and
// bottom cells of column 1.
func IsAnkh(b *Board, p Position) bool {
	return p.Col == b.Cols-1 || (p.Col == 1 && (p.Row == 0 || p.Row == b.Rows-1))
}

// Eye cells are forbidden to silver pieces: the first column plus the top and
// bottom cells of the second-to-last column.
func IsEye(b *Board, p Position) bool {
	return p.Col == 0 || (p.Col == b.Cols-2 && (p.Row == 0 || p.Row == b.Rows-1))
}

func Forbidden(b *Board, c Color, p Position) bool {
	switch c {
	case RED:
		return IsAnkh(b, p)
	case SILVER:
		return IsEye(b, p)
	default:
		return false
	}
}

type Compass int

const (
	NORTH Compass = iota
	NORTH_EAST
	EAST
	SOUTH_EAST
	SOUTH
	SOUTH_WEST
	WEST
	NORTH_WEST
)

var COMPASS = [8]Compass{NORTH, NORTH_EAST, EAST, SOUTH_EAST, SOUTH, SOUTH_WEST, WEST, NORTH_WEST}

// Delta in engine coordinates: north is towards row 0.
func (c Compass) Delta() (int, int) {
	switch c {
	case NORTH:
		return -1, 0
	case NORTH_EAST:
		return -1, 1
	case EAST:
		return 0, 1
	case SOUTH_EAST:
		return 1, 1
	case SOUTH:
		return 1, 0
	case SOUTH_WEST:
		return 1, -1
	case WEST:
		return 0, -1
	case NORTH_WEST:
		return -1, -1
	default:
		return 0, 0
	}
}

func CompassBetween(from, to Position) (Compass, bool) {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	for _, c := range COMPASS {
		r, cc := c.Delta()
		if r == dr && cc == dc {
			return c, true
		}
	}
	return 0, false
}

func swappable(k Kind) bool { return k == PYRAMID || k == ANUBIS }

// LegalDestinations lists, in compass order, the cells the piece at from may
// translate to.
func LegalDestinations(b *Board, pc Piece, from Position) []Position {
	if pc.Kind == SPHINX || pc.Empty() {
		return nil
	}
	var out []Position
	for _, c := range COMPASS {
		dr, dc := c.Delta()
		to := from.Step(dr, dc)
		if !b.InBounds(to) || Forbidden(b, pc.Color, to) {
			continue
		}
		occupant := b.Matrix[to.Row][to.Col]
		if occupant.Empty() {
			out = append(out, to)
			continue
		}
		if pc.Kind == SCARAB && swappable(occupant.Kind) && !Forbidden(b, occupant.Color, from) {
			out = append(out, to)
		}
	}
	return out
}

func contains(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// Mirror tables indexed [orientation][travel]; NONE means the face does not
// reflect. A Pyramid at UP carries one mirror facing up-left, a Scarab carries
// both faces of the same diagonal.
var pyramidReflections = [4][4]Direction{
	UP:    {UP: LEFT, RIGHT: DOWN, DOWN: NONE, LEFT: NONE},
	RIGHT: {UP: NONE, RIGHT: UP, DOWN: LEFT, LEFT: NONE},
	DOWN:  {UP: NONE, RIGHT: NONE, DOWN: RIGHT, LEFT: UP},
	LEFT:  {UP: RIGHT, RIGHT: NONE, DOWN: NONE, LEFT: DOWN},
}

var scarabReflections = [4][4]Direction{
	UP:    {UP: LEFT, RIGHT: DOWN, DOWN: RIGHT, LEFT: UP},
	RIGHT: {UP: RIGHT, RIGHT: UP, DOWN: LEFT, LEFT: DOWN},
	DOWN:  {UP: LEFT, RIGHT: DOWN, DOWN: RIGHT, LEFT: UP},
	LEFT:  {UP: RIGHT, RIGHT: UP, DOWN: LEFT, LEFT: DOWN},
}

// Reflect returns the new direction of travel for a beam travelling in
// travel that hits a piece of kind k, or false when the beam stops there.
func Reflect(k Kind, orientation, travel Direction) (Direction, bool) {
	if !orientation.Valid() || !travel.Valid() {
		return NONE, false
	}
	var out Direction
	switch k {
	case PYRAMID:
		out = pyramidReflections[orientation][travel]
	case SCARAB:
		out = scarabReflections[orientation][travel]
	default:
		return NONE, false
	}
	return out, out != NONE
}

// AnubisBlocks reports whether an Anubis oriented o faces a beam travelling
// in travel. An Anubis at UP looks to the right.
func AnubisBlocks(o, travel Direction) bool {
	return o.Valid() && travel == o.CounterClockwise()
}
