package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

func (c Compass) Name() string {
	switch c {
	case NORTH:
		return "NORTH"
	case NORTH_EAST:
		return "NORTH_EAST"
	case EAST:
		return "EAST"
	case SOUTH_EAST:
		return "SOUTH_EAST"
	case SOUTH:
		return "SOUTH"
	case SOUTH_WEST:
		return "SOUTH_WEST"
	case WEST:
		return "WEST"
	case NORTH_WEST:
		return "NORTH_WEST"
	default:
		return fmt.Sprintf("n/a:%d", int(c))
	}
}

func (s Spin) MarshalText() ([]byte, error) { return []byte(s.Name()), nil }

func (s *Spin) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "cw", "right", "rotate_cw":
		*s = CW
	case "ccw", "left", "rotate_ccw":
		*s = CCW
	default:
		return fmt.Errorf("unknown spin %q", string(text))
	}
	return nil
}

// Action is one oracle step: a one-cell compass translation of the piece at
// Pos, or a rotation of it when Spin is set.
type Action struct {
	Pos  Position
	Move Compass
	Spin Spin
}

func (a Action) Rotation() bool { return a.Spin != 0 }

func (a Action) Target() Position {
	if a.Rotation() {
		return a.Pos
	}
	dr, dc := a.Move.Delta()
	return a.Pos.Step(dr, dc)
}

func (a Action) Verb() string {
	switch a.Spin {
	case CW:
		return "ROTATE_CW"
	case CCW:
		return "ROTATE_CCW"
	}
	return a.Move.Name()
}

func parseVerb(s string) (Compass, Spin, bool) {
	switch s {
	case "ROTATE_CW":
		return 0, CW, true
	case "ROTATE_CCW":
		return 0, CCW, true
	}
	for _, c := range COMPASS {
		if c.Name() == s {
			return c, 0, true
		}
	}
	return 0, 0, false
}

type actionJSON struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Verb string `json:"verb"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Row: a.Pos.Row, Col: a.Pos.Col, Verb: a.Verb()})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	move, spin, ok := parseVerb(raw.Verb)
	if !ok {
		return fmt.Errorf("%w: verb %q", ErrMalformedAction, raw.Verb)
	}
	*a = Action{Pos: Position{Row: raw.Row, Col: raw.Col}, Move: move, Spin: spin}
	return nil
}

// The oracle counts rows from the bottom edge; the engine from the top.
func oracleRow(b *Board, row int) int { return b.Rows - row - 1 }

// FormatActionToken renders a as "<col>,<row>,<VERB>" in oracle coordinates.
func FormatActionToken(b *Board, a Action) string {
	return fmt.Sprintf("%d,%d,%s", a.Pos.Col, oracleRow(b, a.Pos.Row), a.Verb())
}

func ParseActionToken(b *Board, tok string) (Action, error) {
	parts := strings.Split(strings.TrimSpace(tok), ",")
	if len(parts) != 3 {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformedAction, tok)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Action{}, fmt.Errorf("%w: column in %q", ErrMalformedAction, tok)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Action{}, fmt.Errorf("%w: row in %q", ErrMalformedAction, tok)
	}
	move, spin, ok := parseVerb(strings.TrimSpace(parts[2]))
	if !ok {
		return Action{}, fmt.Errorf("%w: verb in %q", ErrMalformedAction, tok)
	}
	pos := Position{Row: oracleRow(b, row), Col: col}
	if !b.InBounds(pos) {
		return Action{}, fmt.Errorf("%w: %q off the %dx%d board", ErrMalformedAction, tok, b.Rows, b.Cols)
	}
	return Action{Pos: pos, Move: move, Spin: spin}, nil
}

// ParseActions decodes a newline separated oracle response. Malformed tokens
// are logged and skipped.
func ParseActions(b *Board, body string) []Action {
	var out []Action
	for i, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		a, err := ParseActionToken(b, line)
		if err != nil {
			log.WithField("line", i+1).Warnf("skipping oracle token: %v", err)
			continue
		}
		out = append(out, a)
	}
	return out
}

// OracleRequest is the body sent to the move/solution service.
type OracleRequest struct {
	Board      [][]string `json:"board"`
	LastAction string     `json:"last_action,omitempty"`
}

func NewOracleRequest(b *Board, last *Action) OracleRequest {
	req := OracleRequest{Board: b.Tokens(" ")}
	if last != nil {
		req.LastAction = FormatActionToken(b, *last)
	}
	return req
}
