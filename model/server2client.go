package model

type ServerMessage struct {
	Setup  []Setup      `json:"setup,omitempty"`
	Turns  []TurnResult `json:"turns,omitempty"`
	Errors []Rejection  `json:"errors,omitempty"`
}

type Setup struct {
	SessionId string `json:"session_id"`
	Color     Color  `json:"color"`
	Turn      Color  `json:"turn"`
	Board     *Board `json:"board"`
}

type TurnResult struct {
	Mover    Color     `json:"mover"`
	Action   Action    `json:"action"`
	Notation string    `json:"notation"`
	Path     []Segment `json:"path"`
	Outcome  Outcome   `json:"outcome"`
	Board    *Board    `json:"board"`
	Turn     Color     `json:"turn"`
	Over     bool      `json:"over"`
	Winner   Color     `json:"winner,omitempty"`
}

type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MoveRequest struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type RotateRequest struct {
	Pos  Position `json:"pos"`
	Spin Spin     `json:"spin"`
}

// ClientMessage carries one of Move, Rotate or Action; Action is an oracle
// token "<col>,<row>,<VERB>".
type ClientMessage struct {
	Move   *MoveRequest   `json:"move,omitempty"`
	Rotate *RotateRequest `json:"rotate,omitempty"`
	Action string         `json:"action,omitempty"`
}

func NewTurnResult(g *Game, e HistoryEntry) TurnResult {
	return TurnResult{
		Mover:    e.Mover,
		Action:   e.Action,
		Notation: e.Notation,
		Path:     e.Shot.Path,
		Outcome:  e.Shot.Outcome,
		Board:    e.Board,
		Turn:     g.Turn,
		Over:     g.Over,
		Winner:   g.Winner,
	}
}
