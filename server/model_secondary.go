package server

import (
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/zucenko/khet/model"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_TIMEOUT = 408
const HTTP_SERVER_ERR = 503

type ResponseCode int

const (
	GAME_READY ResponseCode = iota
	GAME_INVALIDE
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case GAME_READY:
		return HTTP_SUCCESS
	case GAME_INVALIDE:
		return HTTP_SERVER_ERR
	default:
		panic(h)
	}
}

func (gss GameSessionState) Name() string {
	switch gss {
	case GS_NEW:
		return "GS_NEW"
	case GS_WAIT:
		return "GS_WAIT"
	case GS_PLAY:
		return "GS_PLAY"
	case GS_ERR:
		return "GS_ERR"
	case GS_OVER:
		return "GS_OVER"
	default:
		return fmt.Sprintf("n/a:%d", gss)
	}
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_OVER:
		return "OVER"
	case PS_ERR:
		return "ERR"
	case PS_ERR_SEC:
		return "ERR_SEC"
	default:
		return "N/A"
	}
}

var (
	ErrWaitingForOpponent = errors.New("waiting for opponent")
	ErrEmptyMessage       = errors.New("message carries no move")
	ErrBadMessage         = errors.New("message not understood")
)

// Rejection codes sent to the client, most specific first.
var rejectionCodes = []struct {
	err  error
	code string
}{
	{model.ErrInvalidDestination, "invalid_destination"},
	{model.ErrOutOfBounds, "out_of_bounds"},
	{model.ErrNotYourTurn, "not_your_turn"},
	{model.ErrGameOver, "game_over"},
	{model.ErrIllegalMove, "illegal_move"},
	{model.ErrMalformedAction, "malformed_action"},
	{ErrWaitingForOpponent, "waiting"},
	{ErrEmptyMessage, "empty_message"},
	{ErrBadMessage, "bad_message"},
}

func RejectionFor(err error) model.Rejection {
	for _, rc := range rejectionCodes {
		if errors.Is(err, rc.err) {
			return model.Rejection{Code: rc.code, Message: err.Error()}
		}
	}
	return model.Rejection{Code: "internal", Message: err.Error()}
}

type GameContextAwaiting struct {
	ResponseCode ResponseCode
	GameSession  *GameSession
}

type GameRequest struct {
	GameContextAwaiting chan GameContextAwaiting
}

type PlayerConnectRequest struct {
	Con      *websocket.Conn
	GameOver chan struct{}
}

// PlayerEvent is one decoded client message; Err is set when decoding failed.
type PlayerEvent struct {
	Player  model.Color
	Message model.ClientMessage
	Err     error
}
