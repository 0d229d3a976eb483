package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zucenko/khet/model"
)

type GameServer struct {
	GameSessions []*GameSession
	GameRequests chan GameRequest
	Releases     chan *GameSession
	Upgrader     *websocket.Upgrader
	Config       Config
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_WAIT
	GS_PLAY
	GS_ERR
	GS_OVER
)

// GameSession owns one match. Only its Loop goroutine touches Game and the
// seat states.
type GameSession struct {
	Id                    uuid.UUID
	State                 GameSessionState
	Game                  *model.Game
	PlayerSessions        []*PlayerSession
	Errors                chan model.Color
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	seats int
	done  chan struct{}
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
	PS_ERR_SEC
)

type PlayerSession struct {
	State       PlayerSessionState
	Color       model.Color
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
