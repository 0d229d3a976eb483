package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/khet/model"
)

const SEATS = 2

func NewGameServer(cfg Config) *GameServer {
	return &GameServer{
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest),
		Releases:     make(chan *GameSession),
		Upgrader:     &websocket.Upgrader{},
		Config:       cfg,
	}
}

func NewGameSession(g *model.Game) *GameSession {
	return &GameSession{
		Id:                    uuid.New(),
		State:                 GS_NEW,
		Game:                  g,
		PlayerSessions:        make([]*PlayerSession, 0, SEATS),
		Errors:                make(chan model.Color, SEATS),
		Events:                make(chan PlayerEvent, 10),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		done:                  make(chan struct{}),
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("HandleHttpCall connection received")
		if !websocket.IsWebSocketUpgrade(r) {
			w.WriteHeader(HTTP_BAD_REQUEST)
			return
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			if gca.ResponseCode != GAME_READY {
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(timeout):
			log.Warn("HandleHttpCall GameContextAwaiting TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		// Upgrade replies to the client itself on failure.
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			s.release(gca.GameSession, timeout)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-gca.GameSession.done:
			return
		case <-time.After(timeout):
			log.Warn("PlayerConnectRequests TIMEOUTED")
			s.release(gca.GameSession, timeout)
			return
		}

		// the session closes gameOver once either seat drops
		<-gameOver
	}
}

// HandleLegalActions answers an oracle style request: the body is an
// OracleRequest, the response lists every legal action of the color in the
// path, one "<col>,<row>,<VERB>" token per line.
func (s *GameServer) HandleLegalActions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		color, ok := model.ParseColor(way.Param(r.Context(), "color"))
		if !ok || color == model.NO_COLOR {
			http.Error(w, "unknown color", HTTP_BAD_REQUEST)
			return
		}
		var req model.OracleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), HTTP_BAD_REQUEST)
			return
		}
		b, err := model.BoardFromTokens(req.Board)
		if err == nil {
			err = b.Validate()
		}
		if err != nil {
			http.Error(w, err.Error(), HTTP_BAD_REQUEST)
			return
		}
		actions := model.LegalActions(b, color)
		lines := make([]string, 0, len(actions))
		for _, a := range actions {
			lines = append(lines, model.FormatActionToken(b, a))
		}
		log.WithFields(log.Fields{"color": color.Name(), "actions": len(lines)}).Debug("legal actions served")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(HTTP_SUCCESS)
		fmt.Fprint(w, strings.Join(lines, "\n"))
	}
}

func (s *GameServer) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(HTTP_SUCCESS)
		fmt.Fprint(w, "ok")
	}
}

func (s *GameServer) Loop() {
	log.Info("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			gs, err := s.waitingSession()
			if err != nil {
				log.WithError(err).Error("cannot seed game session")
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_INVALIDE}
				continue
			}
			gs.seats++
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		case gs := <-s.Releases:
			if gs.seats > 0 {
				gs.seats--
			}
			gs.logger().WithField("seats", gs.seats).Info("seat released")
		}
	}
}

// release hands back a seat reserved for a connection that never joined.
func (s *GameServer) release(gs *GameSession, timeout time.Duration) {
	select {
	case s.Releases <- gs:
	case <-time.After(timeout):
		gs.logger().Warn("Releases TIMEOUTED, seat lost")
	}
}

// waitingSession returns a live session with a free seat, creating one when
// none is waiting. Finished sessions are forgotten.
func (s *GameServer) waitingSession() (*GameSession, error) {
	live := s.GameSessions[:0]
	var found *GameSession
	for _, gs := range s.GameSessions {
		if gs.finished() {
			continue
		}
		live = append(live, gs)
		if found == nil && gs.seats < SEATS {
			found = gs
		}
	}
	s.GameSessions = live
	if found != nil {
		return found, nil
	}

	game, err := Load(s.Config)
	if err != nil {
		return nil, err
	}
	gs := NewGameSession(game)
	go gs.Loop()
	s.GameSessions = append(s.GameSessions, gs)
	gs.logger().Info("create GameSession")
	return gs, nil
}

func (gs *GameSession) finished() bool {
	select {
	case <-gs.done:
		return true
	default:
		return false
	}
}

func (gs *GameSession) logger() *log.Entry {
	return log.WithField("session", gs.Id.String())
}

func (gs *GameSession) Loop() {
	logger := gs.logger()
	logger.Info("GameSession.Loop start")
	defer close(gs.done)
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			ps := gs.addPlayer(pcr.Con, pcr.GameOver)
			logger.WithField("color", ps.Color.Name()).Info("player seated")
			if len(gs.PlayerSessions) < SEATS {
				gs.State = GS_WAIT
				continue
			}
			gs.State = GS_PLAY
			for _, ps := range gs.PlayerSessions {
				ps.State = PS_PLAY
				ps.send(ps.MakeGameSetupMessage())
			}
		case errPlayer := <-gs.Errors:
			if gs.State == GS_OVER {
				logger.WithField("color", errPlayer.Name()).Info("player left finished game")
			} else {
				logger.WithField("color", errPlayer.Name()).Warn("player dropped, killing GameSession")
				gs.State = GS_ERR
			}
			for _, ps := range gs.PlayerSessions {
				if ps.Color == errPlayer {
					ps.State = PS_ERR
				} else if ps.State != PS_OVER {
					ps.State = PS_ERR_SEC
				}
				close(ps.GameOver)
			}
			return
		case pe := <-gs.Events:
			messageToPlayer, messageToAll := gs.Turn(pe)
			if messageToPlayer != nil {
				if ps := gs.seat(pe.Player); ps != nil {
					ps.send(*messageToPlayer)
				}
			}
			if messageToAll != nil {
				for _, ps := range gs.PlayerSessions {
					ps.send(*messageToAll)
				}
			}
		}
	}
}

// Turn applies one client message to the game. Accepted turns are broadcast;
// rejections go back to the sender only.
func (gs *GameSession) Turn(pe PlayerEvent) (
	messageToPlayer *model.ServerMessage,
	messageToAll *model.ServerMessage) {
	logger := gs.logger().WithField("color", pe.Player.Name())
	reject := func(err error) (*model.ServerMessage, *model.ServerMessage) {
		logger.WithError(err).Debug("turn rejected")
		return &model.ServerMessage{Errors: []model.Rejection{RejectionFor(err)}}, nil
	}

	if pe.Err != nil {
		return reject(pe.Err)
	}
	if gs.State == GS_NEW || gs.State == GS_WAIT {
		return reject(ErrWaitingForOpponent)
	}
	if !gs.Game.Over && pe.Player != gs.Game.Turn {
		return reject(fmt.Errorf("%w: %s to move", model.ErrNotYourTurn, gs.Game.Turn.Name()))
	}

	e, err := gs.apply(pe.Message)
	if err != nil {
		if !errors.Is(err, model.ErrLaserRunaway) {
			return reject(err)
		}
		logger.WithError(err).Error("laser fault, turn committed")
	}
	logger.WithField("outcome", e.Shot.Outcome.Name()).Info(e.Notation)

	if gs.Game.Over {
		gs.State = GS_OVER
		for _, ps := range gs.PlayerSessions {
			ps.State = PS_OVER
		}
		logger.WithField("winner", gs.Game.Winner.Name()).Info("GameSession over")
	}
	return nil, &model.ServerMessage{Turns: []model.TurnResult{model.NewTurnResult(gs.Game, e)}}
}

func (gs *GameSession) apply(cm model.ClientMessage) (model.HistoryEntry, error) {
	switch {
	case cm.Move != nil:
		return gs.Game.ApplyMove(cm.Move.From, cm.Move.To)
	case cm.Rotate != nil:
		return gs.Game.ApplyRotation(cm.Rotate.Pos, cm.Rotate.Spin)
	case cm.Action != "":
		a, err := model.ParseActionToken(gs.Game.Board, cm.Action)
		if err != nil {
			return model.HistoryEntry{}, err
		}
		return gs.Game.ApplyAction(a)
	}
	return model.HistoryEntry{}, ErrEmptyMessage
}

func (gs *GameSession) seat(c model.Color) *PlayerSession {
	for _, ps := range gs.PlayerSessions {
		if ps.Color == c {
			return ps
		}
	}
	return nil
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) *PlayerSession {
	color := gs.Game.First()
	if len(gs.PlayerSessions) > 0 {
		color = color.Opposite()
	}
	ps := &PlayerSession{
		State:          PS_NEW,
		Color:          color,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Temporary() {
				return nil
			}
			return err
		})
	// start processing input from the client
	go ps.LoopChannelRead()
	// start sending from server
	go ps.LoopChannelWrite()
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
	return ps
}

func (ps *PlayerSession) logger() *log.Entry {
	return ps.GameSession.logger().WithField("color", ps.Color.Name())
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := ps.logger()
	logger.Debug("LoopChannelRead STARTED")
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			logger.Debugf("LoopChannelRead err reading message from Conn %v", err)
			break
		}
		pe := PlayerEvent{Player: ps.Color}
		if err := json.NewDecoder(r).Decode(&pe.Message); err != nil {
			pe.Err = fmt.Errorf("%w: %v", ErrBadMessage, err)
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- pe:
		case <-ps.GameSession.done:
			return
		default:
			logger.Warn("dropping message, GameSession.Events FULL")
		}
	}
	logger.WithFields(log.Fields{
		"in":    ps.DebugInMessages,
		"pings": ps.DebugPings,
	}).Info("LoopChannelRead ENDED")
	select {
	case ps.GameSession.Errors <- ps.Color:
	case <-ps.GameSession.done:
	}
}

func (ps *PlayerSession) MakeGameSetupMessage() model.ServerMessage {
	g := ps.GameSession.Game
	return model.ServerMessage{
		Setup: []model.Setup{{
			SessionId: ps.GameSession.Id.String(),
			Color:     ps.Color,
			Turn:      g.Turn,
			Board:     g.Board.Clone(),
		}},
	}
}

// send never blocks the session loop.
func (ps *PlayerSession) send(m model.ServerMessage) {
	select {
	case ps.MessagesToSend <- m:
	default:
		ps.logger().Warn("MessagesToSend FULL, message dropped")
	}
}

// LoopChannelWrite is the only writer of data frames on Conn.
func (ps *PlayerSession) LoopChannelWrite() {
	logger := ps.logger()
loop:
	for {
		select {
		case mes := <-ps.MessagesToSend:
			if err := ps.Conn.WriteJSON(mes); err != nil {
				logger.Warnf("LoopChannelWrite cant write %v", err)
				// unblocks the reader, which reports the drop
				ps.Conn.Close()
				break loop
			}
			ps.DebugOutMessages++
		case <-ps.GameOver:
			break loop
		}
	}
	logger.WithField("out", ps.DebugOutMessages).Debug("LoopChannelWrite ENDED")
}
