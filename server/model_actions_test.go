package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/khet/model"
)

func board(t *testing.T, grid ...[]string) *model.Board {
	t.Helper()
	b, err := model.BoardFromTokens(grid)
	require.NoError(t, err)
	return b
}

func duelBoard(t *testing.T) *model.Board {
	return board(t,
		[]string{"red_sphinx,down", "", "red_pharaoh", ""},
		[]string{"", "", "", ""},
		[]string{"", "", "", ""},
		[]string{"", "silver_pharaoh", "", "silver_sphinx"},
	)
}

func startServer(t *testing.T, cfg Config) (*httptest.Server, string) {
	t.Helper()
	gameServer := NewGameServer(cfg)
	go gameServer.Loop()
	router := way.NewRouter()
	router.HandleFunc("GET", "/play", gameServer.HandleHttpCall())
	router.HandleFunc("POST", "/legal/:color", gameServer.HandleLegalActions())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/play"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m model.ServerMessage
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

// seat connects both players and returns their connections by color.
func seat(t *testing.T, url string) (silver, red *websocket.Conn, sessionId string) {
	t.Helper()
	a := dial(t, url)
	b := dial(t, url)
	ma, mb := read(t, a), read(t, b)
	require.Len(t, ma.Setup, 1)
	require.Len(t, mb.Setup, 1)
	assert.Equal(t, ma.Setup[0].SessionId, mb.Setup[0].SessionId)
	assert.NotEqual(t, ma.Setup[0].Color, mb.Setup[0].Color)
	assert.Equal(t, model.SILVER, ma.Setup[0].Turn)
	if ma.Setup[0].Color == model.SILVER {
		return a, b, ma.Setup[0].SessionId
	}
	return b, a, ma.Setup[0].SessionId
}

func rejection(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	m := read(t, conn)
	require.Len(t, m.Errors, 1, "expected a rejection, got %+v", m)
	return m.Errors[0].Code
}

func TestSessionPlaysTurns(t *testing.T) {
	_, url := startServer(t, Config{Board: duelBoard(t), First: model.SILVER})
	silver, red, sessionId := seat(t, url)
	assert.NotEmpty(t, sessionId)

	require.NoError(t, red.WriteJSON(model.ClientMessage{
		Move: &model.MoveRequest{From: model.Position{Row: 0, Col: 2}, To: model.Position{Row: 1, Col: 2}},
	}))
	assert.Equal(t, "not_your_turn", rejection(t, red))

	require.NoError(t, silver.WriteJSON(model.ClientMessage{
		Rotate: &model.RotateRequest{Pos: model.Position{Row: 3, Col: 3}, Spin: model.CW},
	}))
	for _, conn := range []*websocket.Conn{silver, red} {
		m := read(t, conn)
		require.Len(t, m.Turns, 1)
		turn := m.Turns[0]
		assert.Equal(t, model.SILVER, turn.Mover)
		assert.Equal(t, model.RED, turn.Turn)
		assert.Equal(t, model.OUT_OF_BOUNDS, turn.Outcome)
		assert.Len(t, turn.Path, 1)
		assert.Equal(t, "silver sphinx d1 rotated cw", turn.Notation)
		pc, _, err := turn.Board.Get(model.Position{Row: 3, Col: 3})
		require.NoError(t, err)
		assert.Equal(t, model.RIGHT, pc.Orientation)
	}

	require.NoError(t, red.WriteJSON(model.ClientMessage{Action: "2,3,SOUTH"}))
	for _, conn := range []*websocket.Conn{silver, red} {
		m := read(t, conn)
		require.Len(t, m.Turns, 1)
		assert.Equal(t, "red pharaoh c4 to c3", m.Turns[0].Notation)
		assert.Equal(t, model.SILVER, m.Turns[0].Turn)
	}

	require.NoError(t, silver.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "bad_message", rejection(t, silver))

	require.NoError(t, silver.WriteJSON(model.ClientMessage{}))
	assert.Equal(t, "empty_message", rejection(t, silver))

	require.NoError(t, silver.WriteJSON(model.ClientMessage{
		Move: &model.MoveRequest{From: model.Position{Row: 3, Col: 1}, To: model.Position{Row: 1, Col: 1}},
	}))
	assert.Equal(t, "invalid_destination", rejection(t, silver))

	require.NoError(t, silver.WriteJSON(model.ClientMessage{Action: "9,9,NORTH"}))
	assert.Equal(t, "malformed_action", rejection(t, silver))
}

func TestSessionEndsWhenPharaohHit(t *testing.T) {
	_, url := startServer(t, Config{Board: board(t,
		[]string{"red_sphinx,down", "", "", ""},
		[]string{"", "", "", ""},
		[]string{"", "", "", ""},
		[]string{"red_pharaoh", "", "", "silver_sphinx"},
	)})
	silver, red, _ := seat(t, url)

	require.NoError(t, silver.WriteJSON(model.ClientMessage{
		Rotate: &model.RotateRequest{Pos: model.Position{Row: 3, Col: 3}, Spin: model.CCW},
	}))
	for _, conn := range []*websocket.Conn{silver, red} {
		m := read(t, conn)
		require.Len(t, m.Turns, 1)
		assert.Equal(t, model.PHARAOH_HIT, m.Turns[0].Outcome)
		assert.True(t, m.Turns[0].Over)
		assert.Equal(t, model.SILVER, m.Turns[0].Winner)
	}

	require.NoError(t, red.WriteJSON(model.ClientMessage{
		Rotate: &model.RotateRequest{Pos: model.Position{Row: 0, Col: 0}, Spin: model.CW},
	}))
	assert.Equal(t, "game_over", rejection(t, red))
}

func TestSessionWaitsForOpponent(t *testing.T) {
	_, url := startServer(t, Config{Board: duelBoard(t)})
	conn := dial(t, url)
	require.NoError(t, conn.WriteJSON(model.ClientMessage{Action: "3,0,ROTATE_CW"}))
	assert.Equal(t, "waiting", rejection(t, conn))
}

func TestSessionClosedWhenPlayerLeaves(t *testing.T) {
	_, url := startServer(t, Config{Board: duelBoard(t)})
	silver, red, _ := seat(t, url)

	require.NoError(t, silver.Close())
	require.NoError(t, red.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := red.ReadMessage()
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "timeout"), "connection should be closed, got %v", err)

	// the next pair gets a fresh session
	_, _, first := seat(t, url)
	assert.NotEmpty(t, first)
}

func TestUnloadableBoardRefusesConnection(t *testing.T) {
	_, url := startServer(t, Config{BoardPath: "does/not/exist.json"})
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, HTTP_SERVER_ERR, resp.StatusCode)
}

func TestHandleLegalActions(t *testing.T) {
	srv, _ := startServer(t, Config{Board: duelBoard(t)})
	body, err := json.Marshal(model.NewOracleRequest(duelBoard(t), nil))
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/legal/silver", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, HTTP_SUCCESS, resp.StatusCode)
	text, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(string(text), "\n")
	assert.Len(t, lines, len(model.LegalActions(duelBoard(t), model.SILVER)))
	assert.Contains(t, lines, "3,0,ROTATE_CW")
	assert.Contains(t, lines, "1,0,NORTH")

	resp, err = http.Post(srv.URL+"/legal/blue", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, HTTP_BAD_REQUEST, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/legal/red", "application/json", strings.NewReader(`{"board":[["red_king"]]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, HTTP_BAD_REQUEST, resp.StatusCode)
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewGameServer(Config{}).HandleHealth()(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, HTTP_SUCCESS, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRejectionFor(t *testing.T) {
	assert.Equal(t, "invalid_destination", RejectionFor(model.ErrInvalidDestination).Code)
	assert.Equal(t, "illegal_move", RejectionFor(model.ErrIllegalMove).Code)
	assert.Equal(t, "internal", RejectionFor(model.ErrLaserRunaway).Code)
}

func TestLoadDefaultsToSilver(t *testing.T) {
	g, err := Load(Config{BoardPath: "../data/boards/duel_4x4.json"})
	require.NoError(t, err)
	assert.Equal(t, model.SILVER, g.Turn)
	assert.Equal(t, 4, g.Board.Rows)

	_, err = Load(Config{Board: model.NewEmptyBoard(4, 4)})
	assert.Error(t, err)
}

func TestPlainRequestDoesNotTakeSeat(t *testing.T) {
	srv, url := startServer(t, Config{Board: duelBoard(t)})
	resp, err := http.Get(srv.URL + "/play")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, HTTP_BAD_REQUEST, resp.StatusCode)

	silver, red, sessionId := seat(t, url)
	assert.NotNil(t, silver)
	assert.NotNil(t, red)
	assert.NotEmpty(t, sessionId)
}

func TestReleasedSeatIsReused(t *testing.T) {
	gameServer := NewGameServer(Config{Board: duelBoard(t)})
	go gameServer.Loop()

	request := func() *GameSession {
		t.Helper()
		gcas := make(chan GameContextAwaiting, 1)
		gameServer.GameRequests <- GameRequest{GameContextAwaiting: gcas}
		gca := <-gcas
		require.Equal(t, GAME_READY, gca.ResponseCode)
		return gca.GameSession
	}

	first := request()
	gameServer.Releases <- first
	assert.Same(t, first, request(), "released seat goes to the next player")
	assert.Same(t, first, request())
	assert.NotSame(t, first, request(), "a full session is never offered again")
}
