package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ctchen222/Starter-Kit/internal/api/controller"
	"ctchen222/Starter-Kit/internal/bot"
	"ctchen222/Starter-Kit/internal/events"
	"ctchen222/Starter-Kit/internal/game"
	"ctchen222/Starter-Kit/internal/hub"
	"ctchen222/Starter-Kit/internal/repository"
	"ctchen222/Starter-Kit/internal/store"
	"ctchen222/Starter-Kit/pkg/proto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(repository.NewMemoryStateRepository())
	require.NoError(t, err)
	calc := bot.NewMoveCalculator(rand.NewPCG(1, 2))

	h := hub.NewHub(st, calc, bot.Hard)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	return NewServer(h, controller.NewStateController(st, calc, bot.Hard)), st
}

func do(t *testing.T, s *Server, method, path, body string) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestCounterRoutes(t *testing.T) {
	s, st := newTestServer(t)

	do(t, s, http.MethodPost, "/api/counter/increase", "")
	do(t, s, http.MethodPost, "/api/counter/increase", "")
	code, env := do(t, s, http.MethodPost, "/api/counter/decrease", "")

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(env.Extras))

	_, env = do(t, s, http.MethodPost, "/api/counter/reset", "")
	assert.JSONEq(t, `{"count":0}`, string(env.Extras))
	assert.Equal(t, 0, st.Snapshot().Count)
}

func TestMoveRoute(t *testing.T) {
	tests := []struct {
		name     string
		setup    []int
		body     string
		wantCode int
	}{
		{name: "Accepted move", body: `{"cell":4}`, wantCode: http.StatusOK},
		{name: "Cell zero is a valid cell", body: `{"cell":0}`, wantCode: http.StatusOK},
		{name: "Missing cell", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "Cell off the board", body: `{"cell":9}`, wantCode: http.StatusBadRequest},
		{name: "Malformed body", body: `{"cell":`, wantCode: http.StatusBadRequest},
		{name: "Occupied cell", setup: []int{4}, body: `{"cell":4}`, wantCode: http.StatusConflict},
		{name: "Finished round", setup: []int{0, 3, 1, 4, 2}, body: `{"cell":8}`, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a server that already played the setup moves
			s, st := newTestServer(t)
			for _, cell := range tt.setup {
				_, err := st.MakeMove(context.Background(), cell)
				require.NoError(t, err)
			}
			before := st.Snapshot()

			// When: the move is posted
			code, env := do(t, s, http.MethodPost, "/api/tictactoe/moves", tt.body)

			// Then: the status matches and rejected moves change nothing
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantCode == http.StatusOK, env.Success)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, before, st.Snapshot())
			}
		})
	}
}

func TestTicTacToeRoute(t *testing.T) {
	s, st := newTestServer(t)
	for _, cell := range []int{0, 3, 1, 4, 2} {
		_, err := st.MakeMove(context.Background(), cell)
		require.NoError(t, err)
	}

	code, env := do(t, s, http.MethodGet, "/api/tictactoe", "")

	assert.Equal(t, http.StatusOK, code)
	var body struct {
		Winner      game.Mark  `json:"winner"`
		Status      game.Phase `json:"status"`
		Leader      game.Mark  `json:"leader"`
		GamesPlayed int        `json:"gamesPlayed"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &body))
	assert.Equal(t, game.PlayerX, body.Winner)
	assert.Equal(t, game.Won, body.Status)
	assert.Equal(t, game.PlayerX, body.Leader)
	assert.Equal(t, 1, body.GamesPlayed)
}

func TestResetRoutes(t *testing.T) {
	s, st := newTestServer(t)
	st.Increase(context.Background())
	for _, cell := range []int{0, 3, 1, 4, 2} {
		_, err := st.MakeMove(context.Background(), cell)
		require.NoError(t, err)
	}

	do(t, s, http.MethodPost, "/api/tictactoe/reset-round", "")
	assert.Equal(t, game.NewRound(), st.Snapshot().TicTacToe.Round)
	assert.Equal(t, 1, st.Snapshot().TicTacToe.GamesPlayed)

	do(t, s, http.MethodPost, "/api/tictactoe/reset-stats", "")
	assert.Equal(t, game.Statistics{}, st.Snapshot().TicTacToe.Statistics)
	assert.Equal(t, 1, st.Snapshot().Count)

	code, _ := do(t, s, http.MethodPost, "/api/reset-all", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, store.NewSnapshot(), st.Snapshot())
}

func TestHintRoute(t *testing.T) {
	s, st := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/tictactoe/hint", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"cell":4,"player":"X","difficulty":"hard"}`, string(env.Extras))

	code, _ = do(t, s, http.MethodGet, "/api/tictactoe/hint?difficulty=insane", "")
	assert.Equal(t, http.StatusBadRequest, code)

	for _, cell := range []int{0, 3, 1, 4, 2} {
		_, err := st.MakeMove(context.Background(), cell)
		require.NoError(t, err)
	}
	code, _ = do(t, s, http.MethodGet, "/api/tictactoe/hint", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestWebSocket(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	read := func() proto.ServerToClientMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg proto.ServerToClientMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	// The initial state arrives on connect.
	msg := read()
	assert.Equal(t, events.State, msg.Type)

	// An HTTP move reaches the websocket client.
	code, _ := do(t, s, http.MethodPost, "/api/tictactoe/moves", `{"cell":4}`)
	require.Equal(t, http.StatusOK, code)
	msg = read()
	assert.Equal(t, string(store.ActionMove), msg.Action)
	require.NotNil(t, msg.State)
	assert.Equal(t, game.PlayerX, msg.State.TicTacToe.Board[4])

	// A websocket move is applied and broadcast back.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "move", "cell": 0}))
	msg = read()
	require.NotNil(t, msg.State)
	assert.Equal(t, game.PlayerO, msg.State.TicTacToe.Board[0])
}
