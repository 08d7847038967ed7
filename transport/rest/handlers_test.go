package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

type sessionBody struct {
	ID      string   `json:"id"`
	Board   []string `json:"board"`
	Mode    string   `json:"mode"`
	BotMark string   `json:"botMark"`
	State   string   `json:"state"`
	Turn    string   `json:"turn"`
	Outcome *struct {
		Result string `json:"result"`
		Winner string `json:"winner"`
		Line   []int  `json:"line"`
	} `json:"outcome"`
	Score      map[string]int `json:"score"`
	LegalMoves []int          `json:"legalMoves"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := suite.NewLogger()
	bot := service.NewBotService(logger, repository.NewMemoryMoveCache())
	controller := usecase.NewSessionController(logger, repository.NewSessionRepository(), bot, entity.MarkO)

	return NewRouter(logger, controller)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) sessionBody {
	t.Helper()

	var body sessionBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	return body
}

func createSession(t *testing.T, h http.Handler, mode string) sessionBody {
	t.Helper()

	rr := doRequest(t, h, http.MethodPost, "/sessions", `{"mode":"`+mode+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	return decodeSession(t, rr)
}

func TestPing(t *testing.T) {
	h := newTestRouter(t)

	rr := doRequest(t, h, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestCreateSession(t *testing.T) {
	h := newTestRouter(t)

	t.Run("Empty body defaults to human vs human", func(t *testing.T) {
		// When: a session is created without a body
		rr := doRequest(t, h, http.MethodPost, "/sessions", "")

		// Then: a pvp session awaits X on an empty board
		require.Equal(t, http.StatusCreated, rr.Code)
		body := decodeSession(t, rr)
		assert.Equal(t, "/sessions/"+body.ID, rr.Header().Get("Location"))
		assert.Equal(t, "pvp", body.Mode)
		assert.Equal(t, "awaiting_move", body.State)
		assert.Equal(t, "X", body.Turn)
		assert.Equal(t, []string{"", "", "", "", "", "", "", "", ""}, body.Board)
		assert.Equal(t, map[string]int{"x": 0, "o": 0}, body.Score)
		assert.Len(t, body.LegalMoves, entity.BoardSize)
		assert.Nil(t, body.Outcome)
		assert.Empty(t, body.BotMark)
	})

	t.Run("Versus bot", func(t *testing.T) {
		body := createSession(t, h, "pve")

		assert.Equal(t, "pve", body.Mode)
		assert.Equal(t, "O", body.BotMark)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPost, "/sessions", `{"mode":"solo"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPost, "/sessions", `{"mode":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetAndDeleteSession(t *testing.T) {
	h := newTestRouter(t)
	created := createSession(t, h, "pvp")

	rr := doRequest(t, h, http.MethodGet, "/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decodeSession(t, rr).ID)

	rr = doRequest(t, h, http.MethodDelete, "/sessions/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, h, http.MethodGet, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, h, http.MethodDelete, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMakeMove(t *testing.T) {
	h := newTestRouter(t)

	t.Run("Bot answers the human", func(t *testing.T) {
		created := createSession(t, h, "pve")

		// When: X takes the center
		rr := doRequest(t, h, http.MethodPost, "/sessions/"+created.ID+"/moves", `{"mark":"X","cell":4}`)

		// Then: the bot took the first corner and X is awaited again
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decodeSession(t, rr)
		assert.Equal(t, []string{"O", "", "", "", "X", "", "", "", ""}, body.Board)
		assert.Equal(t, "X", body.Turn)
	})

	t.Run("Win is reported with its line", func(t *testing.T) {
		created := createSession(t, h, "pvp")
		path := "/sessions/" + created.ID + "/moves"

		moves := []string{
			`{"mark":"X","cell":0}`,
			`{"mark":"O","cell":3}`,
			`{"mark":"X","cell":1}`,
			`{"mark":"O","cell":4}`,
			`{"mark":"X","cell":2}`,
		}

		var rr *httptest.ResponseRecorder
		for _, move := range moves {
			rr = doRequest(t, h, http.MethodPost, path, move)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		}

		body := decodeSession(t, rr)
		assert.Equal(t, "finished", body.State)
		assert.Empty(t, body.Turn)
		require.NotNil(t, body.Outcome)
		assert.Equal(t, "win", body.Outcome.Result)
		assert.Equal(t, "X", body.Outcome.Winner)
		assert.Equal(t, []int{0, 1, 2}, body.Outcome.Line)
		assert.Equal(t, 1, body.Score["x"])
		assert.Empty(t, body.LegalMoves)

		// And: the next move conflicts with the finished game
		rr = doRequest(t, h, http.MethodPost, path, `{"mark":"O","cell":8}`)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	tests := []struct {
		name   string
		first  string
		body   string
		status int
	}{
		{name: "Out of range cell", body: `{"mark":"X","cell":9}`, status: http.StatusBadRequest},
		{name: "Unknown mark", body: `{"mark":"Z","cell":0}`, status: http.StatusBadRequest},
		{name: "Missing cell", body: `{"mark":"X"}`, status: http.StatusBadRequest},
		{name: "Unknown field", body: `{"mark":"X","cell":0,"row":1}`, status: http.StatusBadRequest},
		{name: "Wrong turn", body: `{"mark":"O","cell":0}`, status: http.StatusConflict},
		{name: "Occupied cell", first: `{"mark":"X","cell":0}`, body: `{"mark":"O","cell":0}`, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := createSession(t, h, "pvp")
			path := "/sessions/" + created.ID + "/moves"

			if tt.first != "" {
				require.Equal(t, http.StatusOK, doRequest(t, h, http.MethodPost, path, tt.first).Code)
			}

			rr := doRequest(t, h, http.MethodPost, path, tt.body)

			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}

	t.Run("Unknown session", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPost, "/sessions/missing/moves", `{"mark":"X","cell":0}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestResetAndSwitchMode(t *testing.T) {
	h := newTestRouter(t)
	created := createSession(t, h, "pvp")
	base := "/sessions/" + created.ID

	require.Equal(t, http.StatusOK, doRequest(t, h, http.MethodPost, base+"/moves", `{"mark":"X","cell":4}`).Code)

	// When: the board is reset
	rr := doRequest(t, h, http.MethodPost, base+"/reset", "")

	// Then: it is empty again
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"", "", "", "", "", "", "", "", ""}, decodeSession(t, rr).Board)

	// When: the mode changes to pve
	rr = doRequest(t, h, http.MethodPut, base+"/mode", `{"mode":"pve"}`)

	// Then: the session now has a bot
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeSession(t, rr)
	assert.Equal(t, "pve", body.Mode)
	assert.Equal(t, "O", body.BotMark)

	rr = doRequest(t, h, http.MethodPut, base+"/mode", `{"mode":"online"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBestMove(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		want   bestMoveResponse
	}{
		{
			name:   "Immediate win for the side to move",
			body:   `{"board":["X","X","O","","O","","","","X"]}`,
			status: http.StatusOK,
			want:   bestMoveResponse{Cell: 6, Score: 10},
		},
		{
			name:   "Explicit mark",
			body:   `{"board":["","","","","","","","",""],"mark":"X"}`,
			status: http.StatusOK,
			want:   bestMoveResponse{Cell: 0, Score: 0},
		},
		{name: "Short board", body: `{"board":["X"]}`, status: http.StatusBadRequest},
		{name: "Unreachable board", body: `{"board":["O","O","","","","","","",""]}`, status: http.StatusBadRequest},
		{name: "Finished board", body: `{"board":["X","X","X","O","O","","","",""]}`, status: http.StatusConflict},
		{name: "Mark not to move", body: `{"board":["","","","","","","","",""],"mark":"O"}`, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodPost, "/analysis/best-move", tt.body)

			require.Equal(t, tt.status, rr.Code, rr.Body.String())

			if tt.status == http.StatusOK {
				var got bestMoveResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
