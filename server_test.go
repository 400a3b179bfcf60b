package chessgui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nobody090909/chessGUI/engine"
)

func testRouter(t *testing.T, depth int) http.Handler {
	t.Helper()
	return NewRouter(engine.New(engine.DefaultConfig()), depth, zerolog.Nop())
}

func postBestMove(t *testing.T, router http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/bestmove", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBestMoveMateInOne(t *testing.T) {
	router := testRouter(t, 1)
	rec := postBestMove(t, router, bestMoveRequest{FEN: "7k/8/5K2/6Q1/8/8/8/8 w - - 0 1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bestMoveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "g5g7", resp.Move)
	require.Equal(t, "Qg7#", resp.SAN)
	require.Equal(t, 10000, resp.Score.CP)
	require.Greater(t, resp.Score.WinProb, float32(0.99))
	require.Equal(t, 1, resp.Depth)
	require.Greater(t, resp.Nodes, 0)
}

func TestBestMoveWithHistory(t *testing.T) {
	router := testRouter(t, 2)
	rec := postBestMove(t, router, bestMoveRequest{History: []string{"e2e4", "e7e5"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bestMoveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Move)
	require.NotEmpty(t, resp.SAN)
}

func TestBestMoveBadFEN(t *testing.T) {
	router := testRouter(t, 2)
	rec := postBestMove(t, router, bestMoveRequest{FEN: "not a position"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "invalid position", resp.Error)
}

func TestBestMoveBadHistory(t *testing.T) {
	router := testRouter(t, 2)
	rec := postBestMove(t, router, bestMoveRequest{History: []string{"e2e4", "e2e4"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBestMoveGameOver(t *testing.T) {
	router := testRouter(t, 2)
	rec := postBestMove(t, router, bestMoveRequest{FEN: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "game is over", resp.Error)
}

func TestBestMoveMalformedBody(t *testing.T) {
	router := testRouter(t, 2)
	req := httptest.NewRequest(http.MethodPost, "/bestmove", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
