package chessgui

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nobody090909/chessGUI/engine"
	"github.com/nobody090909/chessGUI/game"
)

type bestMoveRequest struct {
	// FEN of the position to search. Empty means the starting position.
	FEN string `json:"fen,omitempty"`
	// History is a UCI move list replayed on top of the base position.
	History []string `json:"history_uci,omitempty"`
	// ThinkMs caps the search wall time. Zero means no limit.
	ThinkMs int `json:"think_ms,omitempty"`
}

type scoreResponse struct {
	CP      int     `json:"cp"`
	WinProb float32 `json:"winprob"`
}

type bestMoveResponse struct {
	Move      string        `json:"move"`
	SAN       string        `json:"san"`
	Score     scoreResponse `json:"score"`
	Depth     int           `json:"depth"`
	Nodes     int           `json:"nodes"`
	ElapsedMs int64         `json:"elapsed_ms"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewRouter serves the move provider API: POST /bestmove takes a position
// and returns the engine's choice at the configured depth.
func NewRouter(eng *engine.Engine, depth int, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h := &handler{eng: eng, depth: depth, logger: logger}
	r.Post("/bestmove", h.bestMove)
	return r
}

type handler struct {
	eng    *engine.Engine
	depth  int
	logger zerolog.Logger
}

func (h *handler) bestMove(w http.ResponseWriter, r *http.Request) {
	var req bestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", err)
		return
	}

	st, err := loadRequestedPosition(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid position", err)
		return
	}
	if st.GameOver() {
		writeError(w, http.StatusUnprocessableEntity, "game is over", nil)
		return
	}

	ctx := r.Context()
	if req.ThinkMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.ThinkMs)*time.Millisecond)
		defer cancel()
	}

	res, err := h.eng.Analyze(ctx, st, h.depth)
	if err != nil {
		h.logger.Error().Err(err).Msg("search failed")
		writeError(w, http.StatusInternalServerError, "search failed", err)
		return
	}

	resp := bestMoveResponse{
		Move: res.Move.String(),
		SAN:  st.Notation(res.Move),
		Score: scoreResponse{
			CP:      res.Score,
			WinProb: engine.WinProbability(res.Score),
		},
		Depth:     h.depth,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	h.logger.Debug().
		Str("move", resp.Move).
		Int("score", res.Score).
		Int("nodes", resp.Nodes).
		Msg("bestmove served")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("write response")
	}
}

// loadRequestedPosition builds the position to search: the request FEN (or
// the starting position) with the history moves replayed on top.
func loadRequestedPosition(req bestMoveRequest) (game.State, error) {
	var st game.State
	if req.FEN != "" {
		pos, err := game.PositionFromFEN(req.FEN)
		if err != nil {
			return nil, err
		}
		st = pos
	} else {
		st = game.NewPosition()
	}
	for i, uci := range req.History {
		if err := st.ApplyUCI(uci); err != nil {
			return nil, errors.Wrapf(err, "history move %d", i+1)
		}
	}
	return st, nil
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
