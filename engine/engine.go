// Package engine implements the offline fallback move picker: a
// depth-limited negamax search with alpha-beta pruning over the rules
// authority's move generation.
package engine

import (
	"context"
	"time"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nobody090909/chessGUI/game"
)

var (
	// ErrNoLegalMoves is returned when the side to move has no move to
	// search for; callers are expected to test for game over first.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrInvalidDepth is returned for a ply budget below 1.
	ErrInvalidDepth = errors.New("depth must be at least 1")
)

// Config for the engine.
type Config struct {
	// Logger receives per-search statistics at debug level.
	Logger zerolog.Logger
}

func DefaultConfig() Config {
	return Config{Logger: zerolog.Nop()}
}

// Engine holds no per-search state; one Engine may serve concurrent
// searches as long as each search gets its own position.
type Engine struct {
	conf Config
}

func New(conf Config) *Engine {
	return &Engine{conf: conf}
}

// Result describes one completed search.
type Result struct {
	Move    *chess.Move
	Score   int // centipawns from the mover's perspective
	Nodes   int
	Elapsed time.Duration
}

// BestMove returns the move judged best within a ply budget of depth. The
// position is returned unchanged in value even though it is mutated during
// exploration.
func (e *Engine) BestMove(ctx context.Context, st game.State, depth int) (*chess.Move, error) {
	res, err := e.Analyze(ctx, st, depth)
	if err != nil {
		return nil, err
	}
	return res.Move, nil
}

// Analyze is BestMove plus the score and search statistics. Ties between
// equally scored moves go to the earliest move in ordering order, so
// repeated calls on an unchanged position return the identical move.
func (e *Engine) Analyze(ctx context.Context, st game.State, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, errors.Wrapf(ErrInvalidDepth, "got %d", depth)
	}
	moves := orderMoves(st.LegalMoves())
	if len(moves) == 0 {
		return Result{}, ErrNoLegalMoves
	}

	start := time.Now()
	s := &searcher{}
	var best *chess.Move
	bestScore := -infinity
	alpha, beta := -infinity, infinity
	for _, m := range moves {
		score, err := s.explore(ctx, st, m, depth-1, -beta, -alpha)
		if err != nil {
			return Result{}, err
		}
		if score > bestScore {
			bestScore, best = score, m
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	res := Result{Move: best, Score: bestScore, Nodes: s.nodes, Elapsed: time.Since(start)}
	e.conf.Logger.Debug().
		Stringer("move", best).
		Int("score", bestScore).
		Float32("winprob", WinProbability(bestScore)).
		Int("depth", depth).
		Int("nodes", s.nodes).
		Dur("elapsed", res.Elapsed).
		Msg("search complete")
	return res, nil
}

// searcher carries the mutable state of a single Analyze call.
type searcher struct {
	nodes int
}

// explore applies m, searches the resulting position with negated, swapped
// bounds and undoes the move on every path, so the caller sees the position
// unchanged even when the recursion fails.
func (s *searcher) explore(ctx context.Context, st game.State, m *chess.Move, depth, alpha, beta int) (int, error) {
	if err := st.Apply(m); err != nil {
		return 0, errors.Wrapf(err, "apply %s", m)
	}
	score, serr := s.search(ctx, st, depth, alpha, beta)
	if err := st.Undo(); err != nil {
		// The position cannot be restored; every frame above us is
		// looking at a corrupted board.
		return 0, errors.Wrapf(err, "undo %s", m)
	}
	if serr != nil {
		return 0, serr
	}
	return -score, nil
}

func (s *searcher) search(ctx context.Context, st game.State, depth, alpha, beta int) (int, error) {
	select {
	case <-ctx.Done():
		return 0, errors.Wrap(ctx.Err(), "search cancelled")
	default:
	}
	s.nodes++

	if depth == 0 || st.GameOver() {
		return moverScore(st), nil
	}

	best := -infinity
	for _, m := range orderMoves(st.LegalMoves()) {
		score, err := s.explore(ctx, st, m, depth-1, -beta, -alpha)
		if err != nil {
			return 0, err
		}
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break // beta cut-off
		}
	}
	return best, nil
}

// moverScore is Evaluate from the side to move's perspective, which is what
// the negamax recursion passes up.
func moverScore(st game.State) int {
	v := Evaluate(st)
	if st.Turn() == chess.Black {
		v = -v
	}
	return v
}

// orderMoves puts captures first, keeping generation order within each
// class so the ordering is stable and the search deterministic.
func orderMoves(moves []*chess.Move) []*chess.Move {
	ordered := make([]*chess.Move, 0, len(moves))
	var quiet []*chess.Move
	for _, m := range moves {
		if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
			ordered = append(ordered, m)
		} else {
			quiet = append(quiet, m)
		}
	}
	return append(ordered, quiet...)
}
