package chessgui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nobody090909/chessGUI/game"
	"github.com/nobody090909/chessGUI/timeline"
)

// CommitEvent is emitted after a move has been accepted as legal and applied
// to the authoritative position, as opposed to a speculative apply made for
// search exploration.
type CommitEvent struct {
	Move   *chess.Move
	Record timeline.Record
}

// CommitObserver receives every committed move, in commit order. Rejected
// moves are never reported.
type CommitObserver func(CommitEvent)

// Match owns the shared position and serializes every mutation of it:
// commits, engine searches and history navigation never interleave.
type Match struct {
	mu           sync.Mutex
	state        game.State
	history      *timeline.Store
	observers    []CommitObserver
	logger       zerolog.Logger
	thinkTimeout time.Duration
}

// NewMatch wires a position to a fresh timeline. The ply-0 snapshot is
// captured from st as-is, so st may start from any FEN.
func NewMatch(conf Config, st game.State, logger zerolog.Logger) (*Match, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "match config")
	}
	history := timeline.NewStore(conf.SnapshotStride)
	if err := history.Reset(st); err != nil {
		return nil, err
	}
	return &Match{
		state:        st,
		history:      history,
		logger:       logger,
		thinkTimeout: conf.ThinkTimeout,
	}, nil
}

// Observe registers obs for every future commit.
func (m *Match) Observe(obs CommitObserver) {
	m.mu.Lock()
	m.observers = append(m.observers, obs)
	m.mu.Unlock()
}

// History exposes the timeline for read-only queries (cursor, total,
// records). Navigation goes through the Match so it holds the mutation lock.
func (m *Match) History() *timeline.Store { return m.history }

// State returns the shared position. Callers must not mutate it while a
// search or navigation is in flight.
func (m *Match) State() game.State { return m.state }

// Commit validates and applies mv, records it and reports it to observers.
// This is the only path by which a move enters the timeline; an illegal
// move is rejected here and never reaches the store.
func (m *Match) Commit(mv *chess.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitLocked(mv)
}

func (m *Match) commitLocked(mv *chess.Move) error {
	// SAN depends on the pre-move position, so render it first.
	san := m.state.Notation(mv)
	if err := m.state.Apply(mv); err != nil {
		return err
	}
	rec := timeline.Record{
		SAN:  san,
		From: mv.S1().String(),
		To:   mv.S2().String(),
	}
	if promo := mv.Promo(); promo != chess.NoPieceType {
		rec.Promotion = promo.String()
	}
	if err := m.history.Push(m.state, rec); err != nil {
		return err
	}
	ev := CommitEvent{Move: mv, Record: rec}
	for _, obs := range m.observers {
		obs(ev)
	}
	m.logger.Debug().Str("san", san).Int("ply", m.history.Cursor()).Msg("move committed")
	return nil
}

// Play alternates white and black until the game is over, committing each
// chosen move. It returns the terminal classification.
func (m *Match) Play(ctx context.Context, white, black Player) (chess.Method, error) {
	for {
		m.mu.Lock()
		if m.state.GameOver() {
			status := m.state.Status()
			m.mu.Unlock()
			return status, nil
		}
		player := white
		if m.state.Turn() == chess.Black {
			player = black
		}

		moveCtx := ctx
		cancel := func() {}
		if m.thinkTimeout > 0 {
			moveCtx, cancel = context.WithTimeout(ctx, m.thinkTimeout)
		}
		mv, err := player.ChooseMove(moveCtx, m.state)
		cancel()
		if err != nil {
			m.mu.Unlock()
			return chess.NoMethod, errors.Wrapf(err, "%s to move", player.Name())
		}
		if err := m.commitLocked(mv); err != nil {
			m.mu.Unlock()
			return chess.NoMethod, err
		}
		m.mu.Unlock()
	}
}

// Goto moves the shared position to the state after index committed moves.
func (m *Match) Goto(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Goto(m.state, index)
}

func (m *Match) First() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.First(m.state)
}

func (m *Match) Prev() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Prev(m.state)
}

func (m *Match) Next() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Next(m.state)
}

func (m *Match) Last() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Last(m.state)
}

func (m *Match) Turn() chess.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Turn()
}

func (m *Match) GameOver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.GameOver()
}

// StatusText renders the state of the game for a status line.
func (m *Match) StatusText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state
	if st.GameOver() {
		switch st.Status() {
		case chess.Checkmate:
			winner := "White"
			if st.Turn() == chess.White {
				winner = "Black"
			}
			return fmt.Sprintf("Checkmate. %s wins.", winner)
		case chess.Stalemate:
			return "Draw (stalemate)."
		default:
			return "Draw (insufficient material)."
		}
	}
	turn := "White"
	if st.Turn() == chess.Black {
		turn = "Black"
	}
	if st.InCheck() {
		return fmt.Sprintf("Turn: %s (check)", turn)
	}
	return fmt.Sprintf("Turn: %s", turn)
}
