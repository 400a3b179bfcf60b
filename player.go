package chessgui

import (
	"context"

	"github.com/notnil/chess"

	"github.com/nobody090909/chessGUI/engine"
	"github.com/nobody090909/chessGUI/game"
)

// A Player is anything that can pick a move for the side to move: the
// fallback engine, a prompt loop, a remote opponent client.
type Player interface {
	ChooseMove(ctx context.Context, st game.State) (*chess.Move, error)
	Name() string
}

// EnginePlayer picks moves with the fallback search engine.
type EnginePlayer struct {
	Engine *engine.Engine
	Depth  int

	name string
}

func NewEnginePlayer(name string, eng *engine.Engine, depth int) *EnginePlayer {
	return &EnginePlayer{Engine: eng, Depth: depth, name: name}
}

func (p *EnginePlayer) ChooseMove(ctx context.Context, st game.State) (*chess.Move, error) {
	return p.Engine.BestMove(ctx, st, p.Depth)
}

func (p *EnginePlayer) Name() string { return p.name }

// PlayerFunc adapts a function into a Player.
type PlayerFunc struct {
	Label string
	Fn    func(ctx context.Context, st game.State) (*chess.Move, error)
}

func (p PlayerFunc) ChooseMove(ctx context.Context, st game.State) (*chess.Move, error) {
	return p.Fn(ctx, st)
}

func (p PlayerFunc) Name() string { return p.Label }
