package game

import "github.com/notnil/chess"

// Snapshot is an opaque serialized copy of a position's external state.
// The canonical encoding is FEN text; callers never look inside.
type Snapshot []byte

// State is the rules-authority contract consumed by the search engine and
// the timeline store. Implementations own legal-move generation, move
// application/undo and terminal classification.
type State interface {
	// LegalMoves returns every legal move for the side to move, in an
	// order that is stable across repeated calls on an unchanged position.
	LegalMoves() []*chess.Move
	// Apply mutates the position in place. It fails with ErrIllegalMove
	// if m is not currently legal.
	Apply(m *chess.Move) error
	// ApplyUCI resolves a move in from-to(-promotion) notation against
	// the current legal moves and applies it.
	ApplyUCI(uci string) error
	// Undo reverses exactly the most recent Apply. Calling it with no
	// unmatched Apply is an error.
	Undo() error

	Turn() chess.Color
	Board() *chess.Board
	GameOver() bool
	InCheck() bool
	// Status classifies a terminal position reached by play: Checkmate,
	// Stalemate or NoMethod.
	Status() chess.Method
	// Drawn reports draws visible from the position alone (insufficient
	// material, claimable fifty-move rule).
	Drawn() bool

	// Notation renders m as its SAN string for the current position.
	// It must be called before the move is applied.
	Notation(m *chess.Move) string

	// ExportState and RestoreState round-trip exactly: a restored
	// snapshot is indistinguishable from the position it captured under
	// every query above.
	ExportState() (Snapshot, error)
	RestoreState(Snapshot) error

	Clone() State
}
