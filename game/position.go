package game

import (
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// ErrIllegalMove is returned by Apply when the move is not legal in the
// current position.
var ErrIllegalMove = errors.New("illegal move")

// Position is a State backed by notnil/chess. The library updates positions
// functionally, so Undo is a stack of prior positions rather than a reverse
// move application.
type Position struct {
	current *chess.Position
	stack   []*chess.Position
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return &Position{current: chess.StartingPosition()}
}

// PositionFromFEN builds a position from a FEN string.
func PositionFromFEN(fen string) (*Position, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, errors.Wrapf(err, "parse fen %q", fen)
	}
	return &Position{current: pos}, nil
}

func (p *Position) LegalMoves() []*chess.Move {
	return p.current.ValidMoves()
}

func (p *Position) Apply(m *chess.Move) error {
	legal := p.findLegal(m)
	if legal == nil {
		return errors.Wrapf(ErrIllegalMove, "%s", m)
	}
	p.stack = append(p.stack, p.current)
	p.current = p.current.Update(legal)
	return nil
}

func (p *Position) ApplyUCI(uci string) error {
	m, err := chess.UCINotation{}.Decode(p.current, uci)
	if err != nil {
		return errors.Wrapf(ErrIllegalMove, "decode %q", uci)
	}
	return p.Apply(m)
}

func (p *Position) Undo() error {
	if len(p.stack) == 0 {
		return errors.New("undo without a prior apply")
	}
	p.current = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *Position) Turn() chess.Color { return p.current.Turn() }

func (p *Position) Board() *chess.Board { return p.current.Board() }

func (p *Position) Status() chess.Method { return p.current.Status() }

func (p *Position) GameOver() bool {
	return p.current.Status() != chess.NoMethod || insufficientMaterial(p.current.Board())
}

// Drawn covers draws visible from the position alone. Repetition draws need
// the full move sequence and are left to the caller.
func (p *Position) Drawn() bool {
	return insufficientMaterial(p.current.Board()) || p.halfMoveClock() >= 100
}

func (p *Position) Notation(m *chess.Move) string {
	if legal := p.findLegal(m); legal != nil {
		return chess.AlgebraicNotation{}.Encode(p.current, legal)
	}
	return m.String()
}

// ParseMove accepts either UCI ("e2e4") or SAN ("Nf3") input.
func (p *Position) ParseMove(s string) (*chess.Move, error) {
	if m, err := (chess.UCINotation{}).Decode(p.current, s); err == nil {
		return m, nil
	}
	m, err := chess.AlgebraicNotation{}.Decode(p.current, s)
	if err != nil {
		return nil, errors.Wrapf(ErrIllegalMove, "parse %q", s)
	}
	return m, nil
}

func (p *Position) ExportState() (Snapshot, error) {
	text, err := p.current.MarshalText()
	if err != nil {
		return nil, errors.Wrap(err, "export fen")
	}
	return Snapshot(text), nil
}

func (p *Position) RestoreState(snap Snapshot) error {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(snap)); err != nil {
		return errors.Wrap(err, "restore fen")
	}
	p.current = pos
	p.stack = p.stack[:0]
	return nil
}

func (p *Position) Clone() State {
	stack := make([]*chess.Position, len(p.stack))
	copy(stack, p.stack)
	return &Position{current: p.current, stack: stack}
}

// FEN returns the canonical serialization of the current position.
func (p *Position) FEN() string {
	text, _ := p.current.MarshalText()
	return string(text)
}

// findLegal resolves m against the generated legal moves so that the move
// actually applied carries the library's tags, wherever the caller got m
// from.
func (p *Position) findLegal(m *chess.Move) *chess.Move {
	for _, legal := range p.current.ValidMoves() {
		if legal.S1() == m.S1() && legal.S2() == m.S2() && legal.Promo() == m.Promo() {
			return legal
		}
	}
	return nil
}

func (p *Position) halfMoveClock() int {
	fields := strings.Fields(p.FEN())
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}

// insufficientMaterial covers the bare-king endings: K vs K, K+B vs K and
// K+N vs K.
func insufficientMaterial(b *chess.Board) bool {
	var minor, other int
	for _, piece := range b.SquareMap() {
		switch piece.Type() {
		case chess.King:
		case chess.Knight, chess.Bishop:
			minor++
		default:
			other++
		}
	}
	return other == 0 && minor <= 1
}
