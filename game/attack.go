package game

import "github.com/notnil/chess"

// InCheck reports whether the side to move's king is attacked. notnil/chess
// keeps its check state private, so the test is computed here from the
// square map.
func (p *Position) InCheck() bool {
	board := p.current.Board()
	us := p.current.Turn()
	kingSq, ok := kingSquare(board, us)
	if !ok {
		return false
	}
	return squareAttacked(board, kingSq, us.Other())
}

func kingSquare(b *chess.Board, color chess.Color) (chess.Square, bool) {
	for sq, piece := range b.SquareMap() {
		if piece.Type() == chess.King && piece.Color() == color {
			return sq, true
		}
	}
	return 0, false
}

func squareAttacked(b *chess.Board, target chess.Square, by chess.Color) bool {
	for from, piece := range b.SquareMap() {
		if piece.Color() != by {
			continue
		}
		if attacks(b, from, piece, target) {
			return true
		}
	}
	return false
}

func attacks(b *chess.Board, from chess.Square, piece chess.Piece, target chess.Square) bool {
	df := file(target) - file(from)
	dr := rank(target) - rank(from)
	switch piece.Type() {
	case chess.Pawn:
		forward := 1
		if piece.Color() == chess.Black {
			forward = -1
		}
		return dr == forward && (df == 1 || df == -1)
	case chess.Knight:
		return (abs(df) == 1 && abs(dr) == 2) || (abs(df) == 2 && abs(dr) == 1)
	case chess.King:
		return (df != 0 || dr != 0) && abs(df) <= 1 && abs(dr) <= 1
	case chess.Bishop:
		return df != 0 && abs(df) == abs(dr) && rayClear(b, from, target)
	case chess.Rook:
		return (df == 0) != (dr == 0) && rayClear(b, from, target)
	case chess.Queen:
		if df == 0 && dr == 0 {
			return false
		}
		return (df == 0 || dr == 0 || abs(df) == abs(dr)) && rayClear(b, from, target)
	}
	return false
}

// rayClear reports whether every square strictly between from and to is
// empty. The two squares must share a rank, file or diagonal.
func rayClear(b *chess.Board, from, to chess.Square) bool {
	step := sign(file(to)-file(from)) + 8*sign(rank(to)-rank(from))
	for sq := int(from) + step; sq != int(to); sq += step {
		if b.Piece(chess.Square(sq)) != chess.NoPiece {
			return false
		}
	}
	return true
}

func file(sq chess.Square) int { return int(sq) % 8 }
func rank(sq chess.Square) int { return int(sq) / 8 }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
