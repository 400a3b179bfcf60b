package engine

import (
	"github.com/chewxy/math32"
	"github.com/notnil/chess"

	"github.com/nobody090909/chessGUI/game"
)

const (
	mateScore  = 10000
	mobilityCP = 2
	checkCP    = 15

	// infinity bounds the alpha-beta window; anything past a mate score.
	infinity = 2 * mateScore
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
	chess.King:   0,
}

// Evaluate scores st from White's perspective: material plus a mobility and
// an in-check term, both signed by the side to move. Checkmate is ±10000
// against the mated side; stalemate and drawable positions score 0.
func Evaluate(st game.State) int {
	switch {
	case st.Status() == chess.Checkmate:
		if st.Turn() == chess.White {
			return -mateScore
		}
		return mateScore
	case st.Status() == chess.Stalemate, st.Drawn():
		return 0
	}

	var score int
	for _, piece := range st.Board().SquareMap() {
		v := pieceValues[piece.Type()]
		if piece.Color() == chess.White {
			score += v
		} else {
			score -= v
		}
	}
	mob := mobilityCP * len(st.LegalMoves())
	if st.Turn() == chess.White {
		score += mob
	} else {
		score -= mob
	}
	if st.InCheck() {
		if st.Turn() == chess.White {
			score += checkCP
		} else {
			score -= checkCP
		}
	}
	return score
}

// WinProbability converts a centipawn score into an expected score in [0, 1]
// using the standard logistic model.
func WinProbability(cp int) float32 {
	return 1 / (1 + math32.Exp(-float32(cp)/400))
}
