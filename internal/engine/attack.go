package engine

import "github.com/lgbarn/chessdb-go/internal/chess"

var (
	knightOffsets  = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets    = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs   = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs   = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allSlidingDirs = append(append([][2]int{}, diagonalDirs...), straightDirs...)
)

// offset returns the square (dc, dr) away from sq. The result may be off the board.
func offset(sq chess.Square, dc, dr int) chess.Square {
	return chess.Square{Col: chess.Col(int(sq.Col) + dc), Rank: chess.Rank(int(sq.Rank) + dr)}
}

// IsInCheck returns true if the given colour's king is in check.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	king := board.KingSquare(colour)

	// If king position not tracked, search for it
	if !king.IsValid() || board.At(king) != chess.MakeColouredPiece(colour, chess.King) {
		var found bool
		king, found = findKing(board, colour)
		if !found {
			return false
		}
	}

	return IsSquareAttacked(board, king, colour.Opposite())
}

// findKing finds the king of the given colour on the board.
func findKing(board *chess.Board, colour chess.Colour) (chess.Square, bool) {
	king := chess.MakeColouredPiece(colour, chess.King)
	for col := chess.Col('a'); col <= 'h'; col++ {
		for rank := chess.Rank('1'); rank <= '8'; rank++ {
			if board.Get(col, rank) == king {
				return chess.Square{Col: col, Rank: rank}, true
			}
		}
	}
	return chess.Square{}, false
}

// IsSquareAttacked returns true if the square is attacked by the given colour.
func IsSquareAttacked(board *chess.Board, sq chess.Square, byColour chess.Colour) bool {
	// Pawns attack from the rank behind them.
	pawn := chess.MakeColouredPiece(byColour, chess.Pawn)
	pawnDir := -chess.ColourOffset(byColour)
	for _, dc := range []int{-1, 1} {
		if board.At(offset(sq, dc, pawnDir)) == pawn {
			return true
		}
	}

	knight := chess.MakeColouredPiece(byColour, chess.Knight)
	for _, o := range knightOffsets {
		if board.At(offset(sq, o[0], o[1])) == knight {
			return true
		}
	}

	king := chess.MakeColouredPiece(byColour, chess.King)
	for _, o := range kingOffsets {
		if board.At(offset(sq, o[0], o[1])) == king {
			return true
		}
	}

	queen := chess.MakeColouredPiece(byColour, chess.Queen)
	if slidingAttack(board, sq, diagonalDirs, chess.MakeColouredPiece(byColour, chess.Bishop), queen) {
		return true
	}
	return slidingAttack(board, sq, straightDirs, chess.MakeColouredPiece(byColour, chess.Rook), queen)
}

// slidingAttack walks each direction until the first occupied square and
// reports whether it holds one of the two attackers.
func slidingAttack(board *chess.Board, sq chess.Square, dirs [][2]int, a, b chess.Piece) bool {
	for _, dir := range dirs {
		cur := offset(sq, dir[0], dir[1])
		for cur.IsValid() {
			piece := board.At(cur)
			if piece != chess.Empty {
				if piece == a || piece == b {
					return true
				}
				break
			}
			cur = offset(cur, dir[0], dir[1])
		}
	}
	return false
}
