package engine

import "github.com/lgbarn/chessdb-go/internal/chess"

// castleSide describes the fixed squares of one castling option.
type castleSide struct {
	class     chess.MoveClass
	kingTo    chess.Col
	rookFrom  chess.Col
	rookTo    chess.Col
	mustEmpty []chess.Col // squares between king and rook
	kingPath  []chess.Col // squares the king stands on or crosses
}

var (
	kingside = castleSide{
		class: chess.KingsideCastle, kingTo: 'g', rookFrom: 'h', rookTo: 'f',
		mustEmpty: []chess.Col{'f', 'g'},
		kingPath:  []chess.Col{'e', 'f', 'g'},
	}
	queenside = castleSide{
		class: chess.QueensideCastle, kingTo: 'c', rookFrom: 'a', rookTo: 'd',
		mustEmpty: []chess.Col{'b', 'c', 'd'},
		kingPath:  []chess.Col{'e', 'd', 'c'},
	}
)

func homeRank(colour chess.Colour) chess.Rank {
	if colour == chess.White {
		return '1'
	}
	return '8'
}

// hasCastlingRight reports whether the side to move still holds the right.
func hasCastlingRight(board *chess.Board, colour chess.Colour, side castleSide) bool {
	switch {
	case colour == chess.White && side.class == chess.KingsideCastle:
		return board.WKingCastle != 0
	case colour == chess.White:
		return board.WQueenCastle != 0
	case side.class == chess.KingsideCastle:
		return board.BKingCastle != 0
	default:
		return board.BQueenCastle != 0
	}
}

// castlingMoves returns the castling moves available to the side to move.
// The king may not castle out of, through, or into check.
func castlingMoves(board *chess.Board) []chess.Move {
	colour := board.ToMove
	rank := homeRank(colour)
	from := chess.Square{Col: 'e', Rank: rank}
	if board.At(from) != chess.MakeColouredPiece(colour, chess.King) {
		return nil
	}

	var moves []chess.Move
	for _, side := range []castleSide{kingside, queenside} {
		if !hasCastlingRight(board, colour, side) {
			continue
		}
		if board.Get(side.rookFrom, rank) != chess.MakeColouredPiece(colour, chess.Rook) {
			continue
		}
		if !allEmpty(board, rank, side.mustEmpty) {
			continue
		}
		attacked := false
		for _, col := range side.kingPath {
			if IsSquareAttacked(board, chess.Square{Col: col, Rank: rank}, colour.Opposite()) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}

		m := chess.NewMove()
		m.Class = side.class
		m.PieceToMove = chess.King
		m.From = from
		m.To = chess.Square{Col: side.kingTo, Rank: rank}
		moves = append(moves, m)
	}
	return moves
}

func allEmpty(board *chess.Board, rank chess.Rank, cols []chess.Col) bool {
	for _, col := range cols {
		if board.Get(col, rank) != chess.Empty {
			return false
		}
	}
	return true
}

// applyCastle moves king and rook for a castling move.
func applyCastle(board *chess.Board, move chess.Move) {
	side := kingside
	if move.Class == chess.QueensideCastle {
		side = queenside
	}
	rank := move.From.Rank

	king := board.At(move.From)
	board.Set(move.From.Col, rank, chess.Empty)
	board.Set(side.kingTo, rank, king)

	rook := board.Get(side.rookFrom, rank)
	board.Set(side.rookFrom, rank, chess.Empty)
	board.Set(side.rookTo, rank, rook)
}

// updateCastlingRightsForRook removes castling rights when a rook moves or is captured.
func updateCastlingRightsForRook(board *chess.Board, sq chess.Square) {
	switch sq.Rank {
	case '1':
		if sq.Col == board.WKingCastle {
			board.WKingCastle = 0
		}
		if sq.Col == board.WQueenCastle {
			board.WQueenCastle = 0
		}
	case '8':
		if sq.Col == board.BKingCastle {
			board.BKingCastle = 0
		}
		if sq.Col == board.BQueenCastle {
			board.BQueenCastle = 0
		}
	}
}
