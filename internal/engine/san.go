package engine

import (
	"strings"

	"github.com/lgbarn/chessdb-go/internal/chess"
)

// FormatSAN renders a resolved move in Standard Algebraic Notation for the
// position before the move, including the minimal disambiguation and a
// "+" or "#" suffix.
func FormatSAN(board *chess.Board, move chess.Move) string {
	var sb strings.Builder

	switch {
	case move.Class == chess.KingsideCastle:
		sb.WriteString("O-O")
	case move.Class == chess.QueensideCastle:
		sb.WriteString("O-O-O")
	case move.PieceToMove == chess.Pawn:
		if move.IsCapture() {
			sb.WriteByte(byte(move.From.Col))
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		if move.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(SANPieceLetter(move.PromotedPiece))
		}
	default:
		sb.WriteByte(SANPieceLetter(move.PieceToMove))
		sb.WriteString(disambiguation(board, move))
		if move.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
	}

	after := board.Copy()
	play(after, move)
	if IsInCheck(after, after.ToMove) {
		if HasLegalMoves(after) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell the move
// apart from other legal moves of the same piece type to the same square.
func disambiguation(board *chess.Board, move chess.Move) string {
	var rivals []chess.Square
	for _, other := range LegalMoves(board) {
		if other.PieceToMove == move.PieceToMove && other.To == move.To && other.From != move.From && !other.IsCastle() {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameCol, sameRank := false, false
	for _, sq := range rivals {
		if sq.Col == move.From.Col {
			sameCol = true
		}
		if sq.Rank == move.From.Rank {
			sameRank = true
		}
	}
	switch {
	case !sameCol:
		return string(byte(move.From.Col))
	case !sameRank:
		return string(byte(move.From.Rank))
	default:
		return move.From.String()
	}
}
