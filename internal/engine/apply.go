package engine

import (
	"fmt"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// ApplyMove applies a resolved move to the board and updates the board state.
// The move must be legal in the position; it is matched against the legal
// moves by origin, destination and promotion piece. On error the board is
// left unchanged.
func ApplyMove(board *chess.Board, move chess.Move) error {
	if board == nil {
		return fmt.Errorf("nil board: %w", errors.ErrIllegalMove)
	}
	for _, legal := range LegalMoves(board) {
		if legal.SamePair(move) && legal.PromotedPiece == promotionOrEmpty(move) {
			play(board, legal)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", moveLabel(move), errors.ErrIllegalMove)
}

func promotionOrEmpty(m chess.Move) chess.Piece {
	if m.PromotedPiece == chess.Off {
		return chess.Empty
	}
	return m.PromotedPiece
}

// moveLabel names a move for error messages.
func moveLabel(m chess.Move) string {
	if m.SAN != "" {
		return m.SAN
	}
	return m.From.String() + m.To.String()
}

// play applies a move without validating it.
func play(board *chess.Board, move chess.Move) {
	colour := board.ToMove
	piece := board.At(move.From)
	captured := board.At(move.To)

	board.EnPassant = false
	board.EPCol, board.EPRank = 0, 0

	switch move.Class {
	case chess.KingsideCastle, chess.QueensideCastle:
		applyCastle(board, move)

	case chess.EnPassantPawnMove:
		captured = board.Get(move.To.Col, move.From.Rank)
		board.Set(move.To.Col, move.From.Rank, chess.Empty)
		board.Set(move.From.Col, move.From.Rank, chess.Empty)
		board.Set(move.To.Col, move.To.Rank, piece)

	case chess.PawnMoveWithPromotion:
		board.Set(move.From.Col, move.From.Rank, chess.Empty)
		board.Set(move.To.Col, move.To.Rank, chess.MakeColouredPiece(colour, move.PromotedPiece))

	default:
		board.Set(move.From.Col, move.From.Rank, chess.Empty)
		board.Set(move.To.Col, move.To.Rank, piece)
		if chess.ExtractPiece(piece) == chess.Pawn && abs(int(move.To.Rank)-int(move.From.Rank)) == 2 {
			board.EnPassant = true
			board.EPCol = move.From.Col
			board.EPRank = chess.Rank((int(move.From.Rank) + int(move.To.Rank)) / 2)
		}
	}

	switch chess.ExtractPiece(piece) {
	case chess.King:
		if colour == chess.White {
			board.WKingCol, board.WKingRank = move.To.Col, move.To.Rank
			board.WKingCastle, board.WQueenCastle = 0, 0
		} else {
			board.BKingCol, board.BKingRank = move.To.Col, move.To.Rank
			board.BKingCastle, board.BQueenCastle = 0, 0
		}
	case chess.Rook:
		updateCastlingRightsForRook(board, move.From)
	}
	if chess.IsOccupied(captured) {
		updateCastlingRightsForRook(board, move.To)
	}

	if chess.ExtractPiece(piece) == chess.Pawn || chess.IsOccupied(captured) {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}
	if colour == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = colour.Opposite()
}

// abs returns the absolute value of x.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
