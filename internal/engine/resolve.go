package engine

import (
	"fmt"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// ResolveMove turns a decoded (possibly partial) move into a fully resolved
// move for the given position. Source squares are chosen among legal moves
// only, so a pinned piece is never selected. The returned move carries the
// decoded Text and the canonical SAN.
//
// Zero matching legal moves yields errors.ErrIllegalMove; more than one
// yields errors.ErrAmbiguousMove.
func ResolveMove(board *chess.Board, decoded chess.Move) (chess.Move, error) {
	switch decoded.Class {
	case chess.UnknownMove:
		return chess.Move{}, fmt.Errorf("undecodable move %q: %w", decoded.Text, errors.ErrIllegalMove)
	case chess.NullMove:
		return chess.Move{}, fmt.Errorf("null move %q: %w", decoded.Text, errors.ErrIllegalMove)
	}

	var candidates []chess.Move
	for _, legal := range LegalMoves(board) {
		if matchesDecoded(board, legal, decoded) {
			candidates = append(candidates, legal)
		}
	}

	switch len(candidates) {
	case 0:
		return chess.Move{}, fmt.Errorf("%q: %w", decoded.Text, errors.ErrIllegalMove)
	case 1:
	default:
		return chess.Move{}, fmt.Errorf("%q matches %d moves: %w", decoded.Text, len(candidates), errors.ErrAmbiguousMove)
	}

	resolved := candidates[0]
	resolved.Text = decoded.Text
	resolved.SAN = FormatSAN(board, resolved)
	return resolved, nil
}

// matchesDecoded reports whether a legal move is consistent with every
// coordinate and piece the notation specified.
func matchesDecoded(board *chess.Board, legal, decoded chess.Move) bool {
	if decoded.IsCastle() {
		return legal.Class == decoded.Class
	}

	if decoded.To.Col != 0 && legal.To.Col != decoded.To.Col {
		return false
	}
	if decoded.To.Rank != 0 && legal.To.Rank != decoded.To.Rank {
		return false
	}
	if decoded.From.Col != 0 && legal.From.Col != decoded.From.Col {
		return false
	}
	if decoded.From.Rank != 0 && legal.From.Rank != decoded.From.Rank {
		return false
	}

	// Long algebraic moves name the source square, so the piece on it decides.
	// The decoder reports such moves as pawn moves whatever the piece.
	if !decoded.From.IsValid() && legal.PieceToMove != decoded.PieceToMove {
		return false
	}
	if decoded.From.IsValid() && legal.IsCastle() {
		return true
	}

	want := promotionOrEmpty(decoded)
	return legal.PromotedPiece == want
}
