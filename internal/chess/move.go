package chess

// Move is a single half-move.
//
// A Move coming out of notation decoding may be partial: unknown source
// coordinates are left zero. Once the engine has resolved it against a board,
// From and To are both valid squares and SAN holds the canonical notation.
// Resolved moves are values and are never mutated.
type Move struct {
	// The token that produced this move, with annotation glyphs removed
	// (e.g. "Nf3", "exd5+", "O-O").
	Text string

	// Canonical SAN derived by the engine, including check suffixes.
	SAN string

	// Class of move (pawn move, piece move, castle, etc.).
	Class MoveClass

	// The piece being moved.
	PieceToMove Piece

	// Source and destination squares. For castling these are the king's squares.
	From Square
	To   Square

	// The piece captured (Empty if no capture).
	CapturedPiece Piece

	// The piece promoted to (Empty if not a promotion).
	PromotedPiece Piece
}

// NewMove creates a new empty move.
func NewMove() Move {
	return Move{
		CapturedPiece: Empty,
		PromotedPiece: Empty,
	}
}

// IsCapture returns true if this move is a capture.
func (m Move) IsCapture() bool {
	return (m.CapturedPiece != Empty && m.CapturedPiece != Off) || m.Class == EnPassantPawnMove
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Class == PawnMoveWithPromotion
}

// IsCastle returns true if this move is a castling move.
func (m Move) IsCastle() bool {
	switch m.Class {
	case KingsideCastle, QueensideCastle:
		return true
	default:
		return false
	}
}

// IsNull returns true if this is a null move.
func (m Move) IsNull() bool {
	return m.Class == NullMove
}

// SamePair reports whether two moves share origin and destination squares.
// The promotion piece is not compared.
func (m Move) SamePair(other Move) bool {
	return m.From == other.From && m.To == other.To
}

// String returns the canonical SAN when known, otherwise the source text.
func (m Move) String() string {
	if m.SAN != "" {
		return m.SAN
	}
	return m.Text
}
