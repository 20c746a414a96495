package chess

// Board is a full chess position: piece placement, side to move, castling
// rights, en passant target and the two move counters.
//
// Boards handed out by the engine and the game store are owned by the caller;
// nothing retains a reference to them.
type Board struct {
	// The board squares with a hedge of 2 around for knight move calculation.
	// Squares[col][rank] where col and rank are 0-11 (with hedge).
	Squares [Hedge + BoardSize + Hedge][Hedge + BoardSize + Hedge]Piece

	// Who has the next move.
	ToMove Colour

	// The full-move number.
	MoveNumber uint

	// Rook starting columns for the 4 castling options, 0 when the right
	// has been lost.
	WKingCastle  Col
	WQueenCastle Col
	BKingCastle  Col
	BQueenCastle Col

	// Keep track of where the two kings are for check detection.
	WKingCol  Col
	WKingRank Rank
	BKingCol  Col
	BKingRank Rank

	// Is EnPassant capture possible? If so then EPRank and EPCol have
	// the square on which this can be made.
	EnPassant bool
	EPRank    Rank
	EPCol     Col

	// The half-move clock since the last pawn move or capture.
	HalfmoveClock uint
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	b := &Board{
		ToMove:     White,
		MoveNumber: 1,
	}
	b.clear()
	return b
}

// clear marks every playing square Empty and every hedge square Off.
func (b *Board) clear() {
	for col := 0; col < Hedge+BoardSize+Hedge; col++ {
		for rank := 0; rank < Hedge+BoardSize+Hedge; rank++ {
			if col >= Hedge && col < Hedge+BoardSize &&
				rank >= Hedge && rank < Hedge+BoardSize {
				b.Squares[col][rank] = Empty
			} else {
				b.Squares[col][rank] = Off
			}
		}
	}
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.clear()

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		b.Squares[col+Hedge][Hedge] = W(backRank[col])
		b.Squares[col+Hedge][Hedge+1] = W(Pawn)
		b.Squares[col+Hedge][Hedge+6] = B(Pawn)
		b.Squares[col+Hedge][Hedge+7] = B(backRank[col])
	}

	b.WKingCol = 'e'
	b.WKingRank = '1'
	b.BKingCol = 'e'
	b.BKingRank = '8'

	b.WKingCastle = 'h'
	b.WQueenCastle = 'a'
	b.BKingCastle = 'h'
	b.BQueenCastle = 'a'

	b.ToMove = White
	b.MoveNumber = 1
	b.EnPassant = false
	b.EPCol = 0
	b.EPRank = 0
	b.HalfmoveClock = 0
}

// Get returns the piece at the given coordinates (using char coords 'a'-'h', '1'-'8').
func (b *Board) Get(col Col, rank Rank) Piece {
	c := ColConvert(col)
	r := RankConvert(rank)
	if c == 0 || r == 0 {
		return Off
	}
	return b.Squares[c][r]
}

// At returns the piece on a square.
func (b *Board) At(sq Square) Piece {
	return b.Get(sq.Col, sq.Rank)
}

// Set places a piece at the given coordinates.
func (b *Board) Set(col Col, rank Rank, piece Piece) {
	c := ColConvert(col)
	r := RankConvert(rank)
	if c != 0 && r != 0 {
		b.Squares[c][r] = piece
	}
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// KingSquare returns the tracked king square for a colour.
func (b *Board) KingSquare(colour Colour) Square {
	if colour == White {
		return Square{Col: b.WKingCol, Rank: b.WKingRank}
	}
	return Square{Col: b.BKingCol, Rank: b.BKingRank}
}

// EnPassantSquare returns the en passant target, if any.
func (b *Board) EnPassantSquare() (Square, bool) {
	if !b.EnPassant {
		return Square{}, false
	}
	return Square{Col: b.EPCol, Rank: b.EPRank}, true
}

// PlacementEqual reports whether two boards have the same piece on every
// square. Side to move, castling rights, en passant and the clocks are ignored.
func (b *Board) PlacementEqual(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	for col := Hedge; col < Hedge+BoardSize; col++ {
		for rank := Hedge; rank < Hedge+BoardSize; rank++ {
			if b.Squares[col][rank] != other.Squares[col][rank] {
				return false
			}
		}
	}
	return true
}

// Equal reports whether two boards are identical in every field that a FEN
// string carries.
func (b *Board) Equal(other *Board) bool {
	if !b.PlacementEqual(other) {
		return false
	}
	if b == nil {
		return true
	}
	if b.ToMove != other.ToMove ||
		b.MoveNumber != other.MoveNumber ||
		b.HalfmoveClock != other.HalfmoveClock {
		return false
	}
	if (b.WKingCastle != 0) != (other.WKingCastle != 0) ||
		(b.WQueenCastle != 0) != (other.WQueenCastle != 0) ||
		(b.BKingCastle != 0) != (other.BKingCastle != 0) ||
		(b.BQueenCastle != 0) != (other.BQueenCastle != 0) {
		return false
	}
	if b.EnPassant != other.EnPassant {
		return false
	}
	return !b.EnPassant || (b.EPCol == other.EPCol && b.EPRank == other.EPRank)
}
