// Package engine applies chess moves to boards and converts positions to and
// from FEN.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// SAN piece characters for FEN strings (always English).
var sanPieceChars = map[chess.Piece]byte{
	chess.Pawn:   'P',
	chess.Knight: 'N',
	chess.Bishop: 'B',
	chess.Rook:   'R',
	chess.Queen:  'Q',
	chess.King:   'K',
}

// ConvertFENCharToPiece converts a FEN character to a piece type.
func ConvertFENCharToPiece(c byte) chess.Piece {
	switch c {
	case 'K', 'k':
		return chess.King
	case 'Q', 'q':
		return chess.Queen
	case 'R', 'r':
		return chess.Rook
	case 'N', 'n':
		return chess.Knight
	case 'B', 'b':
		return chess.Bishop
	case 'P', 'p':
		return chess.Pawn
	default:
		return chess.Empty
	}
}

// SANPieceLetter returns the SAN letter for a piece.
func SANPieceLetter(piece chess.Piece) byte {
	if c, ok := sanPieceChars[piece]; ok {
		return c
	}
	return '?'
}

// ColouredPieceToSANLetter returns the FEN letter for a coloured piece:
// uppercase for White, lowercase for Black.
func ColouredPieceToSANLetter(colouredPiece chess.Piece) byte {
	letter := SANPieceLetter(chess.ExtractPiece(colouredPiece))
	if chess.ExtractColour(colouredPiece) == chess.Black {
		letter = byte(unicode.ToLower(rune(letter)))
	}
	return letter
}

// ParsePosition builds a board from a FEN string.
//
// The placement and side-to-move fields are required. Castling, en passant
// and the two clocks default to "-", "-", 0 and 1 when absent. Each side must
// have exactly one king. Any malformed field yields a *errors.ParseError
// wrapping errors.ErrInvalidFEN.
func ParsePosition(fen string) (*chess.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 || len(parts) > 6 {
		return nil, fenError(fen, "", fmt.Errorf("expected 2 to 6 fields, got %d: %w", len(parts), errors.ErrInvalidFEN))
	}

	board := chess.NewBoard()
	board.WKingCastle, board.WQueenCastle = 0, 0
	board.BKingCastle, board.BQueenCastle = 0, 0

	if err := parsePiecePositions(board, parts[0]); err != nil {
		return nil, fenError(fen, parts[0], err)
	}
	if err := parseSideToMove(board, parts[1]); err != nil {
		return nil, fenError(fen, parts[1], err)
	}
	if len(parts) > 2 {
		if err := parseCastlingRights(board, parts[2]); err != nil {
			return nil, fenError(fen, parts[2], err)
		}
	}
	if len(parts) > 3 {
		if err := parseEnPassant(board, parts[3]); err != nil {
			return nil, fenError(fen, parts[3], err)
		}
	}
	if len(parts) > 4 {
		n, err := parseClock(parts[4], 0)
		if err != nil {
			return nil, fenError(fen, parts[4], err)
		}
		board.HalfmoveClock = n
	}
	if len(parts) > 5 {
		n, err := parseClock(parts[5], 1)
		if err != nil {
			return nil, fenError(fen, parts[5], err)
		}
		board.MoveNumber = n
	}
	return board, nil
}

func fenError(fen, token string, err error) error {
	return &errors.ParseError{Err: err, Input: fen, Token: token}
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(board *chess.Board, positions string) error {
	ranks := strings.Split(positions, "/")
	if len(ranks) != chess.BoardSize {
		return fmt.Errorf("expected %d ranks, got %d: %w", chess.BoardSize, len(ranks), errors.ErrInvalidFEN)
	}

	kings := map[chess.Colour]int{}
	for i, row := range ranks {
		rank := chess.Rank('8' - i)
		col := chess.Col('a')
		for _, c := range row {
			switch {
			case c >= '1' && c <= '8':
				col += chess.Col(c - '0')
			default:
				piece := ConvertFENCharToPiece(byte(c))
				if piece == chess.Empty {
					return fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
				}
				if col > 'h' {
					return fmt.Errorf("rank %c overflows: %w", rank, errors.ErrInvalidFEN)
				}

				colour := chess.White
				if unicode.IsLower(c) {
					colour = chess.Black
				}
				board.Set(col, rank, chess.MakeColouredPiece(colour, piece))

				if piece == chess.King {
					kings[colour]++
					if colour == chess.White {
						board.WKingCol, board.WKingRank = col, rank
					} else {
						board.BKingCol, board.BKingRank = col, rank
					}
				}
				col++
			}
		}
		if col != 'h'+1 {
			return fmt.Errorf("rank %c has %d squares: %w", rank, int(col-'a'), errors.ErrInvalidFEN)
		}
	}

	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return fmt.Errorf("each side needs exactly one king: %w", errors.ErrInvalidFEN)
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(board *chess.Board, field string) error {
	switch field {
	case "w":
		board.ToMove = chess.White
	case "b":
		board.ToMove = chess.Black
	default:
		return fmt.Errorf("invalid side to move %q: %w", field, errors.ErrInvalidFEN)
	}
	return nil
}

// parseCastlingRights parses the castling availability field.
func parseCastlingRights(board *chess.Board, field string) error {
	if field == "-" {
		return nil
	}
	for _, c := range field {
		switch c {
		case 'K':
			board.WKingCastle = 'h'
		case 'Q':
			board.WQueenCastle = 'a'
		case 'k':
			board.BKingCastle = 'h'
		case 'q':
			board.BQueenCastle = 'a'
		default:
			return fmt.Errorf("invalid castling right %q: %w", c, errors.ErrInvalidFEN)
		}
	}
	return nil
}

// parseEnPassant parses the en passant target square field.
func parseEnPassant(board *chess.Board, field string) error {
	board.EnPassant = false
	if field == "-" {
		return nil
	}
	if len(field) != 2 {
		return fmt.Errorf("invalid en passant square %q: %w", field, errors.ErrInvalidFEN)
	}
	sq := chess.Square{Col: chess.Col(field[0]), Rank: chess.Rank(field[1])}
	if !sq.IsValid() || (sq.Rank != '3' && sq.Rank != '6') {
		return fmt.Errorf("invalid en passant square %q: %w", field, errors.ErrInvalidFEN)
	}
	board.EnPassant = true
	board.EPCol = sq.Col
	board.EPRank = sq.Rank
	return nil
}

// parseClock parses a non-negative move counter no smaller than min.
func parseClock(field string, min uint64) (uint, error) {
	n, err := strconv.ParseUint(field, 10, 32)
	if err != nil || n < min {
		return 0, fmt.Errorf("invalid move counter %q: %w", field, errors.ErrInvalidFEN)
	}
	return uint(n), nil
}

// BoardToFEN converts a board to a FEN string.
func BoardToFEN(board *chess.Board) string {
	var sb strings.Builder

	writePiecePositions(&sb, board)
	sb.WriteByte(' ')
	writeSideToMove(&sb, board)
	sb.WriteByte(' ')
	writeCastlingRights(&sb, board)
	sb.WriteByte(' ')
	writeEnPassant(&sb, board)
	fmt.Fprintf(&sb, " %d %d", board.HalfmoveClock, board.MoveNumber)

	return sb.String()
}

// PlacementFEN returns only the placement field of the board's FEN.
func PlacementFEN(board *chess.Board) string {
	var sb strings.Builder
	writePiecePositions(&sb, board)
	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for rank := chess.Rank('8'); rank >= '1'; rank-- {
		emptyCount := 0
		for col := chess.Col('a'); col <= 'h'; col++ {
			piece := board.Get(col, rank)
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(ColouredPieceToSANLetter(piece))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > '1' {
			sb.WriteByte('/')
		}
	}
}

// writeSideToMove writes the side to move to the builder.
func writeSideToMove(sb *strings.Builder, board *chess.Board) {
	if board.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
}

// writeCastlingRights writes the castling availability to the builder.
func writeCastlingRights(sb *strings.Builder, board *chess.Board) {
	start := sb.Len()
	if board.WKingCastle != 0 {
		sb.WriteByte('K')
	}
	if board.WQueenCastle != 0 {
		sb.WriteByte('Q')
	}
	if board.BKingCastle != 0 {
		sb.WriteByte('k')
	}
	if board.BQueenCastle != 0 {
		sb.WriteByte('q')
	}
	if sb.Len() == start {
		sb.WriteByte('-')
	}
}

// writeEnPassant writes the en passant target square to the builder.
func writeEnPassant(sb *strings.Builder, board *chess.Board) {
	if sq, ok := board.EnPassantSquare(); ok {
		sb.WriteString(sq.String())
	} else {
		sb.WriteByte('-')
	}
}

// NewInitialBoard creates a board with the standard starting position.
func NewInitialBoard() *chess.Board {
	board := chess.NewBoard()
	board.SetupInitialPosition()
	return board
}
