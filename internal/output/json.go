package output

import (
	"strings"
	"time"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/storage"
)

// JSONGame represents a stored game in JSON format.
type JSONGame struct {
	ID        string     `json:"id,omitempty"`
	Movetext  string     `json:"movetext"`
	PlyCount  int        `json:"plyCount"`
	FinalFEN  string     `json:"finalFEN"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Moves     []JSONMove `json:"moves,omitempty"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int    `json:"moveNumber,omitempty"`
	Color      string `json:"color"` // "white" or "black"
	SAN        string `json:"san"`
	UCI        string `json:"uci"`
	From       string `json:"from"`
	To         string `json:"to"`
	Piece      string `json:"piece"`
	Captured   string `json:"captured,omitempty"`
	Promotion  string `json:"promotion,omitempty"`
	FEN        string `json:"fen"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON converts a stored game to JSON format. The move list, with the
// position after each move, is included when withMoves is set.
func GameToJSON(rec storage.GameRecord, withMoves bool) *JSONGame {
	jg := &JSONGame{
		ID:       rec.ID,
		Movetext: rec.Game.String(),
		PlyCount: rec.Game.Len(),
	}
	if !rec.CreatedAt.IsZero() {
		created := rec.CreatedAt
		jg.CreatedAt = &created
	}

	moves, final := convertMoveList(rec.Game.Moves())
	jg.FinalFEN = engine.BoardToFEN(final)
	if withMoves {
		jg.Moves = moves
	}
	return jg
}

// convertMoveList replays moves from the initial position, returning their
// JSON form and the final board.
func convertMoveList(moves []chess.Move) ([]JSONMove, *chess.Board) {
	board := engine.NewInitialBoard()
	result := make([]JSONMove, 0, len(moves))

	for _, move := range moves {
		isWhite := board.ToMove == chess.White
		jm := convertSingleMove(move, isWhite)
		if isWhite {
			jm.MoveNumber = int(board.MoveNumber)
		}

		if err := engine.ApplyMove(board, move); err != nil {
			// Stored games replay without error.
			break
		}
		jm.FEN = engine.BoardToFEN(board)
		result = append(result, jm)
	}
	return result, board
}

// convertSingleMove converts a resolved move to JSON format.
func convertSingleMove(move chess.Move, isWhite bool) JSONMove {
	jm := JSONMove{
		SAN:   move.String(),
		Color: colorName(isWhite),
		Piece: pieceTypeName(move.PieceToMove),
		From:  move.From.String(),
		To:    move.To.String(),
		UCI:   formatUCI(move),
	}

	switch {
	case move.Class == chess.EnPassantPawnMove:
		jm.Captured = "pawn"
	case chess.IsOccupied(move.CapturedPiece):
		jm.Captured = pieceTypeName(chess.ExtractPiece(move.CapturedPiece))
	}

	if move.IsPromotion() {
		jm.Promotion = pieceTypeName(move.PromotedPiece)
	}
	return jm
}

// formatUCI returns the move in UCI notation, e.g. "e2e4" or "e7e8q".
func formatUCI(move chess.Move) string {
	uci := move.From.String() + move.To.String()
	if move.IsPromotion() {
		uci += strings.ToLower(string(move.PromotedPiece.Letter()))
	}
	return uci
}

// colorName returns "white" or "black" based on the boolean.
func colorName(isWhite bool) string {
	if isWhite {
		return "white"
	}
	return "black"
}

// pieceTypeName returns the piece type as a string.
func pieceTypeName(p chess.Piece) string {
	switch p {
	case chess.Pawn:
		return "pawn"
	case chess.Knight:
		return "knight"
	case chess.Bishop:
		return "bishop"
	case chess.Rook:
		return "rook"
	case chess.Queen:
		return "queen"
	case chess.King:
		return "king"
	default:
		return ""
	}
}
