// Package processing analyses games by replaying them.
package processing

import (
	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/hashing"
)

// GameAnalysis holds analysis results from replaying a game.
type GameAnalysis struct {
	FinalBoard        *chess.Board
	PlyCount          int
	HasFiftyMoveRule  bool
	HasRepetition     bool
	HasUnderpromotion bool
	Positions         []uint64 // Placement hashes, one per ply including the start

	// Extended draw rule detection
	Has75MoveRule           bool
	Has5FoldRepetition      bool
	HasInsufficientMaterial bool

	// State of the final position.
	Checkmate bool
	Stalemate bool
}

// FiftyMoveTriggered returns true if the game triggered the fifty-move rule.
func (ga *GameAnalysis) FiftyMoveTriggered() bool {
	return ga.HasFiftyMoveRule
}

// RepetitionDetected returns true if the game has a threefold repetition.
func (ga *GameAnalysis) RepetitionDetected() bool {
	return ga.HasRepetition
}

// UnderpromotionFound returns true if any pawn promoted to non-queen.
func (ga *GameAnalysis) UnderpromotionFound() bool {
	return ga.HasUnderpromotion
}

// AnalyzeGame replays a game and analyzes it for various features.
// Repetition counts placements only.
func AnalyzeGame(g *game.Game) *GameAnalysis {
	board := engine.NewInitialBoard()
	analysis := &GameAnalysis{}

	posHash := hashing.GenerateZobristHash(board)
	analysis.Positions = append(analysis.Positions, posHash)
	positionCount := map[uint64]int{posHash: 1}

	for _, move := range g.Moves() {
		if err := engine.ApplyMove(board, move); err != nil {
			break
		}
		analysis.PlyCount++

		// 50-move rule (100 half-moves)
		if board.HalfmoveClock >= 100 {
			analysis.HasFiftyMoveRule = true
		}

		// 75-move rule (150 half-moves - automatic draw)
		if board.HalfmoveClock >= 150 {
			analysis.Has75MoveRule = true
		}

		if move.IsPromotion() && move.PromotedPiece != chess.Queen {
			analysis.HasUnderpromotion = true
		}

		posHash = hashing.GenerateZobristHash(board)
		analysis.Positions = append(analysis.Positions, posHash)
		positionCount[posHash]++

		// 3-fold repetition
		if positionCount[posHash] >= 3 {
			analysis.HasRepetition = true
		}

		// 5-fold repetition (automatic draw)
		if positionCount[posHash] >= 5 {
			analysis.Has5FoldRepetition = true
		}
	}

	analysis.HasInsufficientMaterial = HasInsufficientMaterial(board)
	analysis.Checkmate = engine.IsCheckmate(board)
	analysis.Stalemate = engine.IsStalemate(board)
	analysis.FinalBoard = board
	return analysis
}

// HasInsufficientMaterial reports whether neither side can mate: kings
// alone, a single minor piece, or bishops that all stand on one square
// colour.
func HasInsufficientMaterial(board *chess.Board) bool {
	minors := 0
	var bishopSquareColours [2]int
	for col := chess.Col(chess.FirstCol); col <= chess.LastCol; col++ {
		for rank := chess.Rank(chess.FirstRank); rank <= chess.LastRank; rank++ {
			p := board.Get(col, rank)
			if !chess.IsOccupied(p) {
				continue
			}
			switch chess.ExtractPiece(p) {
			case chess.King:
			case chess.Knight:
				minors++
			case chess.Bishop:
				minors++
				bishopSquareColours[(int(col-'a')+int(rank-'1'))%2]++
			default:
				return false
			}
		}
	}
	if minors <= 1 {
		return true
	}
	bishops := bishopSquareColours[0] + bishopSquareColours[1]
	return bishops == minors && (bishopSquareColours[0] == 0 || bishopSquareColours[1] == 0)
}
