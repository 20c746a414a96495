package game

import (
	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// Reconstruct replays moves 0..n-1 of g from the standard start position.
// Nothing is memoised: each call costs n move applications. n outside
// [0, Len()] is a RangeError; it is never clamped.
func Reconstruct(g *Game, n int) (*chess.Board, error) {
	if n < 0 || n > len(g.moves) {
		return nil, &errors.RangeError{Op: "board", Index: n, Length: len(g.moves)}
	}
	return engine.ApplyPrefix(g.moves, n, nil)
}

// Board returns the position after n half-moves.
func (g *Game) Board(n int) (*chess.Board, error) {
	return Reconstruct(g, n)
}
