package game

import (
	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/hashing"
)

// ContainsPosition reports whether any position after 0..maxHalfMove
// half-moves has the same placement digest as target. The first match wins.
//
// Each candidate is reconstructed from the start, so the worst case is
// O(maxHalfMove²) move applications; use the position index for large
// collections. maxHalfMove beyond Len() is treated as Len(); a negative
// bound matches nothing. A digest match is not rechecked for exact placement.
func ContainsPosition(g *Game, target *chess.Board, maxHalfMove int) bool {
	want := hashing.Digest(target)
	limit := min(maxHalfMove, len(g.moves))
	for i := 0; i <= limit; i++ {
		board, err := engine.ApplyPrefix(g.moves, i, nil)
		if err != nil {
			return false
		}
		if hashing.Digest(board) == want {
			return true
		}
	}
	return false
}

// ContainsGamePrefix reports whether g1 and g2 agree on every
// (origin, destination) pair of their shared prefix. Promotion pieces are
// not compared.
func ContainsGamePrefix(g1, g2 *Game) bool {
	a, b := g1.moves, g2.moves
	if len(a) > len(b) {
		a, b = b, a
	}
	for i, m := range a {
		if m.From != b[i].From || m.To != b[i].To {
			return false
		}
	}
	return true
}
