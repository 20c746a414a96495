package game

import (
	"fmt"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// Outcome distinguishes a complete truncation from one the remove step cut short.
type Outcome int

const (
	// Truncated means the result has exactly min(k, Len()) moves.
	Truncated Outcome = iota
	// PartiallyTruncated means the remove step refused to go further and the
	// result is longer than requested.
	PartiallyTruncated
)

// String returns the outcome name.
func (o Outcome) String() string {
	if o == PartiallyTruncated {
		return "PartiallyTruncated"
	}
	return "Truncated"
}

// TruncateResult is the outcome of Truncate.
type TruncateResult struct {
	Game      *Game
	Outcome   Outcome
	Requested int
}

// Len returns the length of the resulting game, 0 for the zero result.
func (r TruncateResult) Len() int {
	if r.Game == nil {
		return 0
	}
	return r.Game.Len()
}

// String describes the result, e.g. "Truncated to 4" or
// "PartiallyTruncated to 3 (requested 1)".
func (r TruncateResult) String() string {
	if r.Game == nil {
		return "no result"
	}
	if r.Outcome == PartiallyTruncated {
		return fmt.Sprintf("%s to %d (requested %d)", r.Outcome, r.Len(), r.Requested)
	}
	return fmt.Sprintf("%s to %d", r.Outcome, r.Len())
}

// RemoveFunc removes the last move from a sequence, reporting false when it
// cannot. The returned slice may be a view of the input.
type RemoveFunc func(moves []chess.Move) ([]chess.Move, bool)

// Truncate returns the first k half-moves of g as a new game. k ≥ Len() is a
// no-op copy; k < 0 is a RangeError.
func (g *Game) Truncate(k int) (TruncateResult, error) {
	return g.TruncateWith(k, engine.RemoveLast)
}

// TruncateWith removes trailing moves one at a time with remove until k
// moves remain, stopping early when remove reports it cannot proceed. Work
// happens on a view of g's moves; only the returned game owns a copy.
func (g *Game) TruncateWith(k int, remove RemoveFunc) (TruncateResult, error) {
	if k < 0 {
		return TruncateResult{}, &errors.RangeError{Op: "truncate", Index: k, Length: len(g.moves)}
	}

	view := g.moves
	outcome := Truncated
	for len(view) > k {
		next, ok := remove(view)
		if !ok {
			outcome = PartiallyTruncated
			break
		}
		view = next
	}

	return TruncateResult{Game: fromView(view), Outcome: outcome, Requested: k}, nil
}
