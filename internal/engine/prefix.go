package engine

import (
	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// ApplyPrefix replays the first n moves on a copy of base (the standard start
// position when base is nil) and returns the resulting board. The moves are
// expected to have been resolved against the same start, as a parsed game's
// moves are; each one is still checked for legality.
func ApplyPrefix(moves []chess.Move, n int, base *chess.Board) (*chess.Board, error) {
	if n < 0 || n > len(moves) {
		return nil, &errors.RangeError{Op: "apply prefix", Index: n, Length: len(moves)}
	}

	var board *chess.Board
	if base == nil {
		board = NewInitialBoard()
	} else {
		board = base.Copy()
	}

	for i := 0; i < n; i++ {
		if err := ApplyMove(board, moves[i]); err != nil {
			return nil, errors.Wrapf(err, "ply %d", i+1)
		}
	}
	return board, nil
}

// RemoveLast drops the final move. It returns a read-only view of the input
// with its capacity clipped, so appending to the result never overwrites the
// removed move. It reports false, returning the input unchanged, when there
// is nothing to remove.
func RemoveLast(moves []chess.Move) ([]chess.Move, bool) {
	if len(moves) == 0 {
		return moves, false
	}
	n := len(moves) - 1
	return moves[:n:n], true
}

// ReplayText resolves each decoded move in turn from the standard start
// position, returning the resolved moves. Errors identify the failing ply.
func ReplayText(decoded []chess.Move) ([]chess.Move, error) {
	board := NewInitialBoard()
	resolved := make([]chess.Move, 0, len(decoded))
	for i, d := range decoded {
		m, err := ResolveMove(board, d)
		if err != nil {
			return nil, &errors.ParseError{Err: err, Ply: i + 1, Token: d.Text}
		}
		play(board, m)
		resolved = append(resolved, m)
	}
	return resolved, nil
}
