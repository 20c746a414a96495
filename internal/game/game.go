// Package game models a chess game as an immutable sequence of resolved
// moves and answers structural queries over it: positions reconstructed
// from a prefix, truncation to an opening, prefix relations, a total order
// and position containment.
//
// Every value returned by this package is freshly allocated and owned by the
// caller. A *Game is never mutated after construction, so it may be shared
// between goroutines freely.
package game

import (
	"strconv"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/parser"
)

// Game is an immutable ordered sequence of half-moves played from the
// standard start position.
type Game struct {
	moves []chess.Move
	text  string
}

// Parse builds a game from movetext. Malformed notation or an illegal move
// yields a *errors.ParseError and no game.
func Parse(text string) (*Game, error) {
	moves, err := parser.ParseMovetext(text)
	if err != nil {
		return nil, err
	}
	return newGame(moves), nil
}

// newGame takes ownership of moves.
func newGame(moves []chess.Move) *Game {
	return &Game{moves: moves, text: serialize(moves)}
}

// fromView materialises an owned game from a read-only view of another
// game's moves.
func fromView(view []chess.Move) *Game {
	owned := make([]chess.Move, len(view))
	copy(owned, view)
	return newGame(owned)
}

// Len returns the number of half-moves.
func (g *Game) Len() int {
	return len(g.moves)
}

// MoveAt returns the i-th half-move, counting from 0.
func (g *Game) MoveAt(i int) (chess.Move, error) {
	if i < 0 || i >= len(g.moves) {
		return chess.Move{}, &errors.RangeError{Op: "move at", Index: i, Length: len(g.moves)}
	}
	return g.moves[i], nil
}

// Moves returns a copy of the move list.
func (g *Game) Moves() []chess.Move {
	out := make([]chess.Move, len(g.moves))
	copy(out, g.moves)
	return out
}

// String returns the canonical movetext, e.g. "1. e4 e5 2. Nf3".
func (g *Game) String() string {
	return g.text
}

// Serialize returns the canonical movetext of g. Parse(Serialize(g)) yields
// the same move sequence; the original input formatting is not preserved.
func Serialize(g *Game) string {
	return g.text
}

func serialize(moves []chess.Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i%2 == 0 {
			sb.WriteString(strconv.Itoa(i/2 + 1))
			sb.WriteString(". ")
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
