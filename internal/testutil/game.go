// Package testutil provides shared test utilities for chessdb.
// These helpers build games and positions from notation and fail the test
// immediately when the fixture itself is broken.
package testutil

import (
	"testing"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
)

// ParseTestGame parses movetext and returns the game, or nil if parsing
// fails. Use this for tests where parse failure is an acceptable outcome.
func ParseTestGame(text string) *game.Game {
	g, err := game.Parse(text)
	if err != nil {
		return nil
	}
	return g
}

// MustParseGame parses movetext and returns the game.
// It calls t.Fatal if parsing fails.
func MustParseGame(t *testing.T, text string) *game.Game {
	t.Helper()
	g, err := game.Parse(text)
	if err != nil {
		t.Fatalf("failed to parse test game %q: %v", text, err)
	}
	return g
}

// MustParseGames parses each movetext in turn.
func MustParseGames(t *testing.T, texts ...string) []*game.Game {
	t.Helper()
	games := make([]*game.Game, 0, len(texts))
	for _, text := range texts {
		games = append(games, MustParseGame(t, text))
	}
	return games
}

// MustParseBoard parses a FEN string and returns the board.
// It calls t.Fatal if parsing fails.
func MustParseBoard(t *testing.T, fen string) *chess.Board {
	t.Helper()
	b, err := engine.ParsePosition(fen)
	if err != nil {
		t.Fatalf("failed to parse test position %q: %v", fen, err)
	}
	return b
}

// MustBoard returns the position of g after n half-moves.
func MustBoard(t *testing.T, g *game.Game, n int) *chess.Board {
	t.Helper()
	b, err := g.Board(n)
	if err != nil {
		t.Fatalf("Board(%d) of %q: %v", n, g, err)
	}
	return b
}
