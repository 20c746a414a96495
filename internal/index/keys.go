// Package index adapts games and positions to the two index families a host
// engine can build over them: an inverted index keyed by position digest and
// a total-order index over canonical movetext.
package index

import (
	"fmt"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/hashing"
)

// Strategy identifies the operator an inverted-index query is answering.
type Strategy int

// Inverted-index strategies. Only StrategyContains is implemented.
const (
	StrategyOverlap Strategy = iota + 1
	StrategyContains
	StrategyContainedBy
	StrategyEqual
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyOverlap:
		return "overlap"
	case StrategyContains:
		return "contains"
	case StrategyContainedBy:
		return "contained-by"
	case StrategyEqual:
		return "equal"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Key is one inverted-index entry: the placement digest of the position
// after Ply half-moves. Position is the board the digest was computed from
// and is owned by the key.
type Key struct {
	Ply      int
	Digest   uint32
	Position *chess.Board
}

// NewKey builds the key for a position.
func NewKey(ply int, position *chess.Board) Key {
	return Key{Ply: ply, Digest: hashing.Digest(position), Position: position}
}

// ExtractKeys returns one key per half-move count 0..g.Len(), so a game of
// length L yields L+1 keys. Positions are built incrementally, each one a
// fresh board.
func ExtractKeys(g *game.Game) []Key {
	moves := g.Moves()
	board := engine.NewInitialBoard()
	keys := make([]Key, 0, len(moves)+1)
	keys = append(keys, NewKey(0, board))

	for i := range moves {
		next, err := engine.ApplyPrefix(moves[i:i+1], 1, board)
		if err != nil {
			// Parsed games replay without error.
			break
		}
		keys = append(keys, NewKey(i+1, next))
		board = next
	}
	return keys
}

// ExtractQueryKeys returns the single key a containment query looks up.
// Every other strategy fails with an UnsupportedOperatorError and no keys.
func ExtractQueryKeys(query *chess.Board, strategy Strategy) ([]Key, error) {
	if strategy != StrategyContains {
		return nil, &errors.UnsupportedOperatorError{Strategy: strategy.String()}
	}
	return []Key{NewKey(0, query.Copy())}, nil
}

// RefineOption configures MatchRefine.
type RefineOption func(*refineOptions)

type refineOptions struct {
	legacyTrust bool
}

// LegacyTrust makes MatchRefine accept any digest match without the
// placement recheck. Digest collisions then become false positives; it
// exists to compare against stores built with the old behaviour.
func LegacyTrust(enabled bool) RefineOption {
	return func(o *refineOptions) {
		o.legacyTrust = enabled
	}
}

// MatchRefine decides whether a candidate truly contains query. keys are the
// candidate's stored keys and check[i] reports whether keys[i] matched the
// query digest. A candidate matches when some checked key's source position
// has the same placement as query.
func MatchRefine(check []bool, keys []Key, query *chess.Board, opts ...RefineOption) bool {
	var o refineOptions
	for _, opt := range opts {
		opt(&o)
	}

	n := min(len(check), len(keys))
	for i := 0; i < n; i++ {
		if !check[i] {
			continue
		}
		if o.legacyTrust {
			return true
		}
		if keys[i].Position != nil && keys[i].Position.PlacementEqual(query) {
			return true
		}
	}
	return false
}

// MatchDigest marks which keys carry digest.
func MatchDigest(keys []Key, digest uint32) []bool {
	check := make([]bool, len(keys))
	for i, k := range keys {
		check[i] = k.Digest == digest
	}
	return check
}
