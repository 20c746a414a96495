package index_test

import (
	"testing"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/hashing"
	"github.com/lgbarn/chessdb-go/internal/index"
	"github.com/lgbarn/chessdb-go/internal/testutil"
)

func TestExtractKeys(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"1. e4", 2},
		{"1. e4 e5 2. Nf3 Nc6 3. Bb5", 6},
	}

	for _, tt := range tests {
		g := testutil.MustParseGame(t, tt.text)
		keys := index.ExtractKeys(g)
		testutil.AssertEqual(t, len(keys), tt.want, "ExtractKeys(%q)", tt.text)

		for i, k := range keys {
			testutil.AssertEqual(t, k.Ply, i)
			b := testutil.MustBoard(t, g, i)
			testutil.AssertTrue(t, k.Position.Equal(b), "key %d position of %q", i, tt.text)
			testutil.AssertEqual(t, k.Digest, hashing.Digest(b))
		}
	}
}

func TestExtractKeys_OwnedPositions(t *testing.T) {
	g := testutil.MustParseGame(t, "1. e4 e5")
	keys := index.ExtractKeys(g)
	keys[1].Position.Set('e', '4', chess.Empty)

	testutil.AssertEqual(t, keys[2].Position.Get('e', '4'), chess.W(chess.Pawn))
	again := index.ExtractKeys(g)
	testutil.AssertEqual(t, again[1].Position.Get('e', '4'), chess.W(chess.Pawn))
}

func TestScenarioE_UnsupportedStrategy(t *testing.T) {
	query := engine.NewInitialBoard()
	for _, s := range []index.Strategy{index.StrategyOverlap, index.StrategyContainedBy, index.StrategyEqual, index.Strategy(42)} {
		keys, err := index.ExtractQueryKeys(query, s)
		testutil.AssertErrorIs(t, err, errors.ErrUnsupportedOperator, "strategy %v", s)
		testutil.AssertEqual(t, len(keys), 0)

		var uoe *errors.UnsupportedOperatorError
		testutil.AssertTrue(t, errors.As(err, &uoe))
		testutil.AssertEqual(t, uoe.Strategy, s.String())
	}
}

func TestExtractQueryKeys_Contains(t *testing.T) {
	query := testutil.MustParseBoard(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	keys, err := index.ExtractQueryKeys(query, index.StrategyContains)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(keys), 1)
	testutil.AssertEqual(t, keys[0].Digest, hashing.Digest(query))
	testutil.AssertTrue(t, keys[0].Position != query, "query key owns a copy")
}

func TestMatchRefine(t *testing.T) {
	g := testutil.MustParseGame(t, "1. e4 e5 2. Nf3")
	keys := index.ExtractKeys(g)

	t.Run("true match", func(t *testing.T) {
		query := testutil.MustBoard(t, g, 2)
		check := index.MatchDigest(keys, hashing.Digest(query))
		testutil.AssertEqual(t, check, []bool{false, false, true, false})
		testutil.AssertTrue(t, index.MatchRefine(check, keys, query))
	})

	t.Run("no checked key", func(t *testing.T) {
		query := testutil.MustBoard(t, g, 1)
		check := make([]bool, len(keys))
		testutil.AssertFalse(t, index.MatchRefine(check, keys, query))
		testutil.AssertFalse(t, index.MatchRefine(check, keys, query, index.LegacyTrust(true)))
	})

	t.Run("placement ignores side to move", func(t *testing.T) {
		query := testutil.MustBoard(t, g, 3).Copy()
		query.ToMove = chess.White
		query.BKingCastle = 0
		check := index.MatchDigest(keys, hashing.Digest(query))
		testutil.AssertTrue(t, index.MatchRefine(check, keys, query))
	})

	t.Run("digest collision rejected", func(t *testing.T) {
		query := testutil.MustParseBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
		// A stored key whose digest claims the query but whose position differs.
		forged := []index.Key{{Ply: 0, Digest: hashing.Digest(query), Position: engine.NewInitialBoard()}}
		check := []bool{true}

		testutil.AssertFalse(t, index.MatchRefine(check, forged, query))
		testutil.AssertTrue(t, index.MatchRefine(check, forged, query, index.LegacyTrust(true)))
		testutil.AssertFalse(t, index.MatchRefine(check, forged, query, index.LegacyTrust(false)))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		query := testutil.MustBoard(t, g, 3)
		check := []bool{false, false, false, true, true, true}
		testutil.AssertTrue(t, index.MatchRefine(check, keys, query))
		testutil.AssertFalse(t, index.MatchRefine(check[:3], keys, query))
	})
}

func TestMatchRefine_AgreesWithContainsPosition(t *testing.T) {
	games := testutil.MustParseGames(t,
		"1. e4 e5 2. Nf3 Nc6",
		"1. Nf3 Nc6 2. e4 e5",
		"1. d4 d5",
		"",
	)
	target := testutil.MustBoard(t, games[0], 4)
	queryKeys, err := index.ExtractQueryKeys(target, index.StrategyContains)
	testutil.AssertNoError(t, err)

	for _, g := range games {
		keys := index.ExtractKeys(g)
		check := index.MatchDigest(keys, queryKeys[0].Digest)
		testutil.AssertEqual(t, index.MatchRefine(check, keys, target), game.ContainsPosition(g, target, g.Len()), "game %q", g)
	}
}

func TestOrderingOps(t *testing.T) {
	ops := index.DefaultOrderingOps()
	games := testutil.MustParseGames(t, "1. e4", "1. d4", "1. e4 e5")

	symbols := map[string]func(int) bool{
		"<":  func(c int) bool { return c < 0 },
		"<=": func(c int) bool { return c <= 0 },
		"=":  func(c int) bool { return c == 0 },
		">=": func(c int) bool { return c >= 0 },
		">":  func(c int) bool { return c > 0 },
	}
	for sym, want := range symbols {
		op, ok := ops.Operator(sym)
		testutil.AssertTrue(t, ok, "Operator(%q)", sym)
		for _, a := range games {
			for _, b := range games {
				c := ops.Compare(a, b)
				testutil.AssertEqual(t, op(a, b), want(c), "%q %s %q", a, sym, b)
				testutil.AssertEqual(t, c, game.Compare(a, b))
			}
		}
	}

	_, ok := ops.Operator("<>")
	testutil.AssertFalse(t, ok)
}

func TestRegistry(t *testing.T) {
	r := index.NewRegistry()
	testutil.AssertNoError(t, r.RegisterDefaults())

	names := []string{
		"getBoard", "getFirstMoves", "hasBoard", "hasOpening",
		"chessgame_cmp", "chessgame_lt", "chessgame_le", "chessgame_eq", "chessgame_ge", "chessgame_gt",
		"extractKeys", "extractQueryKeys", "matchRefine",
	}
	testutil.AssertEqual(t, r.Len(), len(names))
	for _, name := range names {
		op, ok := r.Lookup(name)
		testutil.AssertTrue(t, ok, "Lookup(%q)", name)
		testutil.AssertNotNil(t, op.Func)
	}

	ops := r.Operations()
	for i := 1; i < len(ops); i++ {
		testutil.AssertTrue(t, ops[i-1].Family <= ops[i].Family, "operations grouped by family")
	}

	testutil.AssertError(t, r.RegisterDefaults(), "registering twice")
	testutil.AssertError(t, r.Register(index.Operation{Name: "x"}), "missing implementation")

	_, ok := r.Lookup("missing")
	testutil.AssertFalse(t, ok)
}

func TestRegistry_FunctionsCallable(t *testing.T) {
	r := index.NewRegistry()
	testutil.AssertNoError(t, r.RegisterDefaults())
	g := testutil.MustParseGame(t, "1. e4 e5 2. Nf3")

	op, _ := r.Lookup("getFirstMoves")
	first, ok := op.Func.(func(*game.Game, int) (*game.Game, error))
	testutil.AssertTrue(t, ok, "getFirstMoves signature")
	short, err := first(g, 1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, short.String(), "1. e4")

	_, err = first(g, -1)
	testutil.AssertErrorIs(t, err, errors.ErrRange)

	op, _ = r.Lookup("hasOpening")
	has, ok := op.Func.(index.Comparator)
	testutil.AssertTrue(t, ok, "hasOpening signature")
	testutil.AssertTrue(t, has(g, short))
}
