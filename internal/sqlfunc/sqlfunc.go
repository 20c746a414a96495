// Package sqlfunc exposes chess game operations to SQLite as SQL functions
// and a collation. Games cross the SQL boundary as movetext and positions
// as FEN; every call parses its arguments afresh and keeps no state.
package sqlfunc

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/index"
)

// DriverName is the database/sql driver that installs the chess functions
// on every new connection.
const DriverName = "sqlite3_chess"

// CollationName orders movetext columns by the game total order.
const CollationName = "CHESSGAME"

var registerOnce sync.Once

// Register makes DriverName available to database/sql. It is safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		reg := index.NewRegistry()
		if err := reg.RegisterDefaults(); err != nil {
			panic(fmt.Sprintf("sqlfunc: default registry: %v", err))
		}
		sql.Register(DriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return Install(conn, reg)
			},
		})
	})
}

// Registrar is the part of *sqlite3.SQLiteConn that Install needs.
type Registrar interface {
	RegisterFunc(name string, impl any, pure bool) error
	RegisterCollation(name string, cmp func(string, string) int) error
}

// Install registers the scalar and ordering operations of reg, the
// chessgame and chessboard casts and the CHESSGAME collation on conn.
// Inverted-index operations have no SQL form and are skipped.
func Install(conn Registrar, reg *index.Registry) error {
	for _, op := range reg.Operations() {
		if op.Family == index.FamilyInverted {
			continue
		}
		impl, err := adapt(op)
		if err != nil {
			return err
		}
		if err := conn.RegisterFunc(op.Name, impl, true); err != nil {
			return fmt.Errorf("register %s: %w", op.Name, err)
		}
	}

	if err := conn.RegisterFunc("chessgame", CanonicalGame, true); err != nil {
		return fmt.Errorf("register chessgame: %w", err)
	}
	if err := conn.RegisterFunc("chessboard", CanonicalBoard, true); err != nil {
		return fmt.Errorf("register chessboard: %w", err)
	}
	if err := conn.RegisterCollation(CollationName, Collate); err != nil {
		return fmt.Errorf("register collation %s: %w", CollationName, err)
	}
	return nil
}

// adapt wraps a registered Go operation in a function with SQL-compatible
// argument and result types.
func adapt(op index.Operation) (any, error) {
	switch fn := op.Func.(type) {
	case index.Comparator:
		return func(a, b string) (bool, error) {
			g1, g2, err := parsePair(a, b)
			if err != nil {
				return false, err
			}
			return fn(g1, g2), nil
		}, nil

	case func(g1, g2 *game.Game) int:
		return func(a, b string) (int64, error) {
			g1, g2, err := parsePair(a, b)
			if err != nil {
				return 0, err
			}
			return int64(fn(g1, g2)), nil
		}, nil

	case func(*game.Game, int) (*chess.Board, error):
		return func(text string, n int64) (string, error) {
			g, err := game.Parse(text)
			if err != nil {
				return "", err
			}
			b, err := fn(g, int(n))
			if err != nil {
				return "", err
			}
			return engine.BoardToFEN(b), nil
		}, nil

	case func(*game.Game, int) (*game.Game, error):
		return func(text string, n int64) (string, error) {
			g, err := game.Parse(text)
			if err != nil {
				return "", err
			}
			out, err := fn(g, int(n))
			if err != nil {
				return "", err
			}
			return out.String(), nil
		}, nil

	case func(*game.Game, *chess.Board, int) bool:
		return func(text, fen string, n int64) (bool, error) {
			g, err := game.Parse(text)
			if err != nil {
				return false, err
			}
			b, err := engine.ParsePosition(fen)
			if err != nil {
				return false, err
			}
			return fn(g, b, int(n)), nil
		}, nil

	default:
		return nil, fmt.Errorf("operation %s: no SQL form for %T", op.Name, op.Func)
	}
}

func parsePair(a, b string) (*game.Game, *game.Game, error) {
	g1, err := game.Parse(a)
	if err != nil {
		return nil, nil, err
	}
	g2, err := game.Parse(b)
	if err != nil {
		return nil, nil, err
	}
	return g1, g2, nil
}

// CanonicalGame is the chessgame(text) cast: it parses movetext and returns
// the canonical form.
func CanonicalGame(text string) (string, error) {
	g, err := game.Parse(text)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

// CanonicalBoard is the chessboard(text) cast: it parses a FEN string and
// returns it normalised.
func CanonicalBoard(fen string) (string, error) {
	b, err := engine.ParsePosition(fen)
	if err != nil {
		return "", err
	}
	return engine.BoardToFEN(b), nil
}

// Collate orders two movetext values by the game total order. Values that do
// not parse sort by their raw bytes so the collation stays total.
func Collate(a, b string) int {
	g1, g2, err := parsePair(a, b)
	if err != nil {
		return strings.Compare(a, b)
	}
	return game.Compare(g1, g2)
}
