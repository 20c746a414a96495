package index

import "github.com/lgbarn/chessdb-go/internal/game"

// Comparator is a relational operator over games.
type Comparator func(g1, g2 *game.Game) bool

// OrderingOps is the total-order index support: a three-way comparator and
// the five relational operators, all derived from game.Compare.
type OrderingOps struct {
	Compare        func(g1, g2 *game.Game) int
	Less           Comparator
	LessOrEqual    Comparator
	Equal          Comparator
	GreaterOrEqual Comparator
	Greater        Comparator
}

// DefaultOrderingOps returns the ordering over canonical movetext.
func DefaultOrderingOps() OrderingOps {
	return OrderingOps{
		Compare:        game.Compare,
		Less:           game.Less,
		LessOrEqual:    game.LessOrEqual,
		Equal:          game.Equal,
		GreaterOrEqual: game.GreaterOrEqual,
		Greater:        game.Greater,
	}
}

// Operator returns the comparator for a symbol: "<", "<=", "=", ">=" or ">".
func (o OrderingOps) Operator(symbol string) (Comparator, bool) {
	switch symbol {
	case "<":
		return o.Less, true
	case "<=":
		return o.LessOrEqual, true
	case "=":
		return o.Equal, true
	case ">=":
		return o.GreaterOrEqual, true
	case ">":
		return o.Greater, true
	default:
		return nil, false
	}
}
