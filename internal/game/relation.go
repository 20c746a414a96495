package game

import "strings"

// HasOpening reports whether g1 begins with g2's moves. The first
// min(g1.Len(), g2.Len()) moves are compared by origin and destination only;
// the promotion piece is ignored. g2 is not required to be the shorter game,
// so HasOpening(a, b) == HasOpening(b, a) whenever one is a prefix of the
// other.
func HasOpening(g1, g2 *Game) bool {
	m := min(len(g1.moves), len(g2.moves))
	for i := 0; i < m; i++ {
		if !g1.moves[i].SamePair(g2.moves[i]) {
			return false
		}
	}
	return true
}

// Compare is the total order on games: a byte-wise comparison of the
// canonical movetext. It returns -1, 0 or +1.
func Compare(g1, g2 *Game) int {
	return strings.Compare(g1.text, g2.text)
}

// Less reports whether g1 sorts before g2.
func Less(g1, g2 *Game) bool { return Compare(g1, g2) < 0 }

// LessOrEqual reports whether g1 sorts before or equal to g2.
func LessOrEqual(g1, g2 *Game) bool { return Compare(g1, g2) <= 0 }

// Equal reports whether g1 and g2 have the same canonical movetext.
func Equal(g1, g2 *Game) bool { return Compare(g1, g2) == 0 }

// GreaterOrEqual reports whether g1 sorts after or equal to g2.
func GreaterOrEqual(g1, g2 *Game) bool { return Compare(g1, g2) >= 0 }

// Greater reports whether g1 sorts after g2.
func Greater(g1, g2 *Game) bool { return Compare(g1, g2) > 0 }
