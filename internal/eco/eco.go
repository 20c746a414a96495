// Package eco provides ECO (Encyclopaedia of Chess Openings) classification.
package eco

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/hashing"
)

// ECOHalfMoveLimit is the maximum distance from an ECO line for a match.
const ECOHalfMoveLimit = 6

// ECOEntry represents a single ECO classification entry.
type ECOEntry struct {
	ECOCode        string // e.g., "B33"
	Opening        string // e.g., "Sicilian"
	Variation      string // e.g., "Sveshnikov"
	SubVariation   string
	RequiredHash   uint64 // Placement hash of the final position
	CumulativeHash uint64 // XOR of the placement hashes along the line
	HalfMoves      int    // Number of half-moves to reach this position
}

// String returns the code followed by the non-empty names.
func (e *ECOEntry) String() string {
	parts := []string{e.ECOCode}
	for _, s := range []string{e.Opening, e.Variation, e.SubVariation} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ECOClassifier provides ECO classification for chess games. It is safe for
// concurrent ClassifyGame calls once loading is done.
type ECOClassifier struct {
	table         map[uint64][]*ECOEntry
	maxHalfMoves  int
	entriesLoaded int
}

// NewECOClassifier creates a new ECO classifier.
func NewECOClassifier() *ECOClassifier {
	return &ECOClassifier{
		table:        make(map[uint64][]*ECOEntry),
		maxHalfMoves: ECOHalfMoveLimit,
	}
}

// LoadFromFile loads ECO data from a PGN file.
func (ec *ECOClassifier) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open ECO file: %w", err)
	}
	defer file.Close()

	return ec.LoadFromReader(file)
}

// LoadFromReader loads ECO data from PGN: each entry is a tag section with
// an ECO tag (and optionally Opening, Variation and SubVariation) followed
// by the movetext of the line. Entries without an ECO tag are skipped; an
// entry whose movetext does not parse is an error.
func (ec *ECOClassifier) LoadFromReader(r io.Reader) error {
	records, err := readRecords(r)
	if err != nil {
		return fmt.Errorf("error reading ECO file: %w", err)
	}
	for _, rec := range records {
		if rec.tags["ECO"] == "" {
			continue
		}
		g, err := game.Parse(rec.movetext)
		if err != nil {
			return fmt.Errorf("ECO entry %s: %w", rec.tags["ECO"], err)
		}
		ec.addECOEntry(rec.tags, g)
	}
	return nil
}

// addECOEntry replays a line and adds its final position to the table.
func (ec *ECOClassifier) addECOEntry(tags map[string]string, g *game.Game) {
	if g.Len() == 0 {
		return
	}

	board := engine.NewInitialBoard()
	var cumulativeHash uint64
	for _, move := range g.Moves() {
		if err := engine.ApplyMove(board, move); err != nil {
			return
		}
		cumulativeHash ^= hashing.GenerateZobristHash(board)
	}

	entry := &ECOEntry{
		ECOCode:        tags["ECO"],
		Opening:        tags["Opening"],
		Variation:      tags["Variation"],
		SubVariation:   tags["SubVariation"],
		RequiredHash:   hashing.GenerateZobristHash(board),
		CumulativeHash: cumulativeHash,
		HalfMoves:      g.Len(),
	}

	for _, existing := range ec.table[entry.RequiredHash] {
		if existing.HalfMoves == entry.HalfMoves && existing.CumulativeHash == entry.CumulativeHash {
			// Same line already loaded; the first entry wins.
			return
		}
	}

	ec.table[entry.RequiredHash] = append(ec.table[entry.RequiredHash], entry)
	ec.entriesLoaded++

	if entry.HalfMoves+ECOHalfMoveLimit > ec.maxHalfMoves {
		ec.maxHalfMoves = entry.HalfMoves + ECOHalfMoveLimit
	}
}

// ClassifyGame finds the best ECO match for a game: the entry matched at
// the latest ply. Returns nil if no match found.
func (ec *ECOClassifier) ClassifyGame(g *game.Game) *ECOEntry {
	if ec.entriesLoaded == 0 {
		return nil
	}

	board := engine.NewInitialBoard()
	var bestMatch *ECOEntry
	var cumulativeHash uint64

	for i, move := range g.Moves() {
		halfMoves := i + 1
		if halfMoves > ec.maxHalfMoves {
			break
		}
		if err := engine.ApplyMove(board, move); err != nil {
			break
		}

		posHash := hashing.GenerateZobristHash(board)
		cumulativeHash ^= posHash

		if match := ec.findMatch(posHash, cumulativeHash, halfMoves); match != nil {
			bestMatch = match
		}
	}

	return bestMatch
}

// findMatch looks up a position in the ECO table. An exact line match wins;
// otherwise a transposition within ECOHalfMoveLimit half-moves is accepted.
func (ec *ECOClassifier) findMatch(posHash, cumulativeHash uint64, halfMoves int) *ECOEntry {
	var possible *ECOEntry
	for _, entry := range ec.table[posHash] {
		if entry.HalfMoves == halfMoves && entry.CumulativeHash == cumulativeHash {
			return entry
		}
		if abs(halfMoves-entry.HalfMoves) <= ECOHalfMoveLimit {
			possible = entry
		}
	}
	return possible
}

// ClassifyBoard returns an entry whose final placement equals board's,
// regardless of move order.
func (ec *ECOClassifier) ClassifyBoard(board *chess.Board) *ECOEntry {
	entries := ec.table[hashing.GenerateZobristHash(board)]
	if len(entries) == 0 {
		return nil
	}
	return entries[0]
}

// EntriesLoaded returns the number of ECO entries loaded.
func (ec *ECOClassifier) EntriesLoaded() int {
	return ec.entriesLoaded
}

type pgnRecord struct {
	tags     map[string]string
	movetext string
}

// readRecords splits PGN into tag sections and their movetext.
func readRecords(r io.Reader) ([]pgnRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		records []pgnRecord
		tags    = map[string]string{}
		moves   []string
	)
	flush := func() {
		if len(moves) > 0 {
			records = append(records, pgnRecord{tags: tags, movetext: strings.Join(moves, " ")})
			tags = map[string]string{}
			moves = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "["):
			flush()
			if name, value, ok := parseTag(line); ok {
				tags[name] = value
			}
		case line == "":
			flush()
		default:
			moves = append(moves, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return records, nil
}

// parseTag parses a tag pair line such as [ECO "B90"].
func parseTag(line string) (name, value string, ok bool) {
	line = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	name, rest, found := strings.Cut(line, " ")
	if !found || name == "" {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", "", false
	}
	return name, strings.ReplaceAll(rest[1:len(rest)-1], `\"`, `"`), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
