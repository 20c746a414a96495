// Package hashing provides position digests and duplicate game detection.
package hashing

import (
	"github.com/lgbarn/chessdb-go/internal/chess"
)

// DuplicateDetector tracks seen games for duplicate detection.
type DuplicateDetector struct {
	// hashTable buckets signatures by final-position hash
	hashTable map[uint64][]GameSignature
	// maxCapacity limits stored signatures; 0 means unlimited
	maxCapacity int
	// size is the number of stored signatures
	size int
	// duplicateCount tracks number of duplicates found
	duplicateCount int
}

// GameSignature stores identifying information about a game.
type GameSignature struct {
	// Hash is the Zobrist hash of the final position
	Hash uint64
	// MoveCount is the number of half-moves in the game
	MoveCount int
	// Movetext is the canonical movetext; it makes the match exact
	Movetext string
}

// NewGameSignature builds the signature of a game from its final position.
func NewGameSignature(final *chess.Board, moveCount int, movetext string) GameSignature {
	return GameSignature{
		Hash:      GenerateZobristHash(final),
		MoveCount: moveCount,
		Movetext:  movetext,
	}
}

// NewDuplicateDetector creates a new duplicate detector.
// maxCapacity of 0 means unlimited capacity.
func NewDuplicateDetector(maxCapacity int) *DuplicateDetector {
	return &DuplicateDetector{
		hashTable:   make(map[uint64][]GameSignature),
		maxCapacity: maxCapacity,
	}
}

// CheckAndAdd checks if a game is a duplicate and adds it to the hash table.
// Returns true if the game is a duplicate. Once the detector is full, new
// signatures are checked but not stored.
func (d *DuplicateDetector) CheckAndAdd(sig GameSignature) bool {
	for _, existing := range d.hashTable[sig.Hash] {
		if existing == sig {
			d.duplicateCount++
			return true
		}
	}

	if d.IsFull() {
		return false
	}
	d.hashTable[sig.Hash] = append(d.hashTable[sig.Hash], sig)
	d.size++
	return false
}

// IsFull returns true if the detector has reached its capacity limit.
func (d *DuplicateDetector) IsFull() bool {
	return d.maxCapacity > 0 && d.size >= d.maxCapacity
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of unique games.
func (d *DuplicateDetector) UniqueCount() int {
	return d.size
}

// Reset clears the hash table.
func (d *DuplicateDetector) Reset() {
	d.hashTable = make(map[uint64][]GameSignature)
	d.size = 0
	d.duplicateCount = 0
}
