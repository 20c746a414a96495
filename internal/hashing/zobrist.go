package hashing

import "github.com/lgbarn/chessdb-go/internal/chess"

// numPieceKinds is the number of distinct coloured pieces: 6 types × 2 colours.
const numPieceKinds = 12

// zobristSeed fixes the random table so digests are stable across processes
// and can be persisted.
const zobristSeed uint64 = 0x9E3779B97F4A7C15

var zobristTable = newZobristTable(zobristSeed)

// newZobristTable fills the piece-square table from a splitmix64 stream.
func newZobristTable(seed uint64) [numPieceKinds][chess.BoardSize * chess.BoardSize]uint64 {
	var table [numPieceKinds][chess.BoardSize * chess.BoardSize]uint64
	state := seed
	for p := range table {
		for sq := range table[p] {
			state += 0x9E3779B97F4A7C15
			z := state
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			table[p][sq] = z ^ (z >> 31)
		}
	}
	return table
}

// pieceIndex maps a coloured piece to 0-11, or -1 for an empty square.
func pieceIndex(colouredPiece chess.Piece) int {
	if !chess.IsOccupied(colouredPiece) {
		return -1
	}
	piece := chess.ExtractPiece(colouredPiece)
	if piece < chess.Pawn || piece > chess.King {
		return -1
	}
	idx := int(piece - chess.Pawn)
	if chess.ExtractColour(colouredPiece) == chess.Black {
		idx += 6
	}
	return idx
}

// GenerateZobristHash returns the 64-bit Zobrist hash of the piece placement.
// Side to move, castling rights and en passant are not included, so two
// boards with PlacementEqual placements always hash alike.
func GenerateZobristHash(board *chess.Board) uint64 {
	var hash uint64
	for col := chess.Col(chess.FirstCol); col <= chess.LastCol; col++ {
		for rank := chess.Rank(chess.FirstRank); rank <= chess.LastRank; rank++ {
			idx := pieceIndex(board.Get(col, rank))
			if idx < 0 {
				continue
			}
			hash ^= zobristTable[idx][chess.Square{Col: col, Rank: rank}.Index()]
		}
	}
	return hash
}

// Digest is the 32-bit placement digest used as an index key. Equal
// placements give equal digests; equal digests do not imply equal placements.
func Digest(board *chess.Board) uint32 {
	h := GenerateZobristHash(board)
	return uint32(h>>32) ^ uint32(h)
}
