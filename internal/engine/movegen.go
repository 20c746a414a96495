package engine

import "github.com/lgbarn/chessdb-go/internal/chess"

var promotionPieces = []chess.Piece{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// LegalMoves returns every legal move for the side to move. The moves are
// resolved (From, To, Class and captured piece set) but carry no SAN.
func LegalMoves(board *chess.Board) []chess.Move {
	colour := board.ToMove
	var legal []chess.Move
	for _, m := range pseudoLegalMoves(board) {
		if leavesKingSafe(board, m, colour) {
			legal = append(legal, m)
		}
	}
	return append(legal, castlingMoves(board)...)
}

// leavesKingSafe plays the move on a copy and checks the mover's king.
func leavesKingSafe(board *chess.Board, m chess.Move, colour chess.Colour) bool {
	test := board.Copy()
	play(test, m)
	return !IsInCheck(test, colour)
}

// pseudoLegalMoves generates moves that obey piece movement rules but may
// leave the king in check. Castling is generated separately.
func pseudoLegalMoves(board *chess.Board) []chess.Move {
	colour := board.ToMove
	var moves []chess.Move
	for col := chess.Col('a'); col <= 'h'; col++ {
		for rank := chess.Rank('1'); rank <= '8'; rank++ {
			piece := board.Get(col, rank)
			if !chess.IsOccupied(piece) || chess.ExtractColour(piece) != colour {
				continue
			}
			from := chess.Square{Col: col, Rank: rank}
			switch pieceType := chess.ExtractPiece(piece); pieceType {
			case chess.Pawn:
				moves = append(moves, pawnMoves(board, from, colour)...)
			case chess.Knight:
				moves = append(moves, stepMoves(board, from, colour, pieceType, knightOffsets)...)
			case chess.King:
				moves = append(moves, stepMoves(board, from, colour, pieceType, kingOffsets)...)
			case chess.Bishop:
				moves = append(moves, slideMoves(board, from, colour, pieceType, diagonalDirs)...)
			case chess.Rook:
				moves = append(moves, slideMoves(board, from, colour, pieceType, straightDirs)...)
			case chess.Queen:
				moves = append(moves, slideMoves(board, from, colour, pieceType, allSlidingDirs)...)
			}
		}
	}
	return moves
}

func newPieceMove(pieceType chess.Piece, from, to chess.Square, captured chess.Piece) chess.Move {
	m := chess.NewMove()
	m.Class = chess.PieceMove
	m.PieceToMove = pieceType
	m.From = from
	m.To = to
	if chess.IsOccupied(captured) {
		m.CapturedPiece = captured
	}
	return m
}

// canLand reports whether a piece of colour may finish on the square.
func canLand(board *chess.Board, sq chess.Square, colour chess.Colour) (chess.Piece, bool) {
	if !sq.IsValid() {
		return chess.Off, false
	}
	target := board.At(sq)
	if target == chess.Empty {
		return target, true
	}
	return target, chess.ExtractColour(target) != colour
}

func stepMoves(board *chess.Board, from chess.Square, colour chess.Colour, pieceType chess.Piece, offsets [][2]int) []chess.Move {
	var moves []chess.Move
	for _, o := range offsets {
		to := offset(from, o[0], o[1])
		if target, ok := canLand(board, to, colour); ok {
			moves = append(moves, newPieceMove(pieceType, from, to, target))
		}
	}
	return moves
}

func slideMoves(board *chess.Board, from chess.Square, colour chess.Colour, pieceType chess.Piece, dirs [][2]int) []chess.Move {
	var moves []chess.Move
	for _, dir := range dirs {
		to := offset(from, dir[0], dir[1])
		for {
			target, ok := canLand(board, to, colour)
			if !ok {
				break
			}
			moves = append(moves, newPieceMove(pieceType, from, to, target))
			if target != chess.Empty {
				break
			}
			to = offset(to, dir[0], dir[1])
		}
	}
	return moves
}

func pawnMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	dir := chess.ColourOffset(colour)
	lastRank := chess.Rank(chess.LastRank)
	startRank := chess.Rank('2')
	if colour == chess.Black {
		lastRank = chess.FirstRank
		startRank = '7'
	}

	var moves []chess.Move
	add := func(to chess.Square, captured chess.Piece, class chess.MoveClass) {
		m := chess.NewMove()
		m.PieceToMove = chess.Pawn
		m.From = from
		m.To = to
		m.Class = class
		if chess.IsOccupied(captured) {
			m.CapturedPiece = captured
		}
		if to.Rank == lastRank {
			m.Class = chess.PawnMoveWithPromotion
			for _, p := range promotionPieces {
				m.PromotedPiece = p
				moves = append(moves, m)
			}
			return
		}
		moves = append(moves, m)
	}

	one := offset(from, 0, dir)
	if one.IsValid() && board.At(one) == chess.Empty {
		add(one, chess.Empty, chess.PawnMove)
		two := offset(from, 0, 2*dir)
		if from.Rank == startRank && board.At(two) == chess.Empty {
			add(two, chess.Empty, chess.PawnMove)
		}
	}

	ep, hasEP := board.EnPassantSquare()
	for _, dc := range []int{-1, 1} {
		to := offset(from, dc, dir)
		if !to.IsValid() {
			continue
		}
		target := board.At(to)
		switch {
		case chess.IsOccupied(target) && chess.ExtractColour(target) != colour:
			add(to, target, chess.PawnMove)
		case hasEP && to == ep && target == chess.Empty:
			victim := board.Get(to.Col, from.Rank)
			if victim == chess.MakeColouredPiece(colour.Opposite(), chess.Pawn) {
				add(to, victim, chess.EnPassantPawnMove)
			}
		}
	}
	return moves
}
