package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

func sq(s string) chess.Square {
	return chess.Square{Col: chess.Col(s[0]), Rank: chess.Rank(s[1])}
}

func mustFEN(t *testing.T, fen string) *chess.Board {
	t.Helper()
	b, err := ParsePosition(fen)
	if err != nil {
		t.Fatalf("ParsePosition(%q) error = %v", fen, err)
	}
	return b
}

// decoded builds the partial move a SAN decoder would produce.
func decoded(piece chess.Piece, to string) chess.Move {
	m := chess.NewMove()
	m.PieceToMove = piece
	m.Class = chess.PieceMove
	if piece == chess.Pawn {
		m.Class = chess.PawnMove
	}
	m.To = sq(to)
	return m
}

func TestApplyMove(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		promo    chess.Piece
		wantFEN  string
	}{
		{
			name: "1.e4", fen: InitialFEN, from: "e2", to: "e4",
			wantFEN: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name: "1.Nf3", fen: InitialFEN, from: "g1", to: "f3",
			wantFEN: "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1",
		},
		{
			name: "kingside castle", fen: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", from: "e1", to: "g1",
			wantFEN: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R4RK1 b kq - 1 1",
		},
		{
			name: "queenside castle black", fen: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 3 9", from: "e8", to: "c8",
			wantFEN: "2kr3r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQ - 4 10",
		},
		{
			name: "en passant", fen: "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 3", from: "e5", to: "d6",
			wantFEN: "4k3/8/3P4/8/8/8/8/4K3 b - - 0 3",
		},
		{
			name: "promotion", fen: "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", from: "a7", to: "a8", promo: chess.Knight,
			wantFEN: "N3k3/8/8/8/8/8/8/4K3 b - - 0 1",
		},
		{
			name: "rook capture removes right", fen: "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", from: "a1", to: "a8",
			wantFEN: "R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustFEN(t, tt.fen)
			move := chess.Move{From: sq(tt.from), To: sq(tt.to), PromotedPiece: tt.promo}
			if tt.promo == 0 {
				move.PromotedPiece = chess.Empty
			}
			if err := ApplyMove(board, move); err != nil {
				t.Fatalf("ApplyMove() error = %v", err)
			}
			if got := BoardToFEN(board); got != tt.wantFEN {
				t.Errorf("BoardToFEN() = %q, want %q", got, tt.wantFEN)
			}
		})
	}
}

func TestApplyMove_Illegal(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
	}{
		{"pawn triple step", InitialFEN, "e2", "e5"},
		{"wrong side", InitialFEN, "e7", "e5"},
		{"pinned knight", "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1", "e2", "c3"},
		{"castle through check", "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1", "e1", "g1"},
		{"castle without right", "4k3/8/8/8/8/8/8/4K2R w - - 0 1", "e1", "g1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustFEN(t, tt.fen)
			before := board.Copy()
			err := ApplyMove(board, chess.Move{From: sq(tt.from), To: sq(tt.to), PromotedPiece: chess.Empty})
			if !errors.Is(err, errors.ErrIllegalMove) {
				t.Fatalf("ApplyMove() error = %v, want ErrIllegalMove", err)
			}
			if !board.Equal(before) {
				t.Error("board modified by rejected move")
			}
		})
	}
}

func TestResolveMove_PinnedPieceNotChosen(t *testing.T) {
	// Knights on c2 and e2 can both reach d4, but e2 is pinned by the rook on e7.
	board := mustFEN(t, "4k3/4r3/8/8/8/8/2N1N3/4K3 w - - 0 1")

	got, err := ResolveMove(board, decoded(chess.Knight, "d4"))
	if err != nil {
		t.Fatalf("ResolveMove() error = %v", err)
	}
	if got.From != sq("c2") {
		t.Errorf("ResolveMove() From = %v, want c2", got.From)
	}
	if got.SAN != "Nd4" {
		t.Errorf("ResolveMove() SAN = %q, want Nd4 (pinned rival needs no disambiguation)", got.SAN)
	}
}

func TestResolveMove_Ambiguous(t *testing.T) {
	board := mustFEN(t, "4k3/8/8/8/8/2N3N1/8/4K3 w - - 0 1")

	_, err := ResolveMove(board, decoded(chess.Knight, "e4"))
	if !errors.Is(err, errors.ErrAmbiguousMove) {
		t.Fatalf("ResolveMove() error = %v, want ErrAmbiguousMove", err)
	}

	d := decoded(chess.Knight, "e4")
	d.From.Col = 'g'
	got, err := ResolveMove(board, d)
	if err != nil {
		t.Fatalf("ResolveMove(Nge4) error = %v", err)
	}
	if got.SAN != "Nge4" {
		t.Errorf("SAN = %q, want Nge4", got.SAN)
	}
}

func TestResolveMove_Variants(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		move    chess.Move
		wantSAN string
		wantTo  string
	}{
		{
			name:    "castle",
			fen:     "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
			move:    chess.Move{Class: chess.QueensideCastle, PieceToMove: chess.King},
			wantSAN: "O-O-O", wantTo: "c1",
		},
		{
			name:    "long algebraic knight",
			fen:     InitialFEN,
			move:    chess.Move{Class: chess.PawnMove, PieceToMove: chess.Pawn, From: sq("g1"), To: sq("f3"), PromotedPiece: chess.Empty},
			wantSAN: "Nf3", wantTo: "f3",
		},
		{
			name:    "long algebraic castle",
			fen:     "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
			move:    chess.Move{Class: chess.PawnMove, PieceToMove: chess.Pawn, From: sq("e1"), To: sq("g1"), PromotedPiece: chess.Empty},
			wantSAN: "O-O", wantTo: "g1",
		},
		{
			name:    "pawn capture by file",
			fen:     "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1",
			move:    chess.Move{Class: chess.PawnMove, PieceToMove: chess.Pawn, From: chess.Square{Col: 'e'}, To: sq("d5"), PromotedPiece: chess.Empty},
			wantSAN: "exd5", wantTo: "d5",
		},
		{
			name:    "promotion with check",
			fen:     "7k/P7/8/8/8/8/8/4K3 w - - 0 1",
			move:    chess.Move{Class: chess.PawnMoveWithPromotion, PieceToMove: chess.Pawn, To: sq("a8"), PromotedPiece: chess.Queen},
			wantSAN: "a8=Q+", wantTo: "a8",
		},
		{
			name:    "mate",
			fen:     "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2",
			move:    decoded(chess.Queen, "h4"),
			wantSAN: "Qh4#", wantTo: "h4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustFEN(t, tt.fen)
			got, err := ResolveMove(board, tt.move)
			if err != nil {
				t.Fatalf("ResolveMove() error = %v", err)
			}
			if got.SAN != tt.wantSAN {
				t.Errorf("SAN = %q, want %q", got.SAN, tt.wantSAN)
			}
			if got.To != sq(tt.wantTo) {
				t.Errorf("To = %v, want %s", got.To, tt.wantTo)
			}
		})
	}
}

func TestResolveMove_Rejects(t *testing.T) {
	board := NewInitialBoard()
	tests := []struct {
		name string
		move chess.Move
	}{
		{"unknown", chess.Move{Class: chess.UnknownMove, Text: "zz"}},
		{"null", chess.Move{Class: chess.NullMove, Text: "--"}},
		{"no piece reaches", decoded(chess.Bishop, "c4")},
		{"promotion missing", decoded(chess.Pawn, "e8")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ResolveMove(board, tt.move); !errors.Is(err, errors.ErrIllegalMove) {
				t.Errorf("ResolveMove() error = %v, want ErrIllegalMove", err)
			}
		})
	}
}

func TestLegalMoves_StartPosition(t *testing.T) {
	if got := len(LegalMoves(NewInitialBoard())); got != 20 {
		t.Errorf("len(LegalMoves(start)) = %d, want 20", got)
	}
}

func TestGameState(t *testing.T) {
	mate := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !IsCheckmate(mate) {
		t.Error("IsCheckmate(fool's mate) = false")
	}
	stalemate := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !IsStalemate(stalemate) {
		t.Error("IsStalemate() = false")
	}
	if IsCheckmate(NewInitialBoard()) || IsStalemate(NewInitialBoard()) {
		t.Error("start position reported as finished")
	}
}

func TestApplyPrefix(t *testing.T) {
	var moves []chess.Move
	board := NewInitialBoard()
	for _, d := range []chess.Move{decoded(chess.Pawn, "e4"), decoded(chess.Pawn, "e5"), decoded(chess.Knight, "f3")} {
		m, err := ResolveMove(board, d)
		if err != nil {
			t.Fatalf("ResolveMove() error = %v", err)
		}
		play(board, m)
		moves = append(moves, m)
	}

	got, err := ApplyPrefix(moves, 2, nil)
	if err != nil {
		t.Fatalf("ApplyPrefix() error = %v", err)
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	if diff := cmp.Diff(want, BoardToFEN(got)); diff != "" {
		t.Errorf("ApplyPrefix(2) mismatch (-want +got):\n%s", diff)
	}

	zero, err := ApplyPrefix(moves, 0, nil)
	if err != nil || !zero.Equal(NewInitialBoard()) {
		t.Errorf("ApplyPrefix(0) = %v, %v; want start position", zero, err)
	}

	for _, n := range []int{-1, 4} {
		if _, err := ApplyPrefix(moves, n, nil); !errors.Is(err, errors.ErrRange) {
			t.Errorf("ApplyPrefix(%d) error = %v, want ErrRange", n, err)
		}
	}
}

func TestRemoveLast(t *testing.T) {
	moves := []chess.Move{{SAN: "e4"}, {SAN: "e5"}}

	out, ok := RemoveLast(moves)
	if !ok || len(out) != 1 || out[0].SAN != "e4" {
		t.Fatalf("RemoveLast() = %v, %v", out, ok)
	}
	_ = append(out, chess.Move{SAN: "d5"})
	if moves[1].SAN != "e5" {
		t.Error("appending to RemoveLast() result overwrote the removed move")
	}

	if _, ok := RemoveLast(nil); ok {
		t.Error("RemoveLast(nil) ok = true, want false")
	}
}
