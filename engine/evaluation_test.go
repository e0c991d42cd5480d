package engine

import (
	"testing"

	"github.com/ggoldstein1-star/chess-engine/board"
)

func mustPosition(t testing.TB, fen string) *board.Position {
	t.Helper()
	p, err := board.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return p
}

var symmetryFENs = []string{
	board.Startpos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4",
	"rnbqkbnr/ppp1pppp/8/3P4/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10",
	"4k3/4r3/8/8/8/8/8/4K3 w - - 0 1",
}

func TestEvaluate_ColorSymmetry(t *testing.T) {
	for _, fen := range symmetryFENs {
		p := mustPosition(t, fen)
		m, err := p.Mirror()
		if err != nil {
			t.Fatalf("Mirror(%s): %v", fen, err)
		}
		if a, b := Evaluate(p), Evaluate(m); a != -b {
			t.Fatalf("%s: eval %d, mirrored %d\n%s---\n%s", fen, a, b, Breakdown(p), Breakdown(m))
		}
		if EvaluateRelative(p) != EvaluateRelative(m) {
			t.Fatalf("%s: relative eval differs from its mirror", fen)
		}
	}
}

func TestEvaluate_StartIsBalanced(t *testing.T) {
	if got := Evaluate(board.New()); got != 0 {
		t.Fatalf("start position eval = %d, want 0", got)
	}
}

func TestEvaluate_Checkmate(t *testing.T) {
	p := mustPosition(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if got := Evaluate(p); got != -MateScore {
		t.Fatalf("white mated: eval %d, want %d", got, -MateScore)
	}
	if got := EvaluateRelative(p); got != -MateScore {
		t.Fatalf("side to move mated: relative eval %d, want %d", got, -MateScore)
	}
}

func TestEvaluate_ScholarsMate(t *testing.T) {
	p := board.New()
	if err := p.ApplySAN("1.e4 e5 2.Bc4 Nc6 3.Qh5 Nf6 4.Qxf7#"); err != nil {
		t.Fatalf("ApplySAN: %v", err)
	}
	if !p.IsCheckmate() {
		t.Fatalf("expected checkmate")
	}
	if got := Evaluate(p); got != MateScore {
		t.Fatalf("eval = %d, want %d", got, MateScore)
	}
}

func TestEvaluate_Stalemate(t *testing.T) {
	p := mustPosition(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := Evaluate(p); got != 0 {
		t.Fatalf("stalemate eval = %d, want 0", got)
	}
}

func TestEvaluate_PawnUp(t *testing.T) {
	p := board.New()
	if err := p.ApplySAN("1.e4 d5 2.exd5"); err != nil {
		t.Fatalf("ApplySAN: %v", err)
	}
	if got := Evaluate(p); got <= 0 {
		t.Fatalf("white is a pawn up, eval = %d\n%s", got, Breakdown(p))
	}
	if got := EvaluateRelative(p); got >= 0 {
		t.Fatalf("black to move and a pawn down, relative eval = %d", got)
	}
}

func TestBreakdown_CheckPenalty(t *testing.T) {
	// White king on e1 checked by the e8 rook
	p := mustPosition(t, "k3r3/8/8/8/8/8/8/4K3 w - - 0 1")
	if got := Breakdown(p).Check; got != -CheckPenalty {
		t.Fatalf("check term = %d, want %d", got, -CheckPenalty)
	}
	m, _ := p.Mirror()
	if got := Breakdown(m).Check; got != CheckPenalty {
		t.Fatalf("mirrored check term = %d, want %d", got, CheckPenalty)
	}
}

func TestBreakdown_HangingPiece(t *testing.T) {
	// The d5 queen is attacked by the d1 rook and has no defender; the rook
	// is defended by its king.
	p := mustPosition(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")
	if got := Breakdown(p).Threats; got != PieceValue[board.Queen]/2 {
		t.Fatalf("threat term = %d, want %d", got, PieceValue[board.Queen]/2)
	}
}

func TestBreakdown_Terms(t *testing.T) {
	e := Breakdown(board.New())
	if e.Terminal || e.Material != 0 || e.KingSafety != 0 || e.PawnStructure != 0 {
		t.Fatalf("unexpected start breakdown:\n%s", e)
	}

	p := mustPosition(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if got := Breakdown(p).PawnStructure; got != 0 {
		t.Fatalf("unmoved pawn scores %d", got)
	}
	p = mustPosition(t, "4k3/8/4P3/8/8/8/8/4K3 w - - 0 1")
	if got := Breakdown(p).PawnStructure; got != 4*pawnAdvanceBonus {
		t.Fatalf("pawn on e6 scores %d, want %d", got, 4*pawnAdvanceBonus)
	}
}

func TestIsEndgame(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{board.Startpos, false},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", true},
		{"r3k3/8/8/8/8/8/8/R3K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/3QK3 w - - 0 1", false},
		{"4k3/pppp4/8/8/8/8/PPPP4/4K3 w - - 0 1", true},
	}
	for _, c := range cases {
		if got := IsEndgame(mustPosition(t, c.fen)); got != c.want {
			t.Fatalf("%s: IsEndgame = %v, want %v", c.fen, got, c.want)
		}
	}
}

func TestEvaluate_PieceSquareOrientation(t *testing.T) {
	// Tables are read with a1 = 0 for White: a pawn on its home rank takes the
	// table's second row.
	p := mustPosition(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if got := Breakdown(p).Positional; got != 50 {
		t.Fatalf("e2 pawn positional = %d, want 50\n%s", got, Breakdown(p))
	}
	if got := Evaluate(p); got != 150 {
		t.Fatalf("eval = %d, want 150", got)
	}

	p = mustPosition(t, "4k3/4p3/8/8/8/8/8/4K3 b - - 0 1")
	if got := Evaluate(p); got != -150 {
		t.Fatalf("black e7 pawn eval = %d, want -150", got)
	}
}
