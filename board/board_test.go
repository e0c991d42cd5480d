package board_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ggoldstein1-star/chess-engine/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestFromFEN_Invalid(t *testing.T) {
	for _, fen := range []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
	} {
		if _, err := board.FromFEN(fen); !errors.Is(err, board.ErrInvalidFEN) {
			t.Fatalf("FromFEN(%q): got %v, want ErrInvalidFEN", fen, err)
		}
	}
}

func TestFromFEN_AcceptsKey(t *testing.T) {
	p := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	if p.Key() != board.New().Key() {
		t.Fatalf("four-field key should parse to the start position, got %s", p.Key())
	}
}

func TestApplyUndo_RestoresState(t *testing.T) {
	p := mustFEN(t, kiwipete)
	fen, hash := p.FEN(), p.Hash()
	for _, m := range p.LegalMoves() {
		p.Apply(m)
		if p.Ply() != 1 {
			t.Fatalf("Ply after Apply = %d, want 1", p.Ply())
		}
		undone, ok := p.Undo()
		if !ok || undone != m {
			t.Fatalf("Undo returned %v, %v; want %s", undone, ok, board.UCI(m))
		}
		if p.FEN() != fen || p.Hash() != hash {
			t.Fatalf("state not restored after %s: %s", board.UCI(m), p.FEN())
		}
	}
	if _, ok := p.Undo(); ok {
		t.Fatalf("Undo on an empty stack should report false")
	}
}

func TestUndoTo(t *testing.T) {
	p := board.New()
	start := p.FEN()
	if err := p.ApplySAN("e4 c5 Nf3 d6 d4"); err != nil {
		t.Fatalf("ApplySAN: %v", err)
	}
	if p.Ply() != 5 || len(p.Moves()) != 5 {
		t.Fatalf("Ply = %d, want 5", p.Ply())
	}
	p.UndoTo(0)
	if p.FEN() != start {
		t.Fatalf("UndoTo(0) = %s, want %s", p.FEN(), start)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	p := board.New()
	c := p.Clone()
	if err := c.ApplyUCI("e2e4"); err != nil {
		t.Fatalf("ApplyUCI: %v", err)
	}
	if p.FEN() == c.FEN() {
		t.Fatalf("clone shares state with its source")
	}
}

func TestParseUCI(t *testing.T) {
	p := board.New()
	m, err := p.ParseUCI("E2E4")
	if err != nil {
		t.Fatalf("ParseUCI: %v", err)
	}
	if board.UCI(m) != "e2e4" {
		t.Fatalf("UCI round trip = %s", board.UCI(m))
	}
	for _, bad := range []string{"e2e5", "zz", "", "e7e5"} {
		if _, err := p.ParseUCI(bad); !errors.Is(err, board.ErrIllegalMove) {
			t.Fatalf("ParseUCI(%q): got %v, want ErrIllegalMove", bad, err)
		}
	}
}

func TestValidUCI(t *testing.T) {
	for _, s := range []string{"e2e4", "e7e8q", "a7a8n", "h1a8"} {
		if !board.ValidUCI(s) {
			t.Fatalf("ValidUCI(%q) = false", s)
		}
	}
	for _, s := range []string{"", "e2", "e2e9", "i2e4", "e7e8k", "e2e4q1", "Nf3", "0000"} {
		if board.ValidUCI(s) {
			t.Fatalf("ValidUCI(%q) = true", s)
		}
	}
}

func TestPromotionEncoding(t *testing.T) {
	p := mustFEN(t, "8/4P1k1/8/8/8/8/8/4K3 w - - 0 1")
	seen := map[string]bool{}
	for _, m := range p.LegalMoves() {
		if board.Promotion(m) != board.NoPiece {
			seen[board.UCI(m)] = true
		}
	}
	for _, want := range []string{"e7e8q", "e7e8r", "e7e8b", "e7e8n"} {
		if !seen[want] {
			t.Fatalf("missing promotion %s, have %v", want, seen)
		}
	}
	m, err := p.ParseUCI("e7e8q")
	if err != nil {
		t.Fatalf("ParseUCI: %v", err)
	}
	if board.Promotion(m) != board.Queen {
		t.Fatalf("Promotion = %d, want Queen", board.Promotion(m))
	}
}

func TestSAN(t *testing.T) {
	p := board.New()
	m, err := p.ParseSAN("Nf3")
	if err != nil {
		t.Fatalf("ParseSAN: %v", err)
	}
	if board.UCI(m) != "g1f3" {
		t.Fatalf("Nf3 = %s, want g1f3", board.UCI(m))
	}
	e4, _ := p.ParseUCI("e2e4")
	san, err := p.SAN(e4)
	if err != nil || san != "e4" {
		t.Fatalf("SAN(e2e4) = %q, %v", san, err)
	}
	if _, err := p.ParseSAN("Nf6"); !errors.Is(err, board.ErrIllegalMove) {
		t.Fatalf("ParseSAN(Nf6) for White: got %v", err)
	}

	castle := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, err = castle.ParseSAN("O-O")
	if err != nil || board.UCI(m) != "e1g1" {
		t.Fatalf("O-O = %s, %v", board.UCI(m), err)
	}
}

func TestApplySAN_MoveNumbers(t *testing.T) {
	glued := board.New()
	if err := glued.ApplySAN("1.e4 e5 2.Bc4 Nc6 3.Qh5 3...Nf6 4.Qxf7# 1-0"); err != nil {
		t.Fatalf("ApplySAN glued: %v", err)
	}
	spaced := board.New()
	if err := spaced.ApplySAN("1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7#"); err != nil {
		t.Fatalf("ApplySAN spaced: %v", err)
	}
	if glued.FEN() != spaced.FEN() || !glued.IsCheckmate() {
		t.Fatalf("glued %s, spaced %s", glued.FEN(), spaced.FEN())
	}

	for _, c := range []struct {
		tok, san string
		ok       bool
	}{
		{"12.Nf3", "Nf3", true},
		{"12...Nf3", "Nf3", true},
		{"Nf3", "Nf3", true},
		{"12.", "", false},
		{"1/2-1/2", "", false},
		{"*", "", false},
	} {
		san, ok := board.SANToken(c.tok)
		if san != c.san || ok != c.ok {
			t.Fatalf("SANToken(%q) = %q, %v; want %q, %v", c.tok, san, ok, c.san, c.ok)
		}
	}
}

func TestKey_DropsClocksAndIdleEnPassant(t *testing.T) {
	a := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	b := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 7 30")
	if a.Key() != b.Key() {
		t.Fatalf("keys differ only by clocks: %s vs %s", a.Key(), b.Key())
	}
	if len(strings.Fields(a.Key())) != 4 {
		t.Fatalf("key should have four fields: %s", a.Key())
	}

	p := board.New()
	if err := p.ApplyUCI("e2e4"); err != nil {
		t.Fatal(err)
	}
	if f := strings.Fields(p.Key()); f[3] != "-" {
		t.Fatalf("no black pawn can take on e3, key %s", p.Key())
	}

	ep := mustFEN(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if f := strings.Fields(ep.Key()); f[3] != "e3" {
		t.Fatalf("d4xe3 is legal, key should keep e3: %s", ep.Key())
	}
	if board.KeyOf(ep.FEN()) != ep.Key() {
		t.Fatalf("KeyOf disagrees with Key")
	}
}

func TestCapturedPiece(t *testing.T) {
	p := mustFEN(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	ep, err := p.ParseUCI("d4e3")
	if err != nil {
		t.Fatalf("ParseUCI: %v", err)
	}
	if p.CapturedPiece(ep) != board.Pawn || !p.IsCapture(ep) {
		t.Fatalf("en passant should capture a pawn")
	}
	quiet, _ := p.ParseUCI("d4d3")
	if p.IsCapture(quiet) {
		t.Fatalf("d4d3 is not a capture")
	}

	q := mustFEN(t, "4k3/8/8/3q4/4N3/8/8/4K3 w - - 0 1")
	nxd, _ := q.ParseUCI("e4c3")
	if q.IsCapture(nxd) {
		t.Fatalf("Nc3 is quiet")
	}
	if got := q.MovingPiece(nxd); got != board.Knight {
		t.Fatalf("MovingPiece = %d, want Knight", got)
	}
}

func TestGivesCheck(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	check, _ := p.ParseUCI("a1a8")
	quiet, _ := p.ParseUCI("a1a2")
	if !p.GivesCheck(check) || p.GivesCheck(quiet) {
		t.Fatalf("Ra8 checks, Ra2 does not")
	}
	if p.SideToMove() != board.White {
		t.Fatalf("GivesCheck must not change the position")
	}
}

func TestPieceQueries(t *testing.T) {
	p := board.New()
	if got := p.Count(board.Pawn, board.White); got != 8 {
		t.Fatalf("white pawns = %d", got)
	}
	sq, _ := board.ParseSquare("d8")
	pt, c, ok := p.PieceAt(sq)
	if !ok || pt != board.Queen || c != board.Black {
		t.Fatalf("PieceAt(d8) = %d %v %v", pt, c, ok)
	}
	e4, _ := board.ParseSquare("e4")
	if _, _, ok := p.PieceAt(e4); ok {
		t.Fatalf("e4 should be empty")
	}
	kings := p.Pieces(board.King, board.White)
	if len(kings) != 1 || board.SquareName(kings[0]) != "e1" {
		t.Fatalf("white king squares = %v", kings)
	}
}

func TestMirror(t *testing.T) {
	p := board.New()
	m, err := p.Mirror()
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if m.SideToMove() != board.Black {
		t.Fatalf("mirror should hand the move to Black")
	}
	if f := strings.Fields(m.Key()); f[0] != strings.Fields(p.Key())[0] || f[2] != "KQkq" {
		t.Fatalf("start position mirrors onto itself, got %s", m.Key())
	}

	k := mustFEN(t, kiwipete)
	mm, err := k.Mirror()
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	back, err := mm.Mirror()
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if back.FEN() != k.FEN() {
		t.Fatalf("double mirror = %s, want %s", back.FEN(), k.FEN())
	}
	if len(mm.LegalMoves()) != len(k.LegalMoves()) {
		t.Fatalf("mirror changes the move count")
	}
}
