package board

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var promotionLetters = [7]string{"", "", "n", "b", "r", "q", ""}

// SquareName returns the algebraic name of sq, e.g. "e4".
func SquareName(sq Square) string {
	return string([]byte{'a' + byte(sq%8), '1' + byte(sq/8)})
}

// ParseSquare converts an algebraic square name into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("board: invalid square %q", s)
	}
	return Square(s[1]-'1')*8 + Square(s[0]-'a'), nil
}

// ValidUCI reports whether s has the shape of a long-algebraic move: two
// squares and an optional promotion letter. Legality is not checked.
func ValidUCI(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if _, err := ParseSquare(s[:2]); err != nil {
		return false
	}
	if _, err := ParseSquare(s[2:4]); err != nil {
		return false
	}
	return len(s) == 4 || strings.ContainsRune("nbrq", rune(s[4]))
}

// UCI returns the canonical long-algebraic encoding of m ("e2e4", "e7e8q").
func UCI(m Move) string {
	if m == 0 {
		return "0000"
	}
	return SquareName(Square(m.From())) + SquareName(Square(m.To())) + promotionLetters[Promotion(m)]
}

// FEN returns the full FEN of the current state.
func (p *Position) FEN() string { return p.b.ToFen() }

// Key returns the canonical position key: piece placement, side to move,
// castling rights and en passant square. Move clocks are left out, so two
// positions differing only in clocks share a key. The en passant square is
// kept only when an en passant capture is actually legal.
func (p *Position) Key() string {
	f := fenFields(p.b.ToFen())
	if len(f) < 4 {
		return strings.Join(f, " ")
	}
	if f[3] != "-" && !p.hasEnPassantCapture(f[3]) {
		f[3] = "-"
	}
	return strings.Join(f[:4], " ")
}

// KeyOf canonicalises a FEN (or an existing key) without building a position
// when it cannot be parsed.
func KeyOf(fen string) string {
	if p, err := FromFEN(fen); err == nil {
		return p.Key()
	}
	f := fenFields(fen)
	if len(f) > 4 {
		f = f[:4]
	}
	return strings.Join(f, " ")
}

func (p *Position) hasEnPassantCapture(ep string) bool {
	target, err := ParseSquare(ep)
	if err != nil {
		return false
	}
	pawns := p.Bitboard(Pawn, p.SideToMove())
	for _, m := range p.LegalMoves() {
		if Square(m.To()) == target && pawns&(uint64(1)<<m.From()) != 0 {
			return true
		}
	}
	return false
}

func fenFields(fen string) []string { return strings.Fields(fen) }

// normalizeFEN pads a four-field key with default move clocks.
func normalizeFEN(fen string) string {
	f := fenFields(fen)
	switch len(f) {
	case 4:
		f = append(f, "0", "1")
	case 5:
		f = append(f, "1")
	}
	return strings.Join(f, " ")
}

func validateFEN(fen string) error {
	if _, err := chess.FEN(fen); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return nil
}

// ParseUCI finds the legal move with the given long-algebraic encoding.
func (p *Position) ParseUCI(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range p.LegalMoves() {
		if UCI(m) == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrIllegalMove, s, p.FEN())
}

// notnil mirrors the position into github.com/notnil/chess, which owns SAN.
func (p *Position) notnil() (*chess.Position, error) {
	opt, err := chess.FEN(p.FEN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return chess.NewGame(opt).Position(), nil
}

func stripAnnotations(san string) string {
	return strings.TrimRight(strings.TrimSpace(san), "+#!?")
}

// ParseSAN resolves a standard algebraic move ("Nf3", "exd5", "O-O", "Qxf7#").
func (p *Position) ParseSAN(san string) (Move, error) {
	pos, err := p.notnil()
	if err != nil {
		return 0, err
	}
	var alg chess.AlgebraicNotation
	var uci chess.UCINotation
	want := stripAnnotations(san)
	for _, mv := range pos.ValidMoves() {
		if stripAnnotations(alg.Encode(pos, mv)) == want {
			return p.ParseUCI(uci.Encode(pos, mv))
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrIllegalMove, san, p.FEN())
}

// SAN renders a legal move in standard algebraic notation.
func (p *Position) SAN(m Move) (string, error) {
	pos, err := p.notnil()
	if err != nil {
		return "", err
	}
	var alg chess.AlgebraicNotation
	var uci chess.UCINotation
	want := UCI(m)
	for _, mv := range pos.ValidMoves() {
		if uci.Encode(pos, mv) == want {
			return alg.Encode(pos, mv), nil
		}
	}
	return "", fmt.Errorf("%w: %q in %s", ErrIllegalMove, want, p.FEN())
}

// ApplyUCI parses and plays a long-algebraic move.
func (p *Position) ApplyUCI(s string) error {
	m, err := p.ParseUCI(s)
	if err != nil {
		return err
	}
	p.Apply(m)
	return nil
}

// ApplySAN parses and plays a sequence of SAN moves. Move numbers, whether
// standalone ("1.", "2...") or glued to the move ("1.e4"), and game results
// are skipped.
func (p *Position) ApplySAN(moves ...string) error {
	for _, tok := range moves {
		for _, field := range strings.Fields(tok) {
			san, ok := SANToken(field)
			if !ok {
				continue
			}
			m, err := p.ParseSAN(san)
			if err != nil {
				return err
			}
			p.Apply(m)
		}
	}
	return nil
}

// SANToken strips a move number prefix from a movetext token. ok is false
// for tokens that carry no move: bare move numbers and game results.
func SANToken(tok string) (san string, ok bool) {
	if i := strings.LastIndex(tok, "."); i >= 0 {
		tok = tok[i+1:]
	}
	switch tok {
	case "", "1-0", "0-1", "1/2-1/2", "*":
		return "", false
	}
	return tok, true
}

// Mirror returns the color-flipped position: ranks reversed, piece colors
// swapped, side to move swapped. The evaluation of the mirror is the negated
// evaluation of p.
func (p *Position) Mirror() (*Position, error) {
	f := fenFields(p.FEN())
	if len(f) < 6 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFEN, p.FEN())
	}
	ranks := strings.Split(f[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	placement := swapCase(strings.Join(ranks, "/"))

	side := "w"
	if f[1] == "w" {
		side = "b"
	}

	castling := ""
	for _, r := range "KQkq" {
		if strings.ContainsRune(swapCase(f[2]), r) {
			castling += string(r)
		}
	}
	if castling == "" {
		castling = "-"
	}

	ep := f[3]
	if ep != "-" && len(ep) == 2 {
		ep = string([]byte{ep[0], '1' + '8' - ep[1]})
	}
	return FromFEN(strings.Join([]string{placement, side, castling, ep, f[4], f[5]}, " "))
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}
