package board

import "math/bits"

const (
	// Automatic draw thresholds (FIDE 9.6): 75 moves without capture or
	// pawn move, or the same position five times.
	seventyFiveMoveLimit = 150
	fivefoldLimit        = 5

	darkSquares uint64 = 0xAA55AA55AA55AA55
)

func (p *Position) IsCheckmate() bool { return p.InCheck() && !p.HasLegalMoves() }

func (p *Position) IsStalemate() bool { return !p.InCheck() && !p.HasLegalMoves() }

// IsGameOver reports checkmate, stalemate and the automatic draws: insufficient
// material, the 75-move rule and fivefold repetition.
func (p *Position) IsGameOver() bool {
	return !p.HasLegalMoves() || p.IsAutomaticDraw()
}

// IsAutomaticDraw reports the draws that end the game without a claim.
func (p *Position) IsAutomaticDraw() bool {
	return p.IsInsufficientMaterial() || p.HalfmoveClock() >= seventyFiveMoveLimit || p.Repetitions() >= fivefoldLimit
}

// Repetitions counts how often the current position has occurred, itself included.
func (p *Position) Repetitions() int {
	h := p.b.Hash()
	n := 0
	for _, past := range p.history {
		if past == h {
			n++
		}
	}
	return n
}

// IsInsufficientMaterial reports positions where neither side can mate: bare
// kings, a single minor piece, or bishops that all stand on one square color.
func (p *Position) IsInsufficientMaterial() bool {
	w, b := &p.b.White, &p.b.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	knights := w.Knights | b.Knights
	bishops := w.Bishops | b.Bishops
	if knights == 0 {
		return bishops&darkSquares == 0 || bishops&^darkSquares == 0
	}
	return bishops == 0 && bits.OnesCount64(knights) == 1
}

// Castling is a set of castling-right flags.
type Castling uint8

const (
	WhiteKingside Castling = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

func (c Castling) Has(f Castling) bool { return c&f != 0 }

// CastlingRights returns the castling rights still available. dragontoothmg
// keeps them private, so they are read back from its FEN serialisation.
func (p *Position) CastlingRights() Castling {
	fields := fenFields(p.b.ToFen())
	if len(fields) < 3 {
		return 0
	}
	var c Castling
	for _, r := range fields[2] {
		switch r {
		case 'K':
			c |= WhiteKingside
		case 'Q':
			c |= WhiteQueenside
		case 'k':
			c |= BlackKingside
		case 'q':
			c |= BlackQueenside
		}
	}
	return c
}
