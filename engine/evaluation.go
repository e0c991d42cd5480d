package engine

import (
	"fmt"
	"strings"

	"github.com/ggoldstein1-star/chess-engine/board"
)

const (
	// MateScore is the terminal score of a checkmated position. It carries no
	// distance to mate.
	MateScore = 100000
	// CheckPenalty is charged against the side to move while it is in check.
	CheckPenalty = 200
)

// EvalBreakdown holds each evaluation term, White-positive.
type EvalBreakdown struct {
	Terminal      bool // checkmate or stalemate; only Mate is meaningful
	Mate          int
	Check         int
	Material      int
	Positional    int
	KingSafety    int
	PawnStructure int
	Threats       int
	Endgame       bool
}

// Total sums the terms. Nothing is clamped.
func (e EvalBreakdown) Total() int {
	if e.Terminal {
		return e.Mate
	}
	return e.Check + e.Material + e.Positional + e.KingSafety + e.PawnStructure + e.Threats
}

func (e EvalBreakdown) String() string {
	var sb strings.Builder
	if e.Terminal {
		fmt.Fprintf(&sb, "Terminal: %d\n", e.Mate)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Check: %d\n", e.Check)
	fmt.Fprintf(&sb, "Material: %d\n", e.Material)
	fmt.Fprintf(&sb, "Positional: %d (endgame=%v)\n", e.Positional, e.Endgame)
	fmt.Fprintf(&sb, "King safety: %d\n", e.KingSafety)
	fmt.Fprintf(&sb, "Pawn structure: %d\n", e.PawnStructure)
	fmt.Fprintf(&sb, "Threats: %d\n", e.Threats)
	fmt.Fprintf(&sb, "Final score: %d\n", e.Total())
	return sb.String()
}

// Evaluate scores pos in centipawns from White's point of view.
func Evaluate(pos *board.Position) int {
	return Breakdown(pos).Total()
}

// EvaluateRelative scores pos from the side to move's point of view, which is
// what a negamax search expects at its leaves.
func EvaluateRelative(pos *board.Position) int {
	score := Evaluate(pos)
	if pos.SideToMove() == board.Black {
		return -score
	}
	return score
}

// Breakdown computes every evaluation term of pos.
func Breakdown(pos *board.Position) (e EvalBreakdown) {
	if !pos.HasLegalMoves() {
		e.Terminal = true
		if pos.InCheck() {
			e.Mate = -MateScore
			if pos.SideToMove() == board.Black {
				e.Mate = MateScore
			}
		}
		return e
	}

	if pos.InCheck() {
		e.Check = -CheckPenalty
		if pos.SideToMove() == board.Black {
			e.Check = CheckPenalty
		}
	}

	e.Endgame = IsEndgame(pos)
	e.Material = materialBalance(pos)
	e.Positional = pieceSquareBalance(pos, e.Endgame)
	e.KingSafety = castlingRightsBonus(pos.CastlingRights())
	e.PawnStructure = pawnAdvancement(pos)
	e.Threats = hangingPieces(pos)
	return e
}

// IsEndgame reports positions without queens and with at most one rook left.
func IsEndgame(pos *board.Position) bool {
	queens := pos.Count(board.Queen, board.White) + pos.Count(board.Queen, board.Black)
	rooks := pos.Count(board.Rook, board.White) + pos.Count(board.Rook, board.Black)
	return queens == 0 && rooks <= 1
}

func materialBalance(pos *board.Position) (score int) {
	for _, pt := range board.PieceTypes {
		score += PieceValue[pt] * (pos.Count(pt, board.White) - pos.Count(pt, board.Black))
	}
	return score
}

func pieceSquareBalance(pos *board.Position, endgame bool) (score int) {
	for _, pt := range board.PieceTypes {
		for _, sq := range pos.Pieces(pt, board.White) {
			score += pstValue(pt, board.White, sq, endgame)
		}
		for _, sq := range pos.Pieces(pt, board.Black) {
			score -= pstValue(pt, board.Black, sq, endgame)
		}
	}
	return score
}

func castlingRightsBonus(c board.Castling) (score int) {
	if c.Has(board.WhiteKingside) {
		score += kingsideCastleBonus
	}
	if c.Has(board.WhiteQueenside) {
		score += queensideCastleBonus
	}
	if c.Has(board.BlackKingside) {
		score -= kingsideCastleBonus
	}
	if c.Has(board.BlackQueenside) {
		score -= queensideCastleBonus
	}
	return score
}

// pawnAdvancement rewards each pawn per rank travelled from its starting rank.
func pawnAdvancement(pos *board.Position) (score int) {
	for _, sq := range pos.Pieces(board.Pawn, board.White) {
		score += (int(sq/8) - 1) * pawnAdvanceBonus
	}
	for _, sq := range pos.Pieces(board.Pawn, board.Black) {
		score -= (6 - int(sq/8)) * pawnAdvanceBonus
	}
	return score
}

// hangingPieces credits half a piece's value to the opponent when the piece
// is attacked and has no defender.
func hangingPieces(pos *board.Position) (score int) {
	occ := pos.Occupied()
	for occ != 0 {
		sq := board.Square(bitScan(occ))
		occ &= occ - 1

		pt, c, _ := pos.PieceAt(sq)
		if pos.Attackers(c.Other(), sq) == 0 || pos.Attackers(c, sq) > 0 {
			continue
		}
		if c == board.White {
			score -= PieceValue[pt] / 2
		} else {
			score += PieceValue[pt] / 2
		}
	}
	return score
}
