package board

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

const (
	fileA uint64 = 0x0101010101010101
	fileB uint64 = fileA << 1
	fileG uint64 = fileA << 6
	fileH uint64 = fileA << 7
)

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	// pawnAttacks[c][sq] holds the squares a pawn of color c on sq attacks.
	pawnAttacks [2][64]uint64
)

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << sq

		knightAttacks[sq] = ((bb << 17) &^ fileA) | ((bb << 15) &^ fileH) |
			((bb << 10) &^ (fileA | fileB)) | ((bb << 6) &^ (fileG | fileH)) |
			((bb >> 17) &^ fileH) | ((bb >> 15) &^ fileA) |
			((bb >> 10) &^ (fileG | fileH)) | ((bb >> 6) &^ (fileA | fileB))

		kingAttacks[sq] = (bb << 8) | (bb >> 8) |
			((bb << 1) &^ fileA) | ((bb >> 1) &^ fileH) |
			((bb << 9) &^ fileA) | ((bb << 7) &^ fileH) |
			((bb >> 7) &^ fileA) | ((bb >> 9) &^ fileH)

		pawnAttacks[White][sq] = ((bb << 9) &^ fileA) | ((bb << 7) &^ fileH)
		pawnAttacks[Black][sq] = ((bb >> 7) &^ fileA) | ((bb >> 9) &^ fileH)
	}
}

// AttackersMask returns the squares of c's pieces that attack sq. Pinned
// pieces count; x-ray attackers behind another piece do not.
func (p *Position) AttackersMask(c Color, sq Square) uint64 {
	bb := p.bitboards(c)
	occ := p.Occupied()

	attackers := pawnAttacks[c.Other()][sq] & bb.Pawns
	attackers |= knightAttacks[sq] & bb.Knights
	attackers |= kingAttacks[sq] & bb.Kings
	attackers |= dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ) & (bb.Bishops | bb.Queens)
	attackers |= dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ) & (bb.Rooks | bb.Queens)
	return attackers
}

// Attackers counts c's pieces attacking sq.
func (p *Position) Attackers(c Color, sq Square) int {
	return bits.OnesCount64(p.AttackersMask(c, sq))
}
