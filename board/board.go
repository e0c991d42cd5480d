// Package board adapts github.com/dylhunn/dragontoothmg to the small rules
// surface the search engine needs: legal moves, apply/undo with a real undo
// stack, terminal-state queries, attacker counts and a canonical position key.
package board

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// Startpos is the standard initial position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Move is the rules engine's 16-bit move encoding.
type Move = dragontoothmg.Move

// Square indexes the board little-endian rank-file: a1 = 0, h1 = 7, a8 = 56.
type Square uint8

type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType shares its numbering with dragontoothmg (Pawn = 1 ... King = 6).
type PieceType uint8

const (
	NoPiece PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceTypes lists the real piece types in ascending order.
var PieceTypes = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

var (
	ErrInvalidFEN  = errors.New("board: invalid FEN")
	ErrIllegalMove = errors.New("board: illegal move")
)

type undoEntry struct {
	move    Move
	unapply func()
}

// Position is a mutable game state. Apply and Undo must be strictly paired;
// Undo restores the exact prior state, including the Zobrist hash.
type Position struct {
	b       dragontoothmg.Board
	stack   []undoEntry
	history []uint64 // hash of every position reached, root included
}

// New returns the starting position.
func New() *Position {
	p, _ := FromFEN(Startpos)
	return p
}

// FromFEN parses a FEN string; a four-field position key is accepted too.
// The string is validated before it reaches dragontoothmg, whose parser
// assumes well-formed input.
func FromFEN(fen string) (p *Position, err error) {
	fen = normalizeFEN(fen)
	if err := validateFEN(fen); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, r)
		}
	}()
	p = &Position{b: dragontoothmg.ParseFen(fen)}
	p.history = append(p.history, p.b.Hash())
	return p, nil
}

// Clone copies the current state. The clone starts with an empty undo stack
// but keeps the repetition history.
func (p *Position) Clone() *Position {
	c := &Position{b: p.b}
	c.history = append(c.history, p.history...)
	return c
}

// Raw exposes the underlying dragontoothmg board (read-only use).

func (p *Position) LegalMoves() []Move { return p.b.GenerateLegalMoves() }

func (p *Position) HasLegalMoves() bool { return len(p.b.GenerateLegalMoves()) > 0 }

// Apply plays a move that must be legal in the position.
func (p *Position) Apply(m Move) {
	unapply := p.b.Apply(m)
	p.stack = append(p.stack, undoEntry{move: m, unapply: unapply})
	p.history = append(p.history, p.b.Hash())
}

// Undo reverts the most recent Apply and returns its move.
func (p *Position) Undo() (Move, bool) {
	if len(p.stack) == 0 {
		return 0, false
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.history = p.history[:len(p.history)-1]
	top.unapply()
	return top.move, true
}

// Ply is the number of moves currently on the undo stack.
func (p *Position) Ply() int { return len(p.stack) }

// UndoTo unwinds the undo stack until Ply() == ply.
func (p *Position) UndoTo(ply int) {
	for len(p.stack) > ply {
		p.Undo()
	}
}

// Moves returns the applied moves, oldest first.
func (p *Position) Moves() []Move {
	out := make([]Move, len(p.stack))
	for i, e := range p.stack {
		out[i] = e.move
	}
	return out
}

func (p *Position) SideToMove() Color {
	if p.b.Wtomove {
		return White
	}
	return Black
}

func (p *Position) Hash() uint64 { return p.b.Hash() }

func (p *Position) HalfmoveClock() int { return int(p.b.Halfmoveclock) }


func (p *Position) InCheck() bool { return p.b.OurKingInCheck() }

// GivesCheck reports whether playing m leaves the opponent in check.
func (p *Position) GivesCheck(m Move) bool {
	unapply := p.b.Apply(m)
	check := p.b.OurKingInCheck()
	unapply()
	return check
}

func (p *Position) bitboards(c Color) *dragontoothmg.Bitboards {
	if c == White {
		return &p.b.White
	}
	return &p.b.Black
}

// Bitboard returns the set of squares holding pieces of the given type and color.
func (p *Position) Bitboard(pt PieceType, c Color) uint64 {
	bb := p.bitboards(c)
	switch pt {
	case Pawn:
		return bb.Pawns
	case Knight:
		return bb.Knights
	case Bishop:
		return bb.Bishops
	case Rook:
		return bb.Rooks
	case Queen:
		return bb.Queens
	case King:
		return bb.Kings
	}
	return 0
}

// Pieces lists the squares holding pieces of the given type and color, ascending.
func (p *Position) Pieces(pt PieceType, c Color) []Square {
	bb := p.Bitboard(pt, c)
	out := make([]Square, 0, bits.OnesCount64(bb))
	for bb != 0 {
		out = append(out, Square(bits.TrailingZeros64(bb)))
		bb &= bb - 1
	}
	return out
}

// Count returns the number of pieces of the given type and color.
func (p *Position) Count(pt PieceType, c Color) int {
	return bits.OnesCount64(p.Bitboard(pt, c))
}

// Occupied returns every occupied square.
func (p *Position) Occupied() uint64 { return p.b.White.All | p.b.Black.All }

// PieceAt returns the piece on sq, if any.
func (p *Position) PieceAt(sq Square) (PieceType, Color, bool) {
	mask := uint64(1) << sq
	for _, c := range [2]Color{White, Black} {
		bb := p.bitboards(c)
		if bb.All&mask == 0 {
			continue
		}
		for _, pt := range PieceTypes {
			if p.Bitboard(pt, c)&mask != 0 {
				return pt, c, true
			}
		}
	}
	return NoPiece, White, false
}

// MovingPiece returns the type of the piece standing on m's origin square.
func (p *Position) MovingPiece(m Move) PieceType {
	pt, _, _ := p.PieceAt(Square(m.From()))
	return pt
}

// IsCapture reports whether m removes an enemy piece, en passant included.
func (p *Position) IsCapture(m Move) bool {
	return p.CapturedPiece(m) != NoPiece
}

// CapturedPiece returns the type of the piece m removes. A pawn moving
// diagonally onto an empty square is an en passant capture of a pawn.
func (p *Position) CapturedPiece(m Move) PieceType {
	to, from := Square(m.To()), Square(m.From())
	them := p.SideToMove().Other()
	if p.bitboards(them).All&(uint64(1)<<to) != 0 {
		pt, _, _ := p.PieceAt(to)
		return pt
	}
	if p.bitboards(p.SideToMove()).Pawns&(uint64(1)<<from) != 0 && from%8 != to%8 {
		return Pawn
	}
	return NoPiece
}

// Promotion returns the piece type m promotes to, or NoPiece.
func Promotion(m Move) PieceType {
	return PieceType(m.Promote())
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.Apply(m)
		nodes += p.Perft(depth - 1)
		p.Undo()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by UCI string.
func (p *Position) PerftDivide(depth int) map[string]uint64 {
	out := make(map[string]uint64)
	for _, m := range p.LegalMoves() {
		p.Apply(m)
		out[UCI(m)] = p.Perft(depth - 1)
		p.Undo()
	}
	return out
}
