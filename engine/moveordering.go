package engine

import (
	"sort"

	"github.com/ggoldstein1-star/chess-engine/board"
)

type move struct {
	move  board.Move
	score int
}
type moveList struct {
	moves []move
}

/*
	Move ordering offsets:
	- Captures come first, most valuable victim by least valuable attacker.
	- Killers from the same remaining depth follow, the newer one first.
	- History scores are capped below the killer offset.
	- A move that gives check gets a small push on top of whatever it has.
*/
const (
	captureOffset = 10000
	killerOffset  = 9000
	killerSlotGap = 100
	checkBonus    = 1000
)

// scoreMove rates a single move for ordering at the given remaining depth.
func (e *Engine) scoreMove(pos *board.Position, m board.Move, depth int) (score int) {
	if victim := pos.CapturedPiece(m); victim != board.NoPiece {
		score += captureOffset + PieceValue[victim] - PieceValue[pos.MovingPiece(m)]
	}
	if slot, ok := e.killers.KillerSlot(m, depth); ok {
		score += killerOffset - killerSlotGap*slot
	}
	score += e.history.Score(m)
	if pos.GivesCheck(m) {
		score += checkBonus
	}
	return score
}

func (e *Engine) scoreMovesList(pos *board.Position, moves []board.Move, depth int) moveList {
	list := moveList{moves: make([]move, len(moves))}
	for i, m := range moves {
		list.moves[i] = move{move: m, score: e.scoreMove(pos, m, depth)}
	}
	return list
}

// orderMoves returns moves sorted by descending score. Equal scores keep
// their generation order.
func (e *Engine) orderMoves(pos *board.Position, moves []board.Move, depth int) []board.Move {
	list := e.scoreMovesList(pos, moves, depth)
	sort.SliceStable(list.moves, func(i, j int) bool {
		return list.moves[i].score > list.moves[j].score
	})
	ordered := make([]board.Move, len(list.moves))
	for i, m := range list.moves {
		ordered[i] = m.move
	}
	return ordered
}

// OrderMoves exposes the engine's move ordering for diagnostics. The result is
// a permutation of moves.
func (e *Engine) OrderMoves(pos *board.Position, moves []board.Move, depth int) []board.Move {
	return e.orderMoves(pos, moves, depth)
}
