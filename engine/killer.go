package engine

import "github.com/ggoldstein1-star/chess-engine/board"

// KillerStruct keeps the two most recent cutoff moves per remaining search
// depth, most recent first.
type KillerStruct struct {
	KillerMoves [MaxSearchDepth + 1][2]board.Move
}

func (k *KillerStruct) InsertKiller(move board.Move, depth int) {
	if depth < 0 || depth > MaxSearchDepth {
		return
	}
	if move != k.KillerMoves[depth][0] {
		k.KillerMoves[depth][1] = k.KillerMoves[depth][0]
		k.KillerMoves[depth][0] = move
	}
}

// KillerSlot returns 0 or 1 when move is a stored killer at depth.
func (k *KillerStruct) KillerSlot(move board.Move, depth int) (int, bool) {
	if depth < 0 || depth > MaxSearchDepth || move == 0 {
		return 0, false
	}
	for slot, km := range k.KillerMoves[depth] {
		if km == move {
			return slot, true
		}
	}
	return 0, false
}
