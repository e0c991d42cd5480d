package engine

import "github.com/ggoldstein1-star/chess-engine/board"

// historyMaxVal keeps history scores under the killer bonus.
const historyMaxVal = 8000

// HistoryTable scores quiet moves by origin and target square.
type HistoryTable struct {
	scores [64][64]int
}

func (h *HistoryTable) Score(move board.Move) int {
	return h.scores[move.From()][move.To()]
}

// Increment credits a quiet move that caused a beta cutoff at depth.
func (h *HistoryTable) Increment(move board.Move, depth int) {
	h.scores[move.From()][move.To()] += depth * depth
	if h.scores[move.From()][move.To()] >= historyMaxVal {
		h.age()
	}
}

// Age the values in the history table by halving them.
func (h *HistoryTable) age() {
	for sq1 := 0; sq1 < 64; sq1++ {
		for sq2 := 0; sq2 < 64; sq2++ {
			h.scores[sq1][sq2] /= 2
		}
	}
}
