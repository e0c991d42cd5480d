package engine

// Flags
const (
	AlphaFlag = iota
	BetaFlag
	ExactFlag
)

// TTEntry is a cached search result. Every stored score is treated as exact,
// including values that came out of a cutoff.
type TTEntry struct {
	Score int
	Depth int
	Flag  int
}

// TransTable maps canonical position keys to search results. It grows without
// bound for the lifetime of a game.
type TransTable struct {
	entries map[string]TTEntry
	probes  uint64
	hits    uint64
}

func NewTransTable() *TransTable {
	return &TransTable{entries: make(map[string]TTEntry)}
}

// Probe returns the cached score when the entry was searched at least as deep
// as depth.
func (TT *TransTable) Probe(key string, depth int) (int, bool) {
	TT.probes++
	entry, ok := TT.entries[key]
	if !ok || entry.Depth < depth {
		return 0, false
	}
	TT.hits++
	return entry.Score, true
}

// Store records score for key, replacing any previous entry.
func (TT *TransTable) Store(key string, score, depth int) {
	TT.entries[key] = TTEntry{Score: score, Depth: depth, Flag: ExactFlag}
}

func (TT *TransTable) Len() int { return len(TT.entries) }

// Stats returns the probe and hit counters since the last Clear.
func (TT *TransTable) Stats() (probes, hits uint64) { return TT.probes, TT.hits }

func (TT *TransTable) Clear() {
	TT.entries = make(map[string]TTEntry)
	TT.probes, TT.hits = 0, 0
}
