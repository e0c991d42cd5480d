package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ggoldstein1-star/chess-engine/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	Infinity  = 1000000
	DrawScore = 0

	// How many nodes pass between clock checks.
	timeCheckInterval = 2048
)

var ErrSearchFailed = errors.New("engine: search failed")

// SearchInfo reports a finished iteration of the deepening loop.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
	BestMove board.Move
}

// Engine runs one search at a time. Its cache and move-ordering tables
// persist between searches; use one Engine per concurrent search.
type Engine struct {
	Config SearchConfig

	id      string
	log     zerolog.Logger
	book    *OpeningBook
	onInfo  func(SearchInfo)
	tt      *TransTable
	killers KillerStruct
	history HistoryTable
	timer   TimeHandler

	nodesChecked     uint64
	searchShouldStop bool
	globalStop       atomic.Bool
}

type Option func(*Engine)

func WithConfig(c SearchConfig) Option {
	return func(e *Engine) { e.Config = c }
}

// WithBook replaces the default opening book; nil disables it.
func WithBook(b *OpeningBook) Option {
	return func(e *Engine) { e.book = b }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithInfo registers a callback invoked after every completed depth.
func WithInfo(fn func(SearchInfo)) Option {
	return func(e *Engine) { e.onInfo = fn }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		Config: DefaultConfig(),
		id:     uuid.NewString(),
		log:    zerolog.Nop(),
		book:   DefaultOpeningBook(),
		tt:     NewTransTable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("engine_id", e.id).Logger()
	return e
}

func (e *Engine) ID() string { return e.id }

// Book returns the engine's opening book, which may be nil.
func (e *Engine) Book() *OpeningBook { return e.book }

// Nodes returns the node count of the most recent search.
func (e *Engine) Nodes() uint64 { return e.nodesChecked }

// CacheSize returns the number of positions in the transposition table.
func (e *Engine) CacheSize() int { return e.tt.Len() }

// Stop asks a running search to return its best move so far. Safe to call
// from another goroutine. A Stop that arrives between searches applies to the
// next one, which then returns without searching; the flag is cleared when a
// search returns.
func (e *Engine) Stop() { e.globalStop.Store(true) }

// NewGame clears the transposition table. Killers and history are kept.
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// SetOption changes a search option between searches.
func (e *Engine) SetOption(name, value string) error {
	if err := e.Config.SetOption(name, value); err != nil {
		return err
	}
	e.log.Debug().Str("option", name).Str("value", value).Msg("option set")
	return nil
}

// FindBestMove searches pos for at most 80% of budget and returns the best
// move found. A zero budget uses Config.TimeLimit. ok is false only when the
// side to move has no legal moves. pos is left exactly as it was given.
func (e *Engine) FindBestMove(pos *board.Position, budget time.Duration) (best board.Move, ok bool, err error) {
	defer e.globalStop.Store(false)
	if err := e.Config.Validate(); err != nil {
		return 0, false, err
	}
	limit, err := searchLimit(budget, e.Config.TimeLimit)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", err, budget)
	}

	e.nodesChecked = 0
	e.searchShouldStop = false
	e.timer.StartTime(limit)

	if e.Config.OwnBook && e.book != nil {
		if m, found := e.book.Probe(pos); found {
			e.log.Info().Str("move", board.UCI(m)).Msg("book move")
			return m, true, nil
		}
	}

	moves := pos.LegalMoves()
	switch len(moves) {
	case 0:
		return 0, false, nil
	case 1:
		return moves[0], true, nil
	}

	rootPly := pos.Ply()
	defer func() {
		if r := recover(); r != nil {
			pos.UndoTo(rootPly)
			e.log.Error().Interface("panic", r).Str("fen", pos.FEN()).Msg("search aborted")
			best, ok, err = 0, false, fmt.Errorf("%w: %v", ErrSearchFailed, r)
		}
	}()

	best = e.rootsearch(pos, moves)
	return best, true, nil
}

// outOfTime polls the clock and the external stop flag.
func (e *Engine) outOfTime() bool {
	return e.searchShouldStop || e.globalStop.Load() || e.timer.TimeStatus()
}

/*
	Iterative deepening at the root. Every root move is searched with a full
	window and the strictly greatest score wins, so the first of equal moves in
	ordered sequence is kept. When time runs out inside a depth, the result of
	the last completed depth is returned; the unfinished depth only counts when
	no depth completed at all.
*/
func (e *Engine) rootsearch(pos *board.Position, moves []board.Move) board.Move {
	var bestMove board.Move
	completedDepth := 0

	for depth := 1; depth <= e.Config.MaxDepth; depth++ {
		if e.outOfTime() {
			break
		}

		var depthBest board.Move
		depthScore := -Infinity
		timedOut := false

		for _, move := range e.orderMoves(pos, moves, depth) {
			pos.Apply(move)
			score := -e.alphabeta(pos, depth-1, -Infinity, Infinity)
			pos.Undo()

			// An aborted subtree has no usable score.
			if e.searchShouldStop {
				timedOut = true
				break
			}
			if score > depthScore || depthBest == 0 {
				depthScore = score
				depthBest = move
			}
			if e.outOfTime() {
				timedOut = true
				break
			}
		}

		if timedOut {
			if completedDepth == 0 && depthBest != 0 {
				bestMove = depthBest
			}
			e.log.Debug().Int("depth", depth).Uint64("nodes", e.nodesChecked).Msg("time out inside depth")
			break
		}

		bestMove = depthBest
		completedDepth = depth
		info := SearchInfo{
			Depth:    depth,
			Score:    depthScore,
			Nodes:    e.nodesChecked,
			Elapsed:  e.timer.Elapsed(),
			BestMove: depthBest,
		}
		e.log.Debug().
			Int("depth", info.Depth).
			Int("score", info.Score).
			Uint64("nodes", info.Nodes).
			Dur("elapsed", info.Elapsed).
			Str("best", board.UCI(info.BestMove)).
			Msg("depth complete")
		if e.onInfo != nil {
			e.onInfo(info)
		}
	}

	if bestMove == 0 {
		bestMove = moves[0]
	}
	return bestMove
}

// alphabeta is a fail-soft negamax search. Scores are from the side to move's
// point of view.
func (e *Engine) alphabeta(pos *board.Position, depth, alpha, beta int) int {
	e.nodesChecked++

	if e.nodesChecked%timeCheckInterval == 0 && (e.globalStop.Load() || e.timer.TimeStatus()) {
		e.searchShouldStop = true
	}
	if e.searchShouldStop {
		return EvaluateRelative(pos)
	}

	key := pos.Key()
	if score, ok := e.tt.Probe(key, depth); ok {
		return score
	}

	if depth <= 0 {
		return EvaluateRelative(pos)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -MateScore
		}
		return DrawScore
	}
	if pos.IsAutomaticDraw() {
		return EvaluateRelative(pos)
	}

	bestScore := -Infinity
	for _, move := range e.orderMoves(pos, moves, depth) {
		pos.Apply(move)
		score := -e.alphabeta(pos, depth-1, -beta, -alpha)
		pos.Undo()

		if e.searchShouldStop {
			return Max(bestScore, score)
		}

		bestScore = Max(bestScore, score)
		alpha = Max(alpha, score)
		if alpha >= beta {
			e.killers.InsertKiller(move, depth)
			if e.Config.HistoryOnCutoff && !pos.IsCapture(move) {
				e.history.Increment(move, depth)
			}
			break
		}
	}

	e.tt.Store(key, bestScore, depth)
	return bestScore
}
