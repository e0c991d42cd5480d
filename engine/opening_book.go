package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ggoldstein1-star/chess-engine/board"
)

var ErrInvalidBookMove = errors.New("opening book: invalid move")

// OpeningBook maps canonical position keys to candidate moves in UCI form.
// The first candidate is the one played.
type OpeningBook struct {
	positions map[string][]string
}

func NewOpeningBook() *OpeningBook {
	return &OpeningBook{positions: make(map[string][]string)}
}

// DefaultOpeningBook seeds the starting position with the four main first moves.
func DefaultOpeningBook() *OpeningBook {
	b := NewOpeningBook()
	for _, m := range []string{"e2e4", "d2d4", "c2c4", "g1f3"} {
		b.Add(board.Startpos, m)
	}
	return b
}

// Lookup returns the first candidate for the position given as a FEN or key.
func (b *OpeningBook) Lookup(fen string) (string, bool) {
	moves := b.positions[board.KeyOf(fen)]
	if len(moves) == 0 {
		return "", false
	}
	return moves[0], true
}

// Moves returns a copy of every candidate for the position.
func (b *OpeningBook) Moves(fen string) []string {
	return slices.Clone(b.positions[board.KeyOf(fen)])
}

// Add appends move to the position's candidates unless it is already there.
func (b *OpeningBook) Add(fen, move string) {
	key := board.KeyOf(fen)
	move = strings.ToLower(strings.TrimSpace(move))
	if slices.Contains(b.positions[key], move) {
		return
	}
	b.positions[key] = append(b.positions[key], move)
}

func (b *OpeningBook) Len() int { return len(b.positions) }

// Keys returns every stored position key, sorted.
func (b *OpeningBook) Keys() []string {
	keys := maps.Keys(b.positions)
	slices.Sort(keys)
	return keys
}

// Probe returns the book move for pos if one is stored and legal there.
func (b *OpeningBook) Probe(pos *board.Position) (board.Move, bool) {
	for _, uci := range b.positions[pos.Key()] {
		if m, err := pos.ParseUCI(uci); err == nil {
			return m, true
		}
	}
	return 0, false
}

// Load replaces the book with the contents of a JSON file. A missing file is
// not an error and leaves the book as it was; so does a file that cannot be
// read or decoded or holds a malformed move, but then the error is returned.
func (b *OpeningBook) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening book: %w", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("opening book %s: %w", path, err)
	}
	loaded := NewOpeningBook()
	keys := maps.Keys(raw)
	slices.Sort(keys)
	for _, key := range keys {
		for _, m := range raw[key] {
			if !board.ValidUCI(strings.ToLower(strings.TrimSpace(m))) {
				return fmt.Errorf("%w: %q for %s in %s", ErrInvalidBookMove, m, key, path)
			}
			loaded.Add(key, m)
		}
	}
	b.positions = loaded.positions
	return nil
}

// Save writes the whole book as indented JSON, creating parent directories.
func (b *OpeningBook) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("opening book: %w", err)
		}
	}
	data, err := json.MarshalIndent(b.positions, "", "  ")
	if err != nil {
		return fmt.Errorf("opening book: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("opening book: %w", err)
	}
	return nil
}
