package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxSearchDepth bounds MaxDepth and sizes the killer table.
const MaxSearchDepth = 64

var (
	ErrInvalidConfig     = errors.New("engine: invalid config")
	ErrInvalidTimeBudget = errors.New("engine: time budget must not be negative")
	ErrUnknownOption     = errors.New("engine: unknown option")
)

// SearchConfig holds the tunable search limits. It may be changed between
// searches, never during one.
type SearchConfig struct {
	MaxDepth  int
	TimeLimit time.Duration

	// HistoryOnCutoff credits quiet moves that cause a beta cutoff in the
	// history table. With it off the table is only ever read.
	HistoryOnCutoff bool
	// OwnBook enables the opening book fast path.
	OwnBook bool
}

func DefaultConfig() SearchConfig {
	return SearchConfig{
		MaxDepth:        4,
		TimeLimit:       2 * time.Second,
		HistoryOnCutoff: true,
		OwnBook:         true,
	}
}

func (c SearchConfig) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > MaxSearchDepth {
		return fmt.Errorf("%w: max depth %d outside [1, %d]", ErrInvalidConfig, c.MaxDepth, MaxSearchDepth)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("%w: time limit %v must be positive", ErrInvalidConfig, c.TimeLimit)
	}
	return nil
}

// SetOption applies a named option the way a protocol front-end passes them
// ("setoption name MaxDepth value 6"). Names are case-insensitive; TimeLimit
// is given in milliseconds.
func (c *SearchConfig) SetOption(name, value string) error {
	next := *c
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "maxdepth", "depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, name, value, err)
		}
		next.MaxDepth = n
	case "timelimit", "movetime":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, name, value, err)
		}
		next.TimeLimit = time.Duration(ms) * time.Millisecond
	case "historyoncutoff":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, name, value, err)
		}
		next.HistoryOnCutoff = b
	case "ownbook":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, name, value, err)
		}
		next.OwnBook = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
