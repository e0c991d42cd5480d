package engine

import (
	"time"
)

const (
	// The search allows itself four fifths of the caller's budget.
	budgetNum, budgetDen = 4, 5
	minTimeLimit         = time.Millisecond
)

type TimeHandler struct {
	start      time.Time
	limit      time.Duration
	stopSearch bool
}

// searchLimit converts a caller budget into the limit for one search. A zero
// budget falls back to the configured limit.
func searchLimit(budget, configured time.Duration) (time.Duration, error) {
	if budget < 0 {
		return 0, ErrInvalidTimeBudget
	}
	limit := configured
	if budget > 0 {
		limit = budget * budgetNum / budgetDen
	}
	return Max(limit, minTimeLimit), nil
}

func (th *TimeHandler) StartTime(limit time.Duration) {
	th.start = time.Now()
	th.limit = limit
	th.stopSearch = false
}

func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.start)
}

// TimeStatus is true once the limit has passed. It stays true until the
// next StartTime.
func (th *TimeHandler) TimeStatus() bool {
	if !th.stopSearch && th.Elapsed() > th.limit {
		th.stopSearch = true
	}
	return th.stopSearch
}

// ClockBudget splits a game clock into a budget for one move: a fortieth of
// the remaining time plus most of the increment, never more than 70% of what
// is left.
func ClockBudget(remaining, increment time.Duration) time.Duration {
	const (
		overhead  = 30 * time.Millisecond
		minMove   = 5 * time.Millisecond
		panicTime = time.Second
	)
	var moveTime time.Duration
	switch {
	case increment > 0 && remaining < panicTime:
		moveTime = increment * 9 / 10
	case increment > 0:
		moveTime = remaining/40 + increment
	default:
		moveTime = remaining / 40
	}
	return Clamp(moveTime, minMove, Min(remaining*7/10, remaining-overhead))
}
