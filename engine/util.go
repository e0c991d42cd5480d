package engine

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller of x or y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x or y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts f to [low, high]. When the bounds cross, low wins.
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f > high {
		f = high
	}
	if f < low {
		return low
	}
	return f
}

// bitScan returns the index of the least significant set bit.
func bitScan(bb uint64) int {
	return bits.TrailingZeros64(bb)
}
