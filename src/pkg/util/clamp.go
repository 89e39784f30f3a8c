package util

import "cmp"

// Clamp limits val to [lo, hi] for any ordered type. If lo > hi, lo wins.
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	if val > hi {
		val = hi
	}
	if val < lo {
		val = lo
	}
	return val
}
