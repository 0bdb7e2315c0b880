// Package core provides the terminal-agnostic building blocks of the engine:
// a rune grid for composing frames, fixed-width text layout helpers, and a
// few integer utilities. It has no external dependencies so everything here
// stays pure and testable.
package core

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
