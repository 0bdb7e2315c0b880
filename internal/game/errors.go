package game

import "errors"

// Tick-scoped errors. None of them leave State partially updated.
var (
	// ErrTerminalQueryFailed is returned when the terminal size is unavailable.
	ErrTerminalQueryFailed = errors.New("game: terminal size query failed")

	// ErrTerminalTooSmall is returned when either axis is below the minimum.
	ErrTerminalTooSmall = errors.New("game: terminal too small")
)
