// Package scheduler turns wall-clock time into a fixed-rate tick signal.
//
// Elapsed time is summed into an Accumulator; once the sum reaches the
// target frame time a tick fires, carrying the frame rate actually measured
// over that interval. Between ticks the loop sleeps until the next boundary
// instead of spinning.
package scheduler

import (
	"math"
	"time"
)

// UncappedFrameRate is the tick rate used when no frame rate is configured.
// It is a practical ceiling rather than truly unbounded timing.
const UncappedFrameRate = 255

// TargetFrameTime returns the seconds between ticks for a frame rate.
// A rate of zero or less means uncapped.
func TargetFrameTime(rate int) float64 {
	if rate <= 0 {
		rate = UncappedFrameRate
	}
	return 1 / float64(rate)
}

// MeasuredFrameRate converts an accumulated frame time into frames per
// second, rounded to the nearest integer. A non-positive frame time has no
// meaningful rate and yields 0.
func MeasuredFrameRate(elapsed float64) int {
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round(1 / elapsed))
}

// Accumulator sums elapsed seconds until they reach the target frame time.
type Accumulator struct {
	target  float64
	elapsed float64
}

// NewAccumulator creates an accumulator firing every target seconds.
func NewAccumulator(target float64) *Accumulator {
	return &Accumulator{target: target}
}

// Add accumulates seconds. When the total reaches the target it returns the
// measured frame rate and fired=true, and the accumulator resets to zero.
func (a *Accumulator) Add(seconds float64) (fps int, fired bool) {
	a.elapsed += seconds
	if a.elapsed < a.target {
		return 0, false
	}
	fps = MeasuredFrameRate(a.elapsed)
	a.elapsed = 0
	return fps, true
}

// Elapsed returns the seconds accumulated since the last tick.
func (a *Accumulator) Elapsed() float64 {
	return a.elapsed
}

// Target returns the configured frame time in seconds.
func (a *Accumulator) Target() float64 {
	return a.target
}

// Remaining returns how long until the next tick is due, rounded up to the
// next nanosecond so that sleeping for it always reaches the boundary.
func (a *Accumulator) Remaining() time.Duration {
	rem := a.target - a.elapsed
	if rem <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(rem * float64(time.Second)))
}
