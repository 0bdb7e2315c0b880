package scheduler

import (
	"context"
)

// TickFunc runs one tick with the frame rate measured since the previous
// tick. A returned error stops the scheduler.
type TickFunc func(measuredFPS int) error

// Scheduler drives ticks at a fixed target rate.
type Scheduler struct {
	clock Clock
	acc   *Accumulator
}

// New creates a scheduler for the given frame rate (0 = uncapped).
// A nil clock means the system clock.
func New(frameRate int, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock: clock,
		acc:   NewAccumulator(TargetFrameTime(frameRate)),
	}
}

// TargetFrameTime returns the seconds between ticks.
func (s *Scheduler) TargetFrameTime() float64 {
	return s.acc.Target()
}

// Run loops until ctx is cancelled or tick returns an error.
//
// Each iteration measures the time since the previous reference point and
// takes a new reference immediately, so no interval is counted twice. When
// the accumulator fires, a fresh reference is taken before calling tick;
// time spent inside tick therefore counts toward the next frame.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	ref := s.clock.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := s.clock.Now()
		fps, fired := s.acc.Add(now.Sub(ref).Seconds())
		ref = now

		if !fired {
			s.clock.Sleep(ctx, s.acc.Remaining())
			continue
		}

		ref = s.clock.Now()
		if err := tick(fps); err != nil {
			return err
		}
	}
}
