package scheduler

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock: Sleep advances time instantly.
type mockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
	slept  time.Duration
}

func newMockClock(start time.Time) *mockClock {
	return &mockClock{now: start}
}

func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockClock) Sleep(_ context.Context, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleeps++
	m.slept += d
	m.now = m.now.Add(d)
}

func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

var errStop = errors.New("stop")

func TestTargetFrameTime(t *testing.T) {
	tests := []struct {
		rate     int
		expected float64
	}{
		{8, 0.125},
		{60, 1.0 / 60},
		{1, 1},
		{0, 1.0 / 255},
		{-5, 1.0 / 255},
	}

	for _, tc := range tests {
		if got := TargetFrameTime(tc.rate); math.Abs(got-tc.expected) > 1e-12 {
			t.Errorf("TargetFrameTime(%d) = %v, expected %v", tc.rate, got, tc.expected)
		}
	}
}

func TestMeasuredFrameRate(t *testing.T) {
	tests := []struct {
		elapsed  float64
		expected int
	}{
		{0.13, 8},
		{0.125, 8},
		{1.0 / 60, 60},
		{0.5, 2},
		{0, 0},
		{-1, 0},
	}

	for _, tc := range tests {
		if got := MeasuredFrameRate(tc.elapsed); got != tc.expected {
			t.Errorf("MeasuredFrameRate(%v) = %d, expected %d", tc.elapsed, got, tc.expected)
		}
	}
}

func TestAccumulatorFiresAtTarget(t *testing.T) {
	acc := NewAccumulator(TargetFrameTime(8))

	if _, fired := acc.Add(0.1); fired {
		t.Fatal("Add(0.1) fired below 0.125 target")
	}
	if got := acc.Elapsed(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("Elapsed() = %v, expected 0.1", got)
	}

	fps, fired := acc.Add(0.03)
	if !fired {
		t.Fatal("Add(0.03) should fire at 0.13 accumulated")
	}
	if fps != 8 {
		t.Errorf("measured fps = %d, expected 8", fps)
	}
	if acc.Elapsed() != 0 {
		t.Errorf("Elapsed() after firing = %v, expected 0", acc.Elapsed())
	}
}

func TestAccumulatorExactBoundaryFires(t *testing.T) {
	acc := NewAccumulator(0.125)
	if fps, fired := acc.Add(0.125); !fired || fps != 8 {
		t.Errorf("Add(0.125) = (%d, %v), expected (8, true)", fps, fired)
	}
}

func TestAccumulatorRemaining(t *testing.T) {
	acc := NewAccumulator(TargetFrameTime(3))
	acc.Add(0)

	rem := acc.Remaining()
	if rem < 333333333*time.Nanosecond || rem > 333333334*time.Nanosecond {
		t.Errorf("Remaining() = %v, expected ~333.333334ms", rem)
	}

	// Sleeping exactly Remaining always reaches the boundary
	if _, fired := acc.Add(rem.Seconds()); !fired {
		t.Error("Adding Remaining() should fire the tick")
	}
	if acc.Remaining() != fullFrame3() {
		t.Errorf("Remaining() after reset = %v", acc.Remaining())
	}
}

// fullFrame3 is the rounded-up duration of one 3 fps frame.
func fullFrame3() time.Duration {
	return time.Duration(math.Ceil(TargetFrameTime(3) * float64(time.Second)))
}

func TestSchedulerTickCadence(t *testing.T) {
	start := time.Unix(1000, 0)
	clock := newMockClock(start)
	s := New(8, clock)

	var starts []time.Time
	var rates []int
	err := s.Run(context.Background(), func(fps int) error {
		starts = append(starts, clock.Now())
		rates = append(rates, fps)
		clock.Advance(50 * time.Millisecond) // simulated work inside the tick
		if len(starts) == 5 {
			return errStop
		}
		return nil
	})

	if !errors.Is(err, errStop) {
		t.Fatalf("Run() error = %v, expected errStop", err)
	}
	if len(starts) != 5 {
		t.Fatalf("ran %d ticks, expected 5", len(starts))
	}

	for i, ts := range starts {
		expected := start.Add(time.Duration(i+1) * 125 * time.Millisecond)
		if diff := ts.Sub(expected); diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("tick %d started at +%v, expected +%v", i, ts.Sub(start), expected.Sub(start))
		}
		if rates[i] != 8 {
			t.Errorf("tick %d measured fps = %d, expected 8", i, rates[i])
		}
	}
}

func TestSchedulerSlowTickLowersMeasuredRate(t *testing.T) {
	clock := newMockClock(time.Unix(0, 0))
	s := New(8, clock)

	var rates []int
	err := s.Run(context.Background(), func(fps int) error {
		rates = append(rates, fps)
		clock.Advance(250 * time.Millisecond) // overruns the 125ms budget
		if len(rates) == 3 {
			return errStop
		}
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("Run() error = %v, expected errStop", err)
	}

	if rates[0] != 8 {
		t.Errorf("first tick fps = %d, expected 8", rates[0])
	}
	for i := 1; i < len(rates); i++ {
		if rates[i] != 4 {
			t.Errorf("tick %d fps = %d, expected 4 after a 250ms tick", i, rates[i])
		}
	}
}

func TestSchedulerUncapped(t *testing.T) {
	clock := newMockClock(time.Unix(0, 0))
	s := New(0, clock)

	if math.Abs(s.TargetFrameTime()-1.0/255) > 1e-12 {
		t.Errorf("TargetFrameTime() = %v, expected 1/255", s.TargetFrameTime())
	}

	var fps int
	err := s.Run(context.Background(), func(measured int) error {
		fps = measured
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("Run() error = %v, expected errStop", err)
	}
	if fps != 255 {
		t.Errorf("uncapped fps = %d, expected 255", fps)
	}
}

func TestSchedulerSleepsInsteadOfSpinning(t *testing.T) {
	clock := newMockClock(time.Unix(0, 0))
	s := New(10, clock)

	ticks := 0
	_ = s.Run(context.Background(), func(int) error {
		ticks++
		if ticks == 10 {
			return errStop
		}
		return nil
	})

	// One sleep per frame: the loop never polls more than once per boundary
	if clock.sleeps != 10 {
		t.Errorf("slept %d times for 10 ticks, expected 10", clock.sleeps)
	}
	if clock.slept < 999*time.Millisecond || clock.slept > 1001*time.Millisecond {
		t.Errorf("total sleep = %v, expected ~1s", clock.slept)
	}
}

func TestSchedulerContextCancel(t *testing.T) {
	clock := newMockClock(time.Unix(0, 0))
	s := New(8, clock)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	err := s.Run(ctx, func(int) error {
		ticks++
		if ticks == 2 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	if ticks != 2 {
		t.Errorf("ran %d ticks after cancel, expected 2", ticks)
	}
}

func TestSystemClockSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	SystemClock{}.Sleep(ctx, time.Minute)
	if time.Since(start) > time.Second {
		t.Error("Sleep should return promptly when ctx is already done")
	}
}
