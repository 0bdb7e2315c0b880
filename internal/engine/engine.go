// Package engine runs the game: each scheduled tick clears the screen,
// re-evaluates the state against the terminal size and draws a frame.
// Tick errors are either fatal or logged and skipped, depending on
// configuration.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/term-invaders/internal/config"
	"github.com/vovakirdan/term-invaders/internal/game"
	"github.com/vovakirdan/term-invaders/internal/render"
	"github.com/vovakirdan/term-invaders/internal/scheduler"
	"github.com/vovakirdan/term-invaders/internal/storage"
)

// Exit reasons recorded with each run.
const (
	ExitInterrupted = "interrupted"
	ExitFatal       = "fatal"
)

// Clearer wipes the screen before a frame is drawn.
type Clearer interface {
	Clear() error
}

// Sink receives frame lines and pushes them out once per frame.
type Sink interface {
	render.LineSink
	Flush() error
}

// RunRecorder stores a summary of a finished run.
type RunRecorder interface {
	SaveRun(run storage.Run) (int64, error)
}

// Deps are the collaborators an Engine drives.
type Deps struct {
	Query    game.SizeQuery
	Clearer  Clearer
	Sink     Sink
	Clock    scheduler.Clock // nil means the system clock
	Logger   *log.Logger     // nil discards logs
	Recorder RunRecorder     // nil skips run history
}

// Stats counts what happened during a run.
type Stats struct {
	Frames    int   // Ticks that produced a frame
	Skipped   int   // Ticks dropped by an error
	FPSTotal  int   // Sum of measured frame rates over rendered frames
	LastError error // Most recent tick error
}

// AvgFPS returns the mean measured frame rate of rendered frames.
func (s Stats) AvgFPS() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.FPSTotal) / float64(s.Frames)
}

// Engine owns the game state and the per-tick pipeline.
type Engine struct {
	cfg      config.Config
	state    *game.State
	renderer *render.Renderer
	sched    *scheduler.Scheduler
	clock    scheduler.Clock

	query    game.SizeQuery
	clearer  Clearer
	sink     Sink
	logger   *log.Logger
	recorder RunRecorder

	stats Stats
	// streak counts consecutive skipped ticks
	streak int
}

// New creates an engine for cfg. Query, Clearer and Sink are required.
func New(cfg config.Config, deps Deps) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		cfg: cfg,
		state: game.NewState(game.StateOptions{
			StarCount:     cfg.Stars.Count,
			StarGlyphs:    cfg.Stars.Glyphs,
			StarFallTicks: cfg.Stars.FallTicks,
			Seed:          cfg.Seed,
		}),
		renderer: render.New(render.Options{
			LegacyRowWidth: cfg.Render.LegacyRowWidth,
			Color:          cfg.Render.Color,
		}),
		sched:    scheduler.New(cfg.FrameRate, clock),
		clock:    clock,
		query:    deps.Query,
		clearer:  deps.Clearer,
		sink:     deps.Sink,
		logger:   logger,
		recorder: deps.Recorder,
	}
}

// State returns the engine's game state.
func (e *Engine) State() *game.State {
	return e.state
}

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Tick runs one frame with the measured frame rate. It returns an error
// only when the error policy makes it fatal.
func (e *Engine) Tick(fps int) error {
	if err := e.clearer.Clear(); err != nil {
		return e.fail(err)
	}
	if err := e.state.EvaluateState(e.query); err != nil {
		return e.fail(err)
	}
	e.state.Advance()

	if err := e.renderer.Render(e.sink, fps, e.state); err != nil {
		return e.fail(err)
	}
	if err := e.sink.Flush(); err != nil {
		return e.fail(fmt.Errorf("%w: flush: %w", render.ErrOutputFailed, err))
	}

	if e.streak > 0 {
		e.logger.Info("rendering resumed", "skipped", e.streak)
		e.streak = 0
	}
	e.stats.Frames++
	e.stats.FPSTotal += fps
	return nil
}

// fail applies the error policy to a tick error. Only the first tick of
// a skipped streak is logged at warn level so a long outage does not
// flood the terminal the frame is drawn on.
func (e *Engine) fail(err error) error {
	e.stats.Skipped++
	e.stats.LastError = err

	if e.cfg.PanicOnErrors {
		return err
	}
	e.streak++
	if e.streak == 1 {
		e.logger.Warn("tick skipped", "error", err, "skipped", e.stats.Skipped)
	} else {
		e.logger.Debug("tick skipped", "error", err, "streak", e.streak)
	}
	return nil
}

// Run places the initial state and drives ticks until ctx is cancelled
// or a fatal tick error occurs. Cancellation is a normal exit and
// returns nil. The finished run is handed to the recorder, if any.
func (e *Engine) Run(ctx context.Context) (storage.Run, error) {
	started := e.clock.Now()
	e.logger.Info("run started",
		"frame_rate", e.cfg.FrameRate,
		"target", time.Duration(e.sched.TargetFrameTime()*float64(time.Second)),
		"seed", e.state.Seed(),
		"panic_on_errors", e.cfg.PanicOnErrors,
	)

	err := e.state.Init(e.query)
	if err != nil {
		err = e.fail(err)
	}
	if err == nil {
		err = e.sched.Run(ctx, e.Tick)
	}

	reason := ExitFatal
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		reason = ExitInterrupted
		err = nil
	}

	run := e.summary(started, e.clock.Now(), reason)
	e.logger.Info("run finished",
		"reason", reason,
		"frames", run.Frames,
		"skipped", run.Skipped,
		"avg_fps", fmt.Sprintf("%.1f", run.AvgFPS),
	)
	e.record(run)

	return run, err
}

func (e *Engine) summary(started, ended time.Time, reason string) storage.Run {
	run := storage.Run{
		StartedAt:  started,
		EndedAt:    ended,
		FrameRate:  e.cfg.FrameRate,
		Seed:       e.state.Seed(),
		Frames:     e.stats.Frames,
		Skipped:    e.stats.Skipped,
		AvgFPS:     e.stats.AvgFPS(),
		ExitReason: reason,
	}
	if e.stats.LastError != nil {
		run.LastError = e.stats.LastError.Error()
	}
	return run
}

func (e *Engine) record(run storage.Run) {
	if e.recorder == nil {
		return
	}
	if _, err := e.recorder.SaveRun(run); err != nil {
		e.logger.Warn("could not save run", "error", err)
	}
}
