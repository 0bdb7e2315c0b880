package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/engine"
	"github.com/vovakirdan/term-invaders/internal/terminal"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the game",
	Long: `Start the game in the current terminal.

The screen is redrawn at the configured frame rate. Resizing the terminal
takes effect on the next frame; a terminal smaller than 8x8 skips frames
until it grows again (or exits with --panic-on-errors).

Press Ctrl+C to quit.

Examples:
  invaders play
  invaders play --fps 30 --seed 42
  invaders play --panic-on-errors --log-file /tmp/invaders.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	logger.Debug("configuration loaded", "source", source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := engine.Deps{
		Query:   terminal.StdoutSizeQuery(),
		Clearer: terminal.NewClearer(os.Stdout),
		Sink:    terminal.NewLineWriter(os.Stdout),
		Logger:  logger,
	}
	if store := openStore(cfg, logger); store != nil {
		defer store.Close()
		deps.Recorder = store
	}

	terminal.HideCursor(os.Stdout)
	run, err := engine.New(cfg, deps).Run(ctx)
	terminal.ShowCursor(os.Stdout)

	if err != nil {
		logger.Error("fatal tick error", "error", err)
		return fmt.Errorf("invaders: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n%d frames, %d skipped, %.1f fps average over %s\n",
		run.Frames, run.Skipped, run.AvgFPS, run.Duration().Round(time.Millisecond))
	return nil
}
