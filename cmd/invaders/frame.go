package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/game"
	"github.com/vovakirdan/term-invaders/internal/render"
	"github.com/vovakirdan/term-invaders/internal/scheduler"
	"github.com/vovakirdan/term-invaders/internal/terminal"
)

var (
	flagRows  int
	flagCols  int
	flagTicks int
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Render one frame for a fixed size",
	Long: `Render a single frame for the given grid size to stdout and exit.
The frame rate shown in the status line is the configured target.

Examples:
  invaders frame --rows 12 --cols 40
  invaders frame --rows 24 --cols 80 --ticks 5 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runFrame,
}

func init() {
	frameCmd.Flags().IntVar(&flagRows, "rows", 24, "Grid rows")
	frameCmd.Flags().IntVar(&flagCols, "cols", 80, "Grid columns")
	frameCmd.Flags().IntVar(&flagTicks, "ticks", 0, "Ticks to advance before rendering")
}

func runFrame(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := game.NewState(game.StateOptions{
		StarCount:     cfg.Stars.Count,
		StarGlyphs:    cfg.Stars.Glyphs,
		StarFallTicks: cfg.Stars.FallTicks,
		Seed:          cfg.Seed,
	})
	query := func() (game.Dimensions, bool) {
		return game.Dimensions{Rows: flagRows, Cols: flagCols}, true
	}
	if err := st.Init(query); err != nil {
		return err
	}
	for i := 0; i < flagTicks; i++ {
		st.Advance()
	}

	fps := cfg.FrameRate
	if fps == 0 {
		fps = scheduler.UncappedFrameRate
	}

	r := render.New(render.Options{
		LegacyRowWidth: cfg.Render.LegacyRowWidth,
		Color:          cfg.Render.Color && terminal.IsTerminal(int(os.Stdout.Fd())),
	})
	out := terminal.NewLineWriter(os.Stdout)
	if err := r.Render(out, fps, st); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("%w: %w", render.ErrOutputFailed, err)
	}
	return nil
}
