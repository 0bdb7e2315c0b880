// invaders is a fixed-timestep space shooter rendered as text in the terminal.
//
// Usage:
//
//	invaders                 - Play (same as "invaders play")
//	invaders play            - Play
//	invaders frame           - Render one frame for a fixed size and exit
//	invaders runs            - Show recorded runs
//	invaders config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.invaders, ./configs, built-in)
//	--fps <rate>        - Target frame rate (0 = uncapped)
//	--seed <value>      - RNG seed for the star field (0 = time based)
//	--panic-on-errors   - Exit on the first tick error
//	--db <path>         - Run history database
//	--log-level <level> - debug, info, warn, error
//	--log-file <path>   - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig        string
	flagFPS           int
	flagSeed          int64
	flagPanicOnErrors bool
	flagDBPath        string
	flagLogLevel      string
	flagLogFile       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "invaders",
	Short: "Term Invaders - a space shooter drawn in your terminal",
	Long: `Term Invaders renders a scrolling star field and status line into a
text grid sized to your terminal, redrawn at a fixed frame rate.

Available commands:
  play     - Start the game (default)
  frame    - Render a single frame for a given size
  runs     - View recorded runs
  config   - Print the effective configuration

Examples:
  invaders
  invaders play --fps 30
  invaders frame --rows 12 --cols 40
  invaders runs --limit 5
  invaders config --config ./my-invaders.yaml`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.IntVar(&flagFPS, "fps", 8, "Target frame rate (0 = uncapped)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.BoolVar(&flagPanicOnErrors, "panic-on-errors", false, "Exit on the first tick error")
	pf.StringVar(&flagDBPath, "db", "~/.invaders/runs.db", "Path to run history database")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}
