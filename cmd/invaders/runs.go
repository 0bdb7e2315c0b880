package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Long: `Display the most recent runs from the history database, newest first.

Examples:
  invaders runs
  invaders runs --limit 5
  invaders runs --clear
  invaders runs --db ./runs.db`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded history")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("9"))
)

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		return fmt.Errorf("cannot open run history: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Recent Runs"))
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'invaders' to record the first one!")
		return nil
	}

	fmt.Fprintln(os.Stdout, runsTable(runs).Render())

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("%d runs, %d frames, best average %.1f fps\n",
			stats.Runs, stats.TotalFrames, stats.BestAvgFPS)
	}
	return nil
}

// runsTable lays out runs as a bordered table.
func runsTable(runs []storage.Run) *table.Table {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		target := "uncapped"
		if r.FrameRate > 0 {
			target = strconv.Itoa(r.FrameRate)
		}
		rows = append(rows, []string{
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Duration().Round(time.Second).String(),
			target,
			fmt.Sprintf("%.1f", r.AvgFPS),
			strconv.Itoa(r.Frames),
			strconv.Itoa(r.Skipped),
			r.ExitReason,
			r.LastError,
		})
	}

	const errorCol = 7
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Started", "Length", "Target", "Avg FPS", "Frames", "Skipped", "Exit", "Last Error").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == errorCol:
				return errorStyle
			default:
				return cellStyle
			}
		})
}
