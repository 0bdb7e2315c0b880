// Package render composes one frame of text from the game state.
package render

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/game"
)

// ErrOutputFailed is returned when the line sink rejects a line.
var ErrOutputFailed = errors.New("render: output failed")

// Frame layout glyphs.
const (
	Background = '='
	Separator  = '='
)

// separatorMinRows is the row count above which a separator line is drawn
// between the status line and the playfield.
const separatorMinRows = 10

// statusIndent is the number of spaces before the status text.
const statusIndent = 1

// LineSink receives finished lines, one per call.
type LineSink interface {
	WriteLine(line string) error
}

// Options tune the frame layout.
type Options struct {
	// LegacyRowWidth sizes every line by the row count instead of the
	// column count.
	LegacyRowWidth bool
	// Color styles the status line with lipgloss. Leave off for plain
	// output such as pipes and tests.
	Color bool
}

var statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

// Renderer draws frames into a reusable screen buffer.
type Renderer struct {
	opts   Options
	screen *core.Screen
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		opts:   opts,
		screen: core.NewScreen(0, 0),
	}
}

// Width returns the line width used for a grid of the given size.
func (r *Renderer) Width(dims game.Dimensions) int {
	if r.opts.LegacyRowWidth {
		return dims.Rows
	}
	return dims.Cols
}

// PlayfieldStart returns the first playfield row for the given row count.
func PlayfieldStart(rows int) int {
	if rows > separatorMinRows {
		return 3
	}
	return 2
}

// StatusLine formats the frame rate readout padded to width.
// A rate of 0 means no measurement is available yet.
func StatusLine(fps, width int) string {
	rate := "-"
	if fps > 0 {
		rate = strconv.Itoa(fps)
	}
	return core.RightPad(core.LeftPad(statusIndent, "FPS: "+rate, width), width)
}

// Render writes exactly rows lines for the current state to sink.
// The state is only read.
func (r *Renderer) Render(sink LineSink, fps int, st *game.State) error {
	dims := st.Dimensions()
	width := r.Width(dims)
	rows := dims.Rows

	r.compose(st, fps, width, rows)

	for y := 0; y < rows; y++ {
		var line string
		switch {
		case y == 0:
			line = ""
		case y == 1 && r.opts.Color:
			line = statusStyle.Render(r.screen.Row(y))
		default:
			line = r.screen.Row(y)
		}
		if err := sink.WriteLine(line); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrOutputFailed, y, err)
		}
	}
	return nil
}

// compose paints the status, separator and playfield rows into the
// screen buffer.
func (r *Renderer) compose(st *game.State, fps, width, rows int) {
	r.screen.Resize(width, rows)
	r.screen.Clear()
	r.screen.DrawText(0, 1, StatusLine(fps, width))

	start := PlayfieldStart(rows)
	if start == 3 {
		r.screen.FillRow(2, Separator)
	}
	for y := start; y < r.screen.Height(); y++ {
		r.screen.FillRow(y, Background)
	}

	// Storage order: a later star on the same cell overwrites an earlier one
	for _, star := range st.FallingStars() {
		col := core.Max(star.Col-1, 0)
		if star.Row < start || star.Row >= r.screen.Height() || col >= r.screen.Width() {
			continue
		}
		r.screen.Set(col, star.Row, star.Glyph)
	}
}

// Lines renders a frame into a slice, for callers without a sink.
func (r *Renderer) Lines(fps int, st *game.State) []string {
	var sink sliceSink
	// sliceSink never fails
	_ = r.Render(&sink, fps, st)
	return sink
}

type sliceSink []string

func (s *sliceSink) WriteLine(line string) error {
	*s = append(*s, line)
	return nil
}
