// Package terminal adapts the real terminal to the collaborators a tick
// needs: a size query, a screen clearer and a buffered line sink.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/term-invaders/internal/game"
)

// ErrScreenClearFailed is returned when the clear sequence cannot be written.
var ErrScreenClearFailed = errors.New("terminal: screen clear failed")

// ANSI control sequences.
const (
	clearSequence = "\033[H\033[2J"
	hideCursor    = "\033[?25l"
	showCursor    = "\033[?25h"
)

// GetSizeFunc matches term.GetSize; it returns width then height.
type GetSizeFunc func(fd int) (width, height int, err error)

// SizeQuery returns a game.SizeQuery reading the size of the terminal on fd.
func SizeQuery(fd int) game.SizeQuery {
	return SizeQueryWith(fd, term.GetSize)
}

// SizeQueryWith is SizeQuery with a replaceable size function.
func SizeQueryWith(fd int, getSize GetSizeFunc) game.SizeQuery {
	return func() (game.Dimensions, bool) {
		width, height, err := getSize(fd)
		if err != nil {
			return game.Dimensions{}, false
		}
		return game.Dimensions{Rows: height, Cols: width}, true
	}
}

// StdoutSizeQuery queries the terminal attached to stdout.
func StdoutSizeQuery() game.SizeQuery {
	return SizeQuery(int(os.Stdout.Fd()))
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Clearer wipes the visible screen and homes the cursor.
type Clearer struct {
	w io.Writer
}

// NewClearer creates a clearer writing to w.
func NewClearer(w io.Writer) *Clearer {
	return &Clearer{w: w}
}

// Clear writes the clear sequence.
func (c *Clearer) Clear() error {
	if _, err := io.WriteString(c.w, clearSequence); err != nil {
		return fmt.Errorf("%w: %w", ErrScreenClearFailed, err)
	}
	return nil
}

// HideCursor hides the cursor for the duration of a run.
func HideCursor(w io.Writer) {
	io.WriteString(w, hideCursor)
}

// ShowCursor restores the cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, showCursor)
}

// LineWriter buffers frame lines and writes them out on Flush.
// A failed write or flush drops the pending frame so the next frame
// starts from an empty buffer.
type LineWriter struct {
	w    io.Writer
	bufw *bufio.Writer
}

// NewLineWriter creates a LineWriter on top of w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w, bufw: bufio.NewWriterSize(w, 8192)}
}

// WriteLine appends one line to the pending frame.
func (lw *LineWriter) WriteLine(line string) error {
	if _, err := lw.bufw.WriteString(line); err != nil {
		lw.bufw.Reset(lw.w)
		return err
	}
	if _, err := lw.bufw.WriteString("\n"); err != nil {
		lw.bufw.Reset(lw.w)
		return err
	}
	return nil
}

// Flush writes the pending frame to the underlying writer.
func (lw *LineWriter) Flush() error {
	if err := lw.bufw.Flush(); err != nil {
		lw.bufw.Reset(lw.w)
		return err
	}
	return nil
}
