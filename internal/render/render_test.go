package render

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/vovakirdan/term-invaders/internal/game"
)

// newState returns a state sized rows x cols with no random stars.
func newState(t *testing.T, rows, cols int, stars ...game.FallingStar) *game.State {
	t.Helper()
	st := game.NewState(game.StateOptions{StarCount: 0, Seed: 1})
	err := st.EvaluateState(func() (game.Dimensions, bool) {
		return game.Dimensions{Rows: rows, Cols: cols}, true
	})
	if err != nil {
		t.Fatalf("EvaluateState() failed: %v", err)
	}
	for _, s := range stars {
		st.PlaceScriptedStar(s)
	}
	return st
}

type failingSink struct {
	after int
	lines int
}

func (f *failingSink) WriteLine(string) error {
	if f.lines == f.after {
		return errors.New("stdout closed")
	}
	f.lines++
	return nil
}

func TestRenderLegacyRowWidth(t *testing.T) {
	st := newState(t, 12, 40, game.FallingStar{Row: 3, Col: 5, Glyph: '*'})
	lines := New(Options{LegacyRowWidth: true}).Lines(8, st)

	if len(lines) != 12 {
		t.Fatalf("Render() wrote %d lines, expected 12", len(lines))
	}
	expected := "====*======="
	if lines[3] != expected {
		t.Errorf("row 3 = %q, expected %q", lines[3], expected)
	}
}

func TestRenderColumnWidth(t *testing.T) {
	st := newState(t, 12, 40, game.FallingStar{Row: 3, Col: 5, Glyph: '*'})
	lines := New(Options{}).Lines(8, st)

	if len(lines) != 12 {
		t.Fatalf("Render() wrote %d lines, expected 12", len(lines))
	}
	row := lines[3]
	if len(row) != 40 {
		t.Errorf("row 3 length = %d, expected 40", len(row))
	}
	if strings.IndexRune(row, '*') != 4 {
		t.Errorf("star offset = %d, expected 4 in %q", strings.IndexRune(row, '*'), row)
	}
	if strings.Count(row, "=") != 39 {
		t.Errorf("row 3 = %q, expected '=' everywhere but the star", row)
	}
}

func TestRenderHeader(t *testing.T) {
	st := newState(t, 12, 20)
	lines := New(Options{}).Lines(8, st)

	if lines[0] != "" {
		t.Errorf("line 0 = %q, expected blank", lines[0])
	}
	expectedStatus := " FPS: 8" + strings.Repeat(" ", 13)
	if lines[1] != expectedStatus {
		t.Errorf("status line = %q, expected %q", lines[1], expectedStatus)
	}
	if lines[2] != strings.Repeat("=", 20) {
		t.Errorf("separator = %q, expected 20 '='", lines[2])
	}
	for y := 3; y < 12; y++ {
		if lines[y] != strings.Repeat("=", 20) {
			t.Errorf("row %d = %q, expected background", y, lines[y])
		}
	}
}

func TestRenderPlayfieldStart(t *testing.T) {
	tests := []struct {
		rows     int
		expected int
	}{
		{8, 2},
		{10, 2},
		{11, 3},
		{40, 3},
	}

	for _, tc := range tests {
		if got := PlayfieldStart(tc.rows); got != tc.expected {
			t.Errorf("PlayfieldStart(%d) = %d, expected %d", tc.rows, got, tc.expected)
		}
	}
}

func TestRenderSmallGridHasNoSeparator(t *testing.T) {
	st := newState(t, 10, 8, game.FallingStar{Row: 2, Col: 3, Glyph: '+'})
	lines := New(Options{}).Lines(4, st)

	if len(lines) != 10 {
		t.Fatalf("Render() wrote %d lines, expected 10", len(lines))
	}
	if lines[2] != "==+=====" {
		t.Errorf("row 2 = %q, expected the star on the first playfield row", lines[2])
	}
}

func TestRenderColumnZeroClamps(t *testing.T) {
	st := newState(t, 12, 10, game.FallingStar{Row: 5, Col: 0, Glyph: '*'})
	lines := New(Options{}).Lines(8, st)

	if lines[5] != "*=========" {
		t.Errorf("row 5 = %q, expected star at offset 0", lines[5])
	}
}

func TestRenderLastStarWins(t *testing.T) {
	st := newState(t, 12, 10,
		game.FallingStar{Row: 4, Col: 3, Glyph: 'a'},
		game.FallingStar{Row: 4, Col: 3, Glyph: 'b'},
		game.FallingStar{Row: 4, Col: 7, Glyph: 'c'},
	)
	lines := New(Options{}).Lines(8, st)

	if lines[4] != "==b===c===" {
		t.Errorf("row 4 = %q, expected %q", lines[4], "==b===c===")
	}
}

func TestRenderIgnoresOffGridStars(t *testing.T) {
	st := newState(t, 12, 10,
		game.FallingStar{Row: 6, Col: 11, Glyph: 'x'},
		game.FallingStar{Row: 0, Col: 2, Glyph: 'y'},
	)
	lines := New(Options{}).Lines(8, st)

	for y, line := range lines {
		if strings.ContainsAny(line, "xy") {
			t.Errorf("row %d = %q, expected off-grid stars to be skipped", y, line)
		}
	}
}

func TestRenderMultiByteGlyph(t *testing.T) {
	st := newState(t, 12, 10, game.FallingStar{Row: 3, Col: 2, Glyph: '✦'})
	lines := New(Options{}).Lines(8, st)

	if utf8.RuneCountInString(lines[3]) != 10 {
		t.Errorf("row 3 has %d runes, expected 10", utf8.RuneCountInString(lines[3]))
	}
	if []rune(lines[3])[1] != '✦' {
		t.Errorf("row 3 = %q, expected glyph at offset 1", lines[3])
	}
}

func TestRenderDoesNotMutateState(t *testing.T) {
	st := newState(t, 12, 10, game.FallingStar{Row: 4, Col: 3, Glyph: '*'})
	before := st.FallingStars()

	New(Options{}).Lines(8, st)

	after := st.FallingStars()
	if len(before) != len(after) || before[0] != after[0] {
		t.Errorf("FallingStars() changed: %+v -> %+v", before, after)
	}
}

func TestRenderResizesBetweenFrames(t *testing.T) {
	r := New(Options{})

	big := r.Lines(8, newState(t, 20, 30))
	small := r.Lines(8, newState(t, 9, 9))

	if len(big) != 20 || len(small) != 9 {
		t.Fatalf("line counts = %d, %d, expected 20, 9", len(big), len(small))
	}
	if len(small[5]) != 9 {
		t.Errorf("row width after shrink = %d, expected 9", len(small[5]))
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		fps      int
		width    int
		expected string
	}{
		{8, 10, " FPS: 8   "},
		{255, 10, " FPS: 255 "},
		{60, 5, " FPS:"},
		{0, 8, " FPS: - "},
		{8, 1, " "},
	}

	for _, tc := range tests {
		got := StatusLine(tc.fps, tc.width)
		if got != tc.expected {
			t.Errorf("StatusLine(%d, %d) = %q, expected %q", tc.fps, tc.width, got, tc.expected)
		}
		if utf8.RuneCountInString(got) != tc.width {
			t.Errorf("StatusLine(%d, %d) length = %d", tc.fps, tc.width, utf8.RuneCountInString(got))
		}
	}
}

func TestRenderSinkFailure(t *testing.T) {
	st := newState(t, 12, 10)
	sink := &failingSink{after: 3}

	err := New(Options{}).Render(sink, 8, st)
	if !errors.Is(err, ErrOutputFailed) {
		t.Errorf("Render() error = %v, expected ErrOutputFailed", err)
	}
	if sink.lines != 3 {
		t.Errorf("wrote %d lines before failing, expected 3", sink.lines)
	}
}

func TestRenderColorKeepsLineCount(t *testing.T) {
	st := newState(t, 12, 10)
	lines := New(Options{Color: true}).Lines(8, st)

	if len(lines) != 12 {
		t.Fatalf("Render() wrote %d lines, expected 12", len(lines))
	}
	if !strings.Contains(lines[1], "FPS: 8") {
		t.Errorf("status line = %q, expected it to contain the rate", lines[1])
	}
}
