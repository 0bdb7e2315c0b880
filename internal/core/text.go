package core

import (
	"strings"
	"unicode/utf8"
)

// RightPad returns text fitted to exactly length characters: truncated when
// longer, space-padded on the right when shorter. Lengths are counted in
// runes so multi-byte glyphs occupy a single position. A negative length is
// treated as zero.
func RightPad(text string, length int) string {
	length = Max(length, 0)
	n := utf8.RuneCountInString(text)

	switch {
	case n == length:
		return text
	case n > length:
		i := 0
		for pos := range text {
			if i == length {
				return text[:pos]
			}
			i++
		}
		return text
	default:
		return text + strings.Repeat(" ", length-n)
	}
}

// LeftPad shifts text right by start spaces. If start falls at or past
// length there is nothing to place, and the result is a blank line of
// exactly length spaces.
func LeftPad(start int, text string, length int) string {
	if start >= length {
		return strings.Repeat(" ", Max(length, 0))
	}
	return strings.Repeat(" ", Max(start, 0)) + text
}
