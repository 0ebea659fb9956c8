package builder

import (
	"unicode/utf8"

	"github.com/mapweave/mapweave/lineindex"
)

// Tracker is the incremental line/column state of an output stream. It
// starts at 0:0 and is advanced by the text appended to the stream; columns
// are counted in UTF-16 code units as the source map format requires.
//
// Tracker is a plain value with no I/O, so position arithmetic can be tested
// independently of any writer.
type Tracker struct {
	line   int
	column int
	// Set when the last byte seen was '\r', so that a '\n' arriving in the
	// next Advance call still counts as the same line break.
	pendingCR bool
}

// Advance moves the position past text. "\r\n" counts as a single line
// break, even when split across two calls.
func (t *Tracker) Advance(text string) {
	for i := 0; i < len(text); {
		if text[i] == '\n' {
			if t.pendingCR {
				t.pendingCR = false
			} else {
				t.line++
				t.column = 0
			}
			i++
			continue
		}
		t.pendingCR = false
		if text[i] == '\r' {
			t.line++
			t.column = 0
			t.pendingCR = true
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		t.column++
		if r >= 0x10000 {
			t.column++ // surrogate pair
		}
		i += size
	}
}

// Location returns the current position.
func (t *Tracker) Location() lineindex.Location {
	return lineindex.Location{Line: t.line, Column: t.column}
}
