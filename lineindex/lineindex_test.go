package lineindex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndex_Locate(t *testing.T) {
	tests := []struct {
		descr  string
		src    string
		offset int
		want   Location
	}{{
		descr:  "start of text",
		src:    "abc\ndef",
		offset: 0,
		want:   Location{Line: 0, Column: 0},
	}, {
		descr:  "middle of first line",
		src:    "abc\ndef",
		offset: 2,
		want:   Location{Line: 0, Column: 2},
	}, {
		descr:  "start of second line",
		src:    "abc\ndef",
		offset: 4,
		want:   Location{Line: 1, Column: 0},
	}, {
		descr:  "offset of the newline itself",
		src:    "abc\ndef",
		offset: 3,
		want:   Location{Line: 0, Column: 3},
	}, {
		descr:  "crlf counts as one break",
		src:    "abc\r\ndef",
		offset: 5,
		want:   Location{Line: 1, Column: 0},
	}, {
		descr:  "column before the cr",
		src:    "abc\r\ndef",
		offset: 3,
		want:   Location{Line: 0, Column: 3},
	}, {
		descr:  "empty source",
		src:    "",
		offset: 0,
		want:   Location{Line: 0, Column: 0},
	}, {
		descr:  "offset past the end clamps",
		src:    "ab",
		offset: 99,
		want:   Location{Line: 0, Column: 2},
	}, {
		// "наб" is 6 bytes but 3 UTF-16 units.
		descr:  "multi-byte characters",
		src:    "наб\nx",
		offset: 6,
		want:   Location{Line: 0, Column: 3},
	}, {
		// U+1F600 is 4 bytes and 2 UTF-16 units (surrogate pair).
		descr:  "astral characters count two units",
		src:    "\U0001F600b",
		offset: 4,
		want:   Location{Line: 0, Column: 2},
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			got := New(test.src).Locate(test.offset)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Locate(%d) differs from expected (-want,+got):\n%s", test.offset, diff)
			}
		})
	}
}

func TestIndex_Lines(t *testing.T) {
	ix := New("first\r\nsecond\n\nlast")

	if got, want := ix.LineCount(), 4; got != want {
		t.Fatalf("Got: LineCount() = %d. Want: %d.", got, want)
	}

	wantLines := []string{"first", "second", "", "last"}
	for i, want := range wantLines {
		if got := ix.Line(i); got != want {
			t.Errorf("Got: Line(%d) = %q. Want: %q.", i, got, want)
		}
	}
}

func TestIndex_LineOf(t *testing.T) {
	ix := New("aa\nbb\ncc")
	for offset, want := range map[int]int{0: 0, 2: 0, 3: 1, 5: 1, 6: 2, 8: 2} {
		if got := ix.LineOf(offset); got != want {
			t.Errorf("Got: LineOf(%d) = %d. Want: %d.", offset, got, want)
		}
	}
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{s: "", want: 0},
		{s: "abc", want: 3},
		{s: "наб", want: 3},
		{s: "\U0001F600", want: 2},
		{s: "a\U0001F600b", want: 4},
	}
	for _, test := range tests {
		if got := UTF16Len(test.s); got != test.want {
			t.Errorf("Got: UTF16Len(%q) = %d. Want: %d.", test.s, got, test.want)
		}
	}
}
