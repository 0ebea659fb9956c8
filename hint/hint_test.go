package hint

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mapweave/mapweave"
)

var encodedHint = []byte{
	104, 101, 108, 108, 111, 44, 32, 119, 111, 114, 108, 100, 33, // "hello, world!"
	Magic,      // Magic.
	0x00, 0x04, // Size.
	0x01, 0x02, 0x03, 0x04, // Payload.
	103, 111, 112, 104, 101, 114, 115, // "gophers"
}

func TestFind(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		got := Find(encodedHint)
		want := 13
		if got != want {
			t.Errorf("Got: Find(encodedHint) = %d. Want: %d.", got, want)
		}
		if magic := encodedHint[got]; magic != Magic {
			t.Errorf("Got: magic at hint position: %x. Want: %x.", magic, Magic)
		}
	})

	t.Run("not found", func(t *testing.T) {
		got := Find(encodedHint[14:]) // Slice past the hint location.
		want := -1
		if got != want {
			t.Errorf("Got: Find(encodedHint) = %d. Want: %d.", got, want)
		}
	})
}

func TestRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			descr      string
			bytes      []byte
			wantHint   Hint
			wantLength int
		}{{
			descr:      "1234",
			bytes:      encodedHint[13:],
			wantHint:   Hint{Payload: []byte{1, 2, 3, 4}},
			wantLength: 7,
		}, {
			descr:      "empty",
			bytes:      []byte{Magic, 0x00, 0x00},
			wantHint:   Hint{Payload: []byte{}},
			wantLength: 3,
		}}

		for _, test := range tests {
			t.Run(test.descr, func(t *testing.T) {
				hint, length := Read(test.bytes)
				if diff := cmp.Diff(test.wantHint, hint); diff != "" {
					t.Errorf("Read hint differs from expected (-want,+got):\n%s", diff)
				}
				if length != test.wantLength {
					t.Errorf("Got: hint length %d. Want: %d.", length, test.wantLength)
				}
			})
		}
	})

	t.Run("panic", func(t *testing.T) {
		tests := []struct {
			descr string
			bytes []byte
		}{{
			descr: "no magic",
			bytes: encodedHint[:13],
		}, {
			descr: "short header",
			bytes: []byte{Magic, 0x00},
		}, {
			descr: "short payload",
			bytes: []byte{Magic, 0x00, 0x04, 0x01},
		}}

		for _, test := range tests {
			t.Run(test.descr, func(t *testing.T) {
				defer func() {
					if recover() == nil {
						t.Error("Got: Read() returned. Want: panic.")
					}
				}()
				Read(test.bytes)
			})
		}
	})
}

func TestHint_WriteTo(t *testing.T) {
	h := Hint{Payload: []byte{1, 2, 3, 4}}
	buf := &bytes.Buffer{}
	n, err := h.WriteTo(buf)
	if err != nil {
		t.Fatalf("Got: WriteTo() returned error: %s. Want: no error.", err)
	}
	want := []byte{Magic, 0x00, 0x04, 1, 2, 3, 4}
	if n != int64(len(want)) {
		t.Errorf("Got: WriteTo() wrote %d bytes. Want: %d.", n, len(want))
	}
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("Encoded hint differs from expected (-want,+got):\n%s", diff)
	}
}

func TestHint_PackUnpack(t *testing.T) {
	tests := []struct {
		descr string
		value any
	}{{
		descr: "span",
		value: mapweave.NewSpan(3, 10, 20),
	}, {
		descr: "identifier",
		value: Identifier{
			Name:         "foo$1",
			OriginalName: "Foo",
			Span:         mapweave.NewSpan(1, 5, 8),
		},
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			h := Hint{}
			if err := h.Pack(test.value); err != nil {
				t.Fatalf("Got: Pack(%#v) returned error: %s. Want: no error.", test.value, err)
			}
			got, err := h.Unpack()
			if err != nil {
				t.Fatalf("Got: Unpack() returned error: %s. Want: no error.", err)
			}
			if diff := cmp.Diff(test.value, got); diff != "" {
				t.Errorf("Unpacked value differs from the original (-want,+got):\n%s", diff)
			}
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		h := Hint{}
		if err := h.Pack(42); err == nil {
			t.Error("Got: Pack(42) succeeded. Want: error.")
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		h := Hint{}
		if _, err := h.Unpack(); err == nil {
			t.Error("Got: Unpack() of empty payload succeeded. Want: error.")
		}
	})
}
