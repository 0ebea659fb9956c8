// Package hint embeds source mapping information inline in a generated code
// stream.
//
// Some pipelines emit generated text through an io.Writer chain rather than
// calling builder methods, and have no side channel for positions. They can
// interleave encoded hints with the code instead: a hint is marked by the
// `\b` (0x08) magic byte, which never occurs unescaped in valid generated
// code, followed by a length-prefixed payload. Filter strips the hints back
// out of the stream and reports each one at its generated position, so the
// final output never contains them.
//
// A hint payload wraps either a mapweave.Span (position correspondence) or
// an Identifier (a renamed symbol plus where it came from).
package hint

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/mapweave/mapweave"
)

// Magic marks the beginning of an encoded hint in the stream.
const Magic byte = '\b'

// Hint is a container for one piece of mapping information embedded in the
// generated code stream.
//
// Within the stream a hint is encoded as the magic byte, a big-endian uint16
// payload size and the payload itself.
type Hint struct {
	Payload []byte
}

// Find returns the lowest index in b where a hint begins, or -1. Invariant:
// if Find(b) != -1 then b[Find(b)] == Magic.
func Find(b []byte) int {
	return bytes.IndexByte(b, Magic)
}

// Read decodes the hint at the beginning of b and returns it along with the
// number of bytes it occupies. The caller is expected to locate the hint
// with Find first; Read panics if b does not start with a complete encoded
// hint.
//
// The returned payload does not share its backing array with b.
func Read(b []byte) (h Hint, length int) {
	if len(b) < 3 {
		panic(fmt.Errorf("byte slice too short to contain hint header: len(b) = %d", len(b)))
	}
	if b[0] != Magic {
		panic(fmt.Errorf("byte slice doesn't start with magic 0x%x: b[0] = 0x%x", Magic, b[0]))
	}
	size := int(binary.BigEndian.Uint16(b[1:3]))
	if len(b) < size+3 {
		panic(fmt.Errorf("byte slice too short to contain hint payload: len(b) = %d, want %d", len(b), size+3))
	}

	h.Payload = make([]byte, size)
	copy(h.Payload, b[3:])
	return h, size + 3
}

// WriteTo writes the encoded hint into the output stream. Panics if the
// payload is longer than 0xFFFF bytes.
func (h *Hint) WriteTo(w io.Writer) (int64, error) {
	if len(h.Payload) > 0xFFFF {
		panic(fmt.Errorf("hint payload may not be longer than %d bytes, got: %d", 0xFFFF, len(h.Payload)))
	}
	encoded := []byte{Magic}
	encoded = binary.BigEndian.AppendUint16(encoded, uint16(len(h.Payload)))
	encoded = append(encoded, h.Payload...)

	n, err := w.Write(encoded)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write hint: %w", err)
	}
	return int64(n), nil
}

// Pack the given value into the hint's payload.
//
// Supported types: mapweave.Span and Identifier. The first payload byte
// records the packed type, the rest is its gob encoding.
func (h *Hint) Pack(value any) error {
	payload := &bytes.Buffer{}
	switch value.(type) {
	case mapweave.Span:
		payload.WriteByte(1)
	case Identifier:
		payload.WriteByte(2)
	default:
		return fmt.Errorf("unsupported hint payload type %T", value)
	}

	if err := gob.NewEncoder(payload).Encode(value); err != nil {
		return fmt.Errorf("failed to encode hint payload: %w", err)
	}

	h.Payload = payload.Bytes()
	return nil
}

// Unpack returns the hint's payload, previously packed by Pack.
func (h *Hint) Unpack() (any, error) {
	if len(h.Payload) < 1 {
		return nil, fmt.Errorf("payload is too short to contain a type flag")
	}
	var value any
	switch h.Payload[0] {
	case 1:
		value = &mapweave.Span{}
	case 2:
		value = &Identifier{}
	default:
		return nil, fmt.Errorf("unsupported hint payload type flag: %d", h.Payload[0])
	}
	if err := gob.NewDecoder(bytes.NewReader(h.Payload[1:])).Decode(value); err != nil {
		return nil, fmt.Errorf("failed to decode hint payload as %T: %w", value, err)
	}
	switch v := value.(type) {
	case *mapweave.Span:
		return *v, nil
	case *Identifier:
		return *v, nil
	}
	panic("unreachable")
}
