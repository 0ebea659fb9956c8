package hint

import (
	"fmt"
	"strings"

	"github.com/mapweave/mapweave"
)

// Identifier represents a generated code identifier together with the
// original symbol it stands for, so a renamed function or variable can be
// mapped back to its original name in the source map.
type Identifier struct {
	Name         string        // Identifier used in the generated code.
	OriginalName string        // Original symbol name.
	Span         mapweave.Span // Where the original symbol is defined.
}

// String returns the generated code identifier name.
func (i Identifier) String() string {
	return i.Name
}

// EncodeHint returns the identifier as an encoded hint string, ready to be
// interleaved with generated code and later extracted by a Filter.
func (i Identifier) EncodeHint() string {
	buf := &strings.Builder{}
	h := Hint{}
	if err := h.Pack(i); err != nil {
		panic(fmt.Errorf("failed to pack identifier hint: %w", err))
	}
	if _, err := h.WriteTo(buf); err != nil {
		panic(fmt.Errorf("failed to write identifier hint into a buffer: %w", err))
	}
	return buf.String()
}

// EncodeSpan returns the span as an encoded hint string.
func EncodeSpan(span mapweave.Span) string {
	buf := &strings.Builder{}
	h := Hint{}
	if err := h.Pack(span); err != nil {
		panic(fmt.Errorf("failed to pack span hint: %w", err))
	}
	if _, err := h.WriteTo(buf); err != nil {
		panic(fmt.Errorf("failed to write span hint into a buffer: %w", err))
	}
	return buf.String()
}
