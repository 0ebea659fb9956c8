// Package mapweave tracks how generated output text maps back to positions
// in original source files.
//
// A Registry hands out stable SourceID handles for source files and resolves
// their content lazily. A Span is a cheap value describing a byte range
// within one registered source. Spans are threaded through a transformation
// pipeline and recorded against generated output with a builder.Builder,
// whose result the sourcemap package serializes into a Source Map v3
// document.
package mapweave

import "fmt"

// SourceID identifies a source registered with a Registry. IDs are small,
// stable for the registry's lifetime and unique per distinct path.
//
// The zero value NoSource denotes synthetic output with no original source.
type SourceID uint16

// NoSource is the SourceID of text that has no traceable origin.
const NoSource SourceID = 0

// Valid reports whether the id refers to a registered source.
func (id SourceID) Valid() bool {
	return id != NoSource
}

func (id SourceID) String() string {
	if id == NoSource {
		return "SourceID(none)"
	}
	return fmt.Sprintf("SourceID(%d)", uint16(id))
}

// SourceError reports that a source's content could not be resolved. It is
// the only runtime failure the registry produces: the id stays usable and
// resolution of other sources is unaffected.
type SourceError struct {
	ID   SourceID
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q (%v) unavailable: %v", e.Path, e.ID, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
