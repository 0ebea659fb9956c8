// Package builder accumulates generated output text while recording which
// source span each chunk of it came from.
//
// A pipeline owns one Builder per output artifact, writes text to it in
// left-to-right output order and finally calls Finish, which hands the text
// and the recorded mappings to the sourcemap package for encoding. Because
// callers always append in output order, the recorded entries are already in
// generated-position order and never need sorting.
package builder

import (
	"strings"

	"github.com/mapweave/mapweave"
	"github.com/mapweave/mapweave/lineindex"
)

// Entry is one generated-position-to-original-position correspondence.
type Entry struct {
	// Generated is the position in the output text the entry starts at.
	Generated lineindex.Location
	// Span is the original source range; Span.Start is the mapped offset.
	Span mapweave.Span
	// Name is an index into the MappingSet name table, or -1.
	Name int
}

// MappingSet holds mapping entries in generated-position order together with
// the deduplicated symbol-name table they refer to.
type MappingSet struct {
	Entries []Entry
	Names   []string

	nameIndex map[string]int
}

// Add records an entry. Synthetic spans are ignored: generated-only output
// simply has no entry. name may be empty.
//
// Entries must be added in non-decreasing generated-position order; Builder
// and hint.Filter guarantee this by construction.
func (m *MappingSet) Add(generated lineindex.Location, span mapweave.Span, name string) {
	if span.IsSynthetic() {
		return
	}
	m.Entries = append(m.Entries, Entry{
		Generated: generated,
		Span:      span,
		Name:      m.nameID(name),
	})
}

func (m *MappingSet) nameID(name string) int {
	if name == "" {
		return -1
	}
	if i, ok := m.nameIndex[name]; ok {
		return i
	}
	if m.nameIndex == nil {
		m.nameIndex = make(map[string]int)
	}
	i := len(m.Names)
	m.Names = append(m.Names, name)
	m.nameIndex[name] = i
	return i
}

// Builder accumulates output text and source correspondences.
//
// The zero value is ready to use. A Builder is owned by a single goroutine;
// ownership of its mappings transfers to the caller at Finish.
type Builder struct {
	out strings.Builder
	pos Tracker
	set MappingSet
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// WriteString appends text with no source correspondence, e.g. synthetic
// punctuation.
func (b *Builder) WriteString(text string) {
	b.out.WriteString(text)
	b.pos.Advance(text)
}

// WriteSpan appends text and records the position before the append as
// mapping to span. A synthetic span records nothing and behaves like
// WriteString.
func (b *Builder) WriteSpan(text string, span mapweave.Span) {
	b.WriteSpanName(text, span, "")
}

// WriteSpanName is WriteSpan with an original symbol name attached to the
// mapping.
func (b *Builder) WriteSpanName(text string, span mapweave.Span, name string) {
	b.set.Add(b.pos.Location(), span, name)
	b.WriteString(text)
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return b.out.Len()
}

// Location returns the current output position.
func (b *Builder) Location() lineindex.Location {
	return b.pos.Location()
}

// Finish returns the built text and the recorded mappings. The Builder must
// not be written to afterwards.
func (b *Builder) Finish() (string, *MappingSet) {
	return b.out.String(), &b.set
}
