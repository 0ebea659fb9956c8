package mapweave

import "fmt"

// Span is a half-open byte range [Start, End) within one registered source.
//
// Spans are plain values: they are copied freely, never mutated, and carry
// no reference to the source content itself. The zero Span (Source ==
// NoSource) is the synthetic span, used for generated text with no original
// position; it propagates harmlessly through all span operations.
type Span struct {
	Source     SourceID
	Start, End uint32
}

// NewSpan returns the span [start, end) in the given source. start must not
// exceed end; violating that is a programmer error and panics.
func NewSpan(source SourceID, start, end uint32) Span {
	if start > end {
		panic(fmt.Sprintf("mapweave: inverted span [%d, %d)", start, end))
	}
	return Span{Source: source, Start: start, End: end}
}

// IsSynthetic reports whether the span has no original source.
func (s Span) IsSynthetic() bool {
	return s.Source == NoSource
}

// Len returns the length of the span in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Contains reports whether the byte offset falls within the span. A
// synthetic span contains nothing.
func (s Span) Contains(offset uint32) bool {
	return !s.IsSynthetic() && s.Start <= offset && offset < s.End
}

// Union returns the smallest span covering both s and o.
//
// A synthetic operand acts as the identity: the other operand is returned
// unchanged. Unioning two real spans from different sources is undefined;
// rather than failing in the middle of an output walk, Union deterministically
// returns s in that case.
func (s Span) Union(o Span) Span {
	if s.IsSynthetic() {
		return o
	}
	if o.IsSynthetic() || o.Source != s.Source {
		return s
	}
	u := s
	if o.Start < u.Start {
		u.Start = o.Start
	}
	if o.End > u.End {
		u.End = o.End
	}
	return u
}

// WithSource returns the span reinterpreted against a different source,
// keeping the offsets. This is used when a span produced by transforming an
// intermediate layer must resolve to the true origin instead.
func (s Span) WithSource(id SourceID) Span {
	s.Source = id
	return s
}

func (s Span) String() string {
	if s.IsSynthetic() {
		return "<synthetic>"
	}
	return fmt.Sprintf("%v[%d, %d)", s.Source, s.Start, s.End)
}
