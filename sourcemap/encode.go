package sourcemap

import (
	"fmt"

	"github.com/mapweave/mapweave"
	"github.com/mapweave/mapweave/builder"
)

// Options controls the non-mapping fields of the encoded document.
type Options struct {
	// File is the name of the generated artifact the map describes.
	File string
	// SourceRoot is prepended by consumers to every entry in sources.
	SourceRoot string
	// IncludeContent embeds each source's text in sourcesContent. Sources
	// whose content cannot be resolved get a null entry instead of failing
	// the encode.
	IncludeContent bool
}

// SourceErrors lists the sources whose content could not be resolved during
// an encode. The map produced alongside it is still valid; only its
// sourcesContent entries (and position fidelity for those sources) are
// degraded.
type SourceErrors []*mapweave.SourceError

func (errs SourceErrors) Error() string {
	if len(errs) == 0 {
		return "<no source errors>"
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more sources unavailable)", errs[0].Error(), len(errs)-1)
}

// ErrOrNil returns nil if the list is empty, or the list as an error
// otherwise.
func (errs SourceErrors) ErrOrNil() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Encode serializes a finished mapping set into a Source Map v3 document,
// resolving source paths, content and original positions through reg.
//
// Encode cannot fail on well-formed mappings: the returned error is either
// nil or a SourceErrors value describing sources whose content could not be
// read, and the returned Map is usable in both cases.
func Encode(set *builder.MappingSet, reg *mapweave.Registry, opts Options) (*Map, error) {
	m := &Map{
		Version:    3,
		File:       opts.File,
		SourceRoot: opts.SourceRoot,
		Sources:    []string{},
		Names:      []string{},
		Mappings:   "",
	}
	if len(set.Names) > 0 {
		m.Names = append(m.Names, set.Names...)
	}

	// Assign source indexes in first-seen order of the mapping entries.
	sourceIndex := make(map[mapweave.SourceID]int)
	var sourceIDs []mapweave.SourceID
	for _, e := range set.Entries {
		if e.Span.IsSynthetic() {
			continue
		}
		if _, ok := sourceIndex[e.Span.Source]; !ok {
			sourceIndex[e.Span.Source] = len(sourceIDs)
			sourceIDs = append(sourceIDs, e.Span.Source)
			m.Sources = append(m.Sources, reg.Path(e.Span.Source))
		}
	}

	var srcErrs SourceErrors
	failed := make(map[mapweave.SourceID]bool)
	fail := func(id mapweave.SourceID, err error) {
		if failed[id] {
			return
		}
		failed[id] = true
		if se, ok := err.(*mapweave.SourceError); ok {
			srcErrs = append(srcErrs, se)
			return
		}
		srcErrs = append(srcErrs, &mapweave.SourceError{ID: id, Path: reg.Path(id), Err: err})
	}

	if opts.IncludeContent {
		m.SourcesContent = make([]*string, len(sourceIDs))
		for i, id := range sourceIDs {
			content, err := reg.Content(id)
			if err != nil {
				fail(id, err)
				continue // null entry, non-fatal
			}
			m.SourcesContent[i] = &content
		}
	}

	// Delta state. Generated columns reset at each line; the source, line,
	// column and name deltas run across the whole document.
	var (
		buf                        []byte
		genLine, genCol            int
		prevSrc, prevLine, prevCol int
		prevName                   int
		comma                      bool
	)
	for _, e := range set.Entries {
		if e.Span.IsSynthetic() {
			continue
		}
		for e.Generated.Line > genLine {
			buf = append(buf, ';')
			genLine++
			genCol = 0
			comma = false
		}
		if comma {
			buf = append(buf, ',')
		}

		buf = appendVLQ(buf, e.Generated.Column-genCol)
		genCol = e.Generated.Column

		idx := sourceIndex[e.Span.Source]
		buf = appendVLQ(buf, idx-prevSrc)
		prevSrc = idx

		// A source whose content cannot be resolved still gets a mapping;
		// without a line index the best available original position is line
		// zero at the raw byte offset.
		orig, err := reg.Location(e.Span.Source, e.Span.Start)
		if err != nil {
			fail(e.Span.Source, err)
			orig.Line, orig.Column = 0, int(e.Span.Start)
		}
		buf = appendVLQ(buf, orig.Line-prevLine)
		prevLine = orig.Line
		buf = appendVLQ(buf, orig.Column-prevCol)
		prevCol = orig.Column

		if e.Name >= 0 {
			buf = appendVLQ(buf, e.Name-prevName)
			prevName = e.Name
		}

		comma = true
	}
	m.Mappings = string(buf)

	return m, srcErrs.ErrOrNil()
}
