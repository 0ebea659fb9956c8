package hint

import (
	"fmt"
	"io"

	"github.com/mapweave/mapweave"
	"github.com/mapweave/mapweave/builder"
	"github.com/mapweave/mapweave/lineindex"
)

// Filter is an io.Writer that extracts encoded hints from the written stream
// and reports them to the Callback along with the generated position they
// occur at. Hints are always removed from the output stream, whether or not
// a Callback is set.
//
// Positions are tracked in UTF-16 code units, matching what the source map
// encoder expects on the generated side.
type Filter struct {
	Writer   io.Writer
	Callback func(generated lineindex.Location, span mapweave.Span, name string)

	pos builder.Tracker
}

// Collect returns a Filter that records every extracted hint directly into
// set.
func Collect(w io.Writer, set *builder.MappingSet) *Filter {
	return &Filter{
		Writer: w,
		Callback: func(generated lineindex.Location, span mapweave.Span, name string) {
			set.Add(generated, span, name)
		},
	}
}

func (f *Filter) Write(p []byte) (n int, err error) {
	var n2 int
	for {
		i := Find(p)
		w := p
		if i != -1 {
			w = p[:i]
		}

		n2, err = f.Writer.Write(w)
		n += n2
		f.pos.Advance(string(w))

		if err != nil || i == -1 {
			return n, err
		}

		h, length := Read(p[i:])
		if f.Callback != nil {
			value, err := h.Unpack()
			if err != nil {
				panic(fmt.Errorf("failed to unpack hint: %w", err))
			}
			switch value := value.(type) {
			case mapweave.Span:
				f.Callback(f.pos.Location(), value, "")
			case Identifier:
				f.Callback(f.pos.Location(), value.Span, value.OriginalName)
			default:
				panic(fmt.Errorf("unexpected hint type: %T", value))
			}
		}
		p = p[i+length:]
		n += length
	}
}

// Location returns the current generated position of the filtered stream.
func (f *Filter) Location() lineindex.Location {
	return f.pos.Location()
}
