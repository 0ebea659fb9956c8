// Package sourcemap serializes recorded mappings into the Source Map v3
// wire format understood by browsers, debuggers and other source-map
// tooling.
//
// Encode performs a single pass over a finished builder.MappingSet, resolves
// original positions through the registry and produces a Map, which is the
// JSON document described by https://sourcemaps.info/spec.html. The document
// can be written to a standalone .map file or appended to the generated text
// as a base64 data URI comment.
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"io"
)

// Map is a Source Map v3 document. Field names and order are fixed by the
// public standard.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// WriteTo writes the JSON document to w.
func (m *Map) WriteTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}

// InlineURL returns the document as a data URI suitable for a
// sourceMappingURL comment.
func (m *Map) InlineURL() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// AppendInline appends an inline sourceMappingURL comment carrying the whole
// map to the generated text, for tooling that prefers a single artifact over
// a separate .map file.
func AppendInline(generated string, m *Map) (string, error) {
	url, err := m.InlineURL()
	if err != nil {
		return "", err
	}
	if generated != "" && generated[len(generated)-1] != '\n' {
		generated += "\n"
	}
	return generated + "//# sourceMappingURL=" + url + "\n", nil
}
