package mapweave

import (
	"fmt"
	"math"
	"sync"

	"github.com/spf13/afero"

	"github.com/mapweave/mapweave/lineindex"
)

// Registry assigns stable SourceIDs to source files and resolves their
// content. It is safe for concurrent use: registration is atomic with
// respect to id allocation, and resolving one source's content never blocks
// resolution of another.
//
// A Registry is an explicit instance rather than process-wide state; a
// pipeline creates one at startup and shares it by pointer with every
// producer.
type Registry struct {
	fs afero.Fs

	mu      sync.RWMutex
	entries []*entry // entries[id-1]
	byPath  map[string]SourceID
}

type entry struct {
	id   SourceID
	path string

	// Resolution state, written at most once under the Once.
	once    sync.Once
	content string
	index   *lineindex.Index
	err     *SourceError
}

func (e *entry) fill(content string) {
	e.content = content
	e.index = lineindex.New(content)
}

func (e *entry) resolve(fs afero.Fs) {
	e.once.Do(func() {
		data, err := afero.ReadFile(fs, e.path)
		if err != nil {
			e.err = &SourceError{ID: e.id, Path: e.path, Err: err}
			return
		}
		e.fill(string(data))
	})
}

// NewRegistry returns a Registry that reads deferred source content from the
// operating system's filesystem.
func NewRegistry() *Registry {
	return NewRegistryFS(afero.NewOsFs())
}

// NewRegistryFS returns a Registry that reads deferred source content from
// fs.
func NewRegistryFS(fs afero.Fs) *Registry {
	return &Registry{
		fs:     fs,
		byPath: make(map[string]SourceID),
	}
}

// Register returns the id for path, allocating a new one if the path has not
// been registered before. Content resolution is deferred until the first
// Content or Location call.
func (r *Registry) Register(path string) SourceID {
	return r.register(path, nil)
}

// RegisterContent is like Register but supplies the source content eagerly,
// so the registry never touches the filesystem for this source. If the path
// is already registered its existing id is returned and the stored content
// is left as-is; use Update to replace content.
func (r *Registry) RegisterContent(path, content string) SourceID {
	return r.register(path, &content)
}

func (r *Registry) register(path string, content *string) SourceID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPath[path]; ok {
		return id
	}
	if len(r.entries) >= math.MaxUint16 {
		panic("mapweave: source id space exhausted")
	}

	id := SourceID(len(r.entries) + 1) // id 0 is NoSource
	e := &entry{id: id, path: path}
	if content != nil {
		e.once.Do(func() { e.fill(*content) })
	}
	r.entries = append(r.entries, e)
	r.byPath[path] = id
	return id
}

// Lookup returns the id previously assigned to path, if any.
func (r *Registry) Lookup(path string) (SourceID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPath[path]
	return id, ok
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Path returns the path the id was registered under. It is total for any id
// returned by Register; passing any other id is a programmer error and
// panics.
func (r *Registry) Path(id SourceID) string {
	return r.entry(id).path
}

// Content returns the source text for id, reading and caching it on first
// use. If the content was never supplied and the backing file cannot be
// read, the error is a *SourceError; the failure is remembered and does not
// affect any other source.
func (r *Registry) Content(id SourceID) (string, error) {
	e := r.entry(id)
	e.resolve(r.fs)
	if e.err != nil {
		return "", e.err
	}
	return e.content, nil
}

// Location resolves a byte offset within the source to its line and UTF-16
// column, resolving content first if needed.
func (r *Registry) Location(id SourceID, offset uint32) (lineindex.Location, error) {
	e := r.entry(id)
	e.resolve(r.fs)
	if e.err != nil {
		return lineindex.Location{}, e.err
	}
	return e.index.Locate(int(offset)), nil
}

// Line returns the text of the zero-based line within the source, without
// its terminator.
func (r *Registry) Line(id SourceID, line int) (string, error) {
	e := r.entry(id)
	e.resolve(r.fs)
	if e.err != nil {
		return "", e.err
	}
	if line < 0 || line >= e.index.LineCount() {
		return "", fmt.Errorf("source %q has no line %d", e.path, line)
	}
	return e.index.Line(line), nil
}

// WholeSpan returns the span covering the source's entire content.
func (r *Registry) WholeSpan(id SourceID) (Span, error) {
	e := r.entry(id)
	e.resolve(r.fs)
	if e.err != nil {
		return Span{}, e.err
	}
	return Span{Source: id, Start: 0, End: uint32(len(e.content))}, nil
}

// Update replaces the content of an already registered source, e.g. after
// the underlying file changed. The id stays the same.
func (r *Registry) Update(id SourceID, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !id.Valid() || int(id) > len(r.entries) {
		panic(fmt.Sprintf("mapweave: %v is not registered", id))
	}
	e := &entry{id: id, path: r.entries[id-1].path}
	e.once.Do(func() { e.fill(content) })
	r.entries[id-1] = e
}

func (r *Registry) entry(id SourceID) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !id.Valid() || int(id) > len(r.entries) {
		panic(fmt.Sprintf("mapweave: %v is not registered", id))
	}
	return r.entries[id-1]
}
