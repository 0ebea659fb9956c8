package mapweave

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mapweave/mapweave/lineindex"
)

func TestRegistry_RegisterIdempotent(t *testing.T) {
	reg := NewRegistryFS(afero.NewMemMapFs())

	a := reg.Register("a.txt")
	b := reg.Register("b.txt")
	assert.NotEqual(t, a, b, "distinct paths must get distinct ids")
	assert.Equal(t, a, reg.Register("a.txt"), "re-registering a path must return the same id")
	assert.Equal(t, a, reg.RegisterContent("a.txt", "ignored"), "eager re-registration must return the same id")
	assert.True(t, a.Valid())
	assert.Equal(t, "a.txt", reg.Path(a))
	assert.Equal(t, 2, reg.Len())

	id, ok := reg.Lookup("b.txt")
	require.True(t, ok)
	assert.Equal(t, b, id)
	_, ok = reg.Lookup("missing.txt")
	assert.False(t, ok)
}

func TestRegistry_EagerContentNeverReads(t *testing.T) {
	// The backing filesystem has no such file, so any read attempt would
	// surface as an error.
	reg := NewRegistryFS(afero.NewMemMapFs())
	id := reg.RegisterContent("eager.txt", "hello\nworld\n")

	content, err := reg.Content(id)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", content)

	loc, err := reg.Location(id, 8)
	require.NoError(t, err)
	assert.Equal(t, lineindex.Location{Line: 1, Column: 2}, loc)
}

func TestRegistry_LazyResolution(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "lazy.txt", []byte("on disk"), 0o644))
	reg := NewRegistryFS(fs)

	id := reg.Register("lazy.txt")
	content, err := reg.Content(id)
	require.NoError(t, err)
	assert.Equal(t, "on disk", content)

	// The first read is cached: deleting the file must not matter anymore.
	require.NoError(t, fs.Remove("lazy.txt"))
	content, err = reg.Content(id)
	require.NoError(t, err)
	assert.Equal(t, "on disk", content)
}

func TestRegistry_SourceUnavailable(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "good.txt", []byte("fine"), 0o644))
	reg := NewRegistryFS(fs)

	good := reg.Register("good.txt")
	bad := reg.Register("missing.txt")

	_, err := reg.Content(bad)
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, bad, srcErr.ID)
	assert.Equal(t, "missing.txt", srcErr.Path)

	// The failure must not leak into other sources.
	content, err := reg.Content(good)
	require.NoError(t, err)
	assert.Equal(t, "fine", content)

	// Paths stay resolvable even for unavailable sources.
	assert.Equal(t, "missing.txt", reg.Path(bad))
}

func TestRegistry_Update(t *testing.T) {
	reg := NewRegistryFS(afero.NewMemMapFs())
	id := reg.RegisterContent("file.txt", "old")

	reg.Update(id, "new content\nsecond line")
	content, err := reg.Content(id)
	require.NoError(t, err)
	assert.Equal(t, "new content\nsecond line", content)

	loc, err := reg.Location(id, 12)
	require.NoError(t, err)
	assert.Equal(t, lineindex.Location{Line: 1, Column: 0}, loc)

	span, err := reg.WholeSpan(id)
	require.NoError(t, err)
	assert.Equal(t, NewSpan(id, 0, 23), span)
}

func TestRegistry_ConcurrentRegistration(t *testing.T) {
	reg := NewRegistryFS(afero.NewMemMapFs())

	const producers = 16
	const paths = 50

	var group errgroup.Group
	ids := make([][]SourceID, producers)
	for p := 0; p < producers; p++ {
		p := p
		group.Go(func() error {
			ids[p] = make([]SourceID, paths)
			for i := 0; i < paths; i++ {
				ids[p][i] = reg.RegisterContent(fmt.Sprintf("src/%d.txt", i), "content")
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())

	// Every producer must have observed the same id for the same path, and
	// distinct ids for distinct paths.
	seen := make(map[SourceID]bool)
	for i := 0; i < paths; i++ {
		want := ids[0][i]
		for p := 1; p < producers; p++ {
			assert.Equal(t, want, ids[p][i], "path %d", i)
		}
		assert.False(t, seen[want], "id %v assigned to two paths", want)
		seen[want] = true
	}
	assert.Equal(t, paths, reg.Len())
}
