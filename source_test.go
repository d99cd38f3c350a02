package abnfc

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSource(t *testing.T) {
	src, err := Dir("testdata/grammars")
	require.NoError(t, err)

	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "grammars", "core.abnf"),
		filepath.Join("testdata", "grammars", "postal.abnf"),
		filepath.Join("testdata", "grammars", "rfc", "json.abnf"),
	}, files)

	data, err := src.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "ALPHA")
}

func TestDirSourceExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.abnf"), []byte("a = b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b = c\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.BNF"), []byte("c = d\n"), 0o644))

	src, err := Dir(dir)
	require.NoError(t, err)
	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.abnf"), filepath.Join(dir, "c.BNF")}, files)

	src, err = Dir(dir, WithExtensions(".txt"))
	require.NoError(t, err)
	files, err = src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.txt")}, files)
}

func TestDirSourceErrors(t *testing.T) {
	_, err := Dir("testdata/grammars/nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Dir("testdata/grammars/core.abnf")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"core.abnf":       {Data: []byte("a = b\n")},
		"rfc/http.abnf":   {Data: []byte("b = c\n")},
		"rfc/notes.txt":   {Data: []byte("not a grammar")},
		"rfc/deep/x.abnf": {Data: []byte("x = y\n")},
	}

	files, err := FS(fsys, "**/*.abnf").Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"core.abnf", "rfc/deep/x.abnf", "rfc/http.abnf"}, files)

	files, err = FS(fsys, "rfc/*").Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"rfc/http.abnf", "rfc/notes.txt"}, files)

	data, err := FS(fsys, "**").ReadFile("rfc/http.abnf")
	require.NoError(t, err)
	assert.Equal(t, "b = c\n", string(data))
}

func TestFilesSource(t *testing.T) {
	files, err := Files("testdata/grammars/*.abnf", "testdata/grammars/core.abnf").Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "grammars", "core.abnf"),
		filepath.Join("testdata", "grammars", "postal.abnf"),
	}, files)

	files, err = Files("testdata/grammars/**/*.abnf").Files()
	require.NoError(t, err)
	assert.Len(t, files, 3)

	src := Files("testdata/grammars/missing.abnf")
	files, err = src.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"testdata/grammars/missing.abnf"}, files)
	_, err = src.ReadFile(files[0])
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMultiSource(t *testing.T) {
	a := fstest.MapFS{"a.abnf": {Data: []byte("a = b\n")}, "shared.abnf": {Data: []byte("from a")}}
	b := fstest.MapFS{"b.abnf": {Data: []byte("b = c\n")}, "shared.abnf": {Data: []byte("from b")}}
	src := Multi(FS(a, "*.abnf"), FS(b, "*.abnf"))

	files, err := src.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.abnf", "shared.abnf", "b.abnf"}, files)

	data, err := src.ReadFile("shared.abnf")
	require.NoError(t, err)
	assert.Equal(t, "from a", string(data))

	data, err = src.ReadFile("b.abnf")
	require.NoError(t, err)
	assert.Equal(t, "b = c\n", string(data))

	_, err = src.ReadFile("none.abnf")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
