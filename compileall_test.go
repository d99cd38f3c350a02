package abnfc

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAll(t *testing.T) {
	src, err := Dir("testdata/grammars")
	require.NoError(t, err)

	grammars, err := CompileAll(context.Background(), src, WithParallelism(2))
	require.NoError(t, err)
	require.Len(t, grammars, 3)

	counts := make([]int, len(grammars))
	for i, g := range grammars {
		counts[i] = len(g.Rules.Rules)
	}
	assert.Equal(t, []int{16, 20, 32}, counts)
}

func TestCompileAllPartialFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"a.abnf":   {Data: []byte("a = \"x\"\n")},
		"bad.abnf": {Data: []byte("x = )\n")},
		"c.abnf":   {Data: []byte("c = a / %x30\n")},
	}

	grammars, err := CompileAll(context.Background(), FS(fsys, "*.abnf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedToken)
	assert.Contains(t, err.Error(), "bad.abnf:1:5")

	require.Len(t, grammars, 2)
	assert.Equal(t, "a.abnf", grammars[0].Name)
	assert.Equal(t, "c.abnf", grammars[1].Name)
}

func TestCompileAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompileAll(ctx, FS(fstest.MapFS{"a.abnf": {Data: []byte("a = b\n")}}, "*.abnf"))
	assert.ErrorIs(t, err, context.Canceled)
}
