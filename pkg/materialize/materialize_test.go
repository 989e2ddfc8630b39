package materialize_test

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/materialize"
	"github.com/arthur-debert/packmerge/pkg/testutil"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	for _, envType := range []testutil.EnvType{testutil.EnvMemoryOnly, testutil.EnvIsolated} {
		env := testutil.NewTestEnvironment(t, envType)
		packs := types.NewPacks([]string{
			env.SetupPack("a", map[string]string{"x.txt": "hello", "docs/readme.md": "# a"}),
			env.SetupPack("b", map[string]string{"x.txt": "world", "y.txt": "z"}),
		})
		out := env.Path("out")

		var progress bytes.Buffer
		m := materialize.New(env.FS, out, &progress)
		stats, err := m.Materialize([]types.Resolution{
			{Path: "docs/readme.md", Source: packs[0], Reason: types.ReasonUnique},
			{Path: "x.txt", Source: packs[1], Reason: types.ReasonChosen},
			{Path: "y.txt", Source: packs[1], Reason: types.ReasonUnique},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, stats.Files)
		assert.Equal(t, int64(len("# a")+len("world")+len("z")), stats.Bytes)
		assert.Equal(t, "docs/readme.md\nx.txt\ny.txt\n", progress.String())
		testutil.AssertTree(t, env.FS, out, map[string]string{
			"docs/readme.md": "# a",
			"x.txt":          "world",
			"y.txt":          "z",
		})
	}
}

func TestMaterializeEmpty(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	out := env.Path("out")

	stats, err := materialize.New(env.FS, out, nil).Materialize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Files)

	testutil.AssertTree(t, env.FS, out, map[string]string{})
}

func TestMaterializeAbortsOnFirstFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packs := types.NewPacks([]string{
		env.SetupPack("a", map[string]string{"a.txt": "1", "c.txt": "3"}),
	})
	out := env.Path("out")

	stats, err := materialize.New(env.FS, out, nil).Materialize([]types.Resolution{
		{Path: "a.txt", Source: packs[0], Reason: types.ReasonUnique},
		{Path: "b.txt", Source: packs[0], Reason: types.ReasonUnique},
		{Path: "c.txt", Source: packs[0], Reason: types.ReasonUnique},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCopy))
	assert.Equal(t, 1, stats.Files)

	// No rollback: the first file stays, the third was never attempted.
	testutil.AssertTree(t, env.FS, out, map[string]string{"a.txt": "1"})
}

func TestMaterializeFileDirectoryClashAborts(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	packs := types.NewPacks([]string{
		env.SetupPack("a", map[string]string{"a": "file"}),
		env.SetupPack("b", map[string]string{"a/b": "nested", "c": "never"}),
	})
	out := env.Path("out")

	stats, err := materialize.New(env.FS, out, nil).Materialize([]types.Resolution{
		{Path: "a", Source: packs[0], Reason: types.ReasonUnique},
		{Path: "a/b", Source: packs[1], Reason: types.ReasonUnique},
		{Path: "c", Source: packs[1], Reason: types.ReasonUnique},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCopy))
	assert.Equal(t, 1, stats.Files)

	testutil.AssertTree(t, env.FS, out, map[string]string{"a": "file"})
}
