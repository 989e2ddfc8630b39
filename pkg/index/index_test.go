package index_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/hashing"
	"github.com/arthur-debert/packmerge/pkg/index"
	"github.com/arthur-debert/packmerge/pkg/testutil"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPack(t *testing.T) {
	t.Run("lists regular files sorted and skips directories", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		root := env.SetupPack("a", map[string]string{
			"z.txt":       "z",
			"a/b/c.txt":   "c",
			"m.txt":       "m",
			"empty/.keep": "",
		})
		require.NoError(t, env.FS.MkdirAll(filepath.Join(root, "only-dir"), 0755))

		ix, err := index.ListPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root}, index.Options{})
		require.NoError(t, err)

		assert.Equal(t, []types.RelativePath{"a/b/c.txt", "empty/.keep", "m.txt", "z.txt"}, ix.Paths)
		assert.Equal(t, 4, ix.Len())
		assert.False(t, ix.Hashed())
	})

	t.Run("missing pack root aborts", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

		ix, err := index.ListPack(context.Background(), env.FS, types.Pack{Index: 1, Root: env.Path("nope")}, index.Options{})
		require.Error(t, err)
		assert.Nil(t, ix)
		assert.True(t, errors.IsErrorCode(err, errors.ErrIndex))
	})

	t.Run("exclude patterns drop files and directories", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		root := env.SetupPack("a", map[string]string{
			"keep.txt":        "k",
			".DS_Store":       "junk",
			"sub/.DS_Store":   "junk",
			"cache/big.bin":   "b",
			"cache/sub/more":  "b",
			"notes/readme.md": "r",
		})

		ix, err := index.ListPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root}, index.Options{
			Exclude: []string{"**/.DS_Store", "cache"},
		})
		require.NoError(t, err)
		assert.Equal(t, []types.RelativePath{"keep.txt", "notes/readme.md"}, ix.Paths)
	})

	t.Run("invalid exclude pattern is rejected", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		root := env.SetupPack("a", map[string]string{"x": "x"})

		_, err := index.ListPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root}, index.Options{
			Exclude: []string{"[unclosed"},
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestHashPack(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	root := env.SetupPack("a", map[string]string{
		"x.txt":   "hello",
		"d/y.txt": "world",
	})

	ix, err := index.HashPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root}, hashing.NewSHA256Hasher(0), index.Options{})
	require.NoError(t, err)

	require.True(t, ix.Hashed())
	x, ok := ix.Digest("x.txt")
	require.True(t, ok)
	assert.Equal(t, hashing.Sum([]byte("hello")), x)

	y, ok := ix.Digest("d/y.txt")
	require.True(t, ok)
	assert.Equal(t, hashing.Sum([]byte("world")), y)
}

func TestHashPackPropagatesHashErrors(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	root := env.SetupPack("a", map[string]string{"x.txt": "hello"})

	fake := hashing.NewFakeHasher()
	fake.SetError(filepath.Join(root, "x.txt"), os.ErrPermission)

	ix, err := index.HashPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root}, fake, index.Options{})
	require.Error(t, err)
	assert.Nil(t, ix)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestIndexPacks(t *testing.T) {
	t.Run("indexes all packs in order", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		a := env.SetupPack("a", map[string]string{"x.txt": "hello"})
		b := env.SetupPack("b", map[string]string{"x.txt": "world", "y.txt": "z"})
		c := env.SetupPack("c", map[string]string{})

		packs := types.NewPacks([]string{a, b, c})
		results, err := index.IndexPacks(context.Background(), env.FS, packs, index.Options{})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, packs[0], results[0].Pack)
		assert.Equal(t, []types.RelativePath{"x.txt"}, results[0].Paths)
		assert.Equal(t, []types.RelativePath{"x.txt", "y.txt"}, results[1].Paths)
		assert.Empty(t, results[2].Paths)
	})

	t.Run("one failing pack fails the whole run", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		a := env.SetupPack("a", map[string]string{"x.txt": "hello"})

		packs := types.NewPacks([]string{a, env.Path("missing")})
		results, err := index.IndexPacks(context.Background(), env.FS, packs, index.Options{})
		require.Error(t, err)
		assert.Nil(t, results)
	})

	t.Run("eager without hasher is rejected", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		a := env.SetupPack("a", map[string]string{"x.txt": "hello"})

		_, err := index.IndexPacks(context.Background(), env.FS, types.NewPacks([]string{a}), index.Options{Eager: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	})
}

func TestSymlinksOnRealFilesystem(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	root := env.SetupPack("a", map[string]string{"real.txt": "content"})

	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(env.Path("elsewhere"), filepath.Join(root, "dirlink")))
	require.NoError(t, os.MkdirAll(env.Path("elsewhere"), 0755))

	ix, err := index.ListPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root}, index.Options{})
	require.NoError(t, err)
	assert.Equal(t, []types.RelativePath{"link.txt", "real.txt"}, ix.Paths)
}

func TestSymlinkedPackRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	target := env.SetupPack("real", map[string]string{"x.txt": "hello", "d/y.txt": "z"})

	link := env.Path("link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	chained := env.Path("chained")
	require.NoError(t, os.Symlink("link", chained))

	for _, root := range []string{link, chained} {
		t.Run(filepath.Base(root), func(t *testing.T) {
			ix, err := index.HashPack(context.Background(), env.FS, types.Pack{Index: 1, Root: root},
				hashing.NewSHA256Hasher(0), index.Options{})
			require.NoError(t, err)

			assert.Equal(t, []types.RelativePath{"d/y.txt", "x.txt"}, ix.Paths)
			d, ok := ix.Digest("x.txt")
			require.True(t, ok)
			assert.Equal(t, hashing.Sum([]byte("hello")), d)
		})
	}
}

func TestSymlinkLoopAtPackRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	loop := env.Path("loop")
	if err := os.Symlink(loop, loop); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := index.ListPack(context.Background(), env.FS, types.Pack{Index: 1, Root: loop}, index.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIndex))
}
