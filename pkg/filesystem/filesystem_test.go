package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	require.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, afero.WriteFile(fs, testFile, []byte("hello world"), 0644))

	exists, err := Exists(fs, testFile)
	require.NoError(t, err)
	assert.True(t, exists)

	isDir, err := IsDir(fs, tmpDir)
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = IsDir(fs, testFile)
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestExistsAndIsDirMissing(t *testing.T) {
	fs := NewMemory()

	exists, err := Exists(fs, "/nope")
	require.NoError(t, err)
	assert.False(t, exists)

	isDir, err := IsDir(fs, "/nope")
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestCopyFile(t *testing.T) {
	t.Run("copies content and creates parents", func(t *testing.T) {
		fs := NewMemory()
		require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("payload"), 0644))

		n, err := CopyFile(fs, "/src/a.txt", "/out/deep/nested/a.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)

		got, err := afero.ReadFile(fs, "/out/deep/nested/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "payload", string(got))
	})

	t.Run("truncates existing destination", func(t *testing.T) {
		fs := NewMemory()
		require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("new"), 0644))
		require.NoError(t, afero.WriteFile(fs, "/dst/a.txt", []byte("much longer old content"), 0644))

		_, err := CopyFile(fs, "/src/a.txt", "/dst/a.txt")
		require.NoError(t, err)

		got, err := afero.ReadFile(fs, "/dst/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("missing source fails", func(t *testing.T) {
		fs := NewMemory()
		_, err := CopyFile(fs, "/src/none.txt", "/dst/none.txt")
		assert.Error(t, err)

		exists, _ := Exists(fs, "/dst/none.txt")
		assert.False(t, exists)
	})

	t.Run("directory source fails", func(t *testing.T) {
		fs := NewMemory()
		require.NoError(t, fs.MkdirAll("/src/dir", 0755))
		_, err := CopyFile(fs, "/src/dir", "/dst/dir")
		assert.Error(t, err)
	})

	t.Run("works on the real filesystem", func(t *testing.T) {
		fs := NewOS()
		dir := t.TempDir()
		src := filepath.Join(dir, "src.bin")
		dst := filepath.Join(dir, "out", "dst.bin")
		data := make([]byte, 10000)
		for i := range data {
			data[i] = byte(i % 251)
		}
		require.NoError(t, afero.WriteFile(fs, src, data, 0600))

		n, err := CopyFile(fs, src, dst)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), n)

		got, err := afero.ReadFile(fs, dst)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})
}
