package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

// ReadTree returns every regular file under root keyed by its slash-separated
// path relative to root.
func ReadTree(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to read tree %s: %v", root, err)
	}
	return tree
}

// AssertTree checks that root holds exactly the files in want.
func AssertTree(t *testing.T, fs afero.Fs, root string, want map[string]string) {
	t.Helper()
	assert.Equal(t, want, ReadTree(t, fs, root))
}

// AssertNotExists checks that path does not exist on fs.
func AssertNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	exists, err := afero.Exists(fs, path)
	assert.NoError(t, err)
	assert.False(t, exists, "%s should not exist", path)
}
