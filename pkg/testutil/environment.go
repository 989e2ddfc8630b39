package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/packmerge/pkg/filesystem"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment holds a filesystem and a base directory under which
// packs and outputs are created.
type TestEnvironment struct {
	FS   afero.Fs
	Root string
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
		env.Root = "/virtual"
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		env.Root = t.TempDir()
	}

	if err := env.FS.MkdirAll(env.Root, 0755); err != nil {
		t.Fatalf("Failed to create environment root: %v", err)
	}
	return env
}

// Path returns name joined onto the environment root
func (env *TestEnvironment) Path(name string) string {
	return filepath.Join(env.Root, name)
}

// SetupPack creates a pack directory named name holding files, a map of
// slash-separated relative path to content. It returns the pack root.
func (env *TestEnvironment) SetupPack(name string, files map[string]string) string {
	env.t.Helper()

	root := env.Path(name)
	if err := env.FS.MkdirAll(root, 0755); err != nil {
		env.t.Fatalf("Failed to create pack %s: %v", name, err)
	}
	for rel, content := range files {
		env.WriteFile(filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root
}

// WriteFile writes content to path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()

	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := afero.WriteFile(env.FS, path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadTree returns every regular file under root as relative path to content.
func (env *TestEnvironment) ReadTree(root string) map[string]string {
	env.t.Helper()
	return ReadTree(env.t, env.FS, root)
}
