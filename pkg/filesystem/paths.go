package filesystem

import (
	"os"
	"path/filepath"
)

// ExpandPath expands a leading ~ and environment variables in a path given
// on the command line, then cleans it.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == '/') {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Clean(path)
		}
		return filepath.Join(home, path[1:])
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// ExpandPaths applies ExpandPath to every element
func ExpandPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = ExpandPath(p)
	}
	return out
}
