package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path,
// relative paths resolving against the working directory. In-memory SQLite
// DSNs (":memory:", "file::memory:...") are left alone.
func EnsureParentDir(path string) (string, error) {
	if path == "" || strings.Contains(path, ":memory:") {
		return "", nil
	}

	abs, err := filepath.Abs(strings.TrimPrefix(path, "file:"))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if i := strings.IndexByte(abs, '?'); i >= 0 {
		abs = abs[:i]
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
