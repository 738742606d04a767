// Package security confines generated files to the configured output root.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutputRoot is the directory below which all generated files are written.
type OutputRoot struct {
	dir string
}

// NewOutputRoot creates an output root for dir. The directory does not have
// to exist yet; it is created on first use.
func NewOutputRoot(dir string) (*OutputRoot, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	return &OutputRoot{dir: filepath.Clean(abs)}, nil
}

// Dir returns the absolute root directory.
func (r *OutputRoot) Dir() string {
	return r.dir
}

// Contains reports whether path lies at or below the root. Symlinks in
// existing path prefixes are resolved before comparing.
func (r *OutputRoot) Contains(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	abs = filepath.Clean(abs)

	if !within(abs, r.dir) {
		return false, nil
	}

	realDir := evalExisting(r.dir)
	return within(evalExisting(abs), realDir), nil
}

// Resolve maps a caller supplied directory to an absolute path below the
// root. Relative paths are taken relative to the root; an empty path
// yields the root itself. Null bytes are stripped.
func (r *OutputRoot) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return r.dir, nil
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}

	ok, err := r.Contains(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("path is outside output directory: %s", path)
	}
	return filepath.Clean(path), nil
}

// WorkDir creates a fresh uniquely named directory below the root. The
// returned cleanup func removes it with everything inside.
func (r *OutputRoot) WorkDir() (string, func(), error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	dir := filepath.Join(r.dir, "dr-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	return dir, func() { os.RemoveAll(dir) }, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// evalExisting resolves symlinks in the longest existing prefix of path and
// appends the remaining components unchanged.
func evalExisting(path string) string {
	var rest []string
	for p := path; ; p = filepath.Dir(p) {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved
		}
		parent := filepath.Dir(p)
		if parent == p {
			return path
		}
		rest = append(rest, filepath.Base(p))
	}
}
