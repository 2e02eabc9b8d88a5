package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTraversal marks a request path that resolves outside the share
	// root, whether by ".." segments or by a symlink pointing out.
	ErrTraversal = errors.New("path escapes share root")
	// ErrNotFound marks a request path with no filesystem counterpart.
	ErrNotFound = errors.New("path not found")
)

// pathResolver maps request paths onto the share root. root is absolute
// and symlink-free (canonicalized at startup).
type pathResolver struct {
	root string
}

// Resolve validates a percent-decoded URL path and returns the canonical
// filesystem path it names, plus its file info. It is a pure filesystem
// query with no side effects.
func (pr *pathResolver) Resolve(requestPath string) (string, fs.FileInfo, error) {
	// Join cleans "." and ".." segments; the Rel check below is what
	// actually decides containment.
	target := filepath.Join(pr.root, filepath.FromSlash(requestPath))
	if !contains(pr.root, target) {
		return "", nil, ErrTraversal
	}

	// Canonicalize before the final containment check so a symlink
	// pointing outside the root counts as traversal, not as content.
	real, err := filepath.EvalSymlinks(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to canonicalize %q: %w", target, err)
	}
	if !contains(pr.root, real) {
		return "", nil, ErrTraversal
	}

	info, err := os.Stat(real)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to stat %q: %w", real, err)
	}
	return real, info, nil
}

// contains reports whether p is root itself or a descendant of it.
// The check runs on the path structure, not on a raw string prefix, so
// siblings like /srv/share2 do not pass for root /srv/share.
func contains(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
