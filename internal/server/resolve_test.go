package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds a canonicalized share root with a small tree:
//
//	hello.txt
//	docs/readme.md
//	..odd.txt
func newTestRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "readme.md"), []byte("# docs\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "..odd.txt"), []byte("odd\n"), 0644))
	return root
}

func TestResolveValidPaths(t *testing.T) {
	root := newTestRoot(t)
	pr := &pathResolver{root: root}

	tests := []struct {
		name        string
		requestPath string
		want        string
		wantDir     bool
	}{
		{"root", "/", root, true},
		{"file", "/hello.txt", filepath.Join(root, "hello.txt"), false},
		{"subdirectory", "/docs", filepath.Join(root, "docs"), true},
		{"nested file", "/docs/readme.md", filepath.Join(root, "docs", "readme.md"), false},
		{"trailing slash", "/docs/", filepath.Join(root, "docs"), true},
		{"dot segments staying inside", "/docs/../hello.txt", filepath.Join(root, "hello.txt"), false},
		{"name starting with dots", "/..odd.txt", filepath.Join(root, "..odd.txt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, info, err := pr.Resolve(tt.requestPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDir, info.IsDir())
		})
	}
}

func TestResolveTraversal(t *testing.T) {
	root := newTestRoot(t)
	pr := &pathResolver{root: root}

	for _, requestPath := range []string{
		"/../escape.txt",
		"/../../etc/passwd",
		"/docs/../../etc/passwd",
		"/..",
	} {
		t.Run(requestPath, func(t *testing.T) {
			_, _, err := pr.Resolve(requestPath)
			assert.ErrorIs(t, err, ErrTraversal)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	root := newTestRoot(t)
	pr := &pathResolver{root: root}

	for _, requestPath := range []string{"/nope.txt", "/docs/missing/deep.txt"} {
		_, _, err := pr.Resolve(requestPath)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	root := newTestRoot(t)
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "link.txt")))

	pr := &pathResolver{root: root}
	_, _, err := pr.Resolve("/link.txt")
	assert.ErrorIs(t, err, ErrTraversal, "symlink out of the share root must read as traversal")
}

func TestResolveSymlinkInsideRoot(t *testing.T) {
	root := newTestRoot(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "hello.txt"), filepath.Join(root, "alias.txt")))

	pr := &pathResolver{root: root}
	got, info, err := pr.Resolve("/alias.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "hello.txt"), got)
	assert.False(t, info.IsDir())
}

func TestContainsRejectsSiblingPrefix(t *testing.T) {
	assert.False(t, contains("/srv/share", "/srv/share2/file.txt"))
	assert.True(t, contains("/srv/share", "/srv/share"))
	assert.True(t, contains("/srv/share", "/srv/share/sub/file.txt"))
	assert.False(t, contains("/srv/share", "/srv"))
}
