package qr

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintTerminal(&buf, "http://192.168.1.2:8000/")
	assert.NotZero(t, buf.Len(), "expected QR output")
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share_link_qr.png")
	require.NoError(t, WritePNG(path, "http://192.168.1.2:8000/"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8], "PNG signature")
}

func TestWritePNGBadPath(t *testing.T) {
	err := WritePNG(filepath.Join(t.TempDir(), "no", "such", "dir.png"), "http://x/")
	assert.Error(t, err)
}
