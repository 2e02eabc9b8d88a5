package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsThroughViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.False(t, cfg.Hidden)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestValidateCanonicalizesDir(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Dir = dir

	require.NoError(t, cfg.Validate())
	assert.True(t, filepath.IsAbs(cfg.Dir))

	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, real, cfg.Dir)
}

func TestValidateMissingDir(t *testing.T) {
	cfg := Default()
	cfg.Dir = filepath.Join(t.TempDir(), "does-not-exist")

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateFileNotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	cfg := Default()
	cfg.Dir = file

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidatePortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := Default()
		cfg.Dir = t.TempDir()
		cfg.Port = port
		assert.Error(t, cfg.Validate(), "port %d", port)
	}
}

func TestAddrAndBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Host = "0.0.0.0"
	cfg.Port = 8000

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "http://192.168.1.5:8000/", cfg.BaseURL("192.168.1.5"))
}
