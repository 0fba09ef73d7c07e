package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/imgbatch/internal/config"
)

func TestConfigShow_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestConfigShow_FileAndFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pattern: \"*.bmp\"\ntransform:\n  scale_factor: 0.1\n"), 0o600))

	out, _, err := execute(t, "--config", path, "--log-level", "debug", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# config file: "+path)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "*.bmp", cfg.Pattern)
	assert.InDelta(t, 0.1, cfg.Transform.ScaleFactor, 1e-9)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfigShow_WarnsOnInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  jpeg_quality: 500\n"), 0o600))

	_, stderr, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stderr, "jpeg_quality")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to imgbatch.yaml")
	assert.FileExists(t, filepath.Join(dir, "imgbatch.yaml"))

	_, _, err = execute(t, "config", "init")
	require.Error(t, err, "existing file must not be overwritten")

	custom := filepath.Join(dir, "other.yaml")
	_, _, err = execute(t, "config", "init", custom)
	require.NoError(t, err)
	assert.FileExists(t, custom)
}
