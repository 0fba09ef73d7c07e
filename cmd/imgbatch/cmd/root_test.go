package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh command tree and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := GetRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "imgbatch", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "downscaled grayscale copy")
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "imgbatch version dev")
}

func TestRootCommandSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, sub := range NewRootCommand().Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"run", "config"} {
		assert.Contains(t, names, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	_, _, err := execute(t, "--no-such-flag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRootCommandMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "--config", "/nonexistent/imgbatch.yaml", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading configuration")
}
