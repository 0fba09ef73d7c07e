package support

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TestContext holds the state for integration tests.
type TestContext struct {
	// Command execution state
	LastCommand   string
	LastOutput    string
	LastStderr    string
	LastError     error
	LastExitCode  int
	LastStartTime time.Time
	LastDuration  time.Duration

	// Test environment
	TempDir string
	EnvVars map[string]string
}

// NewTestContext creates a new test context with its own scratch directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "imgbatch-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &TestContext{
		TempDir: tempDir,
		EnvVars: map[string]string{},
	}, nil
}

// Cleanup removes the scratch directory.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err)
	}
	return nil
}

// AddEnvVar adds an environment variable for command execution.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars[name] = testCtx.substitute(value)
}

// Path resolves a scenario-relative path inside the scratch directory.
func (testCtx *TestContext) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(testCtx.TempDir, filepath.FromSlash(rel))
}

// substitute replaces {tmp} with the scratch directory.
func (testCtx *TestContext) substitute(s string) string {
	return strings.ReplaceAll(s, "{tmp}", testCtx.TempDir)
}

// outputLines returns the non-empty stdout lines of the last command.
func (testCtx *TestContext) outputLines() []string {
	var lines []string
	for _, l := range strings.Split(testCtx.LastOutput, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
