package support

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/imgbatch/cmd/imgbatch/cmd"
)

var elapsedLine = regexp.MustCompile(`^All images processed in [0-9]+(\.[0-9]+)? seconds\.$`)

// iRunCommand executes an imgbatch command line in-process from the scratch
// directory and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substitute(command)
	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	if parts[0] == "imgbatch" {
		parts = parts[1:]
	}

	restore, err := testCtx.enterEnvironment()
	if err != nil {
		return err
	}
	defer restore()

	root := cmd.GetRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(parts)

	err = root.Execute()
	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)
	if err != nil {
		testCtx.LastExitCode = 1
	} else {
		testCtx.LastExitCode = 0
	}
	return nil
}

// enterEnvironment switches into the scratch directory and applies the
// scenario's environment variables until the returned func is called.
func (testCtx *TestContext) enterEnvironment() (func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if err := os.Chdir(testCtx.TempDir); err != nil {
		return nil, fmt.Errorf("failed to enter %s: %w", testCtx.TempDir, err)
	}

	previous := map[string]*string{}
	for name, value := range testCtx.EnvVars {
		if old, ok := os.LookupEnv(name); ok {
			previous[name] = &old
		} else {
			previous[name] = nil
		}
		_ = os.Setenv(name, value)
	}

	return func() {
		for name, old := range previous {
			if old == nil {
				_ = os.Unsetenv(name)
			} else {
				_ = os.Setenv(name, *old)
			}
		}
		_ = os.Chdir(wd)
	}, nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s\nStderr: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput, testCtx.LastStderr)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	expectedText = testCtx.substitute(expectedText)
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	text = testCtx.substitute(text)
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldHaveLines(n int) error {
	if lines := testCtx.outputLines(); len(lines) != n {
		return fmt.Errorf("expected %d output lines, got %d:\n%s", n, len(lines), testCtx.LastOutput)
	}
	return nil
}

// theLastLineShouldReportElapsedTime checks the timing line comes after every
// per-image line.
func (testCtx *TestContext) theLastLineShouldReportElapsedTime() error {
	lines := testCtx.outputLines()
	if len(lines) == 0 {
		return errors.New("no output")
	}
	last := lines[len(lines)-1]
	if !elapsedLine.MatchString(last) {
		return fmt.Errorf("last line is not the timing line: %q", last)
	}
	for _, l := range lines[:len(lines)-1] {
		if elapsedLine.MatchString(l) {
			return fmt.Errorf("timing line reported more than once:\n%s", testCtx.LastOutput)
		}
	}
	return nil
}

// theErrorShouldMention verifies the command error names the given text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil {
		return errors.New("expected an error, but the command succeeded")
	}
	if !strings.Contains(testCtx.LastError.Error(), errorText) {
		return fmt.Errorf("error does not mention '%s': %v", errorText, testCtx.LastError)
	}
	return nil
}

func (testCtx *TestContext) theLogsShouldContain(text string) error {
	if !strings.Contains(testCtx.LastStderr, text) {
		return fmt.Errorf("logs do not contain '%s'\nLogs: %s", text, testCtx.LastStderr)
	}
	return nil
}

func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, value)
	return nil
}

func (testCtx *TestContext) aConfigFileWith(path string, content *godog.DocString) error {
	full := testCtx.Path(path)
	if err := os.WriteFile(full, []byte(testCtx.substitute(content.Content)), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RegisterCommonSteps registers all common step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should have (\d+) lines?$`, testCtx.theOutputShouldHaveLines)
	sc.Step(`^the last line should report the total elapsed time$`, testCtx.theLastLineShouldReportElapsedTime)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the logs should contain "([^"]*)"$`, testCtx.theLogsShouldContain)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
	sc.Step(`^a config file "([^"]*)" with:$`, testCtx.aConfigFileWith)
}
