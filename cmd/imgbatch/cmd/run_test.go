package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/imgbatch/internal/testutil"
)

func TestRunCommand_ProcessesDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	in, out := testutil.CreateBatchDirs(t)
	testutil.WriteSolidImage(t, filepath.Join(in, "a.jpg"), 64, 64, testutil.Red)
	testutil.WriteCorruptFile(t, filepath.Join(in, "b.jpg"))

	stdout, stderr, err := execute(t, "run", "--input", in, "--output", out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[:2], "Image processed and saved: "+filepath.Join(out, "a.jpg"))
	var errLine string
	for _, l := range lines[:2] {
		if strings.HasPrefix(l, "Error processing image ") {
			errLine = l
		}
	}
	assert.True(t, strings.HasPrefix(errLine, "Error processing image "+filepath.Join(in, "b.jpg")+": "), errLine)
	assert.Regexp(t, `^All images processed in [0-9.e-]+ seconds\.$`, lines[2])

	// Logs go to stderr as JSON, never into the result lines.
	assert.Contains(t, stderr, `"msg":"Batch completed"`)

	img := testutil.LoadImage(t, filepath.Join(out, "a.jpg"))
	assert.Equal(t, 32, img.Bounds().Dx())
	testutil.AssertUniformGray(t, img, 76, 0)
}

func TestRunCommand_Flags(t *testing.T) {
	t.Chdir(t.TempDir())
	in, out := testutil.CreateBatchDirs(t)
	testutil.WriteSolidImage(t, filepath.Join(in, "A.PNG"), 40, 40, testutil.Red)
	metricsFile := filepath.Join(t.TempDir(), "imgbatch.prom")

	_, _, err := execute(t, "run", "-i", in, "-o", out,
		"--pattern", "*.png", "--ignore-case", "--scale", "0.25", "--filter", "box",
		"--max-tasks", "2", "--metrics-file", metricsFile)
	require.NoError(t, err)

	img := testutil.LoadImage(t, filepath.Join(out, "A.PNG"))
	assert.Equal(t, 10, img.Bounds().Dx())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `imgbatch_images_total{status="ok"} 1`)
}

func TestRunCommand_EnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	in, out := testutil.CreateBatchDirs(t)
	testutil.WriteSolidImage(t, filepath.Join(in, "a.jpg"), 20, 20, testutil.Red)
	t.Setenv("IMGBATCH_INPUT_DIR", in)
	t.Setenv("IMGBATCH_OUTPUT_DIR", out)

	stdout, _, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Image processed and saved: "+filepath.Join(out, "a.jpg"))
}

func TestRunCommand_InvalidScale(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "run", "--scale", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunCommand_MissingInputDir(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	_, _, err := execute(t, "run", "--input", filepath.Join(root, "missing"), "--output", filepath.Join(root, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover image files")
	// The output directory is created before listing fails.
	assert.True(t, testutil.DirExists(filepath.Join(root, "out")))
}

func TestRunCommand_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "run", "extra")
	require.Error(t, err)
}
