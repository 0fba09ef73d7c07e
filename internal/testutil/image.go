package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// Red is the solid colour used by the batch fixtures.
var Red = color.RGBA{255, 0, 0, 255}

// CreateTestImage creates a simple test image with the specified dimensions and color.
func CreateTestImage(width, height int, backgroundColor color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// SaveImage encodes img to path, choosing the format from the extension.
// JPEGs are written at quality 100 so solid fixtures survive the round trip.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)
	require.NoError(t, imaging.Save(img, path, imaging.JPEGQuality(100)), "Failed to save %s", path)
}

// WriteSolidImage writes a width x height image filled with c.
func WriteSolidImage(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()

	SaveImage(t, CreateTestImage(width, height, c), path)
}

// WriteCorruptFile writes bytes that no image decoder accepts.
func WriteCorruptFile(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, os.WriteFile(path, []byte("this is not an image"), 0o600))
}

// LoadImage decodes the image at path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	img, err := imaging.Open(path)
	require.NoError(t, err, "Failed to decode image %s", path)
	return img
}

// AssertUniformGray checks that every pixel of img is gray with value want,
// within tol to absorb lossy encoding.
func AssertUniformGray(t *testing.T, img image.Image, want uint8, tol int) {
	t.Helper()

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			for _, ch := range []uint32{r >> 8, g >> 8, bl >> 8} {
				d := int(ch) - int(want)
				if d < -tol || d > tol {
					t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want gray %d±%d", x, y, r>>8, g>>8, bl>>8, want, tol)
				}
			}
		}
	}
}
