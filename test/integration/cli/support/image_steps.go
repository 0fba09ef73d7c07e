package support

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"
)

var namedColors = map[string]color.RGBA{
	"red":   {R: 255, A: 255},
	"green": {G: 255, A: 255},
	"blue":  {B: 255, A: 255},
	"white": {R: 255, G: 255, B: 255, A: 255},
	"black": {A: 255},
}

func (testCtx *TestContext) aDirectory(path string) error {
	if err := os.MkdirAll(testCtx.Path(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// aSolidImage writes a width x height image of one color; the format follows
// the file extension.
func (testCtx *TestContext) aSolidImage(width, height int, colorName, path string) error {
	c, ok := namedColors[colorName]
	if !ok {
		return fmt.Errorf("unknown color %q", colorName)
	}
	full := testCtx.Path(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return err
	}
	img := imaging.New(width, height, c)
	if err := imaging.Save(img, full, imaging.JPEGQuality(100)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (testCtx *TestContext) aCorruptFile(path string) error {
	full := testCtx.Path(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return err
	}
	return os.WriteFile(full, []byte("this is not an image"), 0o600)
}

func (testCtx *TestContext) theFileShouldExist(path string) error {
	info, err := os.Stat(testCtx.Path(path))
	if err != nil {
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldNotExist(path string) error {
	if _, err := os.Stat(testCtx.Path(path)); !os.IsNotExist(err) {
		return fmt.Errorf("file %s should not exist", path)
	}
	return nil
}

func (testCtx *TestContext) theDirectoryShouldExist(path string) error {
	info, err := os.Stat(testCtx.Path(path))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory %s does not exist", path)
	}
	return nil
}

func (testCtx *TestContext) theDirectoryShouldContainFiles(path string, n int) error {
	entries, err := os.ReadDir(testCtx.Path(path))
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if len(entries) != n {
		return fmt.Errorf("expected %d entries in %s, got %d", n, path, len(entries))
	}
	return nil
}

func (testCtx *TestContext) loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(testCtx.Path(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return img, nil
}

func (testCtx *TestContext) theImageShouldMeasure(path string, width, height int) error {
	img, err := testCtx.loadImage(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("%s is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), width, height)
	}
	return nil
}

// theImageShouldBeUniformGray requires every channel of every pixel to equal level.
func (testCtx *TestContext) theImageShouldBeUniformGray(path string, level int) error {
	img, err := testCtx.loadImage(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			for _, ch := range []int{int(r >> 8), int(g >> 8), int(bl >> 8)} {
				if ch != level {
					return fmt.Errorf("%s pixel (%d,%d) = (%d,%d,%d), want gray %d",
						path, x, y, r>>8, g>>8, bl>>8, level)
				}
			}
		}
	}
	return nil
}

// RegisterImageSteps registers fixture and output image steps.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a directory "([^"]*)"$`, testCtx.aDirectory)
	sc.Step(`^a (\d+)x(\d+) (\w+) image "([^"]*)"$`, testCtx.aSolidImage)
	sc.Step(`^a corrupt file "([^"]*)"$`, testCtx.aCorruptFile)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should not exist$`, testCtx.theFileShouldNotExist)
	sc.Step(`^the directory "([^"]*)" should exist$`, testCtx.theDirectoryShouldExist)
	sc.Step(`^the directory "([^"]*)" should contain (\d+) files?$`, testCtx.theDirectoryShouldContainFiles)
	sc.Step(`^"([^"]*)" should be a (\d+)x(\d+) image$`, testCtx.theImageShouldMeasure)
	sc.Step(`^"([^"]*)" should be uniformly gray at (\d+)$`, testCtx.theImageShouldBeUniformGray)
}
