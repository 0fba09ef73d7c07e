package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/imgbatch/internal/testutil"
)

// sample describes one generated input file.
type sample struct {
	name          string
	width, height int
	color         color.Color
}

var samples = []sample{
	{"red_640x480.jpg", 640, 480, color.RGBA{255, 0, 0, 255}},
	{"green_1024x768.jpg", 1024, 768, color.RGBA{0, 255, 0, 255}},
	{"blue_301x199.jpg", 301, 199, color.RGBA{0, 0, 255, 255}},
	{"gray_64x64.jpg", 64, 64, color.Gray{Y: 128}},
	{"tiny_1x1.jpg", 1, 1, color.White},
}

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		outDir  = flag.String("dir", "images", "Directory to write sample inputs to")
		count   = flag.Int("copies", 1, "Number of copies of each sample")
		corrupt = flag.Bool("corrupt", true, "Also write an undecodable .jpg")
		help    = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate sample input images for imgbatch.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                      # Write samples to ./images\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -dir load -copies 50 # Many inputs for a load run\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	slog.Info("Starting sample generation...", "dir", *outDir, "copies", *count)

	n, err := generate(*outDir, *count, *corrupt)
	if err != nil {
		slog.Error("Failed to generate samples", "error", err)
		os.Exit(1)
	}

	slog.Info("Sample generation completed", "files", n)
}

// generate writes copies of every sample (plus an optional corrupt file) into
// dir and returns the number of files written.
func generate(dir string, copies int, corrupt bool) (int, error) {
	if copies < 1 {
		return 0, fmt.Errorf("copies must be >= 1, got %d", copies)
	}
	if err := testutil.EnsureDir(dir); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	written := 0
	for _, s := range samples {
		img := testutil.CreateTestImage(s.width, s.height, s.color)
		for i := range copies {
			name := s.name
			if copies > 1 {
				ext := filepath.Ext(name)
				name = fmt.Sprintf("%s_%03d%s", name[:len(name)-len(ext)], i, ext)
			}
			if err := imaging.Save(img, filepath.Join(dir, name), imaging.JPEGQuality(95)); err != nil {
				return written, fmt.Errorf("failed to save %s: %w", name, err)
			}
			written++
		}
	}

	if corrupt {
		path := filepath.Join(dir, "corrupt.jpg")
		if err := os.WriteFile(path, []byte("this is not an image"), 0o600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}
