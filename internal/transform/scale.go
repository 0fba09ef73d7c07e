// Package transform implements the pixel stages of an image task: scaling
// and luma-weighted grayscale conversion. All functions are pure.
package transform

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/MeKo-Tech/imgbatch/internal/raster"
)

// DefaultScaleFactor halves both sides.
const DefaultScaleFactor = 0.5

// Filter selects the resampling policy used by Scale.
type Filter string

const (
	// FilterNearest is deterministic pixel-centre nearest-neighbour sampling.
	FilterNearest Filter = "nearest"
	// FilterBilinear uses golang.org/x/image/draw.BiLinear.
	FilterBilinear Filter = "bilinear"
	// FilterBox averages source pixels covered by each destination pixel.
	FilterBox Filter = "box"
	// FilterLanczos is imaging's Lanczos-3 kernel.
	FilterLanczos Filter = "lanczos"
)

// Filters lists the accepted filter names.
var Filters = []Filter{FilterNearest, FilterBilinear, FilterBox, FilterLanczos}

// ParseFilter converts a configuration value into a Filter.
func ParseFilter(name string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FilterNearest, nil
	}
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown resampling filter %q", name)
}

// ScaledSize returns floor(width*factor) x floor(height*factor), or an error
// wrapping raster.ErrInvalidDimension when either side collapses to zero.
func ScaledSize(width, height int, factor float64) (int, int, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, 0, fmt.Errorf("%w: scale factor %v", raster.ErrInvalidDimension, factor)
	}
	w := int(math.Floor(float64(width) * factor))
	h := int(math.Floor(float64(height) * factor))
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d scaled by %v gives %dx%d",
			raster.ErrInvalidDimension, width, height, factor, w, h)
	}
	return w, h, nil
}

// ScaleImage resizes src by factor using nearest-neighbour sampling.
func ScaleImage(src *raster.Buffer, factor float64) (*raster.Buffer, error) {
	return Scale(src, factor, FilterNearest)
}

// Scale resizes src by factor with the given filter.
func Scale(src *raster.Buffer, factor float64, filter Filter) (*raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	w, h, err := ScaledSize(src.Width, src.Height, factor)
	if err != nil {
		return nil, err
	}

	filter, err = ParseFilter(string(filter))
	if err != nil {
		return nil, err
	}

	switch filter {
	case FilterNearest:
		return nearest(src, w, h)
	case FilterBilinear:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		img := src.ToImage()
		xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return raster.FromImage(dst)
	case FilterBox:
		return raster.FromImage(imaging.Resize(src.ToImage(), w, h, imaging.Box))
	case FilterLanczos:
		return raster.FromImage(imaging.Resize(src.ToImage(), w, h, imaging.Lanczos))
	default:
		return nil, fmt.Errorf("unknown resampling filter %q", filter)
	}
}

// nearest samples the source pixel whose centre is closest to the centre of
// each destination pixel: sx = floor((2x+1)*W / (2*w)).
func nearest(src *raster.Buffer, w, h int) (*raster.Buffer, error) {
	dst, err := raster.Acquire(w, h)
	if err != nil {
		return nil, err
	}

	xs := make([]int, w)
	for x := range w {
		xs[x] = (2*x + 1) * src.Width / (2 * w)
	}
	for y := range h {
		sy := (2*y + 1) * src.Height / (2 * h)
		srow := src.Pix[sy*src.Width : (sy+1)*src.Width]
		drow := dst.Pix[y*w : (y+1)*w]
		for x, sx := range xs {
			drow[x] = srow[sx]
		}
	}
	return dst, nil
}
