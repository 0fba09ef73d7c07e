package transform

import "github.com/MeKo-Tech/imgbatch/internal/raster"

// Luma weights in percent: 0.30 R + 0.59 G + 0.11 B.
const (
	lumaR = 30
	lumaG = 59
	lumaB = 11
)

// Luma returns floor(0.30*R + 0.59*G + 0.11*B) clamped to [0,255].
// The sum is computed over integers so the floor is exact and a gray pixel
// maps to itself.
func Luma(c raster.RGB) uint8 {
	v := (lumaR*uint32(c.R) + lumaG*uint32(c.G) + lumaB*uint32(c.B)) / 100
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// ConvertToGrayscale returns a new buffer of the same size in which every
// pixel's channels are set to the pixel's luma.
func ConvertToGrayscale(src *raster.Buffer) *raster.Buffer {
	dst := &raster.Buffer{
		Width:  src.Width,
		Height: src.Height,
		Pix:    make([]raster.RGB, len(src.Pix)),
	}
	for i, p := range src.Pix {
		g := Luma(p)
		dst.Pix[i] = raster.RGB{R: g, G: g, B: g}
	}
	return dst
}
