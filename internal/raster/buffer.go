// Package raster holds the in-memory RGB pixel buffer passed between the
// decode, transform and encode stages of an image task.
package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/imgbatch/internal/mempool"
)

var pixels mempool.Pool[RGB]

// ErrInvalidDimension is returned when a buffer would have a zero or negative side.
var ErrInvalidDimension = errors.New("invalid dimension")

// RGB is a single 8-bit-per-channel pixel.
type RGB struct {
	R, G, B uint8
}

// Buffer is a row-major RGB raster. Pix[y*Width+x] addresses pixel (x, y).
type Buffer struct {
	Width  int
	Height int
	Pix    []RGB
}

// New allocates a black buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}, nil
}

// Acquire returns a buffer whose pixels come from a shared pool and are not
// cleared. Callers must write every pixel before reading it and may hand the
// buffer back with Release.
func Acquire(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    pixels.Get(width * height),
	}, nil
}

// Release returns the pixel storage to the pool. The buffer must not be used
// afterwards. Safe on nil.
func (b *Buffer) Release() {
	if b == nil || b.Pix == nil {
		return
	}
	pixels.Put(b.Pix)
	b.Pix = nil
}

// Validate checks that the pixel slice matches the declared dimensions.
func (b *Buffer) Validate() error {
	if b == nil {
		return errors.New("nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("pixel count %d does not match %dx%d", len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// At returns the pixel at (x, y). It panics if the coordinate is out of range.
func (b *Buffer) At(x, y int) RGB {
	return b.Pix[b.offset(x, y)]
}

// Set stores c at (x, y). It panics if the coordinate is out of range.
func (b *Buffer) Set(x, y int, c RGB) {
	b.Pix[b.offset(x, y)] = c
}

func (b *Buffer) offset(x, y int) int {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("raster: coordinate (%d,%d) outside %dx%d", x, y, b.Width, b.Height))
	}
	return y*b.Width + x
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]RGB, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// IsGray reports whether every pixel has equal R, G and B channels.
func (b *Buffer) IsGray() bool {
	for _, p := range b.Pix {
		if p.R != p.G || p.G != p.B {
			return false
		}
	}
	return true
}

// FromImage copies an image into a new buffer. Alpha is dropped after the
// colour model's premultiplication, so translucent pixels darken toward black.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	bounds := img.Bounds()
	buf, err := Acquire(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.RGBA:
		for y := range buf.Height {
			o := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[o : o+buf.Width*4]
			for x := range buf.Width {
				buf.Pix[y*buf.Width+x] = RGB{row[x*4], row[x*4+1], row[x*4+2]}
			}
		}
	case *image.Gray:
		for y := range buf.Height {
			o := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[o : o+buf.Width]
			for x, v := range row {
				buf.Pix[y*buf.Width+x] = RGB{v, v, v}
			}
		}
	default:
		for y := range buf.Height {
			for x := range buf.Width {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				buf.Pix[y*buf.Width+x] = RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
			}
		}
	}

	return buf, nil
}

// ToImage renders the buffer as an opaque *image.RGBA anchored at (0,0).
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, p := range b.Pix {
		o := i * 4
		img.Pix[o] = p.R
		img.Pix[o+1] = p.G
		img.Pix[o+2] = p.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// ToGray renders the buffer as *image.Gray using the red channel. Callers
// should only use it on buffers for which IsGray is true.
func (b *Buffer) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i, p := range b.Pix {
		img.Pix[i] = p.R
	}
	return img
}
