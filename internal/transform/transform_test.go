package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/imgbatch/internal/raster"
)

func solid(t *testing.T, w, h int, c raster.RGB) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = c
	}
	return buf
}

func TestLuma(t *testing.T) {
	tests := []struct {
		name string
		in   raster.RGB
		want uint8
	}{
		{"black", raster.RGB{0, 0, 0}, 0},
		{"white", raster.RGB{255, 255, 255}, 255},
		{"red", raster.RGB{255, 0, 0}, 76},
		{"green", raster.RGB{0, 255, 0}, 150},
		{"blue", raster.RGB{0, 0, 255}, 28},
		{"mixed", raster.RGB{10, 20, 30}, 18},
		{"gray fixed point", raster.RGB{128, 128, 128}, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Luma(tt.in))
		})
	}
}

func TestConvertToGrayscale_SolidRed(t *testing.T) {
	src := solid(t, 4, 3, raster.RGB{255, 0, 0})

	gray := ConvertToGrayscale(src)
	assert.Equal(t, 4, gray.Width)
	assert.Equal(t, 3, gray.Height)
	for _, p := range gray.Pix {
		assert.Equal(t, raster.RGB{76, 76, 76}, p)
	}
	// Source is untouched.
	assert.Equal(t, raster.RGB{255, 0, 0}, src.At(0, 0))
}

func TestScaleImage_Halves(t *testing.T) {
	src := solid(t, 64, 64, raster.RGB{1, 2, 3})

	dst, err := ScaleImage(src, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 32, dst.Width)
	assert.Equal(t, 32, dst.Height)
	require.NoError(t, dst.Validate())
	assert.Equal(t, raster.RGB{1, 2, 3}, dst.At(31, 31))
}

func TestScaleImage_OddDimensionsFloor(t *testing.T) {
	src := solid(t, 7, 5, raster.RGB{})

	dst, err := ScaleImage(src, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3, dst.Width)
	assert.Equal(t, 2, dst.Height)
}

func TestScaleImage_NearestSamplesPixelCentres(t *testing.T) {
	src, err := raster.New(4, 1)
	require.NoError(t, err)
	for x := range 4 {
		v := uint8(x * 10)
		src.Set(x, 0, raster.RGB{v, v, v})
	}

	// Two output pixels whose centres land on source columns 1 and 3.
	dst, err := Scale(src, 0.5, FilterNearest)
	require.NoError(t, err)
	assert.Equal(t, raster.RGB{10, 10, 10}, dst.At(0, 0))
	assert.Equal(t, raster.RGB{30, 30, 30}, dst.At(1, 0))
}

func TestScaleImage_OneByOneIsInvalid(t *testing.T) {
	src := solid(t, 1, 1, raster.RGB{255, 255, 255})

	dst, err := ScaleImage(src, 0.5)
	require.ErrorIs(t, err, raster.ErrInvalidDimension)
	assert.Nil(t, dst)
}

func TestScaleImage_BadFactor(t *testing.T) {
	src := solid(t, 8, 8, raster.RGB{})
	for _, f := range []float64{0, -1} {
		_, err := ScaleImage(src, f)
		require.ErrorIs(t, err, raster.ErrInvalidDimension, "factor %v", f)
	}
}

func TestScale_InvalidSource(t *testing.T) {
	_, err := ScaleImage(&raster.Buffer{Width: 2, Height: 2}, 0.5)
	require.Error(t, err)
}

func TestScale_Filters(t *testing.T) {
	src := solid(t, 20, 10, raster.RGB{100, 150, 200})

	for _, f := range Filters {
		t.Run(string(f), func(t *testing.T) {
			dst, err := Scale(src, 0.5, f)
			require.NoError(t, err)
			assert.Equal(t, 10, dst.Width)
			assert.Equal(t, 5, dst.Height)
			// A uniform source stays uniform under every filter, up to rounding.
			p := dst.At(5, 2)
			assert.InDelta(t, 100, int(p.R), 1)
			assert.InDelta(t, 150, int(p.G), 1)
			assert.InDelta(t, 200, int(p.B), 1)
		})
	}
}

func TestScale_NormalisesFilterName(t *testing.T) {
	src := solid(t, 8, 4, raster.RGB{10, 20, 30})

	for _, name := range []string{"Bilinear", " box", "LANCZOS", "Nearest", ""} {
		dst, err := Scale(src, 0.5, Filter(name))
		require.NoError(t, err, "filter %q", name)
		assert.Equal(t, 4, dst.Width)
		assert.Equal(t, 2, dst.Height)
	}
}

func TestScale_UnknownFilter(t *testing.T) {
	src := solid(t, 4, 4, raster.RGB{})
	_, err := Scale(src, 0.5, Filter("sinc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resampling filter")
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterNearest, f)

	f, err = ParseFilter(" Bilinear ")
	require.NoError(t, err)
	assert.Equal(t, FilterBilinear, f)

	_, err = ParseFilter("cubic")
	require.Error(t, err)
}

func TestScaledSize(t *testing.T) {
	w, h, err := ScaledSize(640, 480, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	_, _, err = ScaledSize(1, 100, 0.5)
	require.ErrorIs(t, err, raster.ErrInvalidDimension)
}
