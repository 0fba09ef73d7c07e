// Package codec adapts on-disk image formats to raster buffers.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // register BMP decoding for image.Decode

	"github.com/MeKo-Tech/imgbatch/internal/raster"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 95

// Operation names carried by Error.
const (
	OpDecode = "decode"
	OpEncode = "encode"
)

// Error reports a failed decode or encode of a single file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Op == OpDecode
}

// IsEncode reports whether err is an encode failure.
func IsEncode(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Op == OpEncode
}

// Decoder reads an image file into a buffer owned by the caller.
type Decoder interface {
	Decode(path string) (*raster.Buffer, error)
}

// Encoder writes a buffer to an image file, overwriting it if present.
// Implementations must not retain buf after Encode returns.
type Encoder interface {
	Encode(buf *raster.Buffer, path string) error
}

// Codec combines both directions.
type Codec interface {
	Decoder
	Encoder
}

// FileCodec reads and writes local files through disintegration/imaging.
// The output format follows the destination file extension.
type FileCodec struct {
	quality    int
	autoOrient bool
}

// Option configures a FileCodec.
type Option func(*FileCodec)

// WithJPEGQuality sets the JPEG encoder quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(c *FileCodec) {
		if q > 0 && q <= 100 {
			c.quality = q
		}
	}
}

// WithAutoOrientation applies the EXIF orientation tag while decoding.
func WithAutoOrientation(enabled bool) Option {
	return func(c *FileCodec) {
		c.autoOrient = enabled
	}
}

// New creates a FileCodec.
func New(opts ...Option) *FileCodec {
	c := &FileCodec{quality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decode opens and decodes path. Missing files, unreadable data and unknown
// formats are all reported as *Error with Op == OpDecode.
func (c *FileCodec) Decode(path string) (*raster.Buffer, error) {
	if path == "" {
		return nil, &Error{Op: OpDecode, Path: path, Err: errors.New("empty path")}
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(c.autoOrient))
	if err != nil {
		return nil, &Error{Op: OpDecode, Path: path, Err: err}
	}
	buf, err := raster.FromImage(img)
	if err != nil {
		return nil, &Error{Op: OpDecode, Path: path, Err: err}
	}
	return buf, nil
}

// Encode writes buf to path. Gray buffers are stored single-channel.
func (c *FileCodec) Encode(buf *raster.Buffer, path string) error {
	if err := buf.Validate(); err != nil {
		return &Error{Op: OpEncode, Path: path, Err: err}
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return &Error{Op: OpEncode, Path: path, Err: fmt.Errorf("%w: %q", err, filepath.Ext(path))}
	}

	var err error
	if buf.IsGray() {
		err = imaging.Save(buf.ToGray(), path, imaging.JPEGQuality(c.quality))
	} else {
		err = imaging.Save(buf.ToImage(), path, imaging.JPEGQuality(c.quality))
	}
	if err != nil {
		return &Error{Op: OpEncode, Path: path, Err: err}
	}
	return nil
}
