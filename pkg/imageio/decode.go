// Package imageio reads and writes the image files artwall works on.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeError wraps every failure to turn a file into pixels.
type DecodeError struct {
	Path   string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	where := e.Path
	if where == "" {
		where = "image data"
	}
	if e.Format != "" {
		return fmt.Sprintf("decode %s (%s): %v", where, e.Format, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", where, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Info describes a decoded file.
type Info struct {
	Format      string
	MIME        string
	Width       int
	Height      int
	Orientation int
	// Truncated is set when the data ended early and only part of it decoded.
	Truncated bool
}

var decoders = map[string]func(io.Reader) (image.Image, error){
	"jpeg": jpeg.Decode,
	"png":  png.Decode,
	"gif":  gif.Decode, // first frame only
	"tiff": tiff.Decode,
	"bmp":  bmp.Decode,
	"webp": webp.Decode,
}

var mimeFormats = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/tiff": "tiff",
	"image/bmp":  "bmp",
	"image/webp": "webp",
}

// Decode reads path, sniffing the format from its content rather than its name.
func Decode(path string) (image.Image, Info, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, &DecodeError{Path: path, Err: err}
	}
	img, info, err := DecodeBytes(b)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, info, err
	}
	return img, info, nil
}

// DecodeBytes decodes an in-memory file. JPEG data that ends early is decoded
// as far as it goes; EXIF orientation is applied to JPEGs.
func DecodeBytes(b []byte) (image.Image, Info, error) {
	mt := mimetype.Detect(b)
	info := Info{MIME: mt.String(), Orientation: 1}
	format := formatOf(mt)
	if format == "" {
		return nil, info, &DecodeError{Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())}
	}
	info.Format = format
	dec := decoders[format]

	img, err := dec(bytes.NewReader(b))
	if err != nil && format == "jpeg" && isTruncation(err) {
		img, err = decodeTruncatedJPEG(b)
		info.Truncated = err == nil
	}
	if err != nil {
		return nil, info, &DecodeError{Format: format, Err: err}
	}

	if format == "jpeg" {
		if o, err := jpegOrientation(b); err == nil && o > 1 && o <= 8 {
			info.Orientation = o
			img = stdimg.AutoOrient(img, o)
		}
	}
	size := img.Bounds().Size()
	info.Width, info.Height = size.X, size.Y
	return img, info, nil
}

func formatOf(mt *mimetype.MIME) string {
	for m := mt; m != nil; m = m.Parent() {
		if f, ok := mimeFormats[m.String()]; ok {
			return f
		}
	}
	return ""
}

func isTruncation(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// decodeTruncatedJPEG first closes the stream with an EOI marker, then also
// pads the missing entropy-coded data with zeros.
func decodeTruncatedJPEG(b []byte) (image.Image, error) {
	eoi := []byte{0xFF, 0xD9}
	fixed := make([]byte, 0, len(b)+len(eoi))
	fixed = append(append(fixed, b...), eoi...)
	img, err := jpeg.Decode(bytes.NewReader(fixed))
	if err == nil {
		return img, nil
	}
	pad := make([]byte, max(len(b), 64<<10))
	padded := make([]byte, 0, len(b)+len(pad)+len(eoi))
	padded = append(append(append(padded, b...), pad...), eoi...)
	return jpeg.Decode(bytes.NewReader(padded))
}
