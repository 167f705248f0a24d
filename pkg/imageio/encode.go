package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const DefaultQuality = 95

// FileMode is the permission of every file Encode writes.
const FileMode os.FileMode = 0o644

// FormatForPath maps a file extension to an encoder name. Unknown extensions
// fall back to png.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	default:
		return "png"
	}
}

// Encode writes img to path in the format its extension names. The file is
// written to a temporary name beside path and renamed once complete, so a
// failed encode never leaves a partial file behind.
func Encode(path string, img image.Image, quality int) (err error) {
	format := FormatForPath(path)
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = EncodeTo(tmp, format, img, quality); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err = tmp.Chmod(FileMode); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// EncodeTo writes img to w as format. quality only applies to jpeg; values
// outside 1..100 select DefaultQuality.
func EncodeTo(w io.Writer, format string, img image.Image, quality int) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w for writing: %s", ErrUnsupportedFormat, format)
}
