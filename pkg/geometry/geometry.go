// Package geometry holds the size and crop math that turns a source image into
// a screen-filling backdrop and a fitted foreground.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/Fepozopo/artwall/pkg/resample"
	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var (
	ErrEmptyImage    = errors.New("image has zero area")
	ErrTooSmall      = errors.New("image smaller than target")
	ErrInvalidBounds = errors.New("invalid target bounds")
)

// CoverSize returns the smallest size with the aspect ratio of (w,h) that
// covers (screenW,screenH). The matched dimension is exact; the other one is
// rounded and never falls below its screen dimension.
func CoverSize(w, h, screenW, screenH int) image.Point {
	if w*screenH > h*screenW {
		// wider than the screen: match height
		sw := int(math.Round(float64(screenH) * float64(w) / float64(h)))
		return image.Pt(max(sw, screenW), screenH)
	}
	sh := int(math.Round(float64(screenW) * float64(h) / float64(w)))
	return image.Pt(screenW, max(sh, screenH))
}

// ScaleToCover resizes img with r so it covers the screen in both dimensions.
func ScaleToCover(img image.Image, screenW, screenH int, r resample.Resampler) (*image.NRGBA, error) {
	if stdimg.IsEmpty(img) {
		return nil, ErrEmptyImage
	}
	if screenW <= 0 || screenH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, screenW, screenH)
	}
	b := img.Bounds()
	size := CoverSize(b.Dx(), b.Dy(), screenW, screenH)
	if size == b.Size() {
		return stdimg.ToNRGBA(img), nil
	}
	if r == nil {
		r = resample.Default()
	}
	out, err := r.Resize(img, size)
	if err != nil {
		return nil, fmt.Errorf("scale to cover %dx%d: %w", size.X, size.Y, err)
	}
	return out, nil
}

// CropBox returns the centered (screenW x screenH) box inside a (w x h) image.
// When the width already matches only the vertical axis is cropped, otherwise
// the horizontal one. Should neither dimension match, both axes are centered.
func CropBox(w, h, screenW, screenH int) (image.Rectangle, error) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, ErrEmptyImage
	}
	if screenW <= 0 || screenH <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, screenW, screenH)
	}
	if w < screenW || h < screenH {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d < %dx%d", ErrTooSmall, w, h, screenW, screenH)
	}
	var left, top int
	switch {
	case w == screenW:
		top = (h - screenH) / 2
	case h == screenH:
		left = (w - screenW) / 2
	default:
		left = (w - screenW) / 2
		top = (h - screenH) / 2
	}
	return image.Rect(left, top, left+screenW, top+screenH), nil
}

// CropToExact copies the centered screen-sized region of img into a new buffer.
func CropToExact(img image.Image, screenW, screenH int) (*image.NRGBA, error) {
	if stdimg.IsEmpty(img) {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	box, err := CropBox(b.Dx(), b.Dy(), screenW, screenH)
	if err != nil {
		return nil, err
	}
	src := stdimg.ToNRGBA(img)
	out := image.NewNRGBA(image.Rect(0, 0, screenW, screenH))
	rowLen := screenW * 4
	for y := 0; y < screenH; y++ {
		si := src.PixOffset(box.Min.X, box.Min.Y+y)
		di := out.PixOffset(0, y)
		copy(out.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}
	return out, nil
}

// FitSize returns the size of (w,h) scaled down to fit inside (maxW,maxH).
// It never grows an image; the limiting dimension lands exactly on its bound.
func FitSize(w, h, maxW, maxH int) image.Point {
	if w <= maxW && h <= maxH {
		return image.Pt(w, h)
	}
	if w*maxH > h*maxW {
		// width is the limiting side
		return image.Pt(maxW, max(1, int(math.Round(float64(h)*float64(maxW)/float64(w)))))
	}
	return image.Pt(max(1, int(math.Round(float64(w)*float64(maxH)/float64(h)))), maxH)
}

// ThumbnailFit scales img down to fit within (maxW,maxH). An image that already
// fits comes back as an independent copy.
func ThumbnailFit(img image.Image, maxW, maxH int, r resample.Resampler) (*image.NRGBA, error) {
	if stdimg.IsEmpty(img) {
		return nil, ErrEmptyImage
	}
	if maxW <= 0 || maxH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, maxW, maxH)
	}
	b := img.Bounds()
	size := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if size == b.Size() {
		return stdimg.ToNRGBA(img), nil
	}
	if r == nil {
		r = resample.Default()
	}
	out, err := r.Resize(img, size)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %dx%d: %w", size.X, size.Y, err)
	}
	return out, nil
}
