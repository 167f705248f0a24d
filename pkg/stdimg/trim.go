package stdimg

import (
	"image"
)

// TrimBounds returns the smallest rectangle holding every pixel whose RGB
// distance from the top-left pixel exceeds fuzz (0..441 on the 0..255 scale).
// An image with no such pixel reports its full bounds.
func TrimBounds(src *image.NRGBA, fuzz float64) image.Rectangle {
	b := src.Bounds()
	if b.Empty() {
		return b
	}
	ref := src.Pix[src.PixOffset(b.Min.X, b.Min.Y):]
	refR, refG, refB := float64(ref[0]), float64(ref[1]), float64(ref[2])
	fuzzSq := fuzz * fuzz

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			dr := float64(src.Pix[i+0]) - refR
			dg := float64(src.Pix[i+1]) - refG
			db := float64(src.Pix[i+2]) - refB
			if dr*dr+dg*dg+db*db <= fuzzSq {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX || maxY < minY {
		return b
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Trim cuts away a uniform border matching the top-left pixel color within
// fuzz. The result always has a zero origin.
func Trim(src *image.NRGBA, fuzz float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	return CropNRGBA(src, TrimBounds(src, fuzz))
}

// CropNRGBA copies r (clipped to src) into a new zero-origin image.
func CropNRGBA(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(src.Bounds())
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		si := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()*4], src.Pix[si:si+r.Dx()*4])
	}
	return out
}
