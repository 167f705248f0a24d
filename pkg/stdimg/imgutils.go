package stdimg

import (
	"image"
	"image/color"
	"image/draw"
)

// ToNRGBA converts any image.Image to a new *image.NRGBA (non-premultiplied RGBA)
// whose bounds start at (0,0). The source is never modified.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		// row copy, the source stride may be wider than ours
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.PixOffset(0, y)
			copy(out.Pix[di:di+rowLen], n.Pix[si:si+rowLen])
		}
		return out
	}
	switch src.(type) {
	case *image.RGBA, *image.YCbCr, *image.Gray, *image.Paletted:
		// draw.Src un-premultiplies correctly into NRGBA for the common decoder outputs
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = c.A
		}
	}
	return out
}

// CloneNRGBA returns a copy of the provided image.NRGBA
func CloneNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// NewSolidNRGBA returns a w x h canvas filled with c.
func NewSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	FillRect(img, img.Rect, c)
	return img
}

// FillRect overwrites every pixel of r (clipped to img) with c.
func FillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Rect)
	if r.Empty() {
		return
	}
	px := [4]uint8{c.R, c.G, c.B, c.A}
	// fill the first row, then copy it down
	first := img.PixOffset(r.Min.X, r.Min.Y)
	rowLen := r.Dx() * 4
	for i := 0; i < rowLen; i += 4 {
		copy(img.Pix[first+i:first+i+4], px[:])
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		copy(img.Pix[i:i+rowLen], img.Pix[first:first+rowLen])
	}
}

// IsEmpty reports whether img is nil or has zero area.
func IsEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// samplePixelClamped returns the color.NRGBA at integer coords clamped to image.
func samplePixelClamped(img *image.NRGBA, x, y int) color.NRGBA {
	b := img.Bounds()
	x = clampInt(x, b.Min.X, b.Max.X-1)
	y = clampInt(y, b.Min.Y, b.Max.Y-1)
	i := img.PixOffset(x, y)
	return color.NRGBA{img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}
