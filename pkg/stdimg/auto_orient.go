package stdimg

import (
	"image"
)

// AutoOrient applies EXIF orientation to an image.Image and returns a new image.Image.
// orientation follows EXIF spec (1..8). If orientation is 1 or unknown, the image is returned as-is.
func AutoOrient(img image.Image, orientation int) image.Image {
	if img == nil {
		return nil
	}
	if orientation <= 1 || orientation > 8 {
		return img
	}
	src := ToNRGBA(img)
	switch orientation {
	case 2:
		return FlopNRGBA(src)
	case 3:
		return Rotate180NRGBA(src)
	case 4:
		return FlipNRGBA(src)
	case 5:
		// transpose
		return FlopNRGBA(Rotate90CWNRGBA(src))
	case 6:
		return Rotate90CWNRGBA(src)
	case 7:
		// transverse
		return FlopNRGBA(Rotate90CCWNRGBA(src))
	case 8:
		return Rotate90CCWNRGBA(src)
	default:
		return img
	}
}

// remap copies every pixel of src to the position returned by to. swap
// exchanges the output width and height for quarter turns.
func remap(src *image.NRGBA, swap bool, to func(x, y, w, h int) (int, int)) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if swap {
		out = image.NewNRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := to(x, y, w, h)
			si := src.PixOffset(x, y)
			di := out.PixOffset(dx, dy)
			copy(out.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return out
}

// FlipNRGBA mirrors src vertically.
func FlipNRGBA(src *image.NRGBA) *image.NRGBA {
	return remap(src, false, func(x, y, w, h int) (int, int) { return x, h - 1 - y })
}

// FlopNRGBA mirrors src horizontally.
func FlopNRGBA(src *image.NRGBA) *image.NRGBA {
	return remap(src, false, func(x, y, w, h int) (int, int) { return w - 1 - x, y })
}

func Rotate180NRGBA(src *image.NRGBA) *image.NRGBA {
	return remap(src, false, func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y })
}

func Rotate90CWNRGBA(src *image.NRGBA) *image.NRGBA {
	return remap(src, true, func(x, y, w, h int) (int, int) { return h - 1 - y, x })
}

func Rotate90CCWNRGBA(src *image.NRGBA) *image.NRGBA {
	return remap(src, true, func(x, y, w, h int) (int, int) { return y, w - 1 - x })
}
