package stdimg

import (
	"image"
	"math"
)

// gaussianKernel1D generates a 1D Gaussian kernel with given sigma. Returns kernel and half-width radius.
func gaussianKernel1D(sigma float64) ([]float64, int) {
	if sigma <= 0 {
		return []float64{1.0}, 0
	}
	// choose radius ~ ceil(3*sigma)
	radius := int(math.Ceil(3 * sigma))
	sz := radius*2 + 1
	kern := make([]float64, sz)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * (float64(i) * float64(i)) / (sigma * sigma))
		kern[i+radius] = v
		sum += v
	}
	// normalize
	for i := range kern {
		kern[i] /= sum
	}
	return kern, radius
}

// SeparableGaussianBlur applies a separable gaussian blur to src and returns a new *image.NRGBA
func SeparableGaussianBlur(src *image.NRGBA, sigma float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	kern, radius := gaussianKernel1D(sigma)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	// horizontal pass
	parallelRows(h, func(y int) {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for k := -radius; k <= radius; k++ {
				c := samplePixelClamped(src, x+k, y)
				wgt := kern[k+radius]
				acc[0] += float64(c.R) * wgt
				acc[1] += float64(c.G) * wgt
				acc[2] += float64(c.B) * wgt
				acc[3] += float64(c.A) * wgt
			}
			i := tmp.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				tmp.Pix[i+c] = roundToUint8(acc[c])
			}
		}
	})

	// vertical pass
	parallelRows(h, func(y int) {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for k := -radius; k <= radius; k++ {
				c := samplePixelClamped(tmp, x, y+k)
				wgt := kern[k+radius]
				acc[0] += float64(c.R) * wgt
				acc[1] += float64(c.G) * wgt
				acc[2] += float64(c.B) * wgt
				acc[3] += float64(c.A) * wgt
			}
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[i+c] = roundToUint8(acc[c])
			}
		}
	})
	return dst
}

// BoxBlur averages every channel over a (2*radius+1) square window with the
// image edges extended. The two running-sum passes cost O(1) per pixel, so very
// large radii (the 100px backdrop blur) stay cheap.
func BoxBlur(src *image.NRGBA, radius int) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	if radius <= 0 || src.Rect.Empty() {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	tmp := image.NewNRGBA(src.Rect)
	dst := image.NewNRGBA(src.Rect)
	window := uint32(2*radius + 1)

	parallelRows(h, func(y int) {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := tmp.Pix[y*tmp.Stride : y*tmp.Stride+w*4]
		boxLine(row, out, w, 4, radius, window)
	})

	// vertical pass works on one column at a time through a gathered line
	parallelRows(w, func(x int) {
		col := make([]uint8, h*4)
		for y := 0; y < h; y++ {
			copy(col[y*4:y*4+4], tmp.Pix[y*tmp.Stride+x*4:y*tmp.Stride+x*4+4])
		}
		out := make([]uint8, h*4)
		boxLine(col, out, h, 4, radius, window)
		for y := 0; y < h; y++ {
			copy(dst.Pix[y*dst.Stride+x*4:y*dst.Stride+x*4+4], out[y*4:y*4+4])
		}
	})
	return dst
}

// boxLine runs a clamped sliding-window mean over n pixels of size ch in line.
func boxLine(line, out []uint8, n, ch, radius int, window uint32) {
	var sum [4]uint32
	at := func(i, c int) uint32 {
		return uint32(line[clampInt(i, 0, n-1)*ch+c])
	}
	for c := 0; c < ch; c++ {
		for i := -radius; i <= radius; i++ {
			sum[c] += at(i, c)
		}
	}
	half := window / 2
	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			out[i*ch+c] = uint8((sum[c] + half) / window)
			sum[c] += at(i+radius+1, c)
			sum[c] -= at(i-radius, c)
		}
	}
}

// Smooth applies the classic 5x5 "BLUR" kernel: the 16 pixels on the border
// of the window weigh 1, the inner 3x3 weighs 0, divided by 16. Repeating it
// spreads a hard edge into a soft falloff. The ring sum is computed as a 5x5
// box sum minus a 3x3 box sum.
func Smooth(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	if src.Rect.Empty() {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	// horizontal 5- and 3-wide sums per channel
	h5 := make([]uint16, w*h*4)
	h3 := make([]uint16, w*h*4)
	parallelRows(h, func(y int) {
		row := src.Pix[y*src.Stride:]
		at := func(x, c int) uint16 { return uint16(row[clampInt(x, 0, w-1)*4+c]) }
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			for c := 0; c < 4; c++ {
				inner := at(x-1, c) + at(x, c) + at(x+1, c)
				h3[o+c] = inner
				h5[o+c] = inner + at(x-2, c) + at(x+2, c)
			}
		}
	})
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	parallelRows(h, func(y int) {
		rowAt := func(buf []uint16, yy, x, c int) uint32 {
			return uint32(buf[(clampInt(yy, 0, h-1)*w+x)*4+c])
		}
		for x := 0; x < w; x++ {
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				var s5, s3 uint32
				for d := -2; d <= 2; d++ {
					s5 += rowAt(h5, y+d, x, c)
				}
				for d := -1; d <= 1; d++ {
					s3 += rowAt(h3, y+d, x, c)
				}
				dst.Pix[i+c] = uint8((s5 - s3 + 8) / 16)
			}
		}
	})
	return dst
}
