package stdimg

import (
	"image"
	"math"
	"sync"
)

// sampleBilinear samples src at floating coordinates (x,y) using bilinear interpolation.
func sampleBilinear(src *image.NRGBA, x, y float64) (r, g, b, a float64) {
	if src == nil {
		return
	}
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	c00 := samplePixelClamped(src, x0, y0)
	c10 := samplePixelClamped(src, x1, y0)
	c01 := samplePixelClamped(src, x0, y1)
	c11 := samplePixelClamped(src, x1, y1)

	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	// weight by alpha so transparent neighbours don't bleed their color
	w00 := (1 - xFrac) * (1 - yFrac) * float64(c00.A)
	w10 := xFrac * (1 - yFrac) * float64(c10.A)
	w01 := (1 - xFrac) * yFrac * float64(c01.A)
	w11 := xFrac * yFrac * float64(c11.A)
	a = w00 + w10 + w01 + w11
	if a == 0 {
		return 0, 0, 0, 0
	}
	r = (float64(c00.R)*w00 + float64(c10.R)*w10 + float64(c01.R)*w01 + float64(c11.R)*w11) / a
	g = (float64(c00.G)*w00 + float64(c10.G)*w10 + float64(c01.G)*w01 + float64(c11.G)*w11) / a
	b = (float64(c00.B)*w00 + float64(c10.B)*w10 + float64(c01.B)*w01 + float64(c11.B)*w11) / a
	return r, g, b, a
}

// sinc helper
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x = math.Pi * x
	return math.Sin(x) / x
}

// lanczosKernel returns lanczos weight for distance x with parameter a.
func lanczosKernel(x, a float64) float64 {
	x = math.Abs(x)
	if x < 1e-12 {
		return 1
	}
	if x >= a {
		return 0
	}
	return sinc(x) * sinc(x/a)
}

// ResampleLanczos resamples src to dstW x dstH using Lanczos with window a (commonly 3).
// The filter is applied separably (horizontal then vertical) and widened by the
// scale factor when downscaling, so large reductions don't alias.
func ResampleLanczos(src *image.NRGBA, dstW, dstH int, a float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, maxInt(dstW, 0), maxInt(dstH, 0)))
	if dstW <= 0 || dstH <= 0 || src.Rect.Empty() {
		return dst
	}
	src = ToNRGBA(src)
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()

	// premultiplied float rows keep alpha edges clean through the two passes
	tmp := make([]float64, dstW*srcH*4)
	xw := lanczosWeights(srcW, dstW, a)
	parallelRows(srcH, func(y int) {
		for x := 0; x < dstW; x++ {
			var r, g, b, al float64
			for _, t := range xw[x] {
				i := src.PixOffset(t.index, y)
				pa := float64(src.Pix[i+3])
				w := t.weight * pa / 255.0
				r += float64(src.Pix[i+0]) * w
				g += float64(src.Pix[i+1]) * w
				b += float64(src.Pix[i+2]) * w
				al += pa * t.weight
			}
			o := (y*dstW + x) * 4
			tmp[o+0], tmp[o+1], tmp[o+2], tmp[o+3] = r, g, b, al
		}
	})

	yw := lanczosWeights(srcH, dstH, a)
	parallelRows(dstH, func(y int) {
		for x := 0; x < dstW; x++ {
			var r, g, b, al float64
			for _, t := range yw[y] {
				o := (t.index*dstW + x) * 4
				r += tmp[o+0] * t.weight
				g += tmp[o+1] * t.weight
				b += tmp[o+2] * t.weight
				al += tmp[o+3] * t.weight
			}
			i := dst.PixOffset(x, y)
			storeUnpremultiplied(dst.Pix[i:i+4], r, g, b, al)
		}
	})
	return dst
}

// ResampleBilinear resamples src to dstW x dstH using bilinear interpolation.
func ResampleBilinear(src *image.NRGBA, dstW, dstH int) *image.NRGBA {
	if src == nil {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, maxInt(dstW, 0), maxInt(dstH, 0)))
	if dstW <= 0 || dstH <= 0 || src.Rect.Empty() {
		return dst
	}
	src = ToNRGBA(src)
	xScale := float64(src.Rect.Dx()) / float64(dstW)
	yScale := float64(src.Rect.Dy()) / float64(dstH)
	parallelRows(dstH, func(y int) {
		sy := (float64(y)+0.5)*yScale - 0.5
		for x := 0; x < dstW; x++ {
			sx := (float64(x)+0.5)*xScale - 0.5
			r, g, b, a := sampleBilinear(src, sx, sy)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = roundToUint8(r)
			dst.Pix[i+1] = roundToUint8(g)
			dst.Pix[i+2] = roundToUint8(b)
			dst.Pix[i+3] = roundToUint8(a)
		}
	})
	return dst
}

// ResampleNearest resamples src to dstW x dstH picking the nearest source pixel.
func ResampleNearest(src *image.NRGBA, dstW, dstH int) *image.NRGBA {
	if src == nil {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, maxInt(dstW, 0), maxInt(dstH, 0)))
	if dstW <= 0 || dstH <= 0 || src.Rect.Empty() {
		return dst
	}
	src = ToNRGBA(src)
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	parallelRows(dstH, func(y int) {
		sy := clampInt(int((float64(y)+0.5)*float64(srcH)/float64(dstH)), 0, srcH-1)
		for x := 0; x < dstW; x++ {
			sx := clampInt(int((float64(x)+0.5)*float64(srcW)/float64(dstW)), 0, srcW-1)
			si := src.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	})
	return dst
}

type lanczosTap struct {
	index  int
	weight float64
}

// lanczosWeights precomputes normalized taps for each destination coordinate.
func lanczosWeights(srcLen, dstLen int, a float64) [][]lanczosTap {
	scale := float64(srcLen) / float64(dstLen)
	support := a
	filterScale := 1.0
	if scale > 1 {
		support *= scale
		filterScale = scale
	}
	out := make([][]lanczosTap, dstLen)
	for d := 0; d < dstLen; d++ {
		center := (float64(d)+0.5)*scale - 0.5
		lo := int(math.Floor(center - support + 1))
		hi := int(math.Ceil(center + support - 1))
		taps := make([]lanczosTap, 0, hi-lo+1)
		sum := 0.0
		for s := lo; s <= hi; s++ {
			w := lanczosKernel((float64(s)-center)/filterScale, a)
			if w == 0 {
				continue
			}
			taps = append(taps, lanczosTap{index: clampInt(s, 0, srcLen-1), weight: w})
			sum += w
		}
		if sum == 0 {
			taps = []lanczosTap{{index: clampInt(int(math.Round(center)), 0, srcLen-1), weight: 1}}
			sum = 1
		}
		for i := range taps {
			taps[i].weight /= sum
		}
		out[d] = taps
	}
	return out
}

// storeUnpremultiplied writes premultiplied float channels as NRGBA bytes.
func storeUnpremultiplied(px []uint8, r, g, b, a float64) {
	if a <= 0 {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 0
		return
	}
	k := 255.0 / a
	px[0] = roundToUint8(r * k)
	px[1] = roundToUint8(g * k)
	px[2] = roundToUint8(b * k)
	px[3] = roundToUint8(a)
}

// parallelRows runs fn for every row in [0,h) spread across goroutines.
func parallelRows(h int, fn func(y int)) {
	var wg sync.WaitGroup
	for y := 0; y < h; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			fn(y)
		}(y)
	}
	wg.Wait()
}

// clampFloatToUint8 ensures v in [0,255]
func clampFloatToUint8(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func roundToUint8(v float64) uint8 {
	return uint8(clampFloatToUint8(v) + 0.5)
}
