package stdimg

import (
	"image"
	"math"
	"strings"
)

// Supported blend operators (case-insensitive): OVER, MULTIPLY, SCREEN, OVERLAY, ADD, DIFFERENCE

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func blendNormal(sr, dr float64) float64   { return sr }
func blendMultiply(sr, dr float64) float64 { return sr * dr }
func blendScreen(sr, dr float64) float64   { return 1 - (1-sr)*(1-dr) }
func blendOverlay(sr, dr float64) float64 {
	if dr < 0.5 {
		return 2 * sr * dr
	}
	return 1 - 2*(1-sr)*(1-dr)
}
func blendAdd(sr, dr float64) float64        { return clamp01(sr + dr) }
func blendDifference(sr, dr float64) float64 { return math.Abs(dr - sr) }

func blendFuncFor(op string) func(sr, dr float64) float64 {
	switch strings.ToUpper(op) {
	case "MULTIPLY":
		return blendMultiply
	case "SCREEN":
		return blendScreen
	case "OVERLAY":
		return blendOverlay
	case "ADD", "PLUS", "SUM":
		return blendAdd
	case "DIFFERENCE":
		return blendDifference
	default:
		return blendNormal
	}
}

// Composite overlays src onto dst with its top-left corner at (xoff,yoff) in
// dst coordinates, using operator op and src's own alpha channel as the mask.
// Pixels of dst outside the overlap are untouched. dst is modified in place and returned.
func Composite(dst *image.NRGBA, src image.Image, op string, xoff, yoff int) *image.NRGBA {
	if dst == nil || src == nil {
		return dst
	}
	srcNR := ToNRGBA(src)
	dstB := dst.Bounds()
	srcB := srcNR.Bounds()

	// compute overlap
	startX := maxInt(dstB.Min.X, xoff)
	startY := maxInt(dstB.Min.Y, yoff)
	endX := minInt(dstB.Max.X, xoff+srcB.Dx())
	endY := minInt(dstB.Max.Y, yoff+srcB.Dy())

	if startX >= endX || startY >= endY {
		return dst // nothing to do
	}

	blendFunc := blendFuncFor(op)

	parallelRows(endY-startY, func(row int) {
		y := startY + row
		for x := startX; x < endX; x++ {
			si := srcNR.PixOffset(x-xoff, y-yoff)
			sa := float64(srcNR.Pix[si+3]) / 255.0
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			da := float64(dst.Pix[di+3]) / 255.0

			outA := sa + da*(1-sa)
			for c := 0; c < 3; c++ {
				sc := float64(srcNR.Pix[si+c]) / 255.0
				dc := float64(dst.Pix[di+c]) / 255.0
				// the blend only applies where there is backdrop to blend with
				mixed := (1-da)*sc + da*blendFunc(sc, dc)
				outC := (sa*mixed + da*(1-sa)*dc) / outA
				dst.Pix[di+c] = roundToUint8(outC * 255.0)
			}
			dst.Pix[di+3] = roundToUint8(outA * 255.0)
		}
	})
	return dst
}

// Flatten forces every pixel of img fully opaque in place.
func Flatten(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

// small helpers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
