package resample

import (
	"image"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

// Lanczos uses the built-in separable Lanczos filter with window A.
type Lanczos struct{ A float64 }

var _ Resampler = (*Lanczos)(nil)

func (r *Lanczos) Name() string { return "lanczos" }

func (r *Lanczos) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	a := r.A
	if a <= 0 {
		a = 3
	}
	return stdimg.ResampleLanczos(stdimg.ToNRGBA(img), size.X, size.Y, a), nil
}

// Bilinear uses the built-in bilinear filter.
type Bilinear struct{}

var _ Resampler = (*Bilinear)(nil)

func (r *Bilinear) Name() string { return "bilinear" }

func (r *Bilinear) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	return stdimg.ResampleBilinear(stdimg.ToNRGBA(img), size.X, size.Y), nil
}

// Nearest picks the closest source pixel.
type Nearest struct{}

var _ Resampler = (*Nearest)(nil)

func (r *Nearest) Name() string { return "nearest" }

func (r *Nearest) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	return stdimg.ResampleNearest(stdimg.ToNRGBA(img), size.X, size.Y), nil
}
