package resample

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/bamiaux/rez"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

// Imaging uses "github.com/disintegration/imaging"
type Imaging struct{}

var _ Resampler = (*Imaging)(nil)

func (r *Imaging) Name() string { return "imaging" }

func (r *Imaging) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	return asNRGBA(imaging.Resize(img, size.X, size.Y, imaging.Lanczos)), nil
}

// Gift uses "github.com/disintegration/gift"
type Gift struct{}

var _ Resampler = (*Gift)(nil)

func (r *Gift) Name() string { return "gift" }

func (r *Gift) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	m := image.NewNRGBA(image.Rectangle{Max: size})
	gift.Resize(size.X, size.Y, gift.LanczosResampling).Draw(m, img, &gift.Options{Parallelization: true})
	return m, nil
}

// Nfnt uses "github.com/nfnt/resize"
type Nfnt struct{}

var _ Resampler = (*Nfnt)(nil)

func (r *Nfnt) Name() string { return "nfnt" }

func (r *Nfnt) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	// nfnt hands back its input unchanged for a same-size resize
	if img.Bounds().Size() == size {
		return stdimg.ToNRGBA(img), nil
	}
	return asNRGBA(resize.Resize(uint(size.X), uint(size.Y), img, resize.Lanczos3)), nil
}

// Bild uses "github.com/anthonynsimon/bild/transform"
type Bild struct{}

var _ Resampler = (*Bild)(nil)

func (r *Bild) Name() string { return "bild" }

func (r *Bild) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	return asNRGBA(transform.Resize(img, size.X, size.Y, transform.Lanczos)), nil
}

// Rez uses "github.com/bamiaux/rez". rez only handles a few concrete image
// types; anything it rejects is scaled with x/image/draw instead.
type Rez struct{}

var _ Resampler = (*Rez)(nil)

func (r *Rez) Name() string { return "rez" }

func (r *Rez) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	src := image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
	xdraw.Draw(src, src.Bounds(), img, img.Bounds().Min, xdraw.Src)
	m := image.NewRGBA(image.Rectangle{Max: size})
	if err := rez.Convert(m, src, rez.NewBilinearFilter()); err != nil {
		return (&XDraw{}).Resize(img, size)
	}
	return asNRGBA(m), nil
}

// XDraw uses "golang.org/x/image/draw". Kernel defaults to CatmullRom.
type XDraw struct{ Kernel xdraw.Interpolator }

var _ Resampler = (*XDraw)(nil)

func (r *XDraw) Name() string { return "xdraw" }

func (r *XDraw) Resize(img image.Image, size image.Point) (*image.NRGBA, error) {
	if err := check(img, size); err != nil {
		return nil, err
	}
	k := r.Kernel
	if k == nil {
		k = xdraw.CatmullRom
	}
	m := image.NewNRGBA(image.Rectangle{Max: size})
	k.Scale(m, m.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return m, nil
}
