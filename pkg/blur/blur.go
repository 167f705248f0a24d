// Package blur provides single-pass blur filters and the repeated-blur
// strategy used to soften drop shadows.
package blur

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var ErrUnknown = errors.New("unknown blur filter")

// Filter is a single, stateless blur pass. Apply never modifies src and
// returns a new buffer of the same size.
type Filter interface {
	Name() string
	Apply(src *image.NRGBA, radius float64) *image.NRGBA
}

var registry = map[string]func() Filter{
	"box":      func() Filter { return Box{} },
	"gaussian": func() Filter { return Gaussian{} },
	"smooth":   func() Filter { return Smooth{} },
	"bild":     func() Filter { return Bild{} },
	"gift":     func() Filter { return Gift{} },
	"imaging":  func() Filter { return Imaging{} },
}

// ByName returns the filter registered under name (case-insensitive).
func ByName(name string) (Filter, error) {
	mk, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the registered filters in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Box averages a (2r+1) square window with running sums, so cost does not
// grow with the radius. Radius is rounded to whole pixels.
type Box struct{}

func (Box) Name() string { return "box" }

func (Box) Apply(src *image.NRGBA, radius float64) *image.NRGBA {
	return stdimg.BoxBlur(src, int(math.Round(radius)))
}

// Gaussian is a separable Gaussian with sigma = radius.
type Gaussian struct{}

func (Gaussian) Name() string { return "gaussian" }

func (Gaussian) Apply(src *image.NRGBA, radius float64) *image.NRGBA {
	return stdimg.SeparableGaussianBlur(src, radius)
}

// Smooth is the fixed 5x5 ring kernel; radius is ignored.
type Smooth struct{}

func (Smooth) Name() string { return "smooth" }

func (Smooth) Apply(src *image.NRGBA, _ float64) *image.NRGBA {
	return stdimg.Smooth(src)
}

// Bild runs the Gaussian kernel of "github.com/anthonynsimon/bild/blur"
// through bild's convolution. bild truncates every channel after each pass,
// so premultiplied color and alpha are convolved as separate opaque planes
// with a half-unit bias, which rounds instead.
type Bild struct{}

func (Bild) Name() string { return "bild" }

func (Bild) Apply(src *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return stdimg.ToNRGBA(src)
	}
	length := int(math.Ceil(2*radius + 1))
	k := convolution.NewKernel(length, 1)
	for i, x := 0, -radius; i < length; i, x = i+1, x+1 {
		k.Matrix[i] = math.Exp(-(x * x / 4 / radius))
	}
	h := k.Normalized()
	v := h.Transposed()
	opts := &convolution.Options{Bias: 0.5, KeepAlpha: true}

	colors, alpha := splitPlanes(stdimg.ToNRGBA(src))
	colors = convolution.Convolve(convolution.Convolve(colors, h, opts), v, opts)
	alpha = convolution.Convolve(convolution.Convolve(alpha, h, opts), v, opts)
	return joinPlanes(colors, alpha)
}

// splitPlanes returns the premultiplied color of src and its alpha spread
// over R, G and B. Both planes are opaque.
func splitPlanes(src *image.NRGBA) (colors, alpha *image.RGBA) {
	colors = image.NewRGBA(src.Bounds())
	alpha = image.NewRGBA(src.Bounds())
	for i := 0; i < len(src.Pix); i += 4 {
		a := uint32(src.Pix[i+3])
		for c := 0; c < 3; c++ {
			colors.Pix[i+c] = uint8((uint32(src.Pix[i+c])*a + 127) / 255)
			alpha.Pix[i+c] = uint8(a)
		}
		colors.Pix[i+3] = 255
		alpha.Pix[i+3] = 255
	}
	return colors, alpha
}

func joinPlanes(colors, alpha *image.RGBA) *image.NRGBA {
	b := colors.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := 0; i < len(dst.Pix); i += 4 {
		a := uint32(alpha.Pix[i])
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = uint8(min(255, (uint32(colors.Pix[i+c])*255+a/2)/a))
		}
		dst.Pix[i+3] = uint8(a)
	}
	return dst
}

// Gift is the square mean filter of "github.com/disintegration/gift".
type Gift struct{}

func (Gift) Name() string { return "gift" }

func (Gift) Apply(src *image.NRGBA, radius float64) *image.NRGBA {
	r := int(math.Round(radius))
	if r <= 0 {
		return stdimg.ToNRGBA(src)
	}
	g := gift.New(gift.Mean(2*r+1, false))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()).Sub(src.Bounds().Min))
	g.Draw(dst, src)
	return dst
}

// Imaging uses "github.com/disintegration/imaging"
type Imaging struct{}

func (Imaging) Name() string { return "imaging" }

func (Imaging) Apply(src *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return stdimg.ToNRGBA(src)
	}
	return imaging.Blur(src, radius)
}

// Repeated applies one Filter with a fixed Radius several times over. Many
// cheap passes approximate a wide, soft falloff; the iteration count sets how
// far it spreads.
type Repeated struct {
	Filter Filter
	Radius float64
}

// DefaultSoftener returns the shadow softener: the 5x5 ring kernel.
func DefaultSoftener() Repeated { return Repeated{Filter: Smooth{}, Radius: 2} }

// Apply runs the filter iterations times. With iterations <= 0 it returns an
// unblurred copy of src.
func (r Repeated) Apply(src *image.NRGBA, iterations int) *image.NRGBA {
	out := stdimg.ToNRGBA(src)
	if out == nil || iterations <= 0 {
		return out
	}
	f := r.Filter
	if f == nil {
		f = Smooth{}
	}
	for i := 0; i < iterations; i++ {
		out = f.Apply(out, r.Radius)
	}
	return out
}
