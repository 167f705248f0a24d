// Package shadow builds the soft drop-shadow layer that frames the
// foreground artwork.
package shadow

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/Fepozopo/artwall/pkg/blur"
	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var (
	ErrInvalidSpec = errors.New("invalid shadow spec")
	ErrEmptyImage  = errors.New("foreground has zero area")
)

// Spec describes one shadow. Offset moves the shadow relative to the
// foreground: positive values push it right/down, negative left/up.
type Spec struct {
	Iterations int
	Border     int
	Offset     image.Point
	Background color.NRGBA
	Color      color.NRGBA
}

// DefaultSpec is a 100px grey halo softened over 50 passes.
func DefaultSpec() Spec {
	return Spec{
		Iterations: 50,
		Border:     100,
		Background: color.NRGBA{},
		Color:      color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	}
}

func (s Spec) Validate() error {
	if s.Iterations < 0 {
		return fmt.Errorf("%w: iterations %d < 0", ErrInvalidSpec, s.Iterations)
	}
	if s.Border < 0 {
		return fmt.Errorf("%w: border %d < 0", ErrInvalidSpec, s.Border)
	}
	return nil
}

// CanvasSize is the size of the layer MakeShadow returns for a fg of size fg.
func (s Spec) CanvasSize(fg image.Point) image.Point {
	return image.Pt(fg.X+abs(s.Offset.X)+2*s.Border, fg.Y+abs(s.Offset.Y)+2*s.Border)
}

// Softener blurs a canvas a number of times. blur.Repeated implements it.
type Softener interface {
	Apply(src *image.NRGBA, iterations int) *image.NRGBA
}

// Compositor renders shadows. The zero value softens with blur.DefaultSoftener.
type Compositor struct {
	Softener Softener
}

// MakeShadow returns fg on a canvas padded by the border and offset, with a
// softened rectangle of spec.Color behind it. fg is alpha-composited with its
// own alpha channel and is never modified.
func (c Compositor) MakeShadow(fg image.Image, spec Spec) (*image.NRGBA, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if stdimg.IsEmpty(fg) {
		return nil, ErrEmptyImage
	}
	src := stdimg.ToNRGBA(fg)
	size := spec.CanvasSize(src.Rect.Size())
	canvas := stdimg.NewSolidNRGBA(size.X, size.Y, spec.Background)

	shadowAt := image.Pt(spec.Border+max(spec.Offset.X, 0), spec.Border+max(spec.Offset.Y, 0))
	stdimg.FillRect(canvas, src.Rect.Add(shadowAt), spec.Color)

	if spec.Iterations > 0 {
		soft := c.Softener
		if soft == nil {
			soft = blur.DefaultSoftener()
		}
		canvas = soft.Apply(canvas, spec.Iterations)
	}

	fgAt := image.Pt(spec.Border-min(spec.Offset.X, 0), spec.Border-min(spec.Offset.Y, 0))
	return stdimg.Composite(canvas, src, "over", fgAt.X, fgAt.Y), nil
}

// MakeShadow renders with the default Compositor.
func MakeShadow(fg image.Image, spec Spec) (*image.NRGBA, error) {
	return Compositor{}.MakeShadow(fg, spec)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
