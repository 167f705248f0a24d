package shadow

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/artwall/pkg/blur"
	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var red = color.NRGBA{R: 255, A: 255}

func TestMakeShadowSize(t *testing.T) {
	fg := stdimg.NewSolidNRGBA(30, 20, red)
	for _, border := range []int{0, 1, 7} {
		for _, off := range []image.Point{{0, 0}, {5, 3}, {-4, 9}, {-6, -2}, {3, -8}} {
			spec := Spec{Border: border, Offset: off, Color: color.NRGBA{A: 255}}
			out, err := MakeShadow(fg, spec)
			require.NoError(t, err)
			want := image.Pt(30+abs(off.X)+2*border, 20+abs(off.Y)+2*border)
			assert.Equal(t, want, out.Bounds().Size(), "border %d offset %v", border, off)
			assert.Equal(t, image.Point{}, out.Rect.Min)
		}
	}
}

func TestMakeShadowZeroIterationsHardEdge(t *testing.T) {
	fg := stdimg.NewSolidNRGBA(10, 10, red)
	spec := Spec{
		Border: 5,
		Offset: image.Pt(4, 4),
		Color:  color.NRGBA{R: 128, G: 128, B: 128, A: 255},
	}
	out, err := MakeShadow(fg, spec)
	require.NoError(t, err)
	require.Equal(t, image.Pt(24, 24), out.Bounds().Size())

	// foreground at (5,5), shadow rectangle at (9,9)
	assert.Equal(t, red, out.NRGBAAt(5, 5))
	assert.Equal(t, red, out.NRGBAAt(14, 14))
	assert.Equal(t, spec.Color, out.NRGBAAt(18, 18))
	assert.Equal(t, spec.Color, out.NRGBAAt(15, 15))
	// hard edge: one pixel outside the rectangle is pure background
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(19, 19))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(4, 4))
}

func TestMakeShadowNegativeOffsetPlacesShadowTopLeft(t *testing.T) {
	fg := stdimg.NewSolidNRGBA(10, 10, red)
	spec := Spec{Border: 2, Offset: image.Pt(-3, -3), Color: color.NRGBA{B: 255, A: 255}}
	out, err := MakeShadow(fg, spec)
	require.NoError(t, err)
	// shadow at (2,2), foreground at (5,5)
	assert.Equal(t, spec.Color, out.NRGBAAt(2, 2))
	assert.Equal(t, red, out.NRGBAAt(5, 5))
	assert.Equal(t, red, out.NRGBAAt(14, 14))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(15, 15))
}

func TestMakeShadowSoftensHalo(t *testing.T) {
	fg := stdimg.NewSolidNRGBA(20, 20, red)
	spec := DefaultSpec()
	spec.Border = 12
	spec.Iterations = 6
	out, err := MakeShadow(fg, spec)
	require.NoError(t, err)

	// foreground stays crisp
	assert.Equal(t, red, out.NRGBAAt(12, 12))
	assert.Equal(t, red, out.NRGBAAt(31, 31))
	// the halo fades out away from the foreground
	near := out.NRGBAAt(10, 20).A
	far := out.NRGBAAt(4, 20).A
	assert.Greater(t, near, far)
	assert.Greater(t, near, uint8(0))
	assert.Less(t, near, uint8(255))
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
}

func TestMakeShadowTransparentForeground(t *testing.T) {
	fg := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	stdimg.FillRect(fg, image.Rect(2, 2, 6, 6), red)
	spec := Spec{Border: 1, Color: color.NRGBA{G: 255, A: 255}}
	out, err := MakeShadow(fg, spec)
	require.NoError(t, err)
	// transparent foreground pixels let the shadow through
	assert.Equal(t, spec.Color, out.NRGBAAt(1, 1))
	assert.Equal(t, red, out.NRGBAAt(4, 4))
}

func TestMakeShadowDoesNotModifyInput(t *testing.T) {
	fg := stdimg.NewSolidNRGBA(6, 6, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	before := append([]uint8(nil), fg.Pix...)
	_, err := Compositor{Softener: blur.Repeated{Filter: blur.Box{}, Radius: 1}}.MakeShadow(fg, Spec{Border: 3, Iterations: 2, Color: red})
	require.NoError(t, err)
	assert.Equal(t, before, fg.Pix)
}

func TestMakeShadowInvalid(t *testing.T) {
	fg := stdimg.NewSolidNRGBA(2, 2, red)
	_, err := MakeShadow(fg, Spec{Iterations: -1})
	assert.ErrorIs(t, err, ErrInvalidSpec)
	_, err = MakeShadow(fg, Spec{Border: -1})
	assert.ErrorIs(t, err, ErrInvalidSpec)
	_, err = MakeShadow(image.NewNRGBA(image.Rectangle{}), DefaultSpec())
	assert.ErrorIs(t, err, ErrEmptyImage)
}
