package blur

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

func TestFiltersPreserveBoundsAndFlatImages(t *testing.T) {
	c := color.NRGBA{R: 90, G: 160, B: 220, A: 255}
	src := stdimg.NewSolidNRGBA(40, 30, c)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f, err := ByName(name)
			require.NoError(t, err)
			out := f.Apply(src, 3)
			require.Equal(t, src.Bounds(), out.Bounds())
			got := out.NRGBAAt(20, 15)
			assert.InDelta(t, int(c.R), int(got.R), 2)
			assert.InDelta(t, int(c.G), int(got.G), 2)
			assert.InDelta(t, int(c.B), int(got.B), 2)
			assert.InDelta(t, 255, int(got.A), 1)
			assert.NotSame(t, src, out)
		})
	}
}

func TestFiltersSoftenEdges(t *testing.T) {
	src := stdimg.NewSolidNRGBA(40, 40, color.NRGBA{A: 255})
	stdimg.FillRect(src, image.Rect(20, 0, 40, 40), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	for _, name := range Names() {
		f, _ := ByName(name)
		out := f.Apply(src, 3)
		edge := out.NRGBAAt(19, 20).R
		assert.Greater(t, edge, uint8(0), name)
		assert.Less(t, out.NRGBAAt(20, 20).R, uint8(255), name)
	}
}

func TestRepeatedZeroIterationsIsHardEdgedCopy(t *testing.T) {
	src := stdimg.NewSolidNRGBA(10, 10, color.NRGBA{})
	stdimg.FillRect(src, image.Rect(3, 3, 7, 7), color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out := DefaultSoftener().Apply(src, 0)
	require.NotSame(t, src, out)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestRepeatedSpreadsWithIterations(t *testing.T) {
	src := stdimg.NewSolidNRGBA(60, 60, color.NRGBA{})
	stdimg.FillRect(src, image.Rect(20, 20, 40, 40), color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	soft := DefaultSoftener()
	few := soft.Apply(src, 2)
	many := soft.Apply(src, 10)
	// alpha reaches further out the more passes run
	assert.Equal(t, uint8(0), few.NRGBAAt(20-8, 30).A)
	assert.Greater(t, many.NRGBAAt(20-8, 30).A, uint8(0))
	assert.Equal(t, uint8(0), src.NRGBAAt(19, 30).A, "source must not be modified")
}

func TestRepeatedWithCustomFilter(t *testing.T) {
	src := stdimg.NewSolidNRGBA(30, 30, color.NRGBA{})
	stdimg.FillRect(src, image.Rect(10, 10, 20, 20), color.NRGBA{A: 255})
	out := Repeated{Filter: Box{}, Radius: 1}.Apply(src, 3)
	assert.Greater(t, out.NRGBAAt(8, 15).A, uint8(0))
	assert.Equal(t, uint8(0), out.NRGBAAt(5, 15).A)
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("median")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestRepeatedKeepsFlatOpaqueColor(t *testing.T) {
	c := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	src := stdimg.NewSolidNRGBA(24, 24, c)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f, err := ByName(name)
			require.NoError(t, err)
			out := Repeated{Filter: f, Radius: 2}.Apply(src, 50)
			assert.Equal(t, c, out.NRGBAAt(12, 12))
		})
	}
}

func TestGiftZeroRadiusIsCopy(t *testing.T) {
	src := stdimg.NewSolidNRGBA(8, 8, color.NRGBA{})
	stdimg.FillRect(src, image.Rect(2, 2, 6, 6), color.NRGBA{R: 200, A: 255})
	out := Gift{}.Apply(src, 0)
	require.NotSame(t, src, out)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestBildKeepsTransparency(t *testing.T) {
	src := stdimg.NewSolidNRGBA(30, 30, color.NRGBA{})
	stdimg.FillRect(src, image.Rect(10, 10, 20, 20), color.NRGBA{R: 200, G: 40, B: 10, A: 255})
	out := Bild{}.Apply(src, 2)
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 40, B: 10, A: 255}, out.NRGBAAt(15, 15))
	edge := out.NRGBAAt(9, 15)
	assert.Greater(t, edge.A, uint8(0))
	assert.Less(t, edge.A, uint8(255))
	assert.InDelta(t, 200, int(edge.R), 3)
}
