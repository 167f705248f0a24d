package resample

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

func TestBackendsProduceRequestedSize(t *testing.T) {
	src := stdimg.NewSolidNRGBA(64, 40, color.NRGBA{R: 180, G: 90, B: 30, A: 255})
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, r.Name())
			for _, size := range []image.Point{{128, 80}, {32, 20}, {50, 50}} {
				out, err := r.Resize(src, size)
				require.NoError(t, err)
				require.Equal(t, image.Rectangle{Max: size}, out.Bounds())
				c := out.NRGBAAt(size.X/2, size.Y/2)
				assert.InDelta(t, 180, int(c.R), 3)
				assert.InDelta(t, 90, int(c.G), 3)
				assert.InDelta(t, 30, int(c.B), 3)
				assert.InDelta(t, 255, int(c.A), 1)
			}
			// source untouched
			assert.Equal(t, uint8(180), src.Pix[0])
		})
	}
}

func TestOffsetOriginSource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 30, 20))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	for _, name := range Names() {
		r, _ := ByName(name)
		out, err := r.Resize(src, image.Pt(40, 20))
		require.NoError(t, err, name)
		assert.Equal(t, image.Point{}, out.Rect.Min, name)
		assert.Equal(t, image.Pt(40, 20), out.Rect.Size(), name)
	}
}

func TestInvalidInput(t *testing.T) {
	r := Default()
	_, err := r.Resize(nil, image.Pt(1, 1))
	assert.ErrorIs(t, err, ErrNilImage)
	_, err = r.Resize(stdimg.NewSolidNRGBA(2, 2, color.NRGBA{}), image.Pt(0, 4))
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestByName(t *testing.T) {
	r, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "lanczos", r.Name())

	r, err = ByName(" GIFT ")
	require.NoError(t, err)
	assert.Equal(t, "gift", r.Name())

	_, err = ByName("caire")
	assert.ErrorIs(t, err, ErrUnknown)
}
