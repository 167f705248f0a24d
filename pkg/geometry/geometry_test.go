package geometry

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/artwall/pkg/resample"
	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var screens = []image.Point{{2880, 1880}, {5760, 3240}, {1920, 1080}, {1080, 1920}, {1000, 1000}}

var sources = []image.Point{
	{1, 1}, {3, 7}, {100, 100}, {640, 480}, {4000, 1000}, {1000, 4000},
	{2880, 1880}, {2881, 1880}, {2879, 1881}, {1437, 941}, {7, 3000}, {3000, 7},
}

func TestCoverSizeProperties(t *testing.T) {
	for _, s := range screens {
		for _, src := range sources {
			got := CoverSize(src.X, src.Y, s.X, s.Y)
			if src.X*s.Y > src.Y*s.X {
				assert.Equal(t, s.Y, got.Y, "src %v screen %v", src, s)
				assert.GreaterOrEqual(t, got.X, s.X, "src %v screen %v", src, s)
			} else {
				assert.Equal(t, s.X, got.X, "src %v screen %v", src, s)
				assert.GreaterOrEqual(t, got.Y, s.Y, "src %v screen %v", src, s)
			}
		}
	}
}

func TestCoverSizeKeepsAspect(t *testing.T) {
	got := CoverSize(4000, 1000, 2880, 1880)
	assert.Equal(t, image.Pt(7520, 1880), got)
	got = CoverSize(1000, 4000, 2880, 1880)
	assert.Equal(t, image.Pt(2880, 11520), got)
	got = CoverSize(100, 100, 2880, 1880)
	assert.Equal(t, image.Pt(2880, 2880), got)
}

func TestCropBoxAlwaysExact(t *testing.T) {
	for _, s := range screens {
		for _, src := range sources {
			cover := CoverSize(src.X, src.Y, s.X, s.Y)
			box, err := CropBox(cover.X, cover.Y, s.X, s.Y)
			require.NoError(t, err)
			assert.Equal(t, s, box.Size())
			assert.True(t, box.In(image.Rect(0, 0, cover.X, cover.Y)), "box %v outside %v", box, cover)
		}
	}
}

func TestCropBoxTieBreak(t *testing.T) {
	box, err := CropBox(2880, 2001, 2880, 1880)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 60, 2880, 1940), box)

	box, err = CropBox(3001, 1880, 2880, 1880)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(60, 0, 2940, 1880), box)

	// neither axis matches: center both
	box, err = CropBox(2890, 1890, 2880, 1880)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(5, 5, 2885, 1885), box)

	_, err = CropBox(2000, 1880, 2880, 1880)
	assert.ErrorIs(t, err, ErrTooSmall)
	_, err = CropBox(0, 10, 5, 5)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestScaleAndCropYieldScreenSize(t *testing.T) {
	r := &resample.Nearest{}
	for _, s := range []image.Point{{96, 64}, {64, 96}, {50, 50}} {
		for _, src := range []image.Point{{10, 10}, {300, 20}, {20, 300}, {96, 64}, {97, 64}} {
			img := stdimg.NewSolidNRGBA(src.X, src.Y, color.NRGBA{R: 10, A: 255})
			scaled, err := ScaleToCover(img, s.X, s.Y, r)
			require.NoError(t, err)
			cropped, err := CropToExact(scaled, s.X, s.Y)
			require.NoError(t, err)
			assert.Equal(t, s, cropped.Bounds().Size(), "src %v screen %v", src, s)
		}
	}
}

func TestCropToExactCopiesCenter(t *testing.T) {
	img := stdimg.NewSolidNRGBA(10, 4, color.NRGBA{A: 255})
	stdimg.FillRect(img, image.Rect(3, 0, 7, 4), color.NRGBA{R: 255, A: 255})
	out, err := CropToExact(img, 4, 4)
	require.NoError(t, err)
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(255), out.NRGBAAt(x, 2).R)
	}
	out.Pix[0] = 1
	assert.Equal(t, uint8(0), img.Pix[0], "source aliased")
}

func TestFitSizeProperties(t *testing.T) {
	bounds := []image.Point{{2392, 1492}, {100, 100}, {1, 1}, {50, 400}}
	for _, b := range bounds {
		for _, src := range sources {
			got := FitSize(src.X, src.Y, b.X, b.Y)
			assert.LessOrEqual(t, got.X, src.X, "never grows")
			assert.LessOrEqual(t, got.Y, src.Y, "never grows")
			assert.LessOrEqual(t, got.X, b.X)
			assert.LessOrEqual(t, got.Y, b.Y)
			if src.X > b.X || src.Y > b.Y {
				assert.True(t, got.X == b.X || got.Y == b.Y, "src %v bound %v got %v", src, b, got)
			}
		}
	}
}

func TestThumbnailFit(t *testing.T) {
	img := stdimg.NewSolidNRGBA(400, 200, color.NRGBA{G: 200, A: 255})
	out, err := ThumbnailFit(img, 100, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), out.Bounds().Size())

	same, err := ThumbnailFit(img, 1000, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), same.Bounds())
	assert.NotSame(t, img, same)
	same.Pix[0] = 7
	assert.NotEqual(t, uint8(7), img.Pix[0])

	_, err = ThumbnailFit(img, 0, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidBounds)
	_, err = ThumbnailFit(image.NewNRGBA(image.Rect(0, 0, 0, 5)), 10, 10, nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}
