// Package wallpaper composes a screen-sized wallpaper from one artwork: a
// blurred cover-scaled copy as backdrop, and the artwork itself fitted,
// framed by a soft shadow and centered below the menu bar.
package wallpaper

import (
	"fmt"
	"image"

	"github.com/Fepozopo/artwall/pkg/geometry"
	"github.com/Fepozopo/artwall/pkg/shadow"
	"github.com/Fepozopo/artwall/pkg/stdimg"
)

// Pipeline stages reported to a TraceFunc, in order.
const (
	StageSource     = "source"
	StageTrimmed    = "trimmed"
	StageUpscaled   = "upscaled"
	StageScaled     = "scaled"
	StageCropped    = "cropped"
	StageBackground = "background"
	StageThumbnail  = "thumbnail"
	StageShadow     = "shadow"
	StageFinal      = "final"
)

// TraceFunc observes intermediate buffers. It must not modify img.
type TraceFunc func(stage string, img *image.NRGBA)

// Composer turns source images into wallpapers. A Composer holds no per-image
// state and may be shared between goroutines.
type Composer struct {
	Options
	Trace TraceFunc
}

func New(opts ...Option) *Composer {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Composer{Options: o}
}

func (c *Composer) trace(stage string, img *image.NRGBA) {
	if c.Trace != nil {
		c.Trace(stage, img)
	}
}

// Compose renders src for screen. The result is exactly screen-sized and fully
// opaque; src is never modified.
func (c *Composer) Compose(src image.Image, screen ScreenProfile) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if err := screen.Validate(); err != nil {
		return nil, err
	}
	opts := c.Options.withDefaults()
	if err := opts.Shadow.Validate(); err != nil {
		return nil, err
	}

	img := stdimg.ToNRGBA(src)
	c.trace(StageSource, img)

	if opts.TrimBorder {
		r := stdimg.TrimBounds(img, opts.TrimFuzz)
		if r != img.Rect {
			img = stdimg.CropNRGBA(img, r)
			c.trace(StageTrimmed, img)
		}
	}

	if opts.ScaleIfSmall && isSmall(img.Rect.Size(), screen, opts.UpscaleThreshold) {
		up, err := opts.Upscaler.Resize(img, img.Rect.Size().Mul(2))
		if err != nil {
			return nil, fmt.Errorf("upscale: %w", err)
		}
		img = up
		c.trace(StageUpscaled, img)
	}

	bg, err := c.background(img, screen, opts)
	if err != nil {
		return nil, err
	}

	maxW := int(opts.ThumbnailScale*float64(screen.Width)) - 2*opts.Shadow.Border
	maxH := int(opts.ThumbnailScale*float64(screen.Height)) - 2*opts.Shadow.Border
	fg, err := geometry.ThumbnailFit(img, maxW, maxH, opts.Resampler)
	if err != nil {
		return nil, fmt.Errorf("thumbnail for %s with border %d: %w", screen, opts.Shadow.Border, err)
	}
	c.trace(StageThumbnail, fg)

	layer, err := shadow.Compositor{Softener: opts.Softener}.MakeShadow(fg, opts.Shadow)
	if err != nil {
		return nil, fmt.Errorf("shadow: %w", err)
	}
	c.trace(StageShadow, layer)

	at := screen.Placement(layer.Rect.Size())
	out := stdimg.Composite(bg, layer, "over", at.X, at.Y)
	c.trace(StageFinal, out)
	return out, nil
}

// Compose renders src with the default options.
func Compose(src image.Image, screen ScreenProfile) (*image.NRGBA, error) {
	return New().Compose(src, screen)
}

func (c *Composer) background(img *image.NRGBA, screen ScreenProfile, opts Options) (*image.NRGBA, error) {
	scaled, err := geometry.ScaleToCover(img, screen.Width, screen.Height, opts.Resampler)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	c.trace(StageScaled, scaled)

	cropped, err := geometry.CropToExact(scaled, screen.Width, screen.Height)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	c.trace(StageCropped, cropped)

	bg := cropped
	if opts.BackgroundBlurRadius > 0 {
		bg = opts.BackgroundBlur.Apply(cropped, opts.BackgroundBlurRadius)
	}
	stdimg.Flatten(bg)
	c.trace(StageBackground, bg)
	return bg, nil
}

func isSmall(size image.Point, screen ScreenProfile, threshold float64) bool {
	return float64(size.X) < threshold*float64(screen.Width) &&
		float64(size.Y) < threshold*float64(screen.Height)
}

func checkSource(src image.Image) (err error) {
	if src == nil {
		return ErrNilImage
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return &DimensionError{Width: b.Dx(), Height: b.Dy()}
	}
	if p, ok := src.(*image.Paletted); ok && len(p.Palette) == 0 {
		return &UnsupportedColorModeError{Model: "paletted without palette"}
	}
	if src.ColorModel() == nil {
		return &UnsupportedColorModeError{Model: fmt.Sprintf("%T without color model", src)}
	}
	defer func() {
		if recover() != nil {
			err = &UnsupportedColorModeError{Model: fmt.Sprintf("%T", src)}
		}
	}()
	if src.At(b.Min.X, b.Min.Y) == nil {
		return &UnsupportedColorModeError{Model: fmt.Sprintf("%T yields no colors", src)}
	}
	return nil
}
