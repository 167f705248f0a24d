package wallpaper

import (
	"github.com/Fepozopo/artwall/pkg/blur"
	"github.com/Fepozopo/artwall/pkg/resample"
	"github.com/Fepozopo/artwall/pkg/shadow"
)

const (
	DefaultUpscaleThreshold     = 2.0 / 3.0
	DefaultThumbnailScale       = 0.9
	DefaultBackgroundBlurRadius = 100
	DefaultTrimFuzz             = 16
)

// Options tune the composition. Nil collaborators fall back to defaults.
type Options struct {
	// ScaleIfSmall doubles sources smaller than UpscaleThreshold of the
	// screen in both dimensions before anything else runs.
	ScaleIfSmall     bool
	UpscaleThreshold float64
	// TrimBorder cuts a uniform frame (scanner margins, mats) off the source,
	// matching the top-left color within TrimFuzz.
	TrimBorder bool
	TrimFuzz   float64
	// ThumbnailScale is the share of the screen the shadowed artwork may cover.
	ThumbnailScale       float64
	BackgroundBlurRadius float64
	Shadow               shadow.Spec

	Resampler      resample.Resampler
	Upscaler       resample.Resampler
	BackgroundBlur blur.Filter
	Softener       shadow.Softener
}

func DefaultOptions() Options {
	return Options{
		ScaleIfSmall:         true,
		UpscaleThreshold:     DefaultUpscaleThreshold,
		TrimFuzz:             DefaultTrimFuzz,
		ThumbnailScale:       DefaultThumbnailScale,
		BackgroundBlurRadius: DefaultBackgroundBlurRadius,
		Shadow:               shadow.DefaultSpec(),
		Resampler:            resample.Default(),
		Upscaler:             &resample.Bilinear{},
		BackgroundBlur:       blur.Box{},
		Softener:             blur.DefaultSoftener(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.UpscaleThreshold <= 0 {
		o.UpscaleThreshold = d.UpscaleThreshold
	}
	if o.ThumbnailScale <= 0 || o.ThumbnailScale > 1 {
		o.ThumbnailScale = d.ThumbnailScale
	}
	if o.TrimFuzz < 0 {
		o.TrimFuzz = 0
	}
	if o.BackgroundBlurRadius < 0 {
		o.BackgroundBlurRadius = 0
	}
	if o.Resampler == nil {
		o.Resampler = d.Resampler
	}
	if o.Upscaler == nil {
		o.Upscaler = d.Upscaler
	}
	if o.BackgroundBlur == nil {
		o.BackgroundBlur = d.BackgroundBlur
	}
	if o.Softener == nil {
		o.Softener = d.Softener
	}
	return o
}

// Option mutates Options in New.
type Option func(*Options)

func WithShadow(s shadow.Spec) Option { return func(o *Options) { o.Shadow = s } }

func WithScaleIfSmall(on bool) Option { return func(o *Options) { o.ScaleIfSmall = on } }

func WithTrim(fuzz float64) Option {
	return func(o *Options) {
		o.TrimBorder = true
		o.TrimFuzz = fuzz
	}
}

func WithThumbnailScale(s float64) Option { return func(o *Options) { o.ThumbnailScale = s } }

func WithBackgroundBlur(f blur.Filter, radius float64) Option {
	return func(o *Options) {
		o.BackgroundBlur = f
		o.BackgroundBlurRadius = radius
	}
}

func WithResampler(r resample.Resampler) Option { return func(o *Options) { o.Resampler = r } }

func WithSoftener(s shadow.Softener) Option { return func(o *Options) { o.Softener = s } }
