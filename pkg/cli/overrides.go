package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/artwall/pkg/config"
)

// overrides mirrors the config fields that can be set from the command line.
// A flag only wins over the file and environment when it was given.
type overrides struct {
	profile          string
	output           string
	workers          int
	quality          int
	maxPixels        int
	noUpscale        bool
	trim             bool
	trimFuzz         float64
	thumbnailScale   float64
	backgroundBlur   float64
	backgroundFilter string
	resampler        string
	shadowIterations int
	shadowBorder     int
	shadowOffset     string
	shadowColor      string
	shadowBackground string
	shadowFilter     string
	shadowRadius     float64
	debugDir         string
}

func (o *overrides) register(cmd *cobra.Command) {
	def := config.Default()
	pf := cmd.PersistentFlags()
	pf.StringVarP(&o.profile, `profile`, `p`, def.Profile, `screen profile`)
	pf.StringVarP(&o.output, `output`, `o`, def.Output, `parent folder of the per-screen output folder`)
	pf.IntVarP(&o.workers, `workers`, `w`, def.Workers, `images composed in parallel`)
	pf.IntVar(&o.quality, `quality`, def.Quality, `JPEG quality 1..100`)
	pf.IntVar(&o.maxPixels, `max-pixels`, def.MaxPixels, `skip sources with more pixels (0 = no limit)`)
	pf.BoolVar(&o.noUpscale, `no-upscale`, false, `never upscale small sources`)
	pf.BoolVar(&o.trim, `trim`, def.TrimBorder, `cut a uniform border off each source`)
	pf.Float64Var(&o.trimFuzz, `trim-fuzz`, def.TrimFuzz, `color distance still counted as border`)
	pf.Float64Var(&o.thumbnailScale, `thumbnail-scale`, def.ThumbnailScale, `thumbnail size relative to the usable screen`)
	pf.Float64Var(&o.backgroundBlur, `background-blur`, def.BackgroundBlur, `background blur radius`)
	pf.StringVar(&o.backgroundFilter, `background-filter`, def.BackgroundFilter, `background blur filter`)
	pf.StringVar(&o.resampler, `resampler`, def.Resampler, `resampling backend`)
	pf.IntVar(&o.shadowIterations, `shadow-iterations`, def.Shadow.Iterations, `shadow blur passes`)
	pf.IntVar(&o.shadowBorder, `shadow-border`, def.Shadow.Border, `shadow margin around the thumbnail`)
	pf.StringVar(&o.shadowOffset, `shadow-offset`, `0,0`, `shadow offset dx,dy`)
	pf.StringVar(&o.shadowColor, `shadow-color`, def.Shadow.Color, `shadow color`)
	pf.StringVar(&o.shadowBackground, `shadow-background`, def.Shadow.Background, `shadow canvas color`)
	pf.StringVar(&o.shadowFilter, `shadow-filter`, def.Shadow.Filter, `shadow softening filter`)
	pf.Float64Var(&o.shadowRadius, `shadow-radius`, def.Shadow.Radius, `radius of each shadow blur pass`)
	pf.StringVar(&o.debugDir, `debug-dir`, ``, `write intermediate stages below this folder`)
}

func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed(`profile`) {
		cfg.Profile = o.profile
	}
	if changed(`output`) {
		cfg.Output = o.output
	}
	if changed(`workers`) {
		cfg.Workers = o.workers
	}
	if changed(`quality`) {
		cfg.Quality = o.quality
	}
	if changed(`max-pixels`) {
		cfg.MaxPixels = o.maxPixels
	}
	if changed(`no-upscale`) {
		cfg.ScaleIfSmall = !o.noUpscale
	}
	if changed(`trim`) {
		cfg.TrimBorder = o.trim
	}
	if changed(`trim-fuzz`) {
		cfg.TrimFuzz = o.trimFuzz
	}
	if changed(`thumbnail-scale`) {
		cfg.ThumbnailScale = o.thumbnailScale
	}
	if changed(`background-blur`) {
		cfg.BackgroundBlur = o.backgroundBlur
	}
	if changed(`background-filter`) {
		cfg.BackgroundFilter = o.backgroundFilter
	}
	if changed(`resampler`) {
		cfg.Resampler = o.resampler
	}
	if changed(`shadow-iterations`) {
		cfg.Shadow.Iterations = o.shadowIterations
	}
	if changed(`shadow-border`) {
		cfg.Shadow.Border = o.shadowBorder
	}
	if changed(`shadow-offset`) {
		x, y, err := config.ParseOffset(o.shadowOffset)
		if err != nil {
			return fmt.Errorf("--shadow-offset: %w", err)
		}
		cfg.Shadow.OffsetX, cfg.Shadow.OffsetY = x, y
	}
	if changed(`shadow-color`) {
		cfg.Shadow.Color = o.shadowColor
	}
	if changed(`shadow-background`) {
		cfg.Shadow.Background = o.shadowBackground
	}
	if changed(`shadow-filter`) {
		cfg.Shadow.Filter = o.shadowFilter
	}
	if changed(`shadow-radius`) {
		cfg.Shadow.Radius = o.shadowRadius
	}
	if changed(`debug-dir`) {
		cfg.DebugDir = o.debugDir
	}
	return nil
}
