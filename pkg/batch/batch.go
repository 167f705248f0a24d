// Package batch drives the composer over many files: it discovers sources,
// composes them on a bounded worker pool and writes the results, reporting
// progress the way the original command-line tool did.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Fepozopo/artwall/pkg/imageio"
	"github.com/Fepozopo/artwall/pkg/logx"
	"github.com/Fepozopo/artwall/pkg/wallpaper"
)

var ErrTooLarge = errors.New("image exceeds pixel limit")

// debugNames maps traced stages to the files written in debug mode.
var debugNames = map[string]string{
	wallpaper.StageScaled:     "0_debug_bg_scaled.jpg",
	wallpaper.StageCropped:    "1_debug_bg_cropped.jpg",
	wallpaper.StageBackground: "2_debug_bg_blur.jpg",
	wallpaper.StageThumbnail:  "3_debug_thumbnail.jpg",
	wallpaper.StageShadow:     "4_debug_thumbnail_with_shadow.png",
	wallpaper.StageFinal:      "5_debug_final.jpg",
}

// Runner composes files into OutDir.
type Runner struct {
	Composer *wallpaper.Composer
	Screen   wallpaper.ScreenProfile
	OutDir   string
	Workers  int
	Quality  int
	// MaxPixels skips larger sources when > 0.
	MaxPixels int
	// DebugDir receives the intermediate stages of every image when set.
	DebugDir string
	Logger   logx.LoggerProvider
	// Progress receives one line per finished image.
	Progress io.Writer
}

// Result is the outcome for one source.
type Result struct {
	Source   string
	Dest     string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type Summary struct {
	Total, Done, Failed, Skipped int
	Elapsed                      time.Duration
	Results                      []Result
}

// Run composes every source. A failing image is recorded and logged and the
// batch continues; the returned error is only set when ctx ends the run early.
func (r *Runner) Run(ctx context.Context, sources []string) (Summary, error) {
	start := time.Now()
	sum := Summary{Total: len(sources), Results: make([]Result, len(sources))}
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return sum, fmt.Errorf("failed to create output folder: %w", err)
	}

	workers := r.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu       sync.Mutex
		finished int
	)
	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.Process(src)
			sum.Results[i] = res

			mu.Lock()
			defer mu.Unlock()
			finished++
			switch {
			case res.Skipped:
				sum.Skipped++
			case res.Err != nil:
				sum.Failed++
			default:
				sum.Done++
			}
			r.progress(finished, len(sources), res)
			return nil
		})
	}
	err := g.Wait()
	sum.Elapsed = time.Since(start)
	if r.Progress != nil {
		fmt.Fprintf(r.Progress, "Total runtime: %.2f minutes\n", sum.Elapsed.Minutes())
	}
	if err == nil {
		err = ctx.Err()
	}
	return sum, err
}

func (r *Runner) progress(i, n int, res Result) {
	if r.Progress == nil {
		return
	}
	r.writeProgress(fmt.Sprintf("%d/%d ---> ", i, n), res)
}

// Report prints the progress line for a result produced outside Run.
func (r *Runner) Report(res Result) {
	if r.Progress == nil {
		return
	}
	r.writeProgress("---> ", res)
}

func (r *Runner) writeProgress(prefix string, res Result) {
	name := filepath.Base(res.Source)
	switch {
	case res.Skipped:
		fmt.Fprintf(r.Progress, "%s%s ... skipped (%v)\n", prefix, name, res.Err)
	case res.Err != nil:
		fmt.Fprintf(r.Progress, "%s%s ... failed: %v\n", prefix, name, res.Err)
	default:
		fmt.Fprintf(r.Progress, "%s%s ... %.2f seconds\n", prefix, name, res.Duration.Seconds())
	}
}

// Process composes a single file into OutDir.
func (r *Runner) Process(src string) Result {
	return r.ProcessTo(src, r.DestPath(src))
}

// ProcessTo composes src and writes the wallpaper to dest.
func (r *Runner) ProcessTo(src, dest string) Result {
	res := Result{Source: src, Dest: dest}
	start := time.Now()
	err := logx.TimeIt(func() error {
		return r.process(src, res.Dest)
	}, "composed", r.Logger, "source", src)
	res.Duration = time.Since(start)
	if errors.Is(err, ErrTooLarge) {
		res.Skipped = true
		logx.Warn("skipping image", r.Logger, "source", src, "reason", err)
	} else {
		logx.IsErr(err, r.Logger, slog.LevelError, "source", src)
	}
	res.Err = err
	return res
}

func (r *Runner) process(src, dest string) error {
	img, info, err := imageio.Decode(src)
	if err != nil {
		return err
	}
	if info.Truncated {
		logx.Warn("image data truncated, decoded partially", r.Logger, "source", src)
	}
	if r.MaxPixels > 0 && info.Width*info.Height > r.MaxPixels {
		return fmt.Errorf("%w: %dx%d > %d", ErrTooLarge, info.Width, info.Height, r.MaxPixels)
	}

	comp := r.composer()
	if r.DebugDir != "" {
		dir := filepath.Join(r.DebugDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create debug folder: %w", err)
		}
		comp.Trace = r.debugTrace(dir)
	}
	out, err := comp.Compose(img, r.Screen)
	if err != nil {
		return fmt.Errorf("compose %s: %w", filepath.Base(src), err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	return imageio.Encode(dest, out, r.Quality)
}

// composer returns a private copy so per-image tracing never races.
func (r *Runner) composer() *wallpaper.Composer {
	if r.Composer == nil {
		return wallpaper.New()
	}
	c := *r.Composer
	return &c
}

func (r *Runner) debugTrace(dir string) wallpaper.TraceFunc {
	return func(stage string, img *image.NRGBA) {
		name, ok := debugNames[stage]
		if !ok {
			return
		}
		path := filepath.Join(dir, name)
		if err := imageio.Encode(path, img, r.Quality); err != nil {
			logx.Warn("failed to write debug image", r.Logger, "path", path, "err", err)
			return
		}
		logx.Debug("stage", r.Logger, "name", stage, "size", img.Bounds().Size().String())
	}
}

// DestPath is where the wallpaper for src is written: the source name inside
// OutDir, switched to .jpg when the source format cannot be written.
func (r *Runner) DestPath(src string) string {
	name := filepath.Base(src)
	if imageio.FormatForPath(name) == "webp" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return filepath.Join(r.OutDir, name)
}
