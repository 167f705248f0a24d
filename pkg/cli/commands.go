package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/Fepozopo/artwall/pkg/batch"
	"github.com/Fepozopo/artwall/pkg/config"
	"github.com/Fepozopo/artwall/pkg/imageio"
	"github.com/Fepozopo/artwall/pkg/logx"
	"github.com/Fepozopo/artwall/pkg/wallpaper"
	"github.com/Fepozopo/artwall/pkg/watch"
)

var errNoSources = errors.New(`no images found`)

// runner builds the batch driver for cfg writing into the per-screen folder.
func (a *app) runner(cfg *config.Config, sub string) (*batch.Runner, error) {
	screen, err := cfg.Screen()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ComposerOptions()
	if err != nil {
		return nil, err
	}
	outDir, err := cfg.OutputDir(sub)
	if err != nil {
		return nil, err
	}
	return &batch.Runner{
		Composer:  &wallpaper.Composer{Options: opts},
		Screen:    screen,
		OutDir:    outDir,
		Workers:   cfg.Workers,
		Quality:   cfg.Quality,
		MaxPixels: cfg.MaxPixels,
		DebugDir:  cfg.DebugDir,
		Logger:    a.loggerProv(),
		Progress:  a.out,
	}, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func (a *app) generateCmd() *cobra.Command {
	var (
		input, list, subfolder string
		preview                bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "compose wallpapers for a folder or a list of images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				cfg, err := a.setup(cmd)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed(`input`) {
					cfg.Input, cfg.ListFile = input, ``
				}
				if cmd.Flags().Changed(`list`) {
					cfg.ListFile = list
				}
				sources, err := discover(cfg)
				if err != nil {
					return err
				}
				if len(sources) == 0 {
					return errNoSources
				}
				r, err := a.runner(cfg, subfolder)
				if err != nil {
					return err
				}
				ctx, stop := signalContext(cmd)
				defer stop()
				logx.Info("generating wallpapers", a.loggerProv(), "count", len(sources), "screen", r.Screen.String(), "out", r.OutDir)
				sum, err := r.Run(ctx, sources)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%d composed, %d failed, %d skipped -> %s\n", sum.Done, sum.Failed, sum.Skipped, r.OutDir)
				if preview {
					a.previewLast(sum)
				}
				if sum.Failed > 0 {
					return fmt.Errorf("%d of %d images failed", sum.Failed, sum.Total)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&input, `input`, `i`, ``, `folder of source images (default: config input or the working directory)`)
	cmd.Flags().StringVar(&list, `list`, ``, `file naming one image per line`)
	cmd.Flags().StringVar(&subfolder, `subfolder`, ``, `subfolder inside the per-screen output folder`)
	cmd.Flags().BoolVar(&preview, `preview`, false, `show the last wallpaper in the terminal`)
	return cmd
}

// discover resolves the sources named by the list file or the input folder.
func discover(cfg *config.Config) ([]string, error) {
	if cfg.ListFile != "" {
		return batch.FromListFile(cfg.ListFile, cfg.Input)
	}
	dir := cfg.Input
	if dir == "" {
		dir = "."
	}
	return batch.FromDir(dir)
}

func (a *app) previewLast(sum batch.Summary) {
	for i := len(sum.Results) - 1; i >= 0; i-- {
		res := sum.Results[i]
		if res.Err != nil || res.Skipped || res.Dest == "" {
			continue
		}
		a.previewFile(res.Dest)
		return
	}
}

func (a *app) previewFile(path string) {
	img, info, err := imageio.Decode(path)
	if err == nil {
		err = PreviewImage(img, info.Format)
	}
	if err != nil {
		logx.Warn("preview unavailable", a.loggerProv(), "err", err)
	}
}

func (a *app) composeCmd() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "compose SRC [DST]",
		Short: "compose the wallpaper for a single image",
		Long:  "compose the wallpaper for a single image. Without DST it is written into the per-screen output folder.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				cfg, err := a.setup(cmd)
				if err != nil {
					return err
				}
				r, err := a.runner(cfg, ``)
				if err != nil {
					return err
				}
				var res batch.Result
				if len(args) == 2 {
					// an explicit destination bypasses the output folder
					r.OutDir = filepath.Dir(args[1])
					res = r.ProcessTo(args[0], args[1])
				} else {
					res = r.Process(args[0])
				}
				if res.Err != nil {
					return res.Err
				}
				fmt.Fprintf(a.out, "%s ... %.2f seconds -> %s\n", filepath.Base(res.Source), res.Duration.Seconds(), res.Dest)
				if preview {
					a.previewFile(res.Dest)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&preview, `preview`, false, `show the wallpaper in the terminal`)
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var debounce string
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "compose wallpapers for images as they are added to a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				cfg, err := a.setup(cmd)
				if err != nil {
					return err
				}
				r, err := a.runner(cfg, ``)
				if err != nil {
					return err
				}
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				outDir, err := filepath.Abs(r.OutDir)
				if err != nil {
					return err
				}
				if outDir == dir {
					return fmt.Errorf("output folder %s must differ from the watched folder", outDir)
				}
				delay, err := time.ParseDuration(debounce)
				if err != nil {
					return fmt.Errorf("--debounce: %w", err)
				}
				w, err := watch.New(r, delay, a.loggerProv())
				if err != nil {
					return err
				}
				if err := w.Add(dir); err != nil {
					return err
				}
				ctx, stop := signalContext(cmd)
				defer stop()
				go func() {
					for res := range w.Results() {
						r.Report(res)
					}
				}()
				fmt.Fprintf(a.out, "watching %s -> %s (ctrl-c to stop)\n", dir, r.OutDir)
				return w.Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&debounce, `debounce`, watch.DefaultDebounce.String(), `quiet time before a changed file is processed`)
	return cmd
}

func (a *app) profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "list the known screen profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				cfg, err := a.setup(cmd)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tMENU BAR\t")
				for _, name := range cfg.ProfileNames() {
					p := cfg.Profiles[name]
					mark := ""
					if strings.EqualFold(name, cfg.Profile) {
						mark = " *"
					}
					fmt.Fprintf(tw, "%s%s\t%dx%d\t%d\t\n", name, mark, p.Width, p.Height, p.MenuBarHeight)
				}
				return tw.Flush()
			})
		},
	}
}
