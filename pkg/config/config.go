// Package config loads artwall settings from a YAML file, .env files and
// ARTWALL_* environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Fepozopo/artwall/pkg/blur"
	"github.com/Fepozopo/artwall/pkg/resample"
	"github.com/Fepozopo/artwall/pkg/shadow"
	"github.com/Fepozopo/artwall/pkg/stdimg"
	"github.com/Fepozopo/artwall/pkg/wallpaper"
)

const (
	DefaultProfile = "macbook"
	// OutputPrefix names the per-resolution output folder.
	OutputPrefix = "art_wallpapers_with_shadow"
)

var ErrUnknownProfile = errors.New("unknown screen profile")

// Config represents the application configuration
type Config struct {
	Profile  string             `yaml:"profile"`
	Profiles map[string]Profile `yaml:"profiles"`

	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	ListFile string `yaml:"list_file"`
	DebugDir string `yaml:"debug_dir"`
	Workers  int    `yaml:"workers"`
	Quality  int    `yaml:"quality"`
	// MaxPixels skips sources with more pixels than this; 0 disables the check.
	MaxPixels int `yaml:"max_pixels"`

	ScaleIfSmall     bool    `yaml:"scale_if_small"`
	TrimBorder       bool    `yaml:"trim_border"`
	TrimFuzz         float64 `yaml:"trim_fuzz"`
	ThumbnailScale   float64 `yaml:"thumbnail_scale"`
	BackgroundBlur   float64 `yaml:"background_blur"`
	BackgroundFilter string  `yaml:"background_filter"`
	Resampler        string  `yaml:"resampler"`

	Shadow ShadowConfig `yaml:"shadow"`
}

type Profile struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	MenuBarHeight int `yaml:"menu_bar_height"`
}

type ShadowConfig struct {
	Iterations int     `yaml:"iterations"`
	Border     int     `yaml:"border"`
	OffsetX    int     `yaml:"offset_x"`
	OffsetY    int     `yaml:"offset_y"`
	Color      string  `yaml:"color"`
	Background string  `yaml:"background"`
	Filter     string  `yaml:"filter"`
	Radius     float64 `yaml:"radius"`
}

// BuiltinProfiles are the screens known without any configuration.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"macbook": {Width: 2880, Height: 1880, MenuBarHeight: 48},
		"imac":    {Width: 5760, Height: 3240, MenuBarHeight: 48},
	}
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	spec := shadow.DefaultSpec()
	return &Config{
		Profile:          DefaultProfile,
		Profiles:         BuiltinProfiles(),
		Output:           ".",
		Workers:          runtime.NumCPU(),
		Quality:          95,
		ScaleIfSmall:     true,
		TrimFuzz:         wallpaper.DefaultTrimFuzz,
		ThumbnailScale:   wallpaper.DefaultThumbnailScale,
		BackgroundBlur:   wallpaper.DefaultBackgroundBlurRadius,
		BackgroundFilter: "box",
		Resampler:        "lanczos",
		Shadow: ShadowConfig{
			Iterations: spec.Iterations,
			Border:     spec.Border,
			Color:      stdimg.FormatColor(spec.Color),
			Background: stdimg.FormatColor(spec.Background),
			Filter:     "smooth",
			Radius:     2,
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when
// path is empty), the .env files and the process environment. The result is
// not validated, so later overrides can still repair it; call Validate once
// they are applied.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.parse(data); err != nil {
			return nil, err
		}
	}
	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) parse(data []byte) error {
	// user profiles extend the built-in ones instead of replacing the map
	builtin := c.Profiles
	c.Profiles = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	merged := builtin
	for name, p := range c.Profiles {
		merged[strings.ToLower(name)] = p
	}
	c.Profiles = merged
	return nil
}

// LoadEnvFiles loads .env files into the environment without overriding
// variables that are already set. Missing files are not an error; with no
// arguments ".env" in the working directory is tried.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if _, err := c.Screen(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be within 1..100, got %d", c.Quality)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max_pixels must not be negative")
	}
	if c.ThumbnailScale <= 0 || c.ThumbnailScale > 1 {
		return fmt.Errorf("thumbnail_scale must be within (0,1], got %g", c.ThumbnailScale)
	}
	if c.TrimFuzz < 0 {
		return fmt.Errorf("trim_fuzz must not be negative")
	}
	if c.BackgroundBlur < 0 {
		return fmt.Errorf("background_blur must not be negative")
	}
	if c.Input != "" && c.ListFile != "" {
		return fmt.Errorf("input and list_file are mutually exclusive")
	}
	if _, err := c.ShadowSpec(); err != nil {
		return err
	}
	_, err := c.ComposerOptions()
	return err
}

// ProfileNames lists the configured profiles in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for n := range c.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Screen resolves the selected profile.
func (c *Config) Screen() (wallpaper.ScreenProfile, error) {
	name := strings.ToLower(c.Profile)
	p, ok := c.Profiles[name]
	if !ok {
		return wallpaper.ScreenProfile{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownProfile, c.Profile, strings.Join(c.ProfileNames(), ", "))
	}
	screen := wallpaper.ScreenProfile{Name: name, Width: p.Width, Height: p.Height, MenuBarHeight: p.MenuBarHeight}
	if err := screen.Validate(); err != nil {
		return wallpaper.ScreenProfile{}, fmt.Errorf("profile %s: %w", name, err)
	}
	return screen, nil
}

func (c *Config) ShadowSpec() (shadow.Spec, error) {
	col, err := stdimg.ParseColor(c.Shadow.Color)
	if err != nil {
		return shadow.Spec{}, fmt.Errorf("shadow.color: %w", err)
	}
	bg, err := stdimg.ParseColor(c.Shadow.Background)
	if err != nil {
		return shadow.Spec{}, fmt.Errorf("shadow.background: %w", err)
	}
	spec := shadow.Spec{
		Iterations: c.Shadow.Iterations,
		Border:     c.Shadow.Border,
		Offset:     image.Pt(c.Shadow.OffsetX, c.Shadow.OffsetY),
		Background: bg,
		Color:      col,
	}
	if err := spec.Validate(); err != nil {
		return shadow.Spec{}, err
	}
	return spec, nil
}

// ComposerOptions turns the configuration into wallpaper options.
func (c *Config) ComposerOptions() (wallpaper.Options, error) {
	opts := wallpaper.DefaultOptions()
	spec, err := c.ShadowSpec()
	if err != nil {
		return opts, err
	}
	r, err := resample.ByName(c.Resampler)
	if err != nil {
		return opts, fmt.Errorf("resampler: %w", err)
	}
	bg, err := blur.ByName(c.BackgroundFilter)
	if err != nil {
		return opts, fmt.Errorf("background_filter: %w", err)
	}
	soft, err := blur.ByName(c.Shadow.Filter)
	if err != nil {
		return opts, fmt.Errorf("shadow.filter: %w", err)
	}
	opts.ScaleIfSmall = c.ScaleIfSmall
	opts.TrimBorder = c.TrimBorder
	opts.TrimFuzz = c.TrimFuzz
	opts.ThumbnailScale = c.ThumbnailScale
	opts.BackgroundBlurRadius = c.BackgroundBlur
	opts.Shadow = spec
	opts.Resampler = r
	opts.BackgroundBlur = bg
	opts.Softener = blur.Repeated{Filter: soft, Radius: c.Shadow.Radius}
	return opts, nil
}

// OutputDir is the folder wallpapers for the selected screen are written to,
// with sub appended when not empty.
func (c *Config) OutputDir(sub string) (string, error) {
	screen, err := c.Screen()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(c.Output, fmt.Sprintf("%s_%dx%d", OutputPrefix, screen.Width, screen.Height))
	if sub != "" {
		dir = filepath.Join(dir, sub)
	}
	return dir, nil
}
