package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable artwall reads.
const EnvPrefix = "ARTWALL_"

type envSetter func(c *Config, v string) error

func intVar(dst func(*Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func floatVar(dst func(*Config) *float64) envSetter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}
}

func stringVar(dst func(*Config) *string) envSetter {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

var envVars = map[string]envSetter{
	"PROFILE":           stringVar(func(c *Config) *string { return &c.Profile }),
	"INPUT":             stringVar(func(c *Config) *string { return &c.Input }),
	"OUTPUT":            stringVar(func(c *Config) *string { return &c.Output }),
	"LIST_FILE":         stringVar(func(c *Config) *string { return &c.ListFile }),
	"DEBUG_DIR":         stringVar(func(c *Config) *string { return &c.DebugDir }),
	"WORKERS":           intVar(func(c *Config) *int { return &c.Workers }),
	"QUALITY":           intVar(func(c *Config) *int { return &c.Quality }),
	"MAX_PIXELS":        intVar(func(c *Config) *int { return &c.MaxPixels }),
	"TRIM_FUZZ":         floatVar(func(c *Config) *float64 { return &c.TrimFuzz }),
	"THUMBNAIL_SCALE":   floatVar(func(c *Config) *float64 { return &c.ThumbnailScale }),
	"BACKGROUND_BLUR":   floatVar(func(c *Config) *float64 { return &c.BackgroundBlur }),
	"BACKGROUND_FILTER": stringVar(func(c *Config) *string { return &c.BackgroundFilter }),
	"RESAMPLER":         stringVar(func(c *Config) *string { return &c.Resampler }),
	"SHADOW_ITERATIONS": intVar(func(c *Config) *int { return &c.Shadow.Iterations }),
	"SHADOW_BORDER":     intVar(func(c *Config) *int { return &c.Shadow.Border }),
	"SHADOW_COLOR":      stringVar(func(c *Config) *string { return &c.Shadow.Color }),
	"SHADOW_BACKGROUND": stringVar(func(c *Config) *string { return &c.Shadow.Background }),
	"SHADOW_FILTER":     stringVar(func(c *Config) *string { return &c.Shadow.Filter }),
	"SHADOW_RADIUS":     floatVar(func(c *Config) *float64 { return &c.Shadow.Radius }),
	"SCALE_IF_SMALL": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.ScaleIfSmall = b
		return nil
	},
	"TRIM_BORDER": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.TrimBorder = b
		return nil
	},
	"SHADOW_OFFSET": func(c *Config, v string) error {
		x, y, err := ParseOffset(v)
		if err != nil {
			return err
		}
		c.Shadow.OffsetX, c.Shadow.OffsetY = x, y
		return nil
	},
}

// ApplyEnv overrides fields from ARTWALL_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envVars {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}

// ParseOffset reads "dx,dy".
func ParseOffset(s string) (int, int, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "()"), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("offset must be dx,dy: %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("offset x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("offset y: %w", err)
	}
	return x, y, nil
}
