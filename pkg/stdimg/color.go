package stdimg

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"darkgray":    {0x44, 0x44, 0x44, 0xff},
	"darkgrey":    {0x44, 0x44, 0x44, 0xff},
}

// ParseColor normalizes the color notations accepted in configuration into a
// single color.NRGBA:
//
//	#rgb #rgba #rrggbb #rrggbbaa   hex, alpha defaults to ff
//	0xrrggbb 0xrrggbbaa            packed integers
//	r,g,b  r,g,b,a                 decimal channel tuples (0..255), parentheses optional
//	black white gray transparent   a few names
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	switch {
	case s[0] == '#':
		return parseHexDigits(s[1:], false)
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		return parseHexDigits(s[2:], true)
	case strings.Contains(s, ","):
		return parseTuple(s)
	}
	return color.NRGBA{}, fmt.Errorf("unsupported color format: %s", s)
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatColor renders c as #rrggbbaa.
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func parseHexDigits(hex string, packed bool) (color.NRGBA, error) {
	switch len(hex) {
	case 3, 4:
		if packed {
			break
		}
		// expand #rgb / #rgba to two digits per channel
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return parseHexDigits(b.String(), false)
	case 6, 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		if len(hex) == 6 {
			return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
		}
		return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unsupported hex color length: %d", len(hex))
}

func parseTuple(s string) (color.NRGBA, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("color tuple needs 3 or 4 channels, got %d", len(parts))
	}
	ch := [4]uint8{0, 0, 0, 0xff}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color channel %q: %w", p, err)
		}
		if v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("color channel out of range: %d", v)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{ch[0], ch[1], ch[2], ch[3]}, nil
}
