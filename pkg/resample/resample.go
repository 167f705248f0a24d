// Package resample puts the resizing libraries artwall can use behind one
// interface so the pipeline can switch between them by name.
package resample

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/Fepozopo/artwall/pkg/stdimg"
)

var (
	ErrUnknown     = errors.New("unknown resampler")
	ErrInvalidSize = errors.New("invalid target size")
	ErrNilImage    = errors.New("nil image")
)

// Resampler scales an image to exactly size. Implementations never modify img
// and always return a new buffer with origin (0,0).
type Resampler interface {
	Name() string
	Resize(img image.Image, size image.Point) (*image.NRGBA, error)
}

var registry = map[string]func() Resampler{
	"lanczos":  func() Resampler { return &Lanczos{A: 3} },
	"bilinear": func() Resampler { return &Bilinear{} },
	"nearest":  func() Resampler { return &Nearest{} },
	"imaging":  func() Resampler { return &Imaging{} },
	"gift":     func() Resampler { return &Gift{} },
	"nfnt":     func() Resampler { return &Nfnt{} },
	"bild":     func() Resampler { return &Bild{} },
	"rez":      func() Resampler { return &Rez{} },
	"xdraw":    func() Resampler { return &XDraw{} },
}

// Default is the resampler used when none is configured.
func Default() Resampler { return &Lanczos{A: 3} }

// ByName returns the resampler registered under name (case-insensitive).
// An empty name selects Default.
func ByName(name string) (Resampler, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default(), nil
	}
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the registered resamplers in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func check(img image.Image, size image.Point) error {
	if img == nil {
		return ErrNilImage
	}
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, size.X, size.Y)
	}
	return nil
}

// asNRGBA hands library results back as NRGBA, copying only when needed.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return stdimg.ToNRGBA(img)
}
