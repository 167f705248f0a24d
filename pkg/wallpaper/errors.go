package wallpaper

import (
	"errors"
	"fmt"
)

var (
	ErrNilImage             = errors.New("nil source image")
	ErrDimension            = errors.New("invalid image dimensions")
	ErrUnsupportedColorMode = errors.New("unsupported color mode")
	ErrInvalidScreen        = errors.New("invalid screen profile")
)

// DimensionError reports a source with no pixels to work with.
type DimensionError struct {
	Width, Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid image dimensions %dx%d", e.Width, e.Height)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }

// UnsupportedColorModeError reports a source that cannot be read as RGBA.
type UnsupportedColorModeError struct {
	Model string
}

func (e *UnsupportedColorModeError) Error() string {
	return fmt.Sprintf("unsupported color mode: %s", e.Model)
}

func (e *UnsupportedColorModeError) Is(target error) bool { return target == ErrUnsupportedColorMode }
