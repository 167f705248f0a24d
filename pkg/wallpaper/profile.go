package wallpaper

import (
	"fmt"
	"image"
)

// ScreenProfile is the target display. MenuBarHeight pixels at the top are
// kept clear of the artwork.
type ScreenProfile struct {
	Name          string
	Width         int
	Height        int
	MenuBarHeight int
}

func (p ScreenProfile) Size() image.Point { return image.Pt(p.Width, p.Height) }

func (p ScreenProfile) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%dx%d", p.Width, p.Height)
	}
	return fmt.Sprintf("%s %dx%d", p.Name, p.Width, p.Height)
}

func (p ScreenProfile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidScreen, p.Width, p.Height)
	}
	if p.MenuBarHeight < 0 || p.MenuBarHeight >= p.Height {
		return fmt.Errorf("%w: menu bar height %d with screen height %d", ErrInvalidScreen, p.MenuBarHeight, p.Height)
	}
	return nil
}

// Placement returns the top-left corner for a layer of the given size:
// centered horizontally, and vertically centered in the area below the menu bar.
func (p ScreenProfile) Placement(layer image.Point) image.Point {
	return image.Pt(
		(p.Width-layer.X)/2,
		(p.Height-p.MenuBarHeight-layer.Y)/2+p.MenuBarHeight,
	)
}
