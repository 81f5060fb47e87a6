package renderer

import (
	"github.com/ivlev/lyricanim/internal/director"
)

// Viewport maps line-local scene coordinates onto a flat preview frame.
type Viewport struct {
	Width, Height int
	PixelsPerUnit float64
	OriginX       float64 // screen position of the anchor, in pixels
	OriginY       float64
}

// NewViewport places the anchor a tenth in from the left and at 40% height.
func NewViewport(width, height int, pixelsPerUnit float64) Viewport {
	return Viewport{
		Width:         width,
		Height:        height,
		PixelsPerUnit: pixelsPerUnit,
		OriginX:       float64(width) * 0.1,
		OriginY:       float64(height) * 0.4,
	}
}

// ToScreen converts a scene position to pixels; scene y grows upwards.
func (v Viewport) ToScreen(pos director.Vec3) (x, y float64) {
	return v.OriginX + pos[0]*v.PixelsPerUnit, v.OriginY - pos[1]*v.PixelsPerUnit
}

// FontPixels is the pixel size of text set at size scene units.
func (v Viewport) FontPixels(size float64) float64 {
	return size * v.PixelsPerUnit
}
