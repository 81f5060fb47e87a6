package scene

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Measurer returns the rendered width of text set at size scene units.
type Measurer interface {
	Measure(text string, size float64) float64
}

// LoadFace opens the bundled Go Regular font at the given pixel size.
func LoadFace(pixels float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    pixels,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// FontMeasurer measures advances with a reference face and scales them from
// the face's em size to the requested text size.
type FontMeasurer struct {
	mu   sync.Mutex // font.Face is not safe for concurrent use
	face font.Face
	em   float64
}

func NewFontMeasurer(points float64) (*FontMeasurer, error) {
	face, err := LoadFace(points)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face, em: points}, nil
}

func (m *FontMeasurer) Measure(text string, size float64) float64 {
	m.mu.Lock()
	adv := font.MeasureString(m.face, text)
	m.mu.Unlock()
	return fixedToFloat(adv) / m.em * size
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
