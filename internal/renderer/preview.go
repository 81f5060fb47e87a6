package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/lyricanim/internal/scene"
	"github.com/ivlev/lyricanim/internal/system"
)

var previewBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// RenderPreview rasterises the placements as they appear at frame. The canvas
// comes from the shared image pool; hand it back with system.PutImage.
func RenderPreview(placements []scene.Placement, vp Viewport, frame int) (*image.RGBA, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", vp.Width, vp.Height)
	}

	canvas := system.GetImage(vp.Width, vp.Height)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	faces := map[float64]font.Face{}
	for _, p := range placements {
		alpha := InterpolateAlpha(p.Schedule, float64(frame))
		if alpha <= 0 || p.Text == "" {
			continue
		}

		px := vp.FontPixels(p.Size)
		face, ok := faces[px]
		if !ok {
			var err error
			face, err = scene.LoadFace(px)
			if err != nil {
				system.PutImage(canvas)
				return nil, err
			}
			faces[px] = face
		}

		x, y := vp.ToScreen(p.Position)
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: uint8(alpha*255 + 0.5)}),
			Face: face,
			Dot:  fixed.P(int(x+0.5), int(y+0.5)),
		}
		d.DrawString(p.Text)
	}

	for _, f := range faces {
		f.Close()
	}
	return canvas, nil
}

// WritePNG encodes img to path.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
