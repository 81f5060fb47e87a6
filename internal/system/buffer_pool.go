package system

import (
	"image"
	"sync"
)

// ImagePool reuses preview canvases, one sync.Pool per canvas size.
type ImagePool struct {
	bySize sync.Map // image.Point -> *sync.Pool
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{}
}

// GetImage returns a cleared canvas of the given size from the shared pool.
func GetImage(width, height int) *image.RGBA {
	return globalPool.Get(width, height)
}

// PutImage hands a canvas back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(width, height int) *image.RGBA {
	size := image.Pt(width, height)
	pool, ok := p.bySize.Load(size)
	if !ok {
		pool, _ = p.bySize.LoadOrStore(size, &sync.Pool{
			New: func() any { return image.NewRGBA(image.Rectangle{Max: size}) },
		})
	}

	img := pool.(*sync.Pool).Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put ignores canvases of sizes this pool never handed out.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	if pool, ok := p.bySize.Load(img.Rect.Size()); ok {
		pool.(*sync.Pool).Put(img)
	}
}
