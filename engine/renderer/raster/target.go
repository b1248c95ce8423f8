package raster

import (
	"image"

	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/** @brief The surface the rasterisers write into. Implemented by framebuffer.Framebuffer. */
type Target interface {
	Plot(f *metadata.Fragment, shade framebuffer.ShadeFunc)
	PlotValue(x, y int, z float64, pixel uint32)
	Size() (int, int)
}

// ScissorTarget forwards to Target only the writes that land inside Rect.
type ScissorTarget struct {
	Target
	Rect image.Rectangle
}

// Scissor restricts target to rect. The full target is returned unwrapped.
func Scissor(target Target, rect image.Rectangle) Target {
	w, h := target.Size()
	if rect.Min.X <= 0 && rect.Min.Y <= 0 && rect.Max.X >= w && rect.Max.Y >= h {
		return target
	}
	return &ScissorTarget{Target: target, Rect: rect}
}

func (s *ScissorTarget) Plot(f *metadata.Fragment, shade framebuffer.ShadeFunc) {
	if x, y := f.Pixel(); image.Pt(x, y).In(s.Rect) {
		s.Target.Plot(f, shade)
	}
}

func (s *ScissorTarget) PlotValue(x, y int, z float64, pixel uint32) {
	if image.Pt(x, y).In(s.Rect) {
		s.Target.PlotValue(x, y, z, pixel)
	}
}
