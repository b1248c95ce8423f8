package postprocess

import (
	"image"
	"image/draw"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/**
 * @brief The last step of a frame. It reads the colour buffer once, runs the
 * configured filter, draws the HUD and writes the result back.
 */
type Stage struct {
	Filter metadata.PostFilter
	// HUD is optional.
	HUD *HUD
}

// Enabled reports whether Run would touch the framebuffer.
func (s Stage) Enabled() bool {
	return s.Filter != metadata.PostFilterNone || s.HUD != nil
}

func (s Stage) Run(fb *framebuffer.Framebuffer, metrics *core.Metrics) {
	if !s.Enabled() {
		return
	}
	img := Filter(fb.Snapshot(), s.Filter)

	if s.HUD != nil {
		dst, ok := img.(draw.Image)
		if !ok {
			rgba := image.NewRGBA(img.Bounds())
			draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
			dst = rgba
		}
		var (
			fps, ms float64
			frames  uint64
		)
		if metrics != nil {
			fps, ms = metrics.Frame()
			frames = metrics.TotalFrames()
		}
		s.HUD.Draw(dst, fps, ms, frames)
		img = dst
	}
	fb.Load(img)
}
