package renderer

import (
	"sync/atomic"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/postprocess"
	"github.com/spaghettifunk/softraster/engine/renderer/shading"
)

/** @brief The renderer settings that can change between frames. */
type Settings struct {
	Options    shading.Options
	ClearPixel uint32
	DepthTest  bool
	Post       postprocess.Stage
}

func DefaultSettings() Settings {
	return Settings{
		Options:    shading.DefaultOptions(),
		ClearPixel: framebuffer.DefaultClearPixel,
		DepthTest:  true,
	}
}

/**
 * @brief Owns the framebuffer and the strategy registry. Draw is safe to
 * call from many render tasks at once; Configure and OnResize must only be
 * called between frames.
 */
type Renderer struct {
	framebuffer *framebuffer.Framebuffer
	registry    atomic.Pointer[shading.Registry]
	post        atomic.Pointer[postprocess.Stage]
}

func New(resolution metadata.Resolution, settings Settings) *Renderer {
	r := &Renderer{
		framebuffer: framebuffer.New(resolution.Width, resolution.Height),
	}
	r.Configure(settings)
	return r
}

func (r *Renderer) Framebuffer() *framebuffer.Framebuffer {
	return r.framebuffer
}

func (r *Renderer) Registry() *shading.Registry {
	return r.registry.Load()
}

// Configure rebuilds the strategy registry and updates the framebuffer state.
func (r *Renderer) Configure(settings Settings) {
	r.registry.Store(shading.NewRegistry(settings.Options))
	r.framebuffer.SetClearPixel(settings.ClearPixel)

	st := r.framebuffer.TestState()
	st.DepthEnabled = settings.DepthTest
	r.framebuffer.SetTestState(st)

	post := settings.Post
	r.post.Store(&post)
}

// ViewerState captures v against the current framebuffer size.
func (r *Renderer) ViewerState(v *components.Viewer) components.ViewerState {
	return v.State(r.framebuffer.Size())
}

// BeginFrame resets every buffer to its clear value.
func (r *Renderer) BeginFrame() {
	r.framebuffer.Clear()
}

// Draw renders one object. See shading.Apply.
func (r *Renderer) Draw(model *metadata.Model3D, world math.Mat4, viewer *components.ViewerState) error {
	return shading.Apply(r.registry.Load(), model, world, viewer, r.framebuffer)
}

// EndFrame runs the post-process stage over the finished image.
func (r *Renderer) EndFrame(metrics *core.Metrics) {
	r.post.Load().Run(r.framebuffer, metrics)
}

// OnResize resizes the framebuffer and notifies listeners.
func (r *Renderer) OnResize(resolution metadata.Resolution) {
	if w, h := r.framebuffer.Size(); w == resolution.Width && h == resolution.Height {
		return
	}
	r.framebuffer.Resize(resolution.Width, resolution.Height)
	core.LogInfo("framebuffer resized to %s", resolution)

	ctx := core.EventContext{}
	ctx.Data.U32[0] = uint32(resolution.Width)
	ctx.Data.U32[1] = uint32(resolution.Height)
	core.EventFire(core.EVENT_CODE_RESIZED, r, ctx)
}
