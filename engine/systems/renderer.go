package systems

import (
	"runtime"
	"sync/atomic"

	"github.com/spaghettifunk/softraster/engine/config"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/postprocess"
	"github.com/spaghettifunk/softraster/engine/scene"
)

/**
 * @brief Turns a scene into a finished frame by chaining tasks on the job
 * system: one geometry update per root subtree, then one render task per
 * drawable, then a single post-process task. Each stage is submitted from the
 * completion callback of the last task of the previous stage, so no task ever
 * waits on another.
 */
type RendererSystem struct {
	renderer     *renderer.Renderer
	jobSystem    *JobSystem
	fontSystem   *FontSystem
	viewerSystem *ViewerSystem
	presenter    renderer.Presenter

	metrics *core.Metrics
	clock   *core.Clock

	frameNumber atomic.Uint64
	inFlight    atomic.Bool
	// A configuration received while a frame may be running. Applied at the
	// start of the next frame.
	pending atomic.Pointer[config.Snapshot]
}

func NewRendererSystem(snap *config.Snapshot, js *JobSystem, fs *FontSystem, vs *ViewerSystem) *RendererSystem {
	r := &RendererSystem{
		jobSystem:    js,
		fontSystem:   fs,
		viewerSystem: vs,
		metrics:      core.NewMetrics(),
		clock:        core.NewClock(),
	}
	r.renderer = renderer.New(snap.Resolved.Resolution, r.settings(snap.Resolved))
	core.EventRegister(core.EVENT_CODE_CONFIG_CHANGED, r, r.onConfigChanged)
	return r
}

func (r *RendererSystem) Renderer() *renderer.Renderer { return r.renderer }

func (r *RendererSystem) Metrics() *core.Metrics { return r.metrics }

// SetPresenter installs the consumer of finished frames. Must be called between frames.
func (r *RendererSystem) SetPresenter(p renderer.Presenter) { r.presenter = p }

func (r *RendererSystem) settings(res *config.Resolved) renderer.Settings {
	stage := postprocess.Stage{Filter: res.PostFilter}
	if res.HUD.Enabled && r.fontSystem != nil {
		font, err := r.fontSystem.Acquire(res.HUD.Font)
		if err != nil {
			core.LogWarn("HUD disabled: %s", err)
		} else {
			stage.HUD = postprocess.NewHUD(font)
		}
	}
	return renderer.Settings{
		Options:    res.Options,
		ClearPixel: res.ClearPixel,
		DepthTest:  res.DepthTest,
		Post:       stage,
	}
}

func (r *RendererSystem) onConfigChanged(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if snap, ok := data.Payload.(*config.Snapshot); ok {
		r.pending.Store(snap)
	}
	return false
}

// applyPending must only run between frames.
func (r *RendererSystem) applyPending() {
	snap := r.pending.Swap(nil)
	if snap == nil {
		return
	}
	res := snap.Resolved
	r.renderer.Configure(r.settings(res))
	r.renderer.OnResize(res.Resolution)
	if r.viewerSystem != nil {
		r.viewerSystem.SetShading(res.Shading)
	}

	r.jobSystem.SetPriorityOrder(res.PriorityOrder)
	workers := res.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if err := r.jobSystem.SetWorkerCount(workers); err != nil {
		core.LogWarn("failed to resize the job system: %s", err)
	}
	core.LogInfo("applied new configuration: %s shading at %s", res.Shading, res.Resolution)
}

// OnResize changes the framebuffer size. Must be called between frames.
func (r *RendererSystem) OnResize(resolution metadata.Resolution) {
	r.renderer.OnResize(resolution)
}

/**
 * @brief Starts rendering sc as seen by viewer and returns immediately.
 * EVENT_CODE_FRAME_READY is fired once the frame is complete. Only one frame
 * may be in flight at a time.
 */
func (r *RendererSystem) RenderFrame(sc *scene.Scene, viewer *components.Viewer, deltaTime float64) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return core.ErrFrameInFlight
	}
	r.applyPending()

	frame := r.frameNumber.Add(1)
	state := r.renderer.ViewerState(viewer)
	r.clock.Start()

	roots := sc.Roots()
	if len(roots) == 0 {
		r.submitRender(frame, sc, &state)
		return nil
	}

	stage := newStageCountdown(len(roots))
	for i, root := range roots {
		task := metadata.NewTask("geometry:"+root.Name, metadata.PriorityGeometryUpdate, func() error {
			root.UpdateSubtree(deltaTime)
			return nil
		})
		task.OnComplete(func(*metadata.Task, error) {
			stage.done(func() { r.submitRender(frame, sc, &state) }, r.releaseFrame)
		})
		if err := r.jobSystem.Submit(task); err != nil {
			stage.abort(len(roots)-i, r.releaseFrame)
			return err
		}
	}
	return nil
}

func (r *RendererSystem) submitRender(frame uint64, sc *scene.Scene, state *components.ViewerState) {
	r.renderer.BeginFrame()

	drawables := sc.Drawables()
	if len(drawables) == 0 {
		r.submitPostProcess(frame)
		return
	}

	stage := newStageCountdown(len(drawables))
	for i, node := range drawables {
		task := metadata.NewTask("render:"+node.Name, metadata.PriorityRender, func() error {
			return r.renderer.Draw(node.Model, node.World(), state)
		})
		task.OnComplete(func(*metadata.Task, error) {
			stage.done(func() { r.submitPostProcess(frame) }, r.releaseFrame)
		})
		if err := r.jobSystem.Submit(task); err != nil {
			core.LogError("frame %d aborted: %s", frame, err)
			stage.abort(len(drawables)-i, r.releaseFrame)
			return
		}
	}
}

func (r *RendererSystem) submitPostProcess(frame uint64) {
	var elapsed float64
	task := metadata.NewTask("postprocess", metadata.PriorityPostProcess, func() error {
		r.clock.Update()
		elapsed = r.clock.Elapsed()
		r.metrics.Update(elapsed)
		r.renderer.EndFrame(r.metrics)
		if r.presenter != nil {
			return r.presenter.Present(frame, r.renderer.Framebuffer())
		}
		return nil
	})
	task.OnComplete(func(*metadata.Task, error) {
		r.releaseFrame()

		ctx := core.EventContext{}
		ctx.Data.U64[0] = frame
		ctx.Data.F64[0] = elapsed
		core.EventFire(core.EVENT_CODE_FRAME_READY, r, ctx)
	})
	if err := r.jobSystem.Submit(task); err != nil {
		core.LogError("frame %d aborted: %s", frame, err)
		r.releaseFrame()
	}
}

func (r *RendererSystem) releaseFrame() {
	r.inFlight.Store(false)
}

/**
 * @brief Counts down the tasks of one frame stage. The last task to finish
 * starts the next stage. When submitting the stage failed part way, the
 * frame is released only once every queued task of the stage has finished.
 */
type stageCountdown struct {
	remaining atomic.Int32
	aborted   atomic.Bool
}

func newStageCountdown(n int) *stageCountdown {
	c := &stageCountdown{}
	c.remaining.Store(int32(n))
	return c
}

// done is called once per finished task.
func (c *stageCountdown) done(next, release func()) {
	if c.remaining.Add(-1) != 0 {
		return
	}
	if c.aborted.Load() {
		release()
		return
	}
	next()
}

// abort accounts for the unsubmitted tasks of the stage.
func (c *stageCountdown) abort(unsubmitted int, release func()) {
	c.aborted.Store(true)
	if c.remaining.Add(-int32(unsubmitted)) == 0 {
		release()
	}
}

// Frame renders one frame and waits for it to complete.
func (r *RendererSystem) Frame(sc *scene.Scene, viewer *components.Viewer, deltaTime float64) error {
	if err := r.RenderFrame(sc, viewer, deltaTime); err != nil {
		return err
	}
	r.jobSystem.WaitForIdle()
	return nil
}

// FrameNumber returns the number of frames started so far.
func (r *RendererSystem) FrameNumber() uint64 {
	return r.frameNumber.Load()
}

func (r *RendererSystem) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_CONFIG_CHANGED, r)
	return nil
}
