package systems

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/softraster/engine/config"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/scene"
)

func testConfig() *config.Config {
	c := config.Default()
	c.Resolution = "320x240"
	c.Strategy = metadata.ShadingRandom.String()
	c.Workers = 2
	return c
}

func quadModel(name string) *metadata.Model3D {
	return &metadata.Model3D{
		Name: name,
		Positions: []math.Vec3{
			math.NewVec3(-1, -1, 0), math.NewVec3(1, -1, 0),
			math.NewVec3(1, 1, 0), math.NewVec3(-1, 1, 0),
		},
		Faces: []metadata.Face{
			{Indices: [3]int{0, 1, 2}},
			{Indices: [3]int{0, 2, 3}},
		},
	}
}

type frameRig struct {
	store  *config.Store
	js     *JobSystem
	vs     *ViewerSystem
	rs     *RendererSystem
	scene  *scene.Scene
	frames atomic.Int32
}

func newFrameRig(t *testing.T, workers int) *frameRig {
	t.Helper()
	c := testConfig()
	c.Workers = workers
	store, err := config.NewStore(c)
	require.NoError(t, err)
	js, err := NewJobSystem(workers, metadata.PriorityAscending)
	require.NoError(t, err)

	vs := NewViewerSystem(store.Current().Resolved.Shading)
	vs.GetDefault().Camera.SetPosition(math.NewVec3(0, 0, 3))

	rig := &frameRig{
		store: store,
		js:    js,
		vs:    vs,
		rs:    NewRendererSystem(store.Current(), js, nil, vs),
		scene: scene.New("test"),
	}
	require.True(t, core.EventRegister(core.EVENT_CODE_FRAME_READY, rig,
		func(_ core.SystemEventCode, sender, _ interface{}, _ core.EventContext) bool {
			if sender == rig.rs {
				rig.frames.Add(1)
			}
			return false
		}))
	t.Cleanup(func() {
		core.EventUnregister(core.EVENT_CODE_FRAME_READY, rig)
		rig.rs.Shutdown()
		js.Shutdown()
	})
	return rig
}

func (rig *frameRig) centre() uint32 {
	fb := rig.rs.Renderer().Framebuffer()
	p, _ := fb.PixelAt(fb.Width()/2, fb.Height()/2)
	return p
}

func TestFrameRendersScene(t *testing.T) {
	rig := newFrameRig(t, 4)
	rig.scene.Add(scene.NewNode("quad", quadModel("quad")))

	require.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0.016))

	assert.NotEqual(t, framebuffer.DefaultClearPixel, rig.centre())
	assert.Equal(t, int32(1), rig.frames.Load())
	assert.Equal(t, uint64(1), rig.rs.FrameNumber())
	assert.Equal(t, uint64(1), rig.rs.Metrics().TotalFrames())
}

func TestFrameRunsGeometryBeforeRender(t *testing.T) {
	rig := newFrameRig(t, 2)
	node := scene.NewNode("quad", quadModel("quad"))
	// Out of view until the geometry update moves it back.
	node.Transform.SetPosition(math.NewVec3(100, 0, 0))
	node.Update = func(n *scene.Node, _ float64) {
		n.Transform.SetPosition(math.NewVec3Zero())
	}
	rig.scene.Add(node)

	require.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0.016))
	assert.NotEqual(t, framebuffer.DefaultClearPixel, rig.centre())
}

func TestFrameClearsPreviousImage(t *testing.T) {
	rig := newFrameRig(t, 2)
	node := scene.NewNode("quad", quadModel("quad"))
	rig.scene.Add(node)
	require.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0))
	require.NotEqual(t, framebuffer.DefaultClearPixel, rig.centre())

	rig.scene.Remove(node)
	require.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0))
	assert.Equal(t, framebuffer.DefaultClearPixel, rig.centre())
	assert.Equal(t, int32(2), rig.frames.Load())
}

func TestOnlyOneFrameInFlight(t *testing.T) {
	rig := newFrameRig(t, 1)
	rig.scene.Add(scene.NewNode("quad", quadModel("quad")))

	release := blockWorkers(t, rig.js, 1)
	require.NoError(t, rig.rs.RenderFrame(rig.scene, rig.vs.GetDefault(), 0))
	assert.ErrorIs(t, rig.rs.RenderFrame(rig.scene, rig.vs.GetDefault(), 0), core.ErrFrameInFlight)

	release()
	rig.js.WaitForIdle()
	assert.Equal(t, int32(1), rig.frames.Load())
	assert.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0))
}

func TestConfigChangeAppliesAtNextFrame(t *testing.T) {
	rig := newFrameRig(t, 2)
	rig.scene.Add(scene.NewNode("quad", quadModel("quad")))

	c := testConfig()
	c.Resolution = "640x480"
	c.Strategy = metadata.ShadingNormals.String()
	c.ClearColor = "#ffffff"
	c.Workers = 3
	require.NoError(t, rig.store.Apply(c))

	// Nothing changes until a frame starts.
	assert.Equal(t, 320, rig.rs.Renderer().Framebuffer().Width())

	require.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0))
	fb := rig.rs.Renderer().Framebuffer()
	assert.Equal(t, 640, fb.Width())
	assert.Equal(t, metadata.ShadingNormals, rig.vs.GetDefault().Shading)
	assert.Equal(t, 3, rig.js.Workers())
	corner, _ := fb.PixelAt(0, 0)
	assert.Equal(t, uint32(0xFFFFFFFF), corner)
}

func TestFrameWithEmptyScene(t *testing.T) {
	rig := newFrameRig(t, 1)
	require.NoError(t, rig.rs.Frame(rig.scene, rig.vs.GetDefault(), 0))
	assert.Equal(t, int32(1), rig.frames.Load())
}

func TestFrameAfterShutdown(t *testing.T) {
	rig := newFrameRig(t, 1)
	rig.scene.Add(scene.NewNode("quad", quadModel("quad")))
	rig.js.Shutdown()

	assert.ErrorIs(t, rig.rs.RenderFrame(rig.scene, rig.vs.GetDefault(), 0), core.ErrJobSystemClosed)
	// The failed frame does not block the next attempt.
	assert.ErrorIs(t, rig.rs.RenderFrame(rig.scene, rig.vs.GetDefault(), 0), core.ErrJobSystemClosed)
}

func TestStageCountdown(t *testing.T) {
	var next, released int
	onNext := func() { next++ }
	onRelease := func() { released++ }

	full := newStageCountdown(2)
	full.done(onNext, onRelease)
	assert.Equal(t, 0, next)
	full.done(onNext, onRelease)
	assert.Equal(t, 1, next)
	assert.Equal(t, 0, released)

	// two of three tasks queued before the submit failed
	next = 0
	partial := newStageCountdown(3)
	partial.abort(1, onRelease)
	assert.Equal(t, 0, released, "queued tasks are still running")
	partial.done(onNext, onRelease)
	assert.Equal(t, 0, released)
	partial.done(onNext, onRelease)
	assert.Equal(t, 1, released)
	assert.Equal(t, 0, next)

	// nothing queued: released at once
	released = 0
	newStageCountdown(4).abort(4, onRelease)
	assert.Equal(t, 1, released)
}

func TestViewerSystemAcquireRelease(t *testing.T) {
	vs := NewViewerSystem(metadata.ShadingPhong)
	a := vs.Acquire("main")
	b := vs.Acquire("main")
	assert.Same(t, a, b)
	assert.Equal(t, metadata.ShadingPhong, a.Shading)

	vs.Release("main")
	assert.Same(t, a, vs.Acquire("main"))
	vs.Release("main")
	vs.Release("main")
	assert.NotSame(t, a, vs.Acquire("main"))

	vs.SetShading(metadata.ShadingWireframe)
	assert.Equal(t, metadata.ShadingWireframe, vs.GetDefault().Shading)
	assert.Same(t, vs.GetDefault(), vs.Acquire("default"))
}

func TestMaterialAndTextureSystems(t *testing.T) {
	ts := NewTextureSystem(nil)
	defer ts.Shutdown()
	assert.Same(t, ts.DefaultTexture, ts.Acquire("bricks.png"))

	ms := NewMaterialSystem(ts)
	mat := ms.Register(MaterialConfig{
		Name:          "bricks",
		Ambient:       0.2,
		Diffuse:       0.7,
		Specular:      0.1,
		Shininess:     8,
		DiffuseColour: math.NewVec4(1, 1, 1, 1),
		DiffuseMap:    "bricks.png",
	})
	assert.Same(t, mat, ms.Acquire("bricks"))
	assert.Same(t, ts.DefaultTexture, mat.DiffuseMap)
	assert.Same(t, ms.GetDefault(), ms.Acquire("missing"))
}
