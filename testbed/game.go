package testbed

import (
	"github.com/spaghettifunk/softraster/engine"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/scene"
	"github.com/spaghettifunk/softraster/engine/systems"
)

const (
	crateTexture = "textures/crate.png"
	floorTexture = "textures/floor.png"
	// Radians per second.
	spinSpeed  = 0.8
	orbitSpeed = 2.0
	// Units per second.
	cameraSpeed = 1.2
	logEvery    = 60
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	// Where finished frames are written. May hold a %d verb for the frame number.
	output string
	frames uint64
	camera *flyby
}

func NewTestGame(app *engine.ApplicationConfig, output string) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State:             &gameState{output: output},
		},
	}
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	sm := g.SystemManager

	st := g.state()
	st.camera = &flyby{target: math.NewVec3(0, 0.5, 0), radius: 6, height: 2.5, speed: cameraSpeed}
	viewer := sm.ViewerSystem.Acquire("main")
	viewer.Camera.SetPosition(math.NewVec3(0, st.camera.height, st.camera.radius))
	viewer.Camera.LookAt(st.camera.target)
	g.Viewer = viewer

	crate := sm.MaterialSystem.Register(systems.MaterialConfig{
		Name:          "crate",
		Ambient:       0.15,
		Diffuse:       0.85,
		Specular:      0.4,
		Shininess:     24,
		DiffuseColour: math.NewVec4(1, 1, 1, 1),
		DiffuseMap:    crateTexture,
	})
	floor := sm.MaterialSystem.Register(systems.MaterialConfig{
		Name:          "floor",
		Ambient:       0.1,
		Diffuse:       0.7,
		Specular:      0.05,
		Shininess:     4,
		DiffuseColour: math.NewVec4(0.6, 0.6, 0.65, 1),
		DiffuseMap:    floorTexture,
	})

	world := scene.NewNode("world", nil)

	ground := scene.NewNode("floor", NewPlane("floor", 10, 4, floor))
	world.AddChild(ground)

	cube := scene.NewNode("cube", NewCube("cube", 1.5, crate))
	cube.Transform.SetPosition(math.NewVec3(0, 1, 0))
	cube.Update = spin(math.NewVec3(0.3, 1, 0.1), spinSpeed)
	world.AddChild(cube)

	// A small cube orbiting the big one, inheriting its transform.
	moon := scene.NewNode("moon", NewCube("moon", 0.4, nil))
	moon.Transform.SetPosition(math.NewVec3(1.6, 0.4, 0))
	moon.Update = spin(math.NewVec3(0, 1, 0), orbitSpeed)
	cube.AddChild(moon)

	g.Scene = scene.New("testbed")
	g.Scene.Add(world)

	sm.RendererSystem.SetPresenter(&renderer.FilePresenter{Pattern: st.output})
	return nil
}

// spin rotates a node around axis at speed radians per second.
func spin(axis math.Vec3, speed float64) scene.UpdateFunc {
	return func(n *scene.Node, dt float64) {
		n.Transform.Rotate(math.NewQuatFromAxisAngle(axis, speed*dt, true))
	}
}

func (g *TestGame) Update(deltaTime float64) error {
	st := g.state()
	st.frames++
	if st.camera != nil && g.Viewer != nil {
		st.camera.update(g.Viewer.Camera, deltaTime)
	}
	if st.frames%logEvery == 0 {
		m := g.SystemManager.RendererSystem.Metrics()
		core.LogInfo("frame %d: %.1f fps, %.2f ms", st.frames, m.FPS(), m.FrameTime())
	}
	return nil
}

func (g *TestGame) OnResize(width, height uint32) error {
	core.LogDebug("testbed rendering at %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	if g.Scene != nil {
		g.Scene.Destroy()
	}
	if g.Viewer != nil {
		g.SystemManager.ViewerSystem.Release(g.Viewer.Name)
	}
	core.LogInfo("testbed wrote its last frame to %s", g.state().output)
	return nil
}

// Models returns the models of every drawable node, for inspection.
func (g *TestGame) Models() []*metadata.Model3D {
	var out []*metadata.Model3D
	for _, n := range g.Scene.Drawables() {
		out = append(out, n.Model)
	}
	return out
}
