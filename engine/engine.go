package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/softraster/engine/config"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	store         *config.Store
	watcher       *config.Watcher
	systemManager *systems.SystemManager
	clock         *core.Clock
	lastTime      float64
}

// LoadConfig reads path, falling back to the defaults when it does not exist.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	c, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogInfo("no configuration at %s, using defaults", path)
		return config.Default(), nil
	}
	return c, err
}

func New(g *Game) (*Engine, error) {
	c, err := LoadConfig(g.ApplicationConfig.ConfigPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	store, err := config.NewStore(c)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(store.Current().Resolved.LogLevel)

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		store:        store,
		clock:        core.NewClock(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	sm, err := systems.NewSystemManager(e.store)
	if err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	app := e.gameInstance.ApplicationConfig
	if app.WatchConfig && app.ConfigPath != "" {
		if e.watcher, err = config.NewWatcher(app.ConfigPath, e.store); err != nil {
			core.LogWarn("configuration hot reload disabled: %s", err)
		}
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if e.gameInstance.Scene == nil || e.gameInstance.Viewer == nil {
		return fmt.Errorf("game '%s' did not set up a scene and a viewer", app.Name)
	}

	res := e.store.Current().Resolved.Resolution
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(uint32(res.Width), uint32(res.Height)); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", app.Name)
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	app := e.gameInstance.ApplicationConfig
	var targetFrameSeconds float64
	if app.TargetFPS > 0 {
		targetFrameSeconds = 1.0 / app.TargetFPS
	}
	rs := e.systemManager.RendererSystem

	for e.isRunning.Load() {
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}

		if err := rs.Frame(e.gameInstance.Scene, e.gameInstance.Viewer, delta); err != nil {
			core.LogError("frame failed, shutting down: %s", err)
			return err
		}

		if app.MaxFrames > 0 && rs.FrameNumber() >= app.MaxFrames {
			e.isRunning.Store(false)
		}

		e.clock.Update()
		if remaining := targetFrameSeconds - (e.clock.Elapsed() - currentTime); remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
		e.lastTime = currentTime
	}
	core.LogInfo("rendered %d frames, %.1f fps", rs.FrameNumber(), rs.Metrics().FPS())
	return nil
}

// Stop asks the main loop to exit after the current frame.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.Stop()

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn("failed to stop the configuration watcher: %s", err)
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	core.EventUnregister(core.EVENT_CODE_RESIZED, e)
	e.currentStage = EngineStageUninitialized
	return nil
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down")
		e.Stop()
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if code != core.EVENT_CODE_RESIZED || e.gameInstance.FnOnResize == nil {
		return false
	}
	width, height := data.Data.U32[0], data.Data.U32[1]
	core.LogDebug("framebuffer resized to %dx%d", width, height)
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError("game resize failed: %s", err)
	}
	// Let other listeners see the event too.
	return false
}
