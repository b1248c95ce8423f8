package engine

import (
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/scene"
	"github.com/spaghettifunk/softraster/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	// The scene rendered every frame. Set by FnInitialize.
	Scene *scene.Scene
	// The viewer the scene is rendered through. Set by FnInitialize.
	Viewer       *components.Viewer
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error

// Update runs on the engine goroutine before each frame is submitted.
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
