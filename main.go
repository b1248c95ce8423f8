/*
Renders the testbed scene with the software rasteriser and writes the
frames to disk. Settings are read from raster.toml when present and
reloaded whenever it changes.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/softraster/engine"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/testbed"
)

func main() {
	tb := testbed.NewTestGame(&engine.ApplicationConfig{
		Name:        "Softraster Testbed",
		ConfigPath:  "raster.toml",
		WatchConfig: true,
		MaxFrames:   600,
		TargetFPS:   30,
	}, "frame.png")

	e, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
	}()

	if err := e.Run(); err != nil {
		core.LogError(err.Error())
	}
	if err := e.Shutdown(); err != nil {
		panic(err)
	}
}
