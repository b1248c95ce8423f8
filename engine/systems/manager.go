package systems

import (
	"github.com/spaghettifunk/softraster/engine/assets"
	"github.com/spaghettifunk/softraster/engine/config"
	"github.com/spaghettifunk/softraster/engine/core"
)

type SystemManager struct {
	AssetManager   *assets.AssetManager
	JobSystem      *JobSystem
	TextureSystem  *TextureSystem
	MaterialSystem *MaterialSystem
	FontSystem     *FontSystem
	ViewerSystem   *ViewerSystem
	RendererSystem *RendererSystem
}

// NewSystemManager builds every system from the active configuration.
func NewSystemManager(store *config.Store) (*SystemManager, error) {
	snap := store.Current()
	res := snap.Resolved

	js, err := NewJobSystem(res.Workers, res.PriorityOrder)
	if err != nil {
		return nil, err
	}
	am, err := assets.NewAssetManager(res.Assets.Root, res.Assets.Watch)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	ts := NewTextureSystem(am)
	fs := NewFontSystem(am)
	vs := NewViewerSystem(res.Shading)

	sm := &SystemManager{
		AssetManager:   am,
		JobSystem:      js,
		TextureSystem:  ts,
		MaterialSystem: NewMaterialSystem(ts),
		FontSystem:     fs,
		ViewerSystem:   vs,
		RendererSystem: NewRendererSystem(snap, js, fs, vs),
	}
	core.LogInfo("systems initialized: %d workers, %s shading at %s", js.Workers(), res.Shading, res.Resolution)
	return sm, nil
}

// Shutdown stops the systems in reverse order of creation. Queued tasks are
// drained before the job system stops.
func (sm *SystemManager) Shutdown() error {
	if err := sm.RendererSystem.Shutdown(); err != nil {
		return err
	}
	sm.JobSystem.Shutdown()
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	return sm.AssetManager.Close()
}
