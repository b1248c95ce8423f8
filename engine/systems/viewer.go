package systems

import (
	"sync"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

type viewerLookup struct {
	viewer         *components.Viewer
	referenceCount int
}

/**
 * @brief Hands out named viewers. Every acquire creates or shares the viewer
 * and bumps its reference count; the last release drops it.
 */
type ViewerSystem struct {
	mu      sync.Mutex
	lookup  map[string]*viewerLookup
	shading metadata.ShadingKind
	// A default, non-registered viewer that always exists as a fallback.
	defaultViewer *components.Viewer
}

// NewViewerSystem creates viewers that draw with the given strategy until told otherwise.
func NewViewerSystem(shading metadata.ShadingKind) *ViewerSystem {
	return &ViewerSystem{
		lookup:        make(map[string]*viewerLookup),
		shading:       shading,
		defaultViewer: components.NewViewer(components.DefaultCameraName, shading),
	}
}

/**
 * @brief Acquires a viewer by name. If one is not found, a new one is created
 * and returned. Internal reference counter is incremented.
 */
func (vs *ViewerSystem) Acquire(name string) *components.Viewer {
	if name == components.DefaultCameraName {
		return vs.defaultViewer
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	l, ok := vs.lookup[name]
	if !ok {
		core.LogDebug("creating new viewer named '%s'", name)
		l = &viewerLookup{viewer: components.NewViewer(name, vs.shading)}
		vs.lookup[name] = l
	}
	l.referenceCount++
	return l.viewer
}

/**
 * @brief Releases a viewer with the given name. If the reference count
 * reaches 0 the viewer is dropped and the next acquire starts fresh.
 */
func (vs *ViewerSystem) Release(name string) {
	if name == components.DefaultCameraName {
		core.LogDebug("cannot release default viewer, nothing was done")
		return
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	l, ok := vs.lookup[name]
	if !ok {
		core.LogWarn("viewer '%s' was never acquired, nothing was done", name)
		return
	}
	l.referenceCount--
	if l.referenceCount < 1 {
		delete(vs.lookup, name)
	}
}

func (vs *ViewerSystem) GetDefault() *components.Viewer {
	return vs.defaultViewer
}

// SetShading switches every viewer, present and future, to kind.
func (vs *ViewerSystem) SetShading(kind metadata.ShadingKind) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.shading = kind
	vs.defaultViewer.Shading = kind
	for _, l := range vs.lookup {
		l.viewer.Shading = kind
	}
}
