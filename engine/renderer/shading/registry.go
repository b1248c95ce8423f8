package shading

import (
	"fmt"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/raster"
)

/**
 * @brief Maps every shading kind to its strategy. Built once per
 * configuration and read concurrently by render tasks.
 */
type Registry struct {
	options    Options
	strategies [len(strategyBuilders)]*Strategy
}

var strategyBuilders = [...]func(*Strategy){
	metadata.ShadingPoint:     pointStrategy,
	metadata.ShadingWireframe: wireframeStrategy,
	metadata.ShadingRandom:    randomStrategy,
	metadata.ShadingNormals:   normalsStrategy,
	metadata.ShadingTexture:   textureStrategy,
	metadata.ShadingPhong:     phongStrategy,
}

func NewRegistry(opts Options) *Registry {
	reg := &Registry{options: opts}
	for kind, build := range strategyBuilders {
		s := &Strategy{
			Kind:          metadata.ShadingKind(kind),
			Vertex:        DefaultVertex,
			Assemble:      AssembleByTopology,
			Clip:          ClipPrimitive,
			Rasterize:     RasterizeFilled,
			Fragment:      DefaultFragment,
			Occluded:      raster.NeverOccluded,
			CullBackfaces: true,
		}
		build(s)
		reg.strategies[kind] = s
		core.LogDebug("registered shading strategy %s", describe(s))
	}
	return reg
}

// Get returns the strategy registered for kind.
func (r *Registry) Get(kind metadata.ShadingKind) (*Strategy, error) {
	if int(kind) >= len(r.strategies) || r.strategies[kind] == nil {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownStrategy, kind)
	}
	return r.strategies[kind], nil
}

func (r *Registry) Options() Options { return r.options }
