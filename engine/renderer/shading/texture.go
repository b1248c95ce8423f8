package shading

import (
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// Texture samples the material's diffuse map. Models without one are not
// drawn.
func textureStrategy(s *Strategy) {
	s.Prepare = hasDiffuseMap
	s.Rasterize = rasterizeTextured
	s.Fragment = textureFragment
}

func hasDiffuseMap(p *DrawParams) bool {
	return p.Material != nil && p.Material.DiffuseMap != nil && len(p.Material.DiffuseMap.Levels) > 0
}

// rasterizeTextured derives the level of detail footprint of a triangle
// before filling it.
func rasterizeTextured(ctx *DrawContext, prim *ScreenPrimitive) {
	if prim.Kind == PrimitiveTriangle {
		fs := &prim.Fragments
		prim.Footprint = metadata.ComputeFootprint(
			math.NewVec2(fs[0].X, fs[0].Y), math.NewVec2(fs[1].X, fs[1].Y), math.NewVec2(fs[2].X, fs[2].Y),
			fs[0].Texcoord, fs[1].Texcoord, fs[2].Texcoord,
		)
	}
	RasterizeFilled(ctx, prim)
}

func textureFragment(p *DrawParams, prim *ScreenPrimitive, f *metadata.Fragment) math.Vec4 {
	tex := p.Material.DiffuseMap
	return tex.Sample(f.Texcoord, p.Options.TextureFilter, prim.Footprint, p.Options.MaxAnisotropy)
}
