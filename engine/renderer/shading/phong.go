package shading

import (
	m "math"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// Phong lights each fragment with the material coefficients and the
// viewer's directional light, using the Blinn half vector. The diffuse map
// replaces the interpolated colour when present.
func phongStrategy(s *Strategy) {
	s.Rasterize = rasterizeTextured
	s.Fragment = phongFragment
}

var viewDirection = math.NewVec3(0, 0, 1)

func phongFragment(p *DrawParams, prim *ScreenPrimitive, f *metadata.Fragment) math.Vec4 {
	mat := p.Material
	base := f.Colour
	if hasDiffuseMap(p) {
		base = mat.DiffuseMap.Sample(f.Texcoord, p.Options.TextureFilter, prim.Footprint, p.Options.MaxAnisotropy)
	}
	albedo := base.ToVec3()

	n := f.Normal.Normalized()
	diffuse := max(n.Dot(p.ToLight), 0)
	specular := 0.0
	if diffuse > 0 {
		half := p.ToLight.Add(viewDirection).Normalized()
		specular = m.Pow(max(n.Dot(half), 0), max(mat.Shininess, 1))
	}

	lit := mat.Ambient.Mul(albedo).
		Add(mat.Diffuse.Mul(albedo).MulScalar(diffuse).Mul(p.LightColour)).
		Add(mat.Specular.MulScalar(specular).Mul(p.LightColour))
	return math.NewVec4(lit.X, lit.Y, lit.Z, base.W)
}
