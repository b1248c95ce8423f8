package shading

import (
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// Normals visualises view-space normals. The vertex program stores the
// normal in the colour channel and the fragment program decodes and
// renormalises it after interpolation.
func normalsStrategy(s *Strategy) {
	s.Vertex = normalsVertex
	s.Fragment = normalsFragment
}

func normalsVertex(p *DrawParams, v metadata.Vertex) metadata.Vertex {
	v = DefaultVertex(p, v)
	v.Colour = EncodeNormal(v.Normal)
	return v
}

func normalsFragment(_ *DrawParams, _ *ScreenPrimitive, f *metadata.Fragment) math.Vec4 {
	return EncodeNormal(DecodeNormal(f.Colour))
}

// EncodeNormal maps a unit vector from [-1,1] to a colour in [0,1].
func EncodeNormal(n math.Vec3) math.Vec4 {
	return math.NewVec4(n.X*0.5+0.5, n.Y*0.5+0.5, n.Z*0.5+0.5, 1)
}

// DecodeNormal is the inverse of EncodeNormal, renormalised.
func DecodeNormal(c math.Vec4) math.Vec3 {
	return math.NewVec3(c.X*2-1, c.Y*2-1, c.Z*2-1).Normalized()
}
