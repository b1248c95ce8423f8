package shading

import (
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// Random fills each primitive with a flat colour picked from the model seed
// and the primitive index, so a model keeps its colours from frame to frame.
func randomStrategy(s *Strategy) {
	s.Fragment = randomFragment
}

func randomFragment(p *DrawParams, prim *ScreenPrimitive, _ *metadata.Fragment) math.Vec4 {
	return RandomColour(p.Seed, prim.ID)
}

// RandomColour returns the colour of primitive id for a model seed.
func RandomColour(seed uint64, id int) math.Vec4 {
	r := rand.New(rand.NewSource(seed ^ (uint64(id)+1)*0x9E3779B97F4A7C15))
	c := colorful.Hsv(r.Float64()*360, 0.5+0.5*r.Float64(), 0.6+0.4*r.Float64())
	return math.NewVec4(c.R, c.G, c.B, 1)
}
