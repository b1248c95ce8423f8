package testbed

import (
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
)

// flyby circles a camera around target, keeping it radius away on the
// ground plane and height above the ground.
type flyby struct {
	target math.Vec3
	radius float64
	height float64
	// Units per second along the circle.
	speed float64
}

func (f *flyby) update(c *components.Camera, dt float64) {
	c.MoveRight(f.speed * dt)
	c.LookAt(f.target)

	// pull back onto the circle along the view direction
	pos, fwd := c.GetPosition(), c.Forward()
	distance := math.NewVec2(pos.X-f.target.X, pos.Z-f.target.Z).Length()
	if ground := math.NewVec2(fwd.X, fwd.Z).Length(); ground > math.K_FLOAT_EPSILON {
		c.MoveForward((distance - f.radius) / ground)
	}
	c.MoveUp(f.height - c.GetPosition().Y)
	c.LookAt(f.target)
}
