package metadata

import (
	m "math"

	"github.com/spaghettifunk/softraster/engine/math"
)

/**
 * @brief Represents a single vertex flowing through the pipeline.
 */
type Vertex struct {
	/** @brief Homogeneous position. Object space on input, clip space after the vertex program. */
	Position math.Vec4
	/** @brief The normal of the vertex. */
	Normal math.Vec3
	/** @brief The colour of the vertex. */
	Colour math.Vec4
	/** @brief The texture coordinate of the vertex. */
	Texcoord math.Vec2
}

// PerspectiveDivide maps the clip-space position to normalized device
// coordinates in place. W keeps the clip-space w so that later stages can
// interpolate attributes perspective-correctly.
func (v *Vertex) PerspectiveDivide() {
	w := v.Position.W
	if m.Abs(w) < math.K_FLOAT_EPSILON {
		return
	}
	v.Position.X /= w
	v.Position.Y /= w
	v.Position.Z /= w
}

// InterpolateVertex lerps every attribute of a and b. Used by the clipper.
func InterpolateVertex(a, b Vertex, t float64) Vertex {
	return Vertex{
		Position: a.Position.Lerp(b.Position, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
		Colour:   a.Colour.Lerp(b.Colour, t),
		Texcoord: a.Texcoord.Lerp(b.Texcoord, t),
	}
}

/**
 * @brief A candidate pixel with interpolated attributes, prior to the final
 * visibility tests.
 */
type Fragment struct {
	/** @brief Screen-space position in pixels. Pixel centres sit on integers. */
	X, Y float64
	/** @brief Depth, smaller is closer. */
	Z float64
	/** @brief 1/w of the originating clip-space position. */
	InvW float64
	Normal   math.Vec3
	Texcoord math.Vec2
	Colour   math.Vec4
	Stencil  uint8
	/** @brief Set while Normal, Texcoord and Colour are premultiplied by InvW. */
	Perspective bool
}

// Pixel returns the integer pixel the fragment covers.
func (f *Fragment) Pixel() (int, int) {
	return int(m.Round(f.X)), int(m.Round(f.Y))
}

// InterpolateFragment returns the fragment at parameter t on the segment
// a→b. t=0 yields a and t=1 yields b exactly. The stencil value is taken from
// the nearer endpoint.
func InterpolateFragment(a, b *Fragment, t float64) Fragment {
	stencil := a.Stencil
	if t >= 0.5 {
		stencil = b.Stencil
	}
	return Fragment{
		X:           math.Lerp(a.X, b.X, t),
		Y:           math.Lerp(a.Y, b.Y, t),
		Z:           math.Lerp(a.Z, b.Z, t),
		InvW:        math.Lerp(a.InvW, b.InvW, t),
		Normal:      a.Normal.Lerp(b.Normal, t),
		Texcoord:    a.Texcoord.Lerp(b.Texcoord, t),
		Colour:      a.Colour.Lerp(b.Colour, t),
		Stencil:     stencil,
		Perspective: a.Perspective,
	}
}

// ToPerspective premultiplies the varying attributes by InvW so that linear
// screen-space interpolation becomes perspective correct. No-op when already
// premultiplied or when InvW is unusable.
func (f *Fragment) ToPerspective() {
	if f.Perspective || f.InvW <= math.K_FLOAT_EPSILON {
		return
	}
	f.Normal = f.Normal.MulScalar(f.InvW)
	f.Texcoord = f.Texcoord.MulScalar(f.InvW)
	f.Colour = f.Colour.MulScalar(f.InvW)
	f.Perspective = true
}

// Resolved returns a copy with the InvW premultiplication undone.
func (f Fragment) Resolved() Fragment {
	if !f.Perspective || f.InvW <= math.K_FLOAT_EPSILON {
		f.Perspective = false
		return f
	}
	w := 1.0 / f.InvW
	f.Normal = f.Normal.MulScalar(w)
	f.Texcoord = f.Texcoord.MulScalar(w)
	f.Colour = f.Colour.MulScalar(w)
	f.Perspective = false
	return f
}

// FragmentFromVertex builds a fragment from a vertex that has been through
// perspective divide and viewport mapping.
func FragmentFromVertex(v *Vertex) Fragment {
	invW := 1.0
	if m.Abs(v.Position.W) > math.K_FLOAT_EPSILON {
		invW = 1.0 / v.Position.W
	}
	return Fragment{
		X:        v.Position.X,
		Y:        v.Position.Y,
		Z:        v.Position.Z,
		InvW:     invW,
		Normal:   v.Normal,
		Texcoord: v.Texcoord,
		Colour:   v.Colour,
	}
}
