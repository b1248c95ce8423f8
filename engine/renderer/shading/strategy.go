package shading

import (
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/raster"
)

/** @brief The kind of a primitive, derived from the topology. */
type PrimitiveKind uint8

const (
	PrimitivePoint PrimitiveKind = iota + 1
	PrimitiveLine
	PrimitiveTriangle
)

// Count returns the number of corners of the primitive kind.
func (k PrimitiveKind) Count() int {
	return int(k)
}

/** @brief An assembled primitive in clip space. */
type Primitive struct {
	Kind     PrimitiveKind
	Vertices [3]metadata.Vertex
	/** @brief Position of the primitive in assembly order. */
	ID int
}

/** @brief A primitive mapped into viewport space, ready for rasterisation. */
type ScreenPrimitive struct {
	Kind      PrimitiveKind
	Fragments [3]metadata.Fragment
	ID        int
	/** @brief Texture-coordinate gradients, filled for triangles when a strategy samples textures. */
	Footprint metadata.Footprint
}

// VertexProgram maps an object-space vertex into clip space.
type VertexProgram func(p *DrawParams, v metadata.Vertex) metadata.Vertex

// AssembleFunc groups the transformed vertex stream into primitives.
type AssembleFunc func(topology metadata.Topology, vertices []metadata.Vertex) []Primitive

// ClipFunc clips a primitive against the view volume, yielding zero or more primitives.
type ClipFunc func(prim Primitive) []Primitive

// RasterizeFunc writes a viewport-space primitive into the target.
type RasterizeFunc func(ctx *DrawContext, prim *ScreenPrimitive)

// FragmentProgram computes the colour of a fragment.
type FragmentProgram func(p *DrawParams, prim *ScreenPrimitive, f *metadata.Fragment) math.Vec4

// PrepareFunc runs once per draw. Returning false turns the draw into a no-op.
type PrepareFunc func(p *DrawParams) bool

/**
 * @brief The behaviour table of one shading strategy. Every slot is
 * filled by the registry; strategies override the slots they need.
 */
type Strategy struct {
	Kind      metadata.ShadingKind
	Prepare   PrepareFunc
	Vertex    VertexProgram
	Assemble  AssembleFunc
	Clip      ClipFunc
	Rasterize RasterizeFunc
	Fragment  FragmentProgram
	Occluded  raster.OcclusionFunc
	/** @brief Whether back-facing triangles are dropped when culling is enabled. */
	CullBackfaces bool
}

/** @brief The state of one draw call, handed to the rasterize slot. */
type DrawContext struct {
	Params   *DrawParams
	Target   raster.Target
	Strategy *Strategy
}

// Shader returns the framebuffer shade function for a primitive.
func (ctx *DrawContext) Shader(prim *ScreenPrimitive) framebuffer.ShadeFunc {
	fragment := ctx.Strategy.Fragment
	params := ctx.Params
	return func(f *metadata.Fragment) uint32 {
		return metadata.PackColour(fragment(params, prim, f))
	}
}

// FillTriangle scan converts a triangle primitive with the strategy's fragment program.
func (ctx *DrawContext) FillTriangle(prim *ScreenPrimitive) {
	fs := &prim.Fragments
	raster.FillTriangle(ctx.Target, fs[0], fs[1], fs[2], ctx.Shader(prim), ctx.Params.Options.PerspectiveCorrect)
}

// DrawLine rasterises the segment between two corners of a primitive.
func (ctx *DrawContext) DrawLine(prim *ScreenPrimitive, a, b int) {
	from, to := prim.Fragments[a], prim.Fragments[b]
	if ctx.Params.Options.PerspectiveCorrect {
		from.ToPerspective()
		to.ToPerspective()
	}
	raster.DrawLine(ctx.Params.Options.LineAlgorithm, from, to, raster.LinePlotter(ctx.Target, ctx.Shader(prim)))
}

// PlotPoint writes a square of PointSize pixels centred on one corner.
func (ctx *DrawContext) PlotPoint(prim *ScreenPrimitive, corner int) {
	f := prim.Fragments[corner]
	shade := ctx.Shader(prim)
	size := max(ctx.Params.Options.PointSize, 1)
	cx, cy := f.Pixel()
	start := -(size - 1) / 2
	for dy := start; dy < start+size; dy++ {
		for dx := start; dx < start+size; dx++ {
			p := f
			p.X, p.Y = float64(cx+dx), float64(cy+dy)
			ctx.Target.Plot(&p, shade)
		}
	}
}
