package shading

import (
	"fmt"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/raster"
)

// Apply draws model with the given world matrix into target, using the
// strategy the viewer selects. Missing or empty models and draws the
// strategy declines are no-ops. The only error is an unregistered strategy.
func Apply(reg *Registry, model *metadata.Model3D, world math.Mat4, viewer *components.ViewerState, target raster.Target) error {
	strategy, err := reg.Get(viewer.Shading)
	if err != nil {
		return err
	}
	if model.Empty() {
		return nil
	}

	width, height := target.Size()
	params := NewDrawParams(model, world, viewer, width, height, reg.Options())
	if strategy.Prepare != nil && !strategy.Prepare(params) {
		core.LogDebug("skipping '%s': %s strategy has nothing to draw", model.Name, strategy.Kind)
		return nil
	}

	stream := vertexStream(model)
	for i := range stream {
		stream[i] = strategy.Vertex(params, stream[i])
	}

	target = raster.Scissor(target, params.Viewport.Rect(width, height))
	ctx := &DrawContext{Params: params, Target: target, Strategy: strategy}
	for _, prim := range strategy.Assemble(params.Options.Topology, stream) {
		for _, clipped := range strategy.Clip(prim) {
			sp := toScreen(params, &clipped)
			if sp.Kind == PrimitiveTriangle {
				f := &sp.Fragments
				if params.Options.BackfaceCulling && strategy.CullBackfaces && raster.IsBackFacing(&f[0], &f[1], &f[2]) {
					continue
				}
				if strategy.Occluded(&f[0], &f[1], &f[2]) {
					continue
				}
			}
			strategy.Rasterize(ctx, &sp)
		}
	}
	return nil
}

// vertexStream expands the faces into object-space vertices, three per
// face. Faces referencing positions outside the pool are skipped.
func vertexStream(model *metadata.Model3D) []metadata.Vertex {
	out := make([]metadata.Vertex, 0, len(model.Faces)*3)
	for f := range model.Faces {
		var corners [3]metadata.Vertex
		ok := true
		for k := 0; k < 3 && ok; k++ {
			corners[k], ok = model.Corner(f, k)
		}
		if ok {
			out = append(out, corners[:]...)
		}
	}
	return out
}

func toScreen(p *DrawParams, prim *Primitive) ScreenPrimitive {
	sp := ScreenPrimitive{Kind: prim.Kind, ID: prim.ID}
	for i := 0; i < prim.Kind.Count(); i++ {
		v := prim.Vertices[i]
		v.PerspectiveDivide()
		mapped := p.Viewport.Map(v.Position.ToVec3(), p.Width, p.Height)
		v.Position = math.Vec4{X: mapped.X, Y: mapped.Y, Z: mapped.Z, W: v.Position.W}
		sp.Fragments[i] = metadata.FragmentFromVertex(&v)
	}
	return sp
}

// DefaultVertex maps the position by the model-view-projection matrix and
// the normal by the normal matrix. Texture coordinates and colour pass
// through.
func DefaultVertex(p *DrawParams, v metadata.Vertex) metadata.Vertex {
	v.Position = p.ModelViewProjection.MulVec4(v.Position)
	v.Normal = p.Normal.MulDirection(v.Normal).Normalized()
	return v
}

// DefaultFragment returns the interpolated colour.
func DefaultFragment(_ *DrawParams, _ *ScreenPrimitive, f *metadata.Fragment) math.Vec4 {
	return f.Colour
}

// AssembleByTopology groups the vertex stream according to the topology.
// Trailing vertices that do not form a whole primitive are dropped.
func AssembleByTopology(topology metadata.Topology, vs []metadata.Vertex) []Primitive {
	var out []Primitive
	add := func(kind PrimitiveKind, corners ...metadata.Vertex) {
		prim := Primitive{Kind: kind, ID: len(out)}
		copy(prim.Vertices[:], corners)
		out = append(out, prim)
	}

	switch topology {
	case metadata.TopologyPoints:
		for i := range vs {
			add(PrimitivePoint, vs[i])
		}
	case metadata.TopologyLines:
		for i := 0; i+1 < len(vs); i += 2 {
			add(PrimitiveLine, vs[i], vs[i+1])
		}
	case metadata.TopologyLineStrip:
		for i := 0; i+1 < len(vs); i++ {
			add(PrimitiveLine, vs[i], vs[i+1])
		}
	case metadata.TopologyTriangleStrip:
		for i := 0; i+2 < len(vs); i++ {
			// keep a consistent winding on odd triangles
			if i%2 == 0 {
				add(PrimitiveTriangle, vs[i], vs[i+1], vs[i+2])
			} else {
				add(PrimitiveTriangle, vs[i+1], vs[i], vs[i+2])
			}
		}
	case metadata.TopologyTriangleFan:
		for i := 1; i+1 < len(vs); i++ {
			add(PrimitiveTriangle, vs[0], vs[i], vs[i+1])
		}
	default:
		for i := 0; i+2 < len(vs); i += 3 {
			add(PrimitiveTriangle, vs[i], vs[i+1], vs[i+2])
		}
	}
	return out
}

// AssemblePoints turns every vertex into a point, whatever the topology.
func AssemblePoints(_ metadata.Topology, vs []metadata.Vertex) []Primitive {
	return AssembleByTopology(metadata.TopologyPoints, vs)
}

// ClipPrimitive clips against the view volume according to the primitive kind.
func ClipPrimitive(prim Primitive) []Primitive {
	switch prim.Kind {
	case PrimitivePoint:
		if raster.ClipPoint(prim.Vertices[0]) {
			return []Primitive{prim}
		}
		return nil
	case PrimitiveLine:
		a, b, ok := raster.ClipLine(prim.Vertices[0], prim.Vertices[1])
		if !ok {
			return nil
		}
		prim.Vertices[0], prim.Vertices[1] = a, b
		return []Primitive{prim}
	}

	tris := raster.ClipTriangle(prim.Vertices[0], prim.Vertices[1], prim.Vertices[2])
	out := make([]Primitive, 0, len(tris))
	for _, tri := range tris {
		out = append(out, Primitive{Kind: PrimitiveTriangle, Vertices: tri, ID: prim.ID})
	}
	return out
}

// RasterizeFilled fills triangles and draws lines and points.
func RasterizeFilled(ctx *DrawContext, prim *ScreenPrimitive) {
	switch prim.Kind {
	case PrimitiveTriangle:
		ctx.FillTriangle(prim)
	case PrimitiveLine:
		ctx.DrawLine(prim, 0, 1)
	case PrimitivePoint:
		ctx.PlotPoint(prim, 0)
	}
}

// RasterizeWireframe outlines triangles with the configured line algorithm.
func RasterizeWireframe(ctx *DrawContext, prim *ScreenPrimitive) {
	switch prim.Kind {
	case PrimitiveTriangle:
		ctx.DrawLine(prim, 0, 1)
		ctx.DrawLine(prim, 1, 2)
		ctx.DrawLine(prim, 2, 0)
	case PrimitiveLine:
		ctx.DrawLine(prim, 0, 1)
	case PrimitivePoint:
		ctx.PlotPoint(prim, 0)
	}
}

// RasterizePoints plots every corner of the primitive.
func RasterizePoints(ctx *DrawContext, prim *ScreenPrimitive) {
	for i := 0; i < prim.Kind.Count(); i++ {
		ctx.PlotPoint(prim, i)
	}
}

func describe(s *Strategy) string {
	return fmt.Sprintf("%s(cull=%t)", s.Kind, s.CullBackfaces)
}
