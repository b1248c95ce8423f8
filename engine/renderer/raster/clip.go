package raster

import (
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// Clip space outcodes.
const (
	outLeft uint8 = 1 << iota
	outRight
	outBottom
	outTop
	outNear
	outFar
)

var clipPlanes = [...]uint8{outNear, outFar, outLeft, outRight, outBottom, outTop}

func outcode(p math.Vec4) uint8 {
	var code uint8
	for _, plane := range clipPlanes {
		if planeDistance(plane, p) < 0 {
			code |= plane
		}
	}
	return code
}

// planeDistance is positive on the visible side of a clip plane.
func planeDistance(plane uint8, p math.Vec4) float64 {
	switch plane {
	case outLeft:
		return p.W + p.X
	case outRight:
		return p.W - p.X
	case outBottom:
		return p.W + p.Y
	case outTop:
		return p.W - p.Y
	case outNear:
		return p.W + p.Z
	}
	return p.W - p.Z
}

// clipPolygon is one Sutherland-Hodgman pass against a single plane.
func clipPolygon(plane uint8, poly []metadata.Vertex) []metadata.Vertex {
	out := make([]metadata.Vertex, 0, len(poly)+1)
	for i := range poly {
		cur, next := poly[i], poly[(i+1)%len(poly)]
		dc, dn := planeDistance(plane, cur.Position), planeDistance(plane, next.Position)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, metadata.InterpolateVertex(cur, next, dc/(dc-dn)))
		}
	}
	return out
}

// ClipTriangle clips a clip-space triangle against the six planes of the
// view volume and fans the remaining polygon back into triangles. Triangles
// wholly outside one plane yield nothing.
func ClipTriangle(v0, v1, v2 metadata.Vertex) [][3]metadata.Vertex {
	c0, c1, c2 := outcode(v0.Position), outcode(v1.Position), outcode(v2.Position)
	if c0&c1&c2 != 0 {
		return nil
	}
	crossed := c0 | c1 | c2
	if crossed == 0 {
		return [][3]metadata.Vertex{{v0, v1, v2}}
	}

	poly := []metadata.Vertex{v0, v1, v2}
	for _, plane := range clipPlanes {
		if crossed&plane == 0 {
			continue
		}
		if poly = clipPolygon(plane, poly); len(poly) < 3 {
			return nil
		}
	}

	out := make([][3]metadata.Vertex, 0, len(poly)-2)
	for i := 1; i < len(poly)-1; i++ {
		out = append(out, [3]metadata.Vertex{poly[0], poly[i], poly[i+1]})
	}
	return out
}

// ClipLine clips a clip-space segment against the view volume. The
// boolean is false when nothing of the segment is visible.
func ClipLine(a, b metadata.Vertex) (metadata.Vertex, metadata.Vertex, bool) {
	ca, cb := outcode(a.Position), outcode(b.Position)
	if ca&cb != 0 {
		return a, b, false
	}
	if ca|cb == 0 {
		return a, b, true
	}

	// parametric range of the visible part, t=0 at a and t=1 at b
	t0, t1 := 0.0, 1.0
	for _, plane := range clipPlanes {
		if (ca|cb)&plane == 0 {
			continue
		}
		da, db := planeDistance(plane, a.Position), planeDistance(plane, b.Position)
		t := da / (da - db)
		if da < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}

	start, end := a, b
	if t0 > 0 {
		start = metadata.InterpolateVertex(a, b, t0)
	}
	if t1 < 1 {
		end = metadata.InterpolateVertex(a, b, t1)
	}
	return start, end, true
}

// ClipPoint reports whether a clip-space point lies inside the view volume.
func ClipPoint(v metadata.Vertex) bool {
	return v.Position.W > math.K_FLOAT_EPSILON && outcode(v.Position) == 0
}
