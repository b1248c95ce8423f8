package math

// FaceNormal returns the unit normal of the triangle (p0, p1, p2) using
// counter-clockwise winding.
func FaceNormal(p0, p1, p2 Vec3) Vec3 {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
	return edge1.Cross(edge2).Normalized()
}

// ComputeExtents returns the axis aligned bounds of the given points.
func ComputeExtents(points []Vec3) Extents3D {
	if len(points) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		ext.Min.X = min(ext.Min.X, p.X)
		ext.Min.Y = min(ext.Min.Y, p.Y)
		ext.Min.Z = min(ext.Min.Z, p.Z)
		ext.Max.X = max(ext.Max.X, p.X)
		ext.Max.Y = max(ext.Max.Y, p.Y)
		ext.Max.Z = max(ext.Max.Z, p.Z)
	}
	return ext
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}
