package raster

import "github.com/spaghettifunk/softraster/engine/renderer/metadata"

// IsBackFacing reports whether a viewport-space triangle faces away from
// the viewer. Viewport y grows downwards, so counter-clockwise triangles in
// normalized device coordinates have a negative winding here.
func IsBackFacing(f0, f1, f2 *metadata.Fragment) bool {
	e1x, e1y := f1.X-f0.X, f1.Y-f0.Y
	e2x, e2y := f2.X-f1.X, f2.Y-f1.Y
	return e1x*e2y-e1y*e2x > 0
}

/** @brief Decides whether a viewport-space triangle is hidden by what has been drawn so far. */
type OcclusionFunc func(f0, f1, f2 *metadata.Fragment) bool

// NeverOccluded is the default occlusion test.
func NeverOccluded(_, _, _ *metadata.Fragment) bool { return false }
