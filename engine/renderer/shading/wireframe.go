package shading

// Wireframe outlines every primitive with the configured line algorithm.
func wireframeStrategy(s *Strategy) {
	s.Rasterize = RasterizeWireframe
	s.CullBackfaces = false
}
