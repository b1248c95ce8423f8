package shading

// Point plots every transformed vertex.
func pointStrategy(s *Strategy) {
	s.Assemble = AssemblePoints
	s.Rasterize = RasterizePoints
	s.CullBackfaces = false
}
