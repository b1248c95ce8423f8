package shading

import "github.com/spaghettifunk/softraster/engine/renderer/metadata"

/**
 * @brief The configuration every strategy of a registry shares. A new
 * registry is built whenever the configuration changes.
 */
type Options struct {
	Topology           metadata.Topology
	LineAlgorithm      metadata.LineAlgorithm
	TextureFilter      metadata.TextureFilter
	MaxAnisotropy      int
	PerspectiveCorrect bool
	BackfaceCulling    bool
	PointSize          int
}

func DefaultOptions() Options {
	return Options{
		Topology:           metadata.TopologyTriangles,
		LineAlgorithm:      metadata.LineBresenham,
		TextureFilter:      metadata.TextureFilterBilinear,
		MaxAnisotropy:      8,
		PerspectiveCorrect: true,
		BackfaceCulling:    true,
		PointSize:          1,
	}
}
