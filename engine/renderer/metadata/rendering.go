package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/softraster/engine/core"
)

// ShadingKind identifies one of the fixed shading strategies.
type ShadingKind uint8

const (
	ShadingPoint ShadingKind = iota
	ShadingWireframe
	ShadingRandom
	ShadingNormals
	ShadingTexture
	ShadingPhong
	shadingKindCount
)

var shadingKindNames = []string{"point", "wireframe", "random", "normals", "texture", "phong"}

func (k ShadingKind) String() string { return enumName(k, shadingKindNames) }

// ShadingKinds lists every strategy kind in declaration order.
func ShadingKinds() []ShadingKind {
	out := make([]ShadingKind, 0, shadingKindCount)
	for k := ShadingKind(0); k < shadingKindCount; k++ {
		out = append(out, k)
	}
	return out
}

func ParseShadingKind(s string) (ShadingKind, error) {
	return parseEnum[ShadingKind](s, shadingKindNames, core.ErrUnknownStrategy)
}

// TextureFilter selects how texels are reconstructed when sampling.
type TextureFilter uint8

const (
	TextureFilterNone TextureFilter = iota
	TextureFilterBilinear
	TextureFilterTrilinear
	TextureFilterAnisotropic
)

var textureFilterNames = []string{"none", "bilinear", "trilinear", "anisotropic"}

func (f TextureFilter) String() string { return enumName(f, textureFilterNames) }

func ParseTextureFilter(s string) (TextureFilter, error) {
	return parseEnum[TextureFilter](s, textureFilterNames, core.ErrUnknownFilter)
}

// PostFilter is the whole-image filter run after all objects are drawn.
type PostFilter uint8

const (
	PostFilterNone PostFilter = iota
	PostFilterGrayscale
	PostFilterBlackAndWhite
)

var postFilterNames = []string{"none", "grayscale", "blackandwhite"}

func (f PostFilter) String() string { return enumName(f, postFilterNames) }

func ParsePostFilter(s string) (PostFilter, error) {
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return parseEnum[PostFilter](s, postFilterNames, core.ErrUnknownFilter)
}

// LineAlgorithm selects the line rasteriser.
type LineAlgorithm uint8

const (
	LineBresenham LineAlgorithm = iota
	LineXiaolinWu
)

var lineAlgorithmNames = []string{"bresenham", "xiaolinwu"}

func (a LineAlgorithm) String() string { return enumName(a, lineAlgorithmNames) }

func ParseLineAlgorithm(s string) (LineAlgorithm, error) {
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return parseEnum[LineAlgorithm](s, lineAlgorithmNames, core.ErrUnknownLineAlgorithm)
}

// Topology describes how the vertex stream is grouped into primitives.
type Topology uint8

const (
	TopologyTriangles Topology = iota
	TopologyTriangleStrip
	TopologyTriangleFan
	TopologyLines
	TopologyLineStrip
	TopologyPoints
)

var topologyNames = []string{"triangles", "trianglestrip", "trianglefan", "lines", "linestrip", "points"}

func (t Topology) String() string { return enumName(t, topologyNames) }

func ParseTopology(s string) (Topology, error) {
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return parseEnum[Topology](s, topologyNames, core.ErrUnknownTopology)
}

// Resolution is one of the supported framebuffer sizes.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

// Resolutions are the framebuffer presets, smallest first.
var Resolutions = []Resolution{
	{320, 240},
	{640, 480},
	{800, 600},
	{1024, 768},
	{1280, 720},
	{1280, 1024},
	{1600, 900},
	{1920, 1080},
}

func ParseResolution(s string) (Resolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Resolutions {
		if r.String() == s {
			return r, nil
		}
	}
	return Resolution{}, fmt.Errorf("%w: %q", core.ErrUnknownResolution, s)
}

func enumName[T ~uint8](v T, names []string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func parseEnum[T ~uint8](s string, names []string, sentinel error) (T, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == key {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", sentinel, s)
}
