package testbed

import (
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

var quadTexcoords = [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// addQuad appends two triangles covering the counter-clockwise quad a, b, c, d.
func addQuad(m *metadata.Model3D, a, b, c, d int, normal math.Vec3, tiling float64) {
	uv := func(i int) math.Vec2 { return quadTexcoords[i].MulScalar(tiling) }
	m.Faces = append(m.Faces,
		metadata.Face{
			Indices:   [3]int{a, b, c},
			Normals:   [3]math.Vec3{normal, normal, normal},
			Texcoords: [3]math.Vec2{uv(0), uv(1), uv(2)},
		},
		metadata.Face{
			Indices:   [3]int{a, c, d},
			Normals:   [3]math.Vec3{normal, normal, normal},
			Texcoords: [3]math.Vec2{uv(0), uv(2), uv(3)},
		},
	)
}

// NewCube builds an axis aligned cube centred on the origin.
func NewCube(name string, size float64, material *metadata.Material) *metadata.Model3D {
	h := size * 0.5
	m := &metadata.Model3D{
		Name: name,
		Positions: []math.Vec3{
			{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
			{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
		},
		Material: material,
	}
	addQuad(m, 4, 5, 6, 7, math.NewVec3(0, 0, 1), 1)
	addQuad(m, 1, 0, 3, 2, math.NewVec3(0, 0, -1), 1)
	addQuad(m, 5, 1, 2, 6, math.NewVec3(1, 0, 0), 1)
	addQuad(m, 0, 4, 7, 3, math.NewVec3(-1, 0, 0), 1)
	addQuad(m, 7, 6, 2, 3, math.NewVec3(0, 1, 0), 1)
	addQuad(m, 0, 1, 5, 4, math.NewVec3(0, -1, 0), 1)
	return m
}

// NewPlane builds a square on the XZ plane facing +Y. The texture repeats tiling times per side.
func NewPlane(name string, size, tiling float64, material *metadata.Material) *metadata.Model3D {
	h := size * 0.5
	m := &metadata.Model3D{
		Name: name,
		Positions: []math.Vec3{
			{X: -h, Y: 0, Z: h}, {X: h, Y: 0, Z: h}, {X: h, Y: 0, Z: -h}, {X: -h, Y: 0, Z: -h},
		},
		Material: material,
	}
	addQuad(m, 0, 1, 2, 3, math.NewVec3(0, 1, 0), tiling)
	return m
}
