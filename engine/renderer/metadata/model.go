package metadata

import (
	"github.com/spaghettifunk/softraster/engine/math"
)

/**
 * @brief A triangle referencing three positions of the owning model's pool,
 * with per-corner normals and texture coordinates.
 */
type Face struct {
	Indices   [3]int
	Normals   [3]math.Vec3
	Texcoords [3]math.Vec2
}

/**
 * @brief A polygonal model: position pool, faces and material. Owned by an
 * asset cache and referenced by scene nodes.
 */
type Model3D struct {
	Name      string
	Positions []math.Vec3
	/** @brief Optional per-position colours. When shorter than Positions the material colour is used. */
	Colours  []math.Vec4
	Faces    []Face
	Material *Material
}

// Empty reports whether there is nothing to draw.
func (md *Model3D) Empty() bool {
	return md == nil || len(md.Faces) == 0 || len(md.Positions) == 0
}

// GetMaterial returns the model material, or a default one.
func (md *Model3D) GetMaterial() *Material {
	if md.Material == nil {
		return NewDefaultMaterial()
	}
	return md.Material
}

// Corner assembles the object-space vertex for corner k of face f. ok is
// false when either index is out of range.
func (md *Model3D) Corner(f, k int) (Vertex, bool) {
	if f < 0 || f >= len(md.Faces) || k < 0 || k > 2 {
		return Vertex{}, false
	}
	face := &md.Faces[f]
	idx := face.Indices[k]
	if idx < 0 || idx >= len(md.Positions) {
		return Vertex{}, false
	}
	colour := math.NewVec4One()
	if md.Material != nil {
		colour = md.Material.DiffuseColour
	}
	if idx < len(md.Colours) {
		colour = md.Colours[idx]
	}
	return Vertex{
		Position: md.Positions[idx].ToVec4(1.0),
		Normal:   face.Normals[k],
		Colour:   colour,
		Texcoord: face.Texcoords[k],
	}, true
}

// GenerateNormals fills every zero-length corner normal with its face normal.
func (md *Model3D) GenerateNormals() {
	for i := range md.Faces {
		face := &md.Faces[i]
		ok := true
		for _, idx := range face.Indices {
			if idx < 0 || idx >= len(md.Positions) {
				ok = false
			}
		}
		if !ok {
			continue
		}
		n := math.FaceNormal(md.Positions[face.Indices[0]], md.Positions[face.Indices[1]], md.Positions[face.Indices[2]])
		for k := range face.Normals {
			if face.Normals[k].LengthSquared() < math.K_FLOAT_EPSILON {
				face.Normals[k] = n
			}
		}
	}
}

// Extents returns the object-space bounds of the position pool.
func (md *Model3D) Extents() math.Extents3D {
	return math.ComputeExtents(md.Positions)
}
