package metadata

import "github.com/spaghettifunk/softraster/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as texture, colour and shininess.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief Ambient reflection coefficients per channel. */
	Ambient math.Vec3
	/** @brief Diffuse reflection coefficients per channel. */
	Diffuse math.Vec3
	/** @brief Specular reflection coefficients per channel. */
	Specular math.Vec3
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float64
	/** @brief The diffuse colour, used when no texture is sampled. */
	DiffuseColour math.Vec4
	/** @brief The diffuse texture map. Optional. */
	DiffuseMap *Texture
}

// NewDefaultMaterial returns a light grey, mildly glossy material.
func NewDefaultMaterial() *Material {
	return &Material{
		Name:          DefaultMaterialName,
		Ambient:       math.NewVec3(0.1, 0.1, 0.1),
		Diffuse:       math.NewVec3(0.8, 0.8, 0.8),
		Specular:      math.NewVec3(0.5, 0.5, 0.5),
		Shininess:     32,
		DiffuseColour: math.NewVec4(0.8, 0.8, 0.8, 1.0),
	}
}
