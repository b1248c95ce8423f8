package systems

import (
	"sync"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/** @brief Describes a material to be built by the material system. */
type MaterialConfig struct {
	Name          string
	Ambient       float64
	Diffuse       float64
	Specular      float64
	Shininess     float64
	DiffuseColour math.Vec4
	// DiffuseMap is a texture name. Empty means untextured.
	DiffuseMap string
}

/** @brief Keeps the materials in use by name. */
type MaterialSystem struct {
	mu              sync.RWMutex
	materials       map[string]*metadata.Material
	textureSystem   *TextureSystem
	defaultMaterial *metadata.Material
}

func NewMaterialSystem(ts *TextureSystem) *MaterialSystem {
	def := metadata.NewDefaultMaterial()
	def.DiffuseMap = ts.DefaultTexture
	return &MaterialSystem{
		materials:       make(map[string]*metadata.Material),
		textureSystem:   ts,
		defaultMaterial: def,
	}
}

// Register builds a material from config, replacing any with the same name.
func (ms *MaterialSystem) Register(config MaterialConfig) *metadata.Material {
	mat := &metadata.Material{
		Name:          config.Name,
		Ambient:       math.NewVec3(config.Ambient, config.Ambient, config.Ambient),
		Diffuse:       math.NewVec3(config.Diffuse, config.Diffuse, config.Diffuse),
		Specular:      math.NewVec3(config.Specular, config.Specular, config.Specular),
		Shininess:     config.Shininess,
		DiffuseColour: config.DiffuseColour,
	}
	if config.DiffuseMap != "" {
		mat.DiffuseMap = ms.textureSystem.Acquire(config.DiffuseMap)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.materials[config.Name] = mat
	return mat
}

// Acquire returns the material called name, or the default material.
func (ms *MaterialSystem) Acquire(name string) *metadata.Material {
	if name == metadata.DefaultMaterialName {
		return ms.defaultMaterial
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if mat, ok := ms.materials[name]; ok {
		return mat
	}
	core.LogWarn("material '%s' is not registered, using the default", name)
	return ms.defaultMaterial
}

func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.defaultMaterial
}
