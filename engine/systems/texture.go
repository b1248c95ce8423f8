package systems

import (
	"github.com/spaghettifunk/softraster/engine/assets"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

const (
	defaultTextureSize  = 256
	defaultTextureCells = 8
)

/**
 * @brief Resolves texture names through the asset manager. Textures that
 * fail to load are replaced by a checkerboard so missing assets stay visible.
 */
type TextureSystem struct {
	DefaultTexture *metadata.Texture
	assetManager   *assets.AssetManager
}

func NewTextureSystem(am *assets.AssetManager) *TextureSystem {
	def := metadata.NewCheckerTexture(metadata.DefaultTextureName, defaultTextureSize, defaultTextureCells,
		math.NewVec4(1, 1, 1, 1), math.NewVec4(0.1, 0.1, 0.1, 1))
	def.ID = core.IdentifierAquireNewID(def)
	return &TextureSystem{
		DefaultTexture: def,
		assetManager:   am,
	}
}

// Acquire returns the texture called name, or the default texture when it
// cannot be loaded.
func (ts *TextureSystem) Acquire(name string) *metadata.Texture {
	if name == "" || name == metadata.DefaultTextureName {
		return ts.DefaultTexture
	}
	if ts.assetManager == nil {
		core.LogWarn("no asset manager, using the default texture for '%s'", name)
		return ts.DefaultTexture
	}
	tex, err := ts.assetManager.LoadTexture(name)
	if err != nil {
		core.LogWarn("failed to load texture '%s', using the default: %s", name, err)
		return ts.DefaultTexture
	}
	return tex
}

func (ts *TextureSystem) Shutdown() error {
	return core.IdentifierReleaseID(ts.DefaultTexture.ID)
}
