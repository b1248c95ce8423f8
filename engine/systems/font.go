package systems

import (
	"fmt"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/softraster/engine/assets"
	"github.com/spaghettifunk/softraster/engine/core"
)

/** @brief Loads the bitmap fonts used by overlays. */
type FontSystem struct {
	assetManager *assets.AssetManager
}

func NewFontSystem(am *assets.AssetManager) *FontSystem {
	return &FontSystem{assetManager: am}
}

// Acquire loads the AngelCode font called name, relative to the asset root.
func (fs *FontSystem) Acquire(name string) (*bmfont.BitmapFont, error) {
	if fs.assetManager == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
	}
	font, err := fs.assetManager.LoadBitmapFont(name)
	if err != nil {
		return nil, fmt.Errorf("unable to acquire bitmap font '%s': %w", name, err)
	}
	return font, nil
}
