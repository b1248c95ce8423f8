package loaders

import (
	"fmt"
	"os"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// BitmapFontLoader reads AngelCode text descriptors (.fnt). Page sheets are
// resolved relative to the descriptor.
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(name, path string) (*metadata.Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to import bitmap font '%s': %w", name, err)
	}
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeBitmapFont,
		DataSize: uint64(info.Size()),
		Data:     font,
	}, nil
}
