package metadata

import "path/filepath"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Files the asset manager ignores. */
	ResourceTypeNone ResourceType = iota
	/** @brief Decoded image turned into a mip-mapped Texture. */
	ResourceTypeTexture
	/** @brief AngelCode bitmap font used by the HUD overlay. */
	ResourceTypeBitmapFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeTexture:
		return "texture"
	case ResourceTypeBitmapFont:
		return "bitmap_font"
	default:
		return "none"
	}
}

// ResourceTypeFromPath classifies a file by its extension.
func ResourceTypeFromPath(path string) ResourceType {
	switch filepath.Ext(path) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return ResourceTypeTexture
	case ".fnt":
		return ResourceTypeBitmapFont
	default:
		return ResourceTypeNone
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource, relative to the asset root. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The size of the source file in bytes. */
	DataSize uint64
	/** @brief The resource data. *Texture or *bmfont.BitmapFont. */
	Data interface{}
}
