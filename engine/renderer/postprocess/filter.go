package postprocess

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// ThresholdLevel splits black from white in the black-and-white filter.
const ThresholdLevel uint8 = 128

// Filter runs the whole-image filter on img. PostFilterNone returns img as is.
func Filter(img image.Image, filter metadata.PostFilter) image.Image {
	switch filter {
	case metadata.PostFilterGrayscale:
		return effect.Grayscale(img)
	case metadata.PostFilterBlackAndWhite:
		return segment.Threshold(img, ThresholdLevel)
	default:
		return img
	}
}
