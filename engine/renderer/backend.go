package renderer

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
)

/** @brief Consumes finished frames. */
type Presenter interface {
	Present(frame uint64, fb *framebuffer.Framebuffer) error
}

/**
 * @brief Writes frames to disk. Pattern may hold one %d verb for the frame
 * number; the extension selects the encoder.
 */
type FilePresenter struct {
	Pattern string
}

func (p *FilePresenter) Present(frame uint64, fb *framebuffer.Framebuffer) error {
	path := p.Pattern
	if strings.Contains(path, "%") {
		path = fmt.Sprintf(path, frame)
	}
	return WriteImage(path, fb.Snapshot())
}

// WriteImage encodes img into path as png, jpeg, bmp or tiff.
func WriteImage(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	var encode func(f *os.File) error
	switch ext {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error { return jpeg.Encode(f, img, &jpeg.Options{Quality: 95}) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, img, nil) }
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
