package postprocess

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/fzipp/bmfont"
)

// hudMargin is the distance of the overlay from the top left corner, in pixels.
const hudMargin = 4

/** @brief Prints frame statistics onto the finished image with a bitmap font. */
type HUD struct {
	font *bmfont.BitmapFont
}

func NewHUD(font *bmfont.BitmapFont) *HUD {
	return &HUD{font: font}
}

// Text formats the overlay line.
func (h *HUD) Text(fps, frameMS float64, frame uint64) string {
	return fmt.Sprintf("%6.1f fps  %6.2f ms  #%d", fps, frameMS, frame)
}

func (h *HUD) Draw(dst draw.Image, fps, frameMS float64, frame uint64) {
	if h == nil || h.font == nil {
		return
	}
	h.font.DrawText(dst, image.Pt(hudMargin, hudMargin), h.Text(fps, frameMS, frame))
}
