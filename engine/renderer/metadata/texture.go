package metadata

import (
	"image"
	"image/color"
	m "math"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/softraster/engine/math"
)

/** @brief The default texture name. */
const DefaultTextureName string = "default"

/** @brief A single level of a texture's mip chain. Texels are row-major, top row first. */
type TextureLevel struct {
	Width  int
	Height int
	Texels []math.Vec4
}

func (l *TextureLevel) at(x, y int) math.Vec4 {
	x = wrap(x, l.Width)
	y = wrap(y, l.Height)
	return l.Texels[x+y*l.Width]
}

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief Indicates if any texel is not fully opaque. */
	HasTransparency bool
	/** @brief The mip chain. Level 0 is full resolution, each following level halves both sides down to 1x1. */
	Levels []TextureLevel
}

/**
 * @brief The screen-space rate of change of the texture coordinates,
 * in texture units per pixel.
 */
type Footprint struct {
	DuDx, DvDx float64
	DuDy, DvDy float64
}

// NewTexture converts img into texels and builds its mip chain.
func NewTexture(name string, img image.Image) *Texture {
	b := img.Bounds()
	base := image.NewNRGBA(image.Rect(0, 0, max(b.Dx(), 1), max(b.Dy(), 1)))
	draw.Draw(base, base.Bounds(), img, b.Min, draw.Src)

	t := &Texture{Name: name}
	var prev *image.NRGBA
	for cur := base; ; {
		t.Levels = append(t.Levels, levelFromImage(cur))
		if cur.Rect.Dx() == 1 && cur.Rect.Dy() == 1 {
			break
		}
		prev = cur
		cur = image.NewNRGBA(image.Rect(0, 0, max(prev.Rect.Dx()/2, 1), max(prev.Rect.Dy()/2, 1)))
		draw.BiLinear.Scale(cur, cur.Bounds(), prev, prev.Bounds(), draw.Src, nil)
	}

	for _, texel := range t.Levels[0].Texels {
		if texel.W < 1.0 {
			t.HasTransparency = true
			break
		}
	}
	return t
}

// NewCheckerTexture builds a size×size checkerboard with cells×cells squares.
func NewCheckerTexture(name string, size, cells int, a, b math.Vec4) *Texture {
	size = max(size, 1)
	cells = max(cells, 1)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	ca, cb := toNRGBA(a), toNRGBA(b)
	cell := max(size/cells, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, ca)
			} else {
				img.SetNRGBA(x, y, cb)
			}
		}
	}
	return NewTexture(name, img)
}

func (t *Texture) Width() int {
	if len(t.Levels) == 0 {
		return 0
	}
	return t.Levels[0].Width
}

func (t *Texture) Height() int {
	if len(t.Levels) == 0 {
		return 0
	}
	return t.Levels[0].Height
}

// Sample returns the filtered colour at uv. Coordinates repeat outside
// [0,1] and v grows upwards. fp is only used by the trilinear and
// anisotropic filters.
func (t *Texture) Sample(uv math.Vec2, filter TextureFilter, fp Footprint, maxAnisotropy int) math.Vec4 {
	if len(t.Levels) == 0 {
		return math.NewVec4One()
	}
	switch filter {
	case TextureFilterBilinear:
		return t.bilinear(0, uv)
	case TextureFilterTrilinear:
		lenX, lenY := t.axisLengths(fp)
		return t.trilinear(uv, log2(max(lenX, lenY)))
	case TextureFilterAnisotropic:
		return t.anisotropic(uv, fp, maxAnisotropy)
	default:
		return t.nearest(0, uv)
	}
}

func (t *Texture) nearest(level int, uv math.Vec2) math.Vec4 {
	l := &t.Levels[level]
	x := int(m.Floor(uv.X * float64(l.Width)))
	y := int(m.Floor((1.0 - uv.Y) * float64(l.Height)))
	return l.at(x, y)
}

func (t *Texture) bilinear(level int, uv math.Vec2) math.Vec4 {
	l := &t.Levels[level]
	fx := uv.X*float64(l.Width) - 0.5
	fy := (1.0-uv.Y)*float64(l.Height) - 0.5
	x0, y0 := m.Floor(fx), m.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)

	top := l.at(ix, iy).Lerp(l.at(ix+1, iy), tx)
	bottom := l.at(ix, iy+1).Lerp(l.at(ix+1, iy+1), tx)
	return top.Lerp(bottom, ty)
}

func (t *Texture) trilinear(uv math.Vec2, lod float64) math.Vec4 {
	last := len(t.Levels) - 1
	lod = math.Clamp(lod, 0, float64(last))
	l0 := int(m.Floor(lod))
	l1 := min(l0+1, last)
	frac := lod - float64(l0)
	if l0 == l1 || frac < math.K_FLOAT_EPSILON {
		return t.bilinear(l0, uv)
	}
	return t.bilinear(l0, uv).Lerp(t.bilinear(l1, uv), frac)
}

func (t *Texture) anisotropic(uv math.Vec2, fp Footprint, maxAnisotropy int) math.Vec4 {
	lenX, lenY := t.axisLengths(fp)
	major, minor := lenX, lenY
	axis := math.NewVec2(fp.DuDx, fp.DvDx)
	if lenY > lenX {
		major, minor = lenY, lenX
		axis = math.NewVec2(fp.DuDy, fp.DvDy)
	}
	maxAnisotropy = max(maxAnisotropy, 1)
	ratio := float64(maxAnisotropy)
	if minor > math.K_FLOAT_EPSILON {
		ratio = math.Clamp(major/minor, 1, float64(maxAnisotropy))
	} else if major <= math.K_FLOAT_EPSILON {
		ratio = 1
	}
	samples := int(m.Ceil(ratio))
	lod := log2(major / ratio)
	if samples <= 1 {
		return t.trilinear(uv, lod)
	}

	sum := math.Vec4{}
	for i := 0; i < samples; i++ {
		offset := (float64(i)+0.5)/float64(samples) - 0.5
		sum = sum.Add(t.trilinear(uv.Add(axis.MulScalar(offset)), lod))
	}
	return sum.MulScalar(1.0 / float64(samples))
}

// axisLengths returns the footprint lengths along screen x and y, in level 0 texels.
func (t *Texture) axisLengths(fp Footprint) (float64, float64) {
	w, h := float64(t.Width()), float64(t.Height())
	lenX := m.Hypot(fp.DuDx*w, fp.DvDx*h)
	lenY := m.Hypot(fp.DuDy*w, fp.DvDy*h)
	return lenX, lenY
}

// ComputeFootprint derives the affine texture-coordinate gradients of a
// screen-space triangle. Degenerate triangles yield a zero footprint.
func ComputeFootprint(p0, p1, p2 math.Vec2, t0, t1, t2 math.Vec2) Footprint {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	det := e1.X*e2.Y - e2.X*e1.Y
	if m.Abs(det) < math.K_FLOAT_EPSILON {
		return Footprint{}
	}
	d1 := t1.Sub(t0)
	d2 := t2.Sub(t0)
	inv := 1.0 / det
	return Footprint{
		DuDx: (d1.X*e2.Y - d2.X*e1.Y) * inv,
		DvDx: (d1.Y*e2.Y - d2.Y*e1.Y) * inv,
		DuDy: (d2.X*e1.X - d1.X*e2.X) * inv,
		DvDy: (d2.Y*e1.X - d1.Y*e2.X) * inv,
	}
}

func levelFromImage(img *image.NRGBA) TextureLevel {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	lvl := TextureLevel{Width: w, Height: h, Texels: make([]math.Vec4, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			lvl.Texels[x+y*w] = math.Vec4{
				X: float64(c.R) / 255.0,
				Y: float64(c.G) / 255.0,
				Z: float64(c.B) / 255.0,
				W: float64(c.A) / 255.0,
			}
		}
	}
	return lvl
}

func toNRGBA(c math.Vec4) color.NRGBA {
	return color.NRGBA{R: channel(c.X), G: channel(c.Y), B: channel(c.Z), A: channel(c.W)}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func log2(v float64) float64 {
	if v <= math.K_FLOAT_EPSILON {
		return 0
	}
	return m.Log2(v)
}
