package framebuffer

import (
	"image"
	"image/color"
	m "math"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

const (
	/** @brief Opaque black. */
	DefaultClearPixel uint32 = 0xFF000000
	/** @brief The depth every slot is reset to. */
	ClearDepth float64 = m.MaxFloat64
	/** @brief The stencil every slot is reset to. */
	ClearStencil uint8 = 0

	stripeCount = 64
)

/** @brief Computes the packed ARGB pixel for a fragment that passed every test. */
type ShadeFunc func(f *metadata.Fragment) uint32

type buffers struct {
	width   int
	height  int
	pixels  []uint32
	depth   []float64
	stencil []uint8
	accum   []uint32
}

func newBuffers(width, height int, clearPixel uint32) *buffers {
	n := width * height
	b := &buffers{
		width:   width,
		height:  height,
		pixels:  make([]uint32, n),
		depth:   make([]float64, n),
		stencil: make([]uint8, n),
		accum:   make([]uint32, n),
	}
	for y := 0; y < height; y++ {
		b.clearRow(y, clearPixel)
	}
	return b
}

func (b *buffers) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return x + y*b.width, true
}

func (b *buffers) clearRow(y int, clearPixel uint32) {
	start, end := y*b.width, (y+1)*b.width
	for i := start; i < end; i++ {
		b.pixels[i] = clearPixel
		b.depth[i] = ClearDepth
		b.stencil[i] = ClearStencil
		b.accum[i] = clearPixel
	}
}

/**
 * @brief A CPU colour, depth, stencil and accumulation target. The four
 * buffers always share the same dimensions and are replaced together on
 * resize. Pixel writes are safe from concurrent render tasks: the test chain
 * and the write for a pixel run under the lock of the pixel's row stripe.
 */
type Framebuffer struct {
	bufs       atomic.Pointer[buffers]
	resizing   atomic.Bool
	resizeMu   sync.Mutex
	stripes    [stripeCount]sync.Mutex
	state      atomic.Pointer[TestState]
	clearPixel atomic.Uint32
}

func New(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.clearPixel.Store(DefaultClearPixel)
	st := DefaultTestState()
	fb.state.Store(&st)
	fb.bufs.Store(newBuffers(max(width, 0), max(height, 0), DefaultClearPixel))
	return fb
}

func (fb *Framebuffer) Width() int  { return fb.bufs.Load().width }
func (fb *Framebuffer) Height() int { return fb.bufs.Load().height }

func (fb *Framebuffer) Size() (int, int) {
	b := fb.bufs.Load()
	return b.width, b.height
}

func (fb *Framebuffer) TestState() TestState { return *fb.state.Load() }

func (fb *Framebuffer) SetTestState(st TestState) { fb.state.Store(&st) }

// SetClearPixel changes the pixel clear value. It takes effect on the next
// Clear or Resize.
func (fb *Framebuffer) SetClearPixel(p uint32) { fb.clearPixel.Store(p) }

func (fb *Framebuffer) ClearPixel() uint32 { return fb.clearPixel.Load() }

// Resize reallocates every buffer and fills them with their clear values.
// Writes issued while the buffers are being replaced are dropped.
func (fb *Framebuffer) Resize(width, height int) {
	fb.resizeMu.Lock()
	defer fb.resizeMu.Unlock()

	fb.resizing.Store(true)
	fb.bufs.Store(newBuffers(max(width, 0), max(height, 0), fb.clearPixel.Load()))
	fb.resizing.Store(false)
}

// Clear resets every slot of every buffer to its clear value.
func (fb *Framebuffer) Clear() {
	b := fb.bufs.Load()
	clearPixel := fb.clearPixel.Load()
	for y := 0; y < b.height; y++ {
		mu := fb.stripe(y)
		mu.Lock()
		b.clearRow(y, clearPixel)
		mu.Unlock()
	}
}

// Plot runs the fragment test chain for f and, when every test passes,
// writes shade(f) together with the fragment's depth and stencil.
func (fb *Framebuffer) Plot(f *metadata.Fragment, shade ShadeFunc) {
	x, y := f.Pixel()
	fb.write(x, y, f.Z, f.Stencil, f.Colour.W, func() uint32 { return shade(f) })
}

// PlotValue is Plot with a precomputed pixel value. The alpha test and
// blending use the value's alpha byte.
func (fb *Framebuffer) PlotValue(x, y int, z float64, pixel uint32) {
	fb.write(x, y, z, ClearStencil, float64(pixel>>24)/255.0, func() uint32 { return pixel })
}

func (fb *Framebuffer) write(x, y int, z float64, stencil uint8, alpha float64, pixel func() uint32) {
	if fb.resizing.Load() {
		return
	}
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return
	}
	st := fb.state.Load()
	if st.ScissorEnabled && !st.Scissor.contains(x, y) {
		return
	}
	if st.AlphaEnabled && !compare(st.AlphaFunc, alpha, st.AlphaRef) {
		return
	}

	mu := fb.stripe(y)
	mu.Lock()
	defer mu.Unlock()

	if st.StencilEnabled && !compare(st.StencilFunc, st.StencilRef&st.StencilMask, b.stencil[i]&st.StencilMask) {
		return
	}
	if st.DepthEnabled && !compare(st.DepthFunc, z, b.depth[i]) {
		return
	}

	p := pixel()
	if st.BlendEnabled {
		p = blend(p, b.pixels[i])
	}
	b.pixels[i] = p
	b.depth[i] = z
	b.stencil[i] = stencil
	b.accum[i] = fb.clearPixel.Load()
}

// Discard resets the four slots of one pixel to their clear values.
func (fb *Framebuffer) Discard(x, y int) {
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return
	}
	mu := fb.stripe(y)
	mu.Lock()
	defer mu.Unlock()
	clearPixel := fb.clearPixel.Load()
	b.pixels[i] = clearPixel
	b.depth[i] = ClearDepth
	b.stencil[i] = ClearStencil
	b.accum[i] = clearPixel
}

// Accumulate adds a contribution to the accumulation slot of a pixel.
func (fb *Framebuffer) Accumulate(x, y int, pixel uint32) {
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return
	}
	mu := fb.stripe(y)
	mu.Lock()
	b.accum[i] = addSaturated(b.accum[i], pixel)
	mu.Unlock()
}

func (fb *Framebuffer) PixelAt(x, y int) (uint32, bool) {
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return 0, false
	}
	mu := fb.stripe(y)
	mu.Lock()
	defer mu.Unlock()
	return b.pixels[i], true
}

func (fb *Framebuffer) DepthAt(x, y int) (float64, bool) {
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return 0, false
	}
	mu := fb.stripe(y)
	mu.Lock()
	defer mu.Unlock()
	return b.depth[i], true
}

func (fb *Framebuffer) StencilAt(x, y int) (uint8, bool) {
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return 0, false
	}
	mu := fb.stripe(y)
	mu.Lock()
	defer mu.Unlock()
	return b.stencil[i], true
}

func (fb *Framebuffer) AccumulationAt(x, y int) (uint32, bool) {
	b := fb.bufs.Load()
	i, ok := b.offset(x, y)
	if !ok {
		return 0, false
	}
	mu := fb.stripe(y)
	mu.Lock()
	defer mu.Unlock()
	return b.accum[i], true
}

// Pixels returns a copy of the colour buffer, row-major, one ARGB value per pixel.
func (fb *Framebuffer) Pixels() []uint32 {
	b := fb.bufs.Load()
	out := make([]uint32, len(b.pixels))
	for y := 0; y < b.height; y++ {
		mu := fb.stripe(y)
		mu.Lock()
		copy(out[y*b.width:(y+1)*b.width], b.pixels[y*b.width:(y+1)*b.width])
		mu.Unlock()
	}
	return out
}

// Snapshot converts the colour buffer into an image.
func (fb *Framebuffer) Snapshot() *image.NRGBA {
	b := fb.bufs.Load()
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		mu := fb.stripe(y)
		mu.Lock()
		for x := 0; x < b.width; x++ {
			p := b.pixels[x+y*b.width]
			o := img.PixOffset(x, y)
			img.Pix[o+0] = uint8(p >> 16)
			img.Pix[o+1] = uint8(p >> 8)
			img.Pix[o+2] = uint8(p)
			img.Pix[o+3] = uint8(p >> 24)
		}
		mu.Unlock()
	}
	return img
}

// Load copies img into the colour buffer, bypassing the test chain. Pixels
// outside the framebuffer are ignored.
func (fb *Framebuffer) Load(img image.Image) {
	b := fb.bufs.Load()
	bounds := img.Bounds()
	for y := 0; y < b.height && y < bounds.Dy(); y++ {
		mu := fb.stripe(y)
		mu.Lock()
		for x := 0; x < b.width && x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.pixels[x+y*b.width] = uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
		}
		mu.Unlock()
	}
}

func (fb *Framebuffer) stripe(y int) *sync.Mutex {
	return &fb.stripes[y%stripeCount]
}

// blend composites src over dst. Fully opaque sources replace dst.
func blend(src, dst uint32) uint32 {
	a := src >> 24
	if a == 0xFF {
		return src
	}
	mix := func(shift uint32) uint32 {
		s := (src >> shift) & 0xFF
		d := (dst >> shift) & 0xFF
		return (s*a + d*(0xFF-a) + 0x7F) / 0xFF
	}
	da := (dst >> 24) & 0xFF
	outA := a + (da*(0xFF-a)+0x7F)/0xFF
	return outA<<24 | mix(16)<<16 | mix(8)<<8 | mix(0)
}

func addSaturated(a, b uint32) uint32 {
	var out uint32
	for shift := uint32(0); shift < 32; shift += 8 {
		s := ((a >> shift) & 0xFF) + ((b >> shift) & 0xFF)
		if s > 0xFF {
			s = 0xFF
		}
		out |= s << shift
	}
	return out
}
