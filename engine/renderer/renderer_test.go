package renderer

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/postprocess"
)

func quad() *metadata.Model3D {
	return &metadata.Model3D{
		Name: "quad",
		Positions: []math.Vec3{
			math.NewVec3(-1, -1, 0), math.NewVec3(1, -1, 0),
			math.NewVec3(1, 1, 0), math.NewVec3(-1, 1, 0),
		},
		Faces: []metadata.Face{
			{Indices: [3]int{0, 1, 2}},
			{Indices: [3]int{0, 2, 3}},
		},
	}
}

func frontViewer() *components.Viewer {
	v := components.NewViewer("test", metadata.ShadingRandom)
	v.Camera.SetPosition(math.NewVec3(0, 0, 3))
	return v
}

func TestDrawCoversCentre(t *testing.T) {
	r := New(metadata.Resolution{Width: 64, Height: 48}, DefaultSettings())
	state := r.ViewerState(frontViewer())

	r.BeginFrame()
	require.NoError(t, r.Draw(quad(), math.NewMat4Identity(), &state))

	centre, ok := r.Framebuffer().PixelAt(32, 24)
	require.True(t, ok)
	assert.NotEqual(t, uint32(0xFF000000), centre)
	corner, _ := r.Framebuffer().PixelAt(0, 0)
	assert.Equal(t, uint32(0xFF000000), corner)
}

func TestConfigureAppliesClearAndPost(t *testing.T) {
	s := DefaultSettings()
	s.ClearPixel = 0xFFFF0000
	s.Post = postprocess.Stage{Filter: metadata.PostFilterGrayscale}
	r := New(metadata.Resolution{Width: 4, Height: 4}, s)

	r.BeginFrame()
	p, _ := r.Framebuffer().PixelAt(1, 1)
	assert.Equal(t, uint32(0xFFFF0000), p)

	r.EndFrame(core.NewMetrics())
	p, _ = r.Framebuffer().PixelAt(1, 1)
	assert.Equal(t, uint32(0xFF4D4D4D), p)
}

func TestConfigureDepthTest(t *testing.T) {
	s := DefaultSettings()
	s.DepthTest = false
	r := New(metadata.Resolution{Width: 4, Height: 4}, s)
	assert.False(t, r.Framebuffer().TestState().DepthEnabled)

	s.DepthTest = true
	r.Configure(s)
	assert.True(t, r.Framebuffer().TestState().DepthEnabled)
}

func TestOnResizeFiresEvent(t *testing.T) {
	r := New(metadata.Resolution{Width: 320, Height: 240}, DefaultSettings())

	var got [2]uint32
	listener := &struct{ name string }{"resize-test"}
	require.True(t, core.EventRegister(core.EVENT_CODE_RESIZED, listener,
		func(_ core.SystemEventCode, sender, _ interface{}, data core.EventContext) bool {
			if sender == r {
				got = [2]uint32{data.Data.U32[0], data.Data.U32[1]}
			}
			return false
		}))
	defer core.EventUnregister(core.EVENT_CODE_RESIZED, listener)

	r.OnResize(metadata.Resolution{Width: 640, Height: 480})
	assert.Equal(t, [2]uint32{640, 480}, got)
	w, h := r.Framebuffer().Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestFilePresenter(t *testing.T) {
	r := New(metadata.Resolution{Width: 320, Height: 240}, DefaultSettings())
	r.BeginFrame()

	dir := t.TempDir()
	for _, ext := range []string{"png", "jpg", "bmp", "tiff"} {
		p := &FilePresenter{Pattern: filepath.Join(dir, "frame-%03d."+ext)}
		require.NoError(t, p.Present(7, r.Framebuffer()))

		f, err := os.Open(filepath.Join(dir, "frame-007."+ext))
		require.NoError(t, err, ext)
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, ext)
		assert.Equal(t, 320, cfg.Width, ext)
	}

	err := (&FilePresenter{Pattern: filepath.Join(dir, "frame.gif")}).Present(1, r.Framebuffer())
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}
