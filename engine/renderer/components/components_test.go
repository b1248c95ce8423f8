package components

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

const tol = 1e-9

func TestCameraView(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 0, 5))
	p := c.GetView().MulVec4(math.NewVec4(0, 0, 0, 1))
	assert.True(t, p.Compare(math.NewVec4(0, 0, -5, 1), tol), "got %v", p)
	assert.True(t, c.Forward().Compare(math.NewVec3(0, 0, -1), tol))
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(5, 0, 0))
	c.LookAt(math.NewVec3Zero())
	assert.True(t, c.Forward().Compare(math.NewVec3(-1, 0, 0), 1e-6), "got %v", c.Forward())

	p := c.GetView().MulVec4(math.NewVec4(0, 0, 0, 1))
	assert.InDelta(t, -5.0, p.Z, 1e-6)
	assert.InDelta(t, 0.0, p.X, 1e-6)
}

func TestCameraMoves(t *testing.T) {
	c := NewCamera()
	c.MoveForward(2)
	assert.True(t, c.GetPosition().Compare(math.NewVec3(0, 0, -2), tol), "got %v", c.GetPosition())
	c.MoveRight(1)
	c.MoveUp(3)
	assert.True(t, c.GetPosition().Compare(math.NewVec3(1, 3, -2), tol), "got %v", c.GetPosition())
	c.MoveUp(-3)
	assert.InDelta(t, 0.0, c.GetPosition().Y, tol)

	p := c.GetView().MulVec4(math.NewVec4(1, 0, -2, 1))
	assert.True(t, p.Compare(math.NewVec4(0, 0, 0, 1), tol), "got %v", p)
}

func TestViewportRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 20, 10), FullViewport().Rect(20, 10))
	left := Viewport{Width: 0.5, Height: 1}
	assert.Equal(t, image.Rect(0, 0, 10, 10), left.Rect(20, 10))
	spill := Viewport{X: 0.75, Y: 0.5, Width: 0.5, Height: 1}
	assert.Equal(t, image.Rect(15, 5, 20, 10), spill.Rect(20, 10))
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := NewCamera()
	c.Pitch(10)
	assert.InDelta(t, pitchLimit, c.EulerRotation.X, tol)
}

func TestViewportMap(t *testing.T) {
	vp := FullViewport()
	topLeft := vp.Map(math.NewVec3(-1, 1, -1), 4, 2)
	assert.True(t, topLeft.Compare(math.NewVec3(-0.5, -0.5, 0), tol), "got %v", topLeft)

	bottomRight := vp.Map(math.NewVec3(1, -1, 1), 4, 2)
	assert.True(t, bottomRight.Compare(math.NewVec3(3.5, 1.5, 1), tol), "got %v", bottomRight)

	half := Viewport{X: 0.5, Y: 0, Width: 0.5, Height: 1, Near: 0.25, Far: 0.75}
	centre := half.Map(math.NewVec3(0, 0, 0), 8, 8)
	assert.True(t, centre.Compare(math.NewVec3(5.5, 3.5, 0.5), tol), "got %v", centre)
}

func TestViewerState(t *testing.T) {
	v := NewViewer("main", metadata.ShadingNormals)
	v.Camera.SetPosition(math.NewVec3(0, 1, 3))
	st := v.State(800, 400)

	assert.Equal(t, metadata.ShadingNormals, st.Shading)
	assert.Equal(t, math.NewVec3(0, 1, 3), st.CameraPosition)
	assert.InDelta(t, 1.0, st.LightDirection.Length(), tol)
	// aspect 2: x scale is half the y scale
	assert.InDelta(t, st.Projection.Data[5]/2, st.Projection.Data[0], tol)
}
