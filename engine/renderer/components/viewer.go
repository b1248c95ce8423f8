package components

import (
	"image"
	m "math"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/**
 * @brief The region of the framebuffer a viewer draws into. Every field is
 * normalized to [0,1]; Near and Far select the depth range.
 */
type Viewport struct {
	X, Y          float64
	Width, Height float64
	Near, Far     float64
}

// FullViewport covers the whole framebuffer and the whole depth range.
func FullViewport() Viewport {
	return Viewport{Width: 1, Height: 1, Near: 0, Far: 1}
}

// Map converts normalized device coordinates into framebuffer pixel space.
// Pixel centres sit on integer coordinates and y grows downwards.
func (vp Viewport) Map(ndc math.Vec3, width, height int) math.Vec3 {
	return math.Vec3{
		X: (vp.X+(ndc.X+1)*0.5*vp.Width)*float64(width) - 0.5,
		Y: (vp.Y+(1-ndc.Y)*0.5*vp.Height)*float64(height) - 0.5,
		Z: vp.Near + (ndc.Z+1)*0.5*(vp.Far-vp.Near),
	}
}

// Rect returns the pixels of a width x height framebuffer covered by the viewport.
func (vp Viewport) Rect(width, height int) image.Rectangle {
	w, h := float64(width), float64(height)
	return image.Rect(
		int(m.Round(vp.X*w)), int(m.Round(vp.Y*h)),
		int(m.Round((vp.X+vp.Width)*w)), int(m.Round((vp.Y+vp.Height)*h)),
	).Intersect(image.Rect(0, 0, width, height))
}

/** @brief The projection used by a viewer. */
type Projection struct {
	Orthographic bool
	/** @brief Vertical field of view in radians. Perspective only. */
	FOV float64
	/** @brief Half the visible height. Orthographic only. */
	OrthoSize float64
	Near      float64
	Far       float64
}

func (p Projection) Matrix(aspect float64) math.Mat4 {
	if p.Orthographic {
		h := p.OrthoSize
		w := h * aspect
		return math.NewMat4Orthographic(-w, w, -h, h, p.Near, p.Far)
	}
	return math.NewMat4Perspective(p.FOV, aspect, p.Near, p.Far)
}

/**
 * @brief A point of view onto the scene: camera, projection, target
 * viewport, the shading strategy to draw with and a directional light.
 */
type Viewer struct {
	Name       string
	Camera     *Camera
	Projection Projection
	Viewport   Viewport
	Shading    metadata.ShadingKind
	/** @brief World-space direction the light travels in. */
	LightDirection math.Vec3
	LightColour    math.Vec3
}

func NewViewer(name string, shading metadata.ShadingKind) *Viewer {
	return &Viewer{
		Name:   name,
		Camera: NewCamera(),
		Projection: Projection{
			FOV:  math.DegToRad(60),
			Near: 0.1,
			Far:  100,
		},
		Viewport:       FullViewport(),
		Shading:        shading,
		LightDirection: math.NewVec3(-0.4, -1, -0.6).Normalized(),
		LightColour:    math.NewVec3One(),
	}
}

/**
 * @brief An immutable snapshot of a viewer for one frame. Render tasks
 * share it without synchronization.
 */
type ViewerState struct {
	View           math.Mat4
	Projection     math.Mat4
	Viewport       Viewport
	Shading        metadata.ShadingKind
	CameraPosition math.Vec3
	LightDirection math.Vec3
	LightColour    math.Vec3
}

// State captures the viewer for a framebuffer of the given size.
func (v *Viewer) State(width, height int) ViewerState {
	aspect := 1.0
	pw := float64(width) * v.Viewport.Width
	ph := float64(height) * v.Viewport.Height
	if ph > 0 && pw > 0 {
		aspect = pw / ph
	}
	return ViewerState{
		View:           v.Camera.GetView(),
		Projection:     v.Projection.Matrix(aspect),
		Viewport:       v.Viewport,
		Shading:        v.Shading,
		CameraPosition: v.Camera.GetPosition(),
		LightDirection: v.LightDirection.Normalized(),
		LightColour:    v.LightColour,
	}
}
