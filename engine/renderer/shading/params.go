package shading

import (
	"hash/fnv"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/components"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/**
 * @brief Everything a strategy needs for one draw call. Built once per
 * draw and never shared between draws.
 */
type DrawParams struct {
	Model               math.Mat4
	View                math.Mat4
	Projection          math.Mat4
	ModelView           math.Mat4
	ViewProjection      math.Mat4
	ModelViewProjection math.Mat4
	/** @brief transpose(inverse(ModelView)), maps normals into view space. */
	Normal math.Mat4

	Viewport components.Viewport
	Width    int
	Height   int

	Material *metadata.Material
	/** @brief View-space unit vector pointing towards the light. */
	ToLight     math.Vec3
	LightColour math.Vec3

	Options Options
	/** @brief Per-model seed for the random colour strategy. */
	Seed uint64
}

func NewDrawParams(model *metadata.Model3D, world math.Mat4, viewer *components.ViewerState, width, height int, opts Options) *DrawParams {
	modelView := viewer.View.Mul(world)
	viewProjection := viewer.Projection.Mul(viewer.View)

	h := fnv.New64a()
	h.Write([]byte(model.Name))

	return &DrawParams{
		Model:               world,
		View:                viewer.View,
		Projection:          viewer.Projection,
		ModelView:           modelView,
		ViewProjection:      viewProjection,
		ModelViewProjection: viewProjection.Mul(world),
		Normal:              modelView.Inverse().Transposed(),
		Viewport:            viewer.Viewport,
		Width:               width,
		Height:              height,
		Material:            model.GetMaterial(),
		ToLight:             viewer.View.MulDirection(viewer.LightDirection.MulScalar(-1)).Normalized(),
		LightColour:         viewer.LightColour,
		Options:             opts,
		Seed:                h.Sum64(),
	}
}
