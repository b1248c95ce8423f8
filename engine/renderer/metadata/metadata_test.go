package metadata

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
)

const tol = 1e-9

func TestInterpolateFragmentIsExactAtEnds(t *testing.T) {
	a := Fragment{X: 1.3, Y: 2.7, Z: 0.1, InvW: 0.5, Colour: math.NewVec4(0.1, 0.2, 0.3, 1), Stencil: 1}
	b := Fragment{X: 9.1, Y: -4.2, Z: 0.9, InvW: 0.25, Colour: math.NewVec4(0.7, 0.6, 0.5, 0.5), Stencil: 7}

	assert.Equal(t, a, InterpolateFragment(&a, &b, 0))
	assert.Equal(t, b, InterpolateFragment(&a, &b, 1))

	mid := InterpolateFragment(&a, &b, 0.5)
	assert.InDelta(t, 0.5, mid.Z, tol)
	assert.Equal(t, uint8(7), mid.Stencil)
}

func TestPerspectiveRoundTrip(t *testing.T) {
	f := Fragment{InvW: 0.25, Normal: math.NewVec3(0, 1, 0), Texcoord: math.NewVec2(0.5, 0.75), Colour: math.NewVec4(1, 0.5, 0.25, 1)}
	f.ToPerspective()
	require.True(t, f.Perspective)
	assert.InDelta(t, 0.125, f.Texcoord.X, tol)

	r := f.Resolved()
	assert.False(t, r.Perspective)
	assert.True(t, r.Texcoord.Compare(math.NewVec2(0.5, 0.75), tol))
	assert.True(t, r.Colour.Compare(math.NewVec4(1, 0.5, 0.25, 1), tol))
}

func TestPerspectiveDivideKeepsW(t *testing.T) {
	v := Vertex{Position: math.NewVec4(2, 4, 6, 2)}
	v.PerspectiveDivide()
	assert.Equal(t, math.NewVec4(1, 2, 3, 2), v.Position)

	zero := Vertex{Position: math.NewVec4(2, 4, 6, 0)}
	zero.PerspectiveDivide()
	assert.Equal(t, math.NewVec4(2, 4, 6, 0), zero.Position)
}

func TestPackColour(t *testing.T) {
	assert.Equal(t, uint32(0xFF000000), PackColour(math.NewVec4(0, 0, 0, 1)))
	assert.Equal(t, uint32(0xFFFF8000), PackColour(math.NewVec4(1, 0.5, 0, 1)))
	assert.Equal(t, uint32(0x00FFFFFF), PackColour(math.NewVec4(2, 2, 2, -1)))

	c := UnpackColour(0x80FF0000)
	assert.InDelta(t, 1.0, c.X, tol)
	assert.InDelta(t, 128.0/255.0, c.W, tol)
}

func TestModelCornerBoundsChecked(t *testing.T) {
	md := &Model3D{
		Positions: []math.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		Faces: []Face{
			{Indices: [3]int{0, 1, 2}},
			{Indices: [3]int{0, 1, 9}},
		},
	}
	_, ok := md.Corner(0, 2)
	assert.True(t, ok)
	_, ok = md.Corner(1, 2)
	assert.False(t, ok)
	_, ok = md.Corner(5, 0)
	assert.False(t, ok)
	_, ok = md.Corner(0, 3)
	assert.False(t, ok)

	var nilModel *Model3D
	assert.True(t, nilModel.Empty())
	assert.True(t, (&Model3D{}).Empty())
	assert.False(t, md.Empty())
}

func TestGenerateNormals(t *testing.T) {
	md := &Model3D{
		Positions: []math.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		Faces:     []Face{{Indices: [3]int{0, 1, 2}}},
	}
	md.GenerateNormals()
	for _, n := range md.Faces[0].Normals {
		assert.True(t, n.Compare(math.NewVec3(0, 0, 1), tol))
	}
}

func TestParseEnums(t *testing.T) {
	k, err := ParseShadingKind("Wireframe")
	require.NoError(t, err)
	assert.Equal(t, ShadingWireframe, k)

	_, err = ParseShadingKind("toon")
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)

	f, err := ParsePostFilter("black-and-white")
	require.NoError(t, err)
	assert.Equal(t, PostFilterBlackAndWhite, f)

	_, err = ParseTextureFilter("cubic")
	assert.ErrorIs(t, err, core.ErrUnknownFilter)

	a, err := ParseLineAlgorithm("xiaolin_wu")
	require.NoError(t, err)
	assert.Equal(t, LineXiaolinWu, a)

	r, err := ParseResolution("800x600")
	require.NoError(t, err)
	assert.Equal(t, Resolution{800, 600}, r)

	_, err = ParseResolution("801x600")
	assert.ErrorIs(t, err, core.ErrUnknownResolution)
}

func TestTaskRunsOnceAndNotifies(t *testing.T) {
	var runs, notified atomic.Int32
	task := NewTask("render", PriorityRender, func() error {
		runs.Add(1)
		return nil
	})
	task.OnComplete(func(tk *Task, err error) {
		assert.NoError(t, err)
		assert.Same(t, task, tk)
		notified.Add(1)
	})

	require.NoError(t, task.MarkQueued())
	assert.ErrorIs(t, task.MarkQueued(), core.ErrTaskAlreadyQueued)
	assert.Equal(t, TaskQueued, task.State())

	require.NoError(t, task.Execute())
	require.NoError(t, task.Execute())
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, int32(1), notified.Load())
	assert.Equal(t, TaskCompleted, task.State())
	assert.ErrorIs(t, task.MarkQueued(), core.ErrTaskAlreadyQueued)

	// late listeners fire straight away
	task.OnComplete(func(*Task, error) { notified.Add(1) })
	assert.Equal(t, int32(2), notified.Load())
}

func TestTaskRecoversPanics(t *testing.T) {
	task := NewTask("boom", PriorityRender, func() error { panic("bad") })
	err := task.Execute()
	assert.ErrorIs(t, err, core.ErrTaskPanicked)
	assert.Equal(t, err, task.Err())
}

func TestTaskDiscard(t *testing.T) {
	failed := errors.New("never")
	task := NewTask("geo", PriorityGeometryUpdate, func() error { return failed })
	task.OnComplete(func(*Task, error) { t.Fatal("discarded tasks must not notify") })

	assert.False(t, task.Discard())
	require.NoError(t, task.MarkQueued())
	assert.True(t, task.Discard())
	assert.NoError(t, task.Execute())
	assert.Equal(t, TaskDiscarded, task.State())
}

func TestPriorityOrder(t *testing.T) {
	assert.True(t, PriorityAscending.Before(PriorityPostProcess, PriorityRender))
	assert.True(t, PriorityDescending.Before(PriorityRender, PriorityPostProcess))

	o, err := ParsePriorityOrder("Descending")
	require.NoError(t, err)
	assert.Equal(t, PriorityDescending, o)
}

func TestTextureSampling(t *testing.T) {
	a := math.NewVec4(1, 0, 0, 1)
	b := math.NewVec4(0, 0, 1, 1)
	tex := NewCheckerTexture("checker", 4, 2, a, b)

	require.Len(t, tex.Levels, 3)
	assert.Equal(t, 2, tex.Levels[1].Width)
	assert.Equal(t, 1, tex.Levels[2].Width)
	assert.False(t, tex.HasTransparency)

	none := Footprint{}
	assert.True(t, tex.Sample(math.NewVec2(0.1, 0.9), TextureFilterNone, none, 1).Compare(a, tol))
	assert.True(t, tex.Sample(math.NewVec2(0.6, 0.9), TextureFilterNone, none, 1).Compare(b, tol))
	// repeat wrapping
	assert.True(t, tex.Sample(math.NewVec2(1.1, 0.9), TextureFilterNone, none, 1).Compare(a, tol))
	// v grows upwards
	assert.True(t, tex.Sample(math.NewVec2(0.1, 0.1), TextureFilterNone, none, 1).Compare(b, tol))

	// bilinear at a texel centre returns the texel
	assert.True(t, tex.Sample(math.NewVec2(0.125, 0.875), TextureFilterBilinear, none, 1).Compare(a, tol))
	// a zero footprint selects level 0
	assert.True(t, tex.Sample(math.NewVec2(0.125, 0.875), TextureFilterTrilinear, none, 1).Compare(a, tol))
	assert.True(t, tex.Sample(math.NewVec2(0.125, 0.875), TextureFilterAnisotropic, none, 8).Compare(a, tol))
}

func TestComputeFootprint(t *testing.T) {
	fp := ComputeFootprint(
		math.NewVec2(0, 0), math.NewVec2(10, 0), math.NewVec2(0, 10),
		math.NewVec2(0, 0), math.NewVec2(1, 0), math.NewVec2(0, 1),
	)
	assert.InDelta(t, 0.1, fp.DuDx, tol)
	assert.InDelta(t, 0.0, fp.DvDx, tol)
	assert.InDelta(t, 0.0, fp.DuDy, tol)
	assert.InDelta(t, 0.1, fp.DvDy, tol)

	assert.Equal(t, Footprint{}, ComputeFootprint(
		math.NewVec2(0, 0), math.NewVec2(1, 1), math.NewVec2(2, 2),
		math.NewVec2(0, 0), math.NewVec2(1, 0), math.NewVec2(0, 1),
	))
}
