package raster

import (
	"image"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

type pixel struct{ X, Y int }

// recorder is a Target that counts writes per pixel.
type recorder struct {
	width, height int
	writes        map[pixel]int
	frags         map[pixel]metadata.Fragment
}

func newRecorder(w, h int) *recorder {
	return &recorder{width: w, height: h, writes: map[pixel]int{}, frags: map[pixel]metadata.Fragment{}}
}

func (r *recorder) Plot(f *metadata.Fragment, shade framebuffer.ShadeFunc) {
	x, y := f.Pixel()
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	shade(f)
	r.writes[pixel{x, y}]++
	r.frags[pixel{x, y}] = *f
}

func (r *recorder) PlotValue(x, y int, z float64, _ uint32) {
	r.Plot(&metadata.Fragment{X: float64(x), Y: float64(y), Z: z}, func(*metadata.Fragment) uint32 { return 0 })
}

func (r *recorder) Size() (int, int) { return r.width, r.height }

func (r *recorder) pixels() []pixel {
	out := make([]pixel, 0, len(r.writes))
	for p := range r.writes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func white(*metadata.Fragment) uint32 { return 0xFFFFFFFF }

func frag(x, y float64) metadata.Fragment {
	return metadata.Fragment{X: x, Y: y, InvW: 1}
}

func TestFillTriangleCoverage(t *testing.T) {
	orders := [][3]metadata.Fragment{
		{frag(0, 0), frag(4, 0), frag(0, 4)},
		{frag(0, 4), frag(0, 0), frag(4, 0)},
		{frag(4, 0), frag(0, 4), frag(0, 0)},
	}
	for _, o := range orders {
		rec := newRecorder(16, 16)
		FillTriangle(rec, o[0], o[1], o[2], white, false)

		var want []pixel
		for y := 0; y <= 4; y++ {
			for x := 0; x <= 4-y; x++ {
				want = append(want, pixel{x, y})
			}
		}
		assert.Equal(t, want, rec.pixels())
		for p, n := range rec.writes {
			assert.Equal(t, 1, n, "pixel %v written %d times", p, n)
		}
	}
}

func TestFillTriangleSplitWritesEachPixelOnce(t *testing.T) {
	rec := newRecorder(32, 32)
	FillTriangle(rec, frag(2, 1), frag(12, 6), frag(5, 14), white, false)

	require.NotEmpty(t, rec.writes)
	for p, n := range rec.writes {
		assert.Equal(t, 1, n, "pixel %v written %d times", p, n)
	}
	rows := map[int]bool{}
	for p := range rec.writes {
		rows[p.Y] = true
	}
	for y := 1; y <= 14; y++ {
		assert.True(t, rows[y], "row %d has no pixels", y)
	}
}

func TestFillTriangleInterpolatesAttributes(t *testing.T) {
	a, b, c := frag(0, 0), frag(8, 0), frag(0, 8)
	a.Colour = math.NewVec4(1, 0, 0, 1)
	b.Colour = math.NewVec4(0, 1, 0, 1)
	c.Colour = math.NewVec4(0, 0, 1, 1)
	a.Z, b.Z, c.Z = 0.1, 0.5, 0.9
	a.Texcoord, b.Texcoord, c.Texcoord = math.NewVec2(0, 0), math.NewVec2(1, 0), math.NewVec2(0, 1)

	rec := newRecorder(16, 16)
	FillTriangle(rec, a, b, c, white, false)

	got := rec.frags[pixel{0, 0}]
	assert.True(t, got.Colour.Compare(a.Colour, 1e-9))
	got = rec.frags[pixel{8, 0}]
	assert.True(t, got.Colour.Compare(b.Colour, 1e-9))
	assert.InDelta(t, 0.5, got.Z, 1e-9)
	got = rec.frags[pixel{4, 0}]
	assert.True(t, got.Texcoord.Compare(math.NewVec2(0.5, 0), 1e-9))
	got = rec.frags[pixel{0, 4}]
	assert.InDelta(t, 0.5, got.Z, 1e-9)
}

func TestFillTrianglePerspectiveCorrect(t *testing.T) {
	// near edge at w=1, far corner at w=3
	a, b, c := frag(0, 0), frag(8, 0), frag(0, 8)
	a.InvW, b.InvW, c.InvW = 1, 1.0/3.0, 1
	a.Texcoord, b.Texcoord, c.Texcoord = math.NewVec2(0, 0), math.NewVec2(1, 0), math.NewVec2(0, 1)

	rec := newRecorder(16, 16)
	FillTriangle(rec, a, b, c, white, true)

	// halfway in screen space along a-b is a quarter of the way in texture space
	got := rec.frags[pixel{4, 0}]
	assert.InDelta(t, 0.25, got.Texcoord.X, 1e-9)
	assert.False(t, got.Perspective)
}

func TestFillTriangleDegenerate(t *testing.T) {
	point := newRecorder(16, 16)
	assert.NotPanics(t, func() { FillTriangle(point, frag(3, 3), frag(3, 3), frag(3, 3), white, true) })
	assert.Equal(t, map[pixel]int{{3, 3}: 1}, point.writes)

	flat := newRecorder(16, 16)
	assert.NotPanics(t, func() { FillTriangle(flat, frag(1, 5), frag(6, 5), frag(9, 5), white, false) })
	for x := 1; x <= 9; x++ {
		assert.Contains(t, flat.writes, pixel{x, 5})
	}

	// much larger than the target: every pixel exactly once
	huge := newRecorder(16, 16)
	assert.NotPanics(t, func() { FillTriangle(huge, frag(-50, -50), frag(100, -40), frag(20, 200), white, false) })
	for p, n := range huge.writes {
		assert.Equal(t, 1, n, "pixel %v", p)
	}
}

func TestBackfaceSymmetry(t *testing.T) {
	p0, p1, p2 := frag(0, 0), frag(4, 0), frag(0, 4)
	assert.NotEqual(t, IsBackFacing(&p0, &p1, &p2), IsBackFacing(&p0, &p2, &p1))
	assert.NotEqual(t, IsBackFacing(&p1, &p2, &p0), IsBackFacing(&p2, &p1, &p0))
	// clockwise on screen is counter-clockwise in device space
	assert.False(t, IsBackFacing(&p0, &p2, &p1))
	assert.True(t, IsBackFacing(&p0, &p1, &p2))
	assert.False(t, NeverOccluded(&p0, &p1, &p2))
}

func collect(algo metadata.LineAlgorithm, a, b metadata.Fragment) map[pixel]float64 {
	out := map[pixel]float64{}
	DrawLine(algo, a, b, func(f *metadata.Fragment, intensity float64) {
		x, y := f.Pixel()
		out[pixel{x, y}] += intensity
	})
	return out
}

func TestBresenhamHorizontal(t *testing.T) {
	got := collect(metadata.LineBresenham, frag(0, 0), frag(5, 0))
	want := map[pixel]float64{}
	for x := 0; x <= 5; x++ {
		want[pixel{x, 0}] = 1
	}
	assert.Equal(t, want, got)
}

func TestBresenhamClassifications(t *testing.T) {
	cases := []struct {
		name string
		a, b metadata.Fragment
		n    int
	}{
		{"point", frag(2, 2), frag(2, 2), 1},
		{"vertical", frag(1, 7), frag(1, 2), 6},
		{"shallow", frag(0, 0), frag(8, 3), 9},
		{"steep", frag(0, 0), frag(3, 8), 9},
		{"reversed", frag(8, 3), frag(0, 0), 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := collect(metadata.LineBresenham, tc.a, tc.b)
			assert.Len(t, got, tc.n)
			ax, ay := tc.a.Pixel()
			bx, by := tc.b.Pixel()
			assert.Contains(t, got, pixel{ax, ay})
			assert.Contains(t, got, pixel{bx, by})
		})
	}
}

func TestXiaolinWuEndpoints(t *testing.T) {
	cases := []struct{ a, b metadata.Fragment }{
		{frag(0, 0), frag(5, 0)},
		{frag(0, 0), frag(7, 3)},
		{frag(2, 9), frag(4, 1)},
		{frag(0.3, 0.7), frag(6.2, 2.4)},
	}
	for _, tc := range cases {
		got := collect(metadata.LineXiaolinWu, tc.a, tc.b)
		ax, ay := tc.a.Pixel()
		assert.Contains(t, got, pixel{ax, ay})

		bx, by := tc.b.Pixel()
		near := false
		for p := range got {
			if abs(p.X-bx) <= 1 && abs(p.Y-by) <= 1 {
				near = true
			}
		}
		assert.True(t, near, "no pixel near endpoint %v", tc.b)
		for p, w := range got {
			assert.True(t, w > 0 && w <= 1+1e-9, "pixel %v intensity %v", p, w)
		}
	}

	got := collect(metadata.LineXiaolinWu, frag(0, 0), frag(5, 0))
	assert.Len(t, got, 6)
}

func TestLinePlotterScalesAlpha(t *testing.T) {
	fb := framebuffer.New(4, 4)
	st := fb.TestState()
	st.BlendEnabled = false
	fb.SetTestState(st)

	plot := LinePlotter(fb, white)
	f := frag(1, 1)
	plot(&f, 0.5)
	p, _ := fb.PixelAt(1, 1)
	assert.Equal(t, uint32(0x80FFFFFF), p)

	f = frag(2, 2)
	plot(&f, 1)
	p, _ = fb.PixelAt(2, 2)
	assert.Equal(t, uint32(0xFFFFFFFF), p)
}

func vtx(x, y, z, w float64) metadata.Vertex {
	return metadata.Vertex{Position: math.NewVec4(x, y, z, w)}
}

func TestClipTriangle(t *testing.T) {
	inside := ClipTriangle(vtx(0, 0, 0, 1), vtx(0.5, 0, 0, 1), vtx(0, 0.5, 0, 1))
	assert.Len(t, inside, 1)

	outside := ClipTriangle(vtx(2, 0, 0, 1), vtx(3, 0, 0, 1), vtx(2, 1, 0, 1))
	assert.Empty(t, outside)

	// one corner behind the near plane: quad -> two triangles
	two := ClipTriangle(vtx(0, 0, -2, 1), vtx(0.5, 0, 0, 1), vtx(0, 0.5, 0, 1))
	require.Len(t, two, 2)
	for _, tri := range two {
		for _, v := range tri {
			assert.GreaterOrEqual(t, v.Position.Z+v.Position.W, -1e-9)
		}
	}

	// two corners behind: one smaller triangle
	one := ClipTriangle(vtx(0, 0, -2, 1), vtx(0.5, 0, -2, 1), vtx(0, 0.5, 0, 1))
	assert.Len(t, one, 1)
}

func TestClipTriangleSidePlanes(t *testing.T) {
	// spans x in [-3, 3]: both side planes cut it
	tris := ClipTriangle(vtx(-3, -0.5, 0, 1), vtx(3, -0.5, 0, 1), vtx(0, 0.5, 0, 1))
	require.NotEmpty(t, tris)
	for _, tri := range tris {
		for _, v := range tri {
			p := v.Position
			assert.LessOrEqual(t, p.X, p.W+1e-9)
			assert.GreaterOrEqual(t, p.X, -p.W-1e-9)
			assert.LessOrEqual(t, p.Y, p.W+1e-9)
			assert.GreaterOrEqual(t, p.Y, -p.W-1e-9)
		}
	}
	// the visible part is a pentagon: two cuts on each side plane plus the apex
	assert.Len(t, tris, 3)

	// one corner past the top right of the volume: both planes cut it
	corner := ClipTriangle(vtx(0, 0, 0, 1), vtx(0.5, 0, 0, 1), vtx(3, 3, 0, 1))
	require.NotEmpty(t, corner)
	for _, tri := range corner {
		for _, v := range tri {
			assert.LessOrEqual(t, v.Position.X, 1+1e-9)
			assert.LessOrEqual(t, v.Position.Y, 1+1e-9)
		}
	}

	// a corner of the volume inside the triangle: the clip keeps it
	cover := ClipTriangle(vtx(-5, -5, 0, 1), vtx(5, -5, 0, 1), vtx(0, 10, 0, 1))
	var sawCorner bool
	for _, tri := range cover {
		for _, v := range tri {
			if math.NewVec2(v.Position.X, v.Position.Y).Compare(math.NewVec2(-1, -1), 1e-9) {
				sawCorner = true
			}
		}
	}
	assert.True(t, sawCorner)
}

func TestClipLineSidePlanes(t *testing.T) {
	a, b, ok := ClipLine(vtx(-3, 0, 0, 1), vtx(3, 0, 0, 1))
	require.True(t, ok)
	assert.InDelta(t, -1.0, a.Position.X, 1e-9)
	assert.InDelta(t, 1.0, b.Position.X, 1e-9)

	// diagonal leaving through the top plane
	a, b, ok = ClipLine(vtx(0, 0, 0, 1), vtx(0.5, 2, 0, 1))
	require.True(t, ok)
	assert.Equal(t, 0.0, a.Position.X)
	assert.InDelta(t, 0.25, b.Position.X, 1e-9)
	assert.InDelta(t, 1.0, b.Position.Y, 1e-9)

	// outside different planes at each end but missing the volume
	_, _, ok = ClipLine(vtx(0, 3, 0, 1), vtx(3, 0, 0, 1))
	assert.False(t, ok)
}

func TestScissorTarget(t *testing.T) {
	rec := newRecorder(8, 8)
	assert.Same(t, Target(rec), Scissor(rec, image.Rect(0, 0, 8, 8)))

	left := Scissor(rec, image.Rect(0, 0, 4, 8))
	FillTriangle(left, frag(0, 0), frag(7, 0), frag(0, 7), white, false)
	left.PlotValue(6, 6, 0, 0xFFFFFFFF)
	require.NotEmpty(t, rec.writes)
	for p := range rec.writes {
		assert.Less(t, p.X, 4)
	}
}

func TestClipLineAndPoint(t *testing.T) {
	a, b, ok := ClipLine(vtx(0, 0, -3, 1), vtx(0, 0, 0, 1))
	require.True(t, ok)
	assert.InDelta(t, -1.0, a.Position.Z, 1e-9)
	assert.Equal(t, 0.0, b.Position.Z)

	_, _, ok = ClipLine(vtx(2, 0, 0, 1), vtx(3, 0, 0, 1))
	assert.False(t, ok)

	assert.True(t, ClipPoint(vtx(0.5, -0.5, 0, 1)))
	assert.False(t, ClipPoint(vtx(1.5, 0, 0, 1)))
	assert.False(t, ClipPoint(vtx(0, 0, 0, -1)))
}
