package raster

import (
	"cmp"
	m "math"
	"slices"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// FillTriangle scan converts a triangle given in viewport space. Every
// covered pixel centre receives a fragment whose position, depth, colour,
// normal and texture coordinate are interpolated from the corners. With
// perspective set, attributes are interpolated in 1/w space.
func FillTriangle(target Target, f0, f1, f2 metadata.Fragment, shade framebuffer.ShadeFunc, perspective bool) {
	fs := [3]metadata.Fragment{f0, f1, f2}
	for i := range fs {
		if perspective {
			fs[i].ToPerspective()
		} else {
			fs[i] = fs[i].Resolved()
		}
	}
	slices.SortFunc(fs[:], compareFragments)

	width, height := target.Size()
	s := spanner{target: target, shade: shade, width: width, height: height}

	top, mid, bottom := &fs[0], &fs[1], &fs[2]
	r0, r1, r2 := row(top.Y), row(mid.Y), row(bottom.Y)

	switch {
	case r0 == r2:
		// every corner lands on the same row
		left, right := top, top
		for i := range fs {
			if fs[i].X < left.X {
				left = &fs[i]
			}
			if fs[i].X > right.X {
				right = &fs[i]
			}
		}
		s.span(r0, left, right)
	case r0 == r1:
		s.fillHalf(bottom, top, mid, r0, r2)
	case r1 == r2:
		s.fillHalf(top, mid, bottom, r0, r2)
	default:
		t := (mid.Y - top.Y) / (bottom.Y - top.Y)
		split := metadata.InterpolateFragment(top, bottom, t)
		split.Y = mid.Y
		s.fillHalf(top, mid, &split, r0, r1)
		// the split row belongs to the upper half
		s.fillHalf(bottom, mid, &split, r1+1, r2)
	}
}

func compareFragments(a, b metadata.Fragment) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

func row(v float64) int { return int(m.Round(v)) }

type spanner struct {
	target Target
	shade  framebuffer.ShadeFunc
	width  int
	height int
}

// fillHalf fills a triangle with one horizontal edge (a, b) and the opposite
// corner apex, over rows [from, to].
func (s *spanner) fillHalf(apex, a, b *metadata.Fragment, from, to int) {
	if m.Abs(a.Y-apex.Y) < math.K_FLOAT_EPSILON && m.Abs(b.Y-apex.Y) < math.K_FLOAT_EPSILON {
		return
	}
	from = max(from, 0)
	to = min(to, s.height-1)
	for y := from; y <= to; y++ {
		fy := float64(y)
		left := metadata.InterpolateFragment(apex, a, edgeParam(apex.Y, a.Y, fy))
		right := metadata.InterpolateFragment(apex, b, edgeParam(apex.Y, b.Y, fy))
		if left.X > right.X {
			left, right = right, left
		}
		s.span(y, &left, &right)
	}
}

// span plots every pixel centre of row y between left and right.
func (s *spanner) span(y int, left, right *metadata.Fragment) {
	if y < 0 || y >= s.height {
		return
	}
	x0, x1 := row(left.X), row(right.X)
	w := right.X - left.X
	if w < math.K_FLOAT_EPSILON {
		s.plot(left, x0, y)
		return
	}
	for x := max(x0, 0); x <= min(x1, s.width-1); x++ {
		t := math.Clamp((float64(x)-left.X)/w, 0, 1)
		f := metadata.InterpolateFragment(left, right, t)
		s.plot(&f, x, y)
	}
}

func (s *spanner) plot(f *metadata.Fragment, x, y int) {
	r := f.Resolved()
	r.X, r.Y = float64(x), float64(y)
	s.target.Plot(&r, s.shade)
}

// edgeParam returns where row y crosses the edge from y0 to y1, in [0,1].
func edgeParam(y0, y1, y float64) float64 {
	h := y1 - y0
	if m.Abs(h) < math.K_FLOAT_EPSILON {
		return 1
	}
	return math.Clamp((y-y0)/h, 0, 1)
}
