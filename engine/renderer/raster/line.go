package raster

import (
	m "math"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/framebuffer"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/**
 * @brief Receives one interpolated fragment of a line, positioned on its
 * pixel, together with its coverage in (0,1].
 */
type PlotFunc func(f *metadata.Fragment, intensity float64)

// DrawLine rasterises the segment a→b with the selected algorithm.
func DrawLine(algo metadata.LineAlgorithm, a, b metadata.Fragment, plot PlotFunc) {
	switch algo {
	case metadata.LineXiaolinWu:
		XiaolinWu(a, b, plot)
	default:
		Bresenham(a, b, plot)
	}
}

// Bresenham plots one fully covered fragment per step of the dominant axis.
func Bresenham(a, b metadata.Fragment, plot PlotFunc) {
	x0, y0 := a.Pixel()
	x1, y1 := b.Pixel()
	dx, dy := x1-x0, y1-y0

	emit := func(x, y int, t float64) {
		f := metadata.InterpolateFragment(&a, &b, t)
		f.X, f.Y = float64(x), float64(y)
		plot(&f, 1)
	}

	switch {
	case dx == 0 && dy == 0:
		emit(x0, y0, 0)
	case dx == 0:
		// vertical
		step := sign(dy)
		for y := y0; ; y += step {
			emit(x0, y, float64(y-y0)/float64(dy))
			if y == y1 {
				break
			}
		}
	case abs(dy) <= abs(dx):
		// shallow
		slope := float64(dy) / float64(dx)
		step := sign(dx)
		for x := x0; ; x += step {
			y := y0 + int(m.Round(slope*float64(x-x0)))
			emit(x, y, float64(x-x0)/float64(dx))
			if x == x1 {
				break
			}
		}
	default:
		// steep
		slope := float64(dx) / float64(dy)
		step := sign(dy)
		for y := y0; ; y += step {
			x := x0 + int(m.Round(slope*float64(y-y0)))
			emit(x, y, float64(y-y0)/float64(dy))
			if y == y1 {
				break
			}
		}
	}
}

// XiaolinWu plots an anti-aliased line: each step of the dominant axis
// covers the two pixels straddling the ideal line, weighted by distance.
func XiaolinWu(a, b metadata.Fragment, plot PlotFunc) {
	ax, ay, bx, by := a.X, a.Y, b.X, b.Y
	steep := m.Abs(by-ay) > m.Abs(bx-ax)
	if steep {
		ax, ay = ay, ax
		bx, by = by, bx
	}

	dx := bx - ax
	gradient := 0.0
	if m.Abs(dx) > math.K_FLOAT_EPSILON {
		gradient = (by - ay) / dx
	}

	emit := func(major, minor int, t, intensity float64) {
		if intensity <= 0 {
			return
		}
		f := metadata.InterpolateFragment(&a, &b, t)
		if steep {
			f.X, f.Y = float64(minor), float64(major)
		} else {
			f.X, f.Y = float64(major), float64(minor)
		}
		plot(&f, intensity)
	}

	start, end := row(ax), row(bx)
	step := 1
	if end < start {
		step = -1
	}
	for x := start; ; x += step {
		t := 0.0
		if m.Abs(dx) > math.K_FLOAT_EPSILON {
			t = math.Clamp((float64(x)-ax)/dx, 0, 1)
		}
		y := ay + gradient*(float64(x)-ax)
		if m.Abs(dx) <= math.K_FLOAT_EPSILON {
			y = ay
		}
		yf := m.Floor(y)
		frac := y - yf
		emit(x, int(yf), t, 1-frac)
		emit(x, int(yf)+1, t, frac)
		if x == end {
			break
		}
	}
}

// LinePlotter adapts a target and a fragment program into a PlotFunc.
// Partially covered fragments are written with their alpha scaled by the
// coverage.
func LinePlotter(target Target, shade framebuffer.ShadeFunc) PlotFunc {
	return func(f *metadata.Fragment, intensity float64) {
		r := f.Resolved()
		if intensity >= 1 {
			target.Plot(&r, shade)
			return
		}
		p := shade(&r)
		alpha := float64(p>>24) * math.Clamp(intensity, 0, 1)
		p = p&0x00FFFFFF | uint32(m.Round(alpha))<<24
		x, y := r.Pixel()
		target.PlotValue(x, y, r.Z, p)
	}
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
