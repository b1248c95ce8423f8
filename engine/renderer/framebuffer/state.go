package framebuffer

import "golang.org/x/exp/constraints"

/** @brief A comparison used by the alpha, stencil and depth tests. */
type CompareFunc uint8

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

func compare[T constraints.Ordered](fn CompareFunc, value, ref T) bool {
	switch fn {
	case CompareLess:
		return value < ref
	case CompareEqual:
		return value == ref
	case CompareLessEqual:
		return value <= ref
	case CompareGreater:
		return value > ref
	case CompareNotEqual:
		return value != ref
	case CompareGreaterEqual:
		return value >= ref
	case CompareAlways:
		return true
	}
	return false
}

/** @brief A pixel rectangle. */
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

/**
 * @brief The configuration of the fragment test chain. Tests run in the
 * order scissor, alpha, stencil, depth and stop at the first failure.
 */
type TestState struct {
	ScissorEnabled bool
	Scissor        Rect

	/** @brief Passes when compare(AlphaFunc, fragment alpha, AlphaRef). */
	AlphaEnabled bool
	AlphaFunc    CompareFunc
	AlphaRef     float64

	/** @brief Passes when compare(StencilFunc, StencilRef&StencilMask, stored&StencilMask). */
	StencilEnabled bool
	StencilFunc    CompareFunc
	StencilRef     uint8
	StencilMask    uint8

	/** @brief Passes when compare(DepthFunc, fragment depth, stored depth). */
	DepthEnabled bool
	DepthFunc    CompareFunc

	/** @brief Blends translucent writes over the stored pixel. */
	BlendEnabled bool
}

// DefaultTestState enables depth testing with the less-than comparison and
// source-over blending.
func DefaultTestState() TestState {
	return TestState{
		AlphaFunc:    CompareAlways,
		StencilFunc:  CompareAlways,
		StencilMask:  0xFF,
		DepthEnabled: true,
		DepthFunc:    CompareLess,
		BlendEnabled: true,
	}
}
