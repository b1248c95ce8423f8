package metadata

import "github.com/spaghettifunk/softraster/engine/math"

// PackColour converts an RGBA colour in [0,1] to a 0xAARRGGBB pixel.
func PackColour(c math.Vec4) uint32 {
	return uint32(channel(c.W))<<24 | uint32(channel(c.X))<<16 | uint32(channel(c.Y))<<8 | uint32(channel(c.Z))
}

// UnpackColour converts a 0xAARRGGBB pixel to RGBA in [0,1].
func UnpackColour(p uint32) math.Vec4 {
	return math.Vec4{
		X: float64((p>>16)&0xFF) / 255.0,
		Y: float64((p>>8)&0xFF) / 255.0,
		Z: float64(p&0xFF) / 255.0,
		W: float64((p>>24)&0xFF) / 255.0,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255.0 + 0.5)
}
