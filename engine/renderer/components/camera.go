package components

import (
	m "math"

	"github.com/spaghettifunk/softraster/engine/math"
)

/**
 * @brief Represents a camera that can be used for
 * a variety of things, especially rendering.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * NOTE: Do not set this directly, use LookAt() or Pitch() instead
	 * so the view matrix is recalculated when needed.
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DefaultCameraName string = "default"

// 89 degrees
const pitchLimit = 1.55334306

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.IsDirty = false
	c.ViewMatrix = math.NewMat4Identity()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

// LookAt turns the camera towards target, keeping the roll at zero.
func (c *Camera) LookAt(target math.Vec3) {
	dir := target.Sub(c.Position).Normalized()
	if dir.LengthSquared() < math.K_FLOAT_EPSILON {
		return
	}
	c.EulerRotation = math.NewVec3(
		math.Clamp(m.Asin(dir.Y), -pitchLimit, pitchLimit),
		m.Atan2(-dir.X, -dir.Z),
		0,
	)
	c.IsDirty = true
}

func (c *Camera) rotation() math.Mat4 {
	return math.NewMat4EulerXYZ(c.EulerRotation.X, c.EulerRotation.Y, c.EulerRotation.Z)
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		translation := math.NewMat4Translation(c.Position)
		c.ViewMatrix = translation.Mul(c.rotation()).Inverse()
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) Forward() math.Vec3 {
	return c.rotation().MulDirection(math.NewVec3Forward()).Normalized()
}

func (c *Camera) Right() math.Vec3 {
	return c.rotation().MulDirection(math.NewVec3(1, 0, 0)).Normalized()
}

func (c *Camera) MoveForward(amount float64) {
	c.move(c.Forward(), amount)
}

func (c *Camera) MoveRight(amount float64) {
	c.move(c.Right(), amount)
}

// MoveUp moves along the world up axis. Negative amounts move down.
func (c *Camera) MoveUp(amount float64) {
	c.move(math.NewVec3Up(), amount)
}

func (c *Camera) move(direction math.Vec3, amount float64) {
	c.Position = c.Position.Add(direction.MulScalar(amount))
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float64) {
	c.EulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -pitchLimit, pitchLimit)

	c.IsDirty = true
}
