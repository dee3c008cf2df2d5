package math3d

import "github.com/go-gl/mathgl/mgl64"

// RotationYawPitchRoll returns the rotation matrix for the given Euler angles
// in radians: yaw about Y, pitch about X and roll about Z. Roll is applied
// first, then pitch, then yaw, i.e. RotateY(yaw) * RotateX(pitch) * RotateZ(roll).
//
// The rotation goes through a unit quaternion, the same way mesh rotations
// are stored by most scene formats.
func RotationYawPitchRoll(yaw, pitch, roll float64) Mat4 {
	q := mgl64.AnglesToQuat(yaw, pitch, roll, mgl64.YXZ)
	return Mat4(q.Normalize().Mat4())
}
