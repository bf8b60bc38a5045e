package turret

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the alignment threshold in radians. Below it the turret counts
// as aligned and no rotation is attempted
const Epsilon = 0.001

var (
	// ForwardAxis is the model-space direction the barrel points along
	ForwardAxis = mgl64.Vec3{0, 0, 1}
	// UpAxis is the world vertical. Turrets only ever yaw about it
	UpAxis = mgl64.Vec3{0, 1, 0}
)

// Forward returns the world-space barrel direction for a facing
func Forward(facing mgl64.Quat) mgl64.Vec3 {
	return facing.Rotate(ForwardAxis)
}

// Bearing returns the unit direction from origin to target projected on the
// horizontal plane. ok is false when the target sits straight above or below
// origin and has no horizontal bearing
func Bearing(origin, target mgl64.Vec3) (mgl64.Vec3, bool) {
	d := target.Sub(origin)
	d[1] = 0
	l := d.Len()
	if l < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return d.Mul(1 / l), true
}

// angleBetween is the unsigned angle between a and b in [0, π]
func angleBetween(a, b mgl64.Vec3) float64 {
	denom := math.Sqrt(a.LenSqr() * b.LenSqr())
	if denom == 0 {
		return 0
	}
	return math.Acos(mgl64.Clamp(a.Dot(b)/denom, -1, 1))
}

// Orient turns facing toward the horizontal bearing of target by at most
// turnSpeed*dt radians and returns the new facing together with the angle
// measured before the turn
func Orient(facing mgl64.Quat, origin, target mgl64.Vec3, turnSpeed, dt float64) (mgl64.Quat, float64) {
	bearing, ok := Bearing(origin, target)
	if !ok {
		return facing, 0
	}

	forward := Forward(facing)
	angle := angleBetween(forward, bearing)
	if angle <= Epsilon {
		return facing, angle
	}

	step := math.Min(turnSpeed*dt, angle)
	if step <= 0 {
		return facing, angle
	}

	// forward and bearing are both horizontal, so the cross product is
	// vertical. It only vanishes when they point in opposite directions
	axis := forward.Cross(bearing)
	if axis.Len() < Epsilon {
		axis = UpAxis
	} else {
		axis = axis.Normalize()
	}

	next := mgl64.QuatRotate(step, axis).Mul(facing).Normalize()
	return next, angle
}
