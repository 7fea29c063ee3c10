// Package geom implements the 3-DoF/6-DoF pose algebra shared by the IMU
// fusion filter (imu), relation history (relation), and tracking-override
// composer (trackingoverride): vectors, quaternions, poses, spherical
// interpolation and extrapolation.
//
// Vector algebra is gonum's spatial/r3; quaternion algebra is gonum's
// num/quat. Neither package ships slerp, axis-angle construction, or
// two-basis-vector orientation reconstruction, so those are built here on
// top of the two primitives.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a position, velocity, or direction in 3-space.
type Vec3 = r3.Vec

func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

var Zero3 = Vec3{}

// Quaternion is a unit orientation (world-from-local rotation) unless
// documented otherwise.
type Quaternion = quat.Number

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quaternion{Real: 1}

// QuatFromAxisAngle builds the quaternion rotating by angle radians
// around axis (which need not be normalized).
func QuatFromAxisAngle(axis Vec3, angle float64) Quaternion {
	n := r3.Norm(axis)
	if n == 0 {
		return IdentityQuat
	}
	u := r3.Scale(1/n, axis)
	s, c := math.Sincos(angle / 2)
	return Quaternion{Real: c, Imag: u.X * s, Jmag: u.Y * s, Kmag: u.Z * s}
}

// RotateVec rotates v by q: q * (0,v) * conj(q).
func RotateVec(q Quaternion, v Vec3) Vec3 {
	p := Quaternion{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// NormalizeQuat returns q scaled to unit norm; the identity if q is the
// zero quaternion.
func NormalizeQuat(q Quaternion) Quaternion {
	n := quat.Abs(q)
	if n == 0 {
		return IdentityQuat
	}
	return quat.Scale(1/n, q)
}

// InverseQuat is the unit-quaternion inverse (= conjugate for a unit
// quaternion; renormalized here for numerically drifted inputs).
func InverseQuat(q Quaternion) Quaternion {
	return NormalizeQuat(quat.Conj(q))
}

// Slerp spherically interpolates between unit quaternions a and b at
// t in [0,1], taking the shortest arc.
func Slerp(a, b Quaternion, t float64) Quaternion {
	a = NormalizeQuat(a)
	b = NormalizeQuat(b)

	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	if dot < 0 {
		b = quat.Scale(-1, b)
		dot = -dot
	}

	const epsilon = 1e-6
	if dot > 1-epsilon {
		// Nearly parallel: linear interpolation then renormalize.
		out := Quaternion{
			Real: a.Real + t*(b.Real-a.Real),
			Imag: a.Imag + t*(b.Imag-a.Imag),
			Jmag: a.Jmag + t*(b.Jmag-a.Jmag),
			Kmag: a.Kmag + t*(b.Kmag-a.Kmag),
		}
		return NormalizeQuat(out)
	}

	theta0 := math.Acos(dot)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	sinTheta := math.Sin(theta)

	s0 := math.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return Quaternion{
		Real: s0*a.Real + s1*b.Real,
		Imag: s0*a.Imag + s1*b.Imag,
		Jmag: s0*a.Jmag + s1*b.Jmag,
		Kmag: s0*a.Kmag + s1*b.Kmag,
	}
}

// LookRotation reconstructs the right-handed orientation whose rotated
// local +X and +Z axes equal the given world vectors plusX/plusZ, with
// +Y implied by right-handedness (plus_x / plus_z / position convention,
// spec.md §3). plusX and plusZ need not be exactly orthogonal; plusZ is
// re-orthogonalized against plusX via Gram-Schmidt before use.
func LookRotation(plusX, plusZ Vec3) Quaternion {
	x := r3.Unit(plusX)
	z := plusZ
	z = r3.Sub(z, r3.Scale(r3.Dot(z, x), x))
	z = r3.Unit(z)
	y := r3.Cross(z, x)
	return QuatFromColumns(x, y, z)
}

// QuatFromColumns builds the quaternion for the rotation matrix whose
// columns are the (orthonormal) basis vectors x, y, z, via Shepperd's
// method.
func QuatFromColumns(x, y, z Vec3) Quaternion {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	trace := m00 + m11 + m22
	var q Quaternion
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		q = Quaternion{
			Real: 0.25 / s,
			Imag: (m21 - m12) * s,
			Jmag: (m02 - m20) * s,
			Kmag: (m10 - m01) * s,
		}
	case m00 > m11 && m00 > m22:
		s := 2.0 * math.Sqrt(1.0+m00-m11-m22)
		q = Quaternion{
			Real: (m21 - m12) / s,
			Imag: 0.25 * s,
			Jmag: (m01 + m10) / s,
			Kmag: (m02 + m20) / s,
		}
	case m11 > m22:
		s := 2.0 * math.Sqrt(1.0+m11-m00-m22)
		q = Quaternion{
			Real: (m02 - m20) / s,
			Imag: (m01 + m10) / s,
			Jmag: 0.25 * s,
			Kmag: (m12 + m21) / s,
		}
	default:
		s := 2.0 * math.Sqrt(1.0+m22-m00-m11)
		q = Quaternion{
			Real: (m10 - m01) / s,
			Imag: (m02 + m20) / s,
			Jmag: (m12 + m21) / s,
			Kmag: 0.25 * s,
		}
	}
	return NormalizeQuat(q)
}

// Pose is a 6-DoF rigid transform: Orientation first, then Position.
type Pose struct {
	Orientation Quaternion
	Position    Vec3
}

// IdentityPose is the no-op transform.
var IdentityPose = Pose{Orientation: IdentityQuat}

// Compose returns the pose equivalent to applying other first, then p
// (p ∘ other, matching standard transform-composition order).
func (p Pose) Compose(other Pose) Pose {
	return Pose{
		Orientation: quat.Mul(p.Orientation, other.Orientation),
		Position:    r3.Add(p.Position, RotateVec(p.Orientation, other.Position)),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	invQ := InverseQuat(p.Orientation)
	return Pose{
		Orientation: invQ,
		Position:    RotateVec(invQ, r3.Scale(-1, p.Position)),
	}
}

// TransformPoint applies p to a point expressed in p's parent frame.
func (p Pose) TransformPoint(v Vec3) Vec3 {
	return r3.Add(p.Position, RotateVec(p.Orientation, v))
}
