package imu

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"vive-lighthouse-xr-go/geom"
)

// tau is the gravity-correction time constant (spec.md §4.4: "a ~20ms
// window"); a single dt/(dt+tau) blend weight dominates the correction
// once elapsed time exceeds a few tau.
const tau = 0.020 // seconds

var worldUp = geom.NewVec3(0, 1, 0)

// Estimator is the opaque 3-DoF orientation estimator spec.md §4.4
// requires: gyro integration between samples, with gravity-assisted
// drift correction toward the accelerometer-implied "up" direction.
type Estimator struct {
	orientation geom.Quaternion
	started     bool
}

// NewEstimator returns an estimator starting at the identity
// orientation.
func NewEstimator() *Estimator {
	return &Estimator{orientation: geom.IdentityQuat}
}

// Orientation returns the current world-from-device estimate.
func (e *Estimator) Orientation() geom.Quaternion {
	return e.orientation
}

// Reset reinitializes the estimator to identity, for use when a
// device reconnects and the previous orientation is stale.
func (e *Estimator) Reset() {
	e.orientation = geom.IdentityQuat
	e.started = false
}

// Update integrates one (dt, acc, gyro) reading and returns the
// updated world-from-device orientation.
func (e *Estimator) Update(dtNS uint64, acc, gyro geom.Vec3) geom.Quaternion {
	if !e.started {
		e.started = true
		return e.orientation
	}

	dt := float64(dtNS) / 1e9
	if dt <= 0 {
		return e.orientation
	}

	angle := r3.Norm(gyro) * dt
	deltaQ := geom.QuatFromAxisAngle(gyro, angle)
	gyroOrientation := geom.NormalizeQuat(quat.Mul(e.orientation, deltaQ))

	accNorm := r3.Norm(acc)
	if accNorm < 1e-9 {
		e.orientation = gyroOrientation
		return e.orientation
	}
	measuredUp := r3.Scale(1/accNorm, acc)
	predictedUp := geom.RotateVec(geom.InverseQuat(gyroOrientation), worldUp)

	axisErr := r3.Cross(predictedUp, measuredUp)
	sinAngle := r3.Norm(axisErr)
	if sinAngle < 1e-9 {
		e.orientation = gyroOrientation
		return e.orientation
	}
	if sinAngle > 1 {
		sinAngle = 1
	}
	angleErr := math.Asin(sinAngle)
	weight := dt / (dt + tau)

	correction := geom.QuatFromAxisAngle(axisErr, angleErr*weight)
	e.orientation = geom.NormalizeQuat(quat.Mul(correction, gyroOrientation))
	return e.orientation
}
