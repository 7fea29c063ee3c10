package imu

import (
	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/variant"
)

// ConvertSample turns a RawSample into physical units and applies the
// per-variant axis remap (spec.md §4.4): scale first, then subtract
// bias, then reorient.
func ConvertSample(raw RawSample, cal calib.IMU, remap variant.AxisRemap) Sample {
	scaleAcc := cal.AccRange / 32768
	scaleGyro := cal.GyroRange / 32768

	rawAcc := geom.NewVec3(float64(raw.RawAcc[0]), float64(raw.RawAcc[1]), float64(raw.RawAcc[2]))
	rawGyro := geom.NewVec3(float64(raw.RawGyro[0]), float64(raw.RawGyro[1]), float64(raw.RawGyro[2]))

	acc := geom.NewVec3(
		scaleAcc*cal.AccScale.X*rawAcc.X-cal.AccBias.X,
		scaleAcc*cal.AccScale.Y*rawAcc.Y-cal.AccBias.Y,
		scaleAcc*cal.AccScale.Z*rawAcc.Z-cal.AccBias.Z,
	)
	gyro := geom.NewVec3(
		scaleGyro*cal.GyroScale.X*rawGyro.X-cal.GyroBias.X,
		scaleGyro*cal.GyroScale.Y*rawGyro.Y-cal.GyroBias.Y,
		scaleGyro*cal.GyroScale.Z*rawGyro.Z-cal.GyroBias.Z,
	)

	return Sample{
		Sequence: raw.Sequence,
		Ticks:    raw.Ticks,
		Acc:      remap.Apply(acc),
		Gyro:     remap.Apply(gyro),
	}
}
