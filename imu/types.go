package imu

import "vive-lighthouse-xr-go/geom"

// RawSample is one undecoded slot from an HMD IMU report (spec.md §4.4).
type RawSample struct {
	Slot     int
	Sequence uint8
	Ticks    uint32
	RawAcc   [3]int16
	RawGyro  [3]int16
}

// Sample is a RawSample converted to physical units and reoriented by
// the variant's axis remap (see ConvertSample).
type Sample struct {
	Sequence uint8
	Ticks    uint32
	Acc      geom.Vec3 // m/s^2
	Gyro     geom.Vec3 // rad/s
}

// Reading is a fully processed sample: axis-remapped, with elapsed time
// since the previous reading resolved into nanoseconds, and the fused
// orientation after incorporating it.
type Reading struct {
	Sequence    uint8
	DeltaNS     uint64
	TimeNS      uint64
	Acc         geom.Vec3
	Gyro        geom.Vec3
	Orientation geom.Quaternion
}
