// Package calib implements the factory configuration blob reader (C2)
// and JSON parser (C3) from spec.md §4.2/§4.3.
package calib

import (
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/variant"
)

// IMU holds the calibration inputs to the integrator (spec.md §3).
type IMU struct {
	AccRange  float64 // m/s^2
	GyroRange float64 // rad/s

	AccBias  geom.Vec3
	AccScale geom.Vec3
	GyroBias geom.Vec3
	GyroScale geom.Vec3

	// PoseInTracking is the IMU-in-tracking-space pose.
	PoseInTracking geom.Pose
}

// DefaultIMU returns the fallback calibration used when config parsing
// failed or a field was absent (spec.md §4.4).
func DefaultIMU() IMU {
	return IMU{
		AccRange:  variant.DefaultAccRange,
		GyroRange: variant.DefaultGyroRange,
		AccScale:  geom.NewVec3(1, 1, 1),
		GyroScale: geom.NewVec3(1, 1, 1),
	}
}

// ColorDistortion is one color channel's polynomial distortion model
// (spec.md §3/§4.3).
type ColorDistortion struct {
	CenterX, CenterY float64
	Coeffs           [4]float64
}

// EyeDistortion is one eye's distortion block.
type EyeDistortion struct {
	AspectXOverY     float64
	GrowForUndistort float64
	UndistortR2Cutoff float64
	EyeToHeadRotation geom.Quaternion
	Red, Green, Blue  ColorDistortion
}

func DefaultEyeDistortion() EyeDistortion {
	return EyeDistortion{
		AspectXOverY:      variant.DefaultDistortionAspect,
		GrowForUndistort:  variant.DefaultDistortionGrow,
		UndistortR2Cutoff: variant.DefaultDistortionCutoff,
		EyeToHeadRotation: geom.IdentityQuat,
	}
}

// Display is the HMD's optical/panel block (spec.md §3).
type Display struct {
	LensSeparation float64
	Persistence    float64

	EyeTargetWidthPx, EyeTargetHeightPx int

	HeadInTracking geom.Pose
	IMUInHead      geom.Pose

	Eyes [2]EyeDistortion
}

// Firmware is the fixed-size identity block shared by every device
// (spec.md §3); strings are ≤32 bytes in the wire format but unbounded
// here since this is the parsed, not wire, representation.
type Firmware struct {
	FirmwareVersion string
	HardwareRevision, HardwareMajor, HardwareMinor, HardwareMicro string
	MainboardSerial string
	ModelNumber     string
	DeviceSerial    string
}

// LighthouseSensor is one photodiode sensor's position + normal, stored
// in IMU-reference space after the parse-time transform (spec.md §4.3).
type LighthouseSensor struct {
	Point  geom.Vec3
	Normal geom.Vec3
}

// HMDCalibration is the full calibration struct for a head-mounted unit
// (spec.md §3).
type HMDCalibration struct {
	Variant  variant.HMD
	IMU      IMU
	Display  Display
	Firmware Firmware
	Sensors  []LighthouseSensor
}

// DefaultHMDCalibration mirrors spec.md §4.4's fallback table.
func DefaultHMDCalibration(v variant.HMD) HMDCalibration {
	return HMDCalibration{
		Variant: v,
		IMU:     DefaultIMU(),
		Display: Display{
			EyeTargetWidthPx:  variant.DefaultScreenWidthPx,
			EyeTargetHeightPx: variant.DefaultScreenHeightPx,
			Eyes:              [2]EyeDistortion{DefaultEyeDistortion(), DefaultEyeDistortion()},
		},
	}
}

// ControllerCalibration is the calibration struct for a hand-held unit:
// same firmware/IMU shape, no display or distortion block (spec.md §3).
type ControllerCalibration struct {
	Variant  variant.Controller
	IMU      IMU
	Firmware Firmware
}

func DefaultControllerCalibration(v variant.Controller) ControllerCalibration {
	return ControllerCalibration{Variant: v, IMU: DefaultIMU()}
}
