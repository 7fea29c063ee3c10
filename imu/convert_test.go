package imu

import (
	"testing"

	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/variant"
)

func TestConvertSample_DefaultCalibrationUnitRange(t *testing.T) {
	cal := calib.IMU{
		AccRange:  32768,
		GyroRange: 32768,
		AccScale:  geom.NewVec3(1, 1, 1),
		GyroScale: geom.NewVec3(1, 1, 1),
	}
	identity := variant.AxisRemap{Perm: [3]int{0, 1, 2}, Sign: [3]float64{1, 1, 1}}

	raw := RawSample{
		Sequence: 7,
		Ticks:    100,
		RawAcc:   [3]int16{100, -200, 300},
		RawGyro:  [3]int16{10, 20, -30},
	}

	got := ConvertSample(raw, cal, identity)
	want := geom.NewVec3(100, -200, 300)
	if got.Acc != want {
		t.Errorf("Acc = %+v, want %+v", got.Acc, want)
	}
	wantGyro := geom.NewVec3(10, 20, -30)
	if got.Gyro != wantGyro {
		t.Errorf("Gyro = %+v, want %+v", got.Gyro, wantGyro)
	}
	if got.Sequence != 7 || got.Ticks != 100 {
		t.Errorf("Sequence/Ticks not passed through: %+v", got)
	}
}

// Axis remap is the only thing distinguishing variant conversions
// applied to otherwise identical raw samples (spec.md §4.4 per-variant
// remap table).
func TestConvertSample_AxisRemapOnlyDifference(t *testing.T) {
	cal := calib.DefaultIMU()
	raw := RawSample{RawAcc: [3]int16{1000, 2000, 3000}, RawGyro: [3]int16{400, 500, 600}}

	vive := ConvertSample(raw, cal, variant.RemapVive)
	pro := ConvertSample(raw, cal, variant.RemapVivePro)

	if vive.Acc == pro.Acc {
		t.Fatalf("expected differing axis remap to produce differing Acc, got %+v for both", vive.Acc)
	}

	scaleAcc := cal.AccRange / 32768
	rawAcc := geom.NewVec3(1000, 2000, 3000)
	base := geom.NewVec3(scaleAcc*rawAcc.X, scaleAcc*rawAcc.Y, scaleAcc*rawAcc.Z)
	wantVive := variant.RemapVive.Apply(base)
	if vive.Acc != wantVive {
		t.Errorf("Vive Acc = %+v, want %+v", vive.Acc, wantVive)
	}
}
