package vive

import (
	"testing"

	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/imu"
	"vive-lighthouse-xr-go/variant"
	"vive-lighthouse-xr-go/viveerr"
	"vive-lighthouse-xr-go/watchman"
)

func newTestTracker(v variant.Controller) *trackerDevice {
	return &trackerDevice{watchmanDevice: watchmanDevice{
		baseDevice:        newBaseDevice(nil),
		controllerVariant: v,
		gen:               genForVariant(v),
		cal:               calib.DefaultIMU(),
		remap:             variant.ControllerAxisRemap(v),
		estimator:         imu.NewEstimator(),
	}}
}

func TestTrackerDevice_GetTrackedPose_RejectsUnknownInputName(t *testing.T) {
	tr := newTestTracker(variant.ControllerTrackerGen2)
	_, err := tr.GetTrackedPose("not-tracker", 0)
	if !viveerr.Is(err, viveerr.InvalidInputName) {
		t.Fatalf("err = %v, want InvalidInputName", err)
	}
}

func TestTrackerDevice_GetTrackedPose_AcceptsInputTracker(t *testing.T) {
	tr := newTestTracker(variant.ControllerTrackerGen2)
	sample := watchman.RawIMUSample{RawAcc: [3]int16{0, 16384, 0}, RawGyro: [3]int16{0, 0, 0}}
	tr.applyGen2(watchman.Gen2Payload{IMU: &sample}, 0)

	got, err := tr.GetTrackedPose(InputTracker, int64(tr.timeNS))
	if err != nil {
		t.Fatalf("GetTrackedPose: %v", err)
	}
	if !got.OrientationValid || !got.Tracked {
		t.Errorf("pose after IMU sample = %+v, want orientation-valid and tracked", got)
	}
}

// GetHandTracking always rejects on a tracker: it has no capacitive
// touch sensors (spec.md §4.8), unlike controllerDevice.
func TestTrackerDevice_GetHandTracking_AlwaysRejects(t *testing.T) {
	tr := newTestTracker(variant.ControllerTrackerGen1)
	_, err := tr.GetHandTracking(InputTracker, 0)
	if !viveerr.Is(err, viveerr.InvalidInputName) {
		t.Fatalf("err = %v, want InvalidInputName", err)
	}
}

func TestTrackerDevice_GetViewPose_IdentityForNonHMD(t *testing.T) {
	tr := newTestTracker(variant.ControllerTrackerGen2)
	if got := tr.GetViewPose(EyeLeft, 0); got != geom.IdentityPose {
		t.Errorf("GetViewPose on tracker = %+v, want identity", got)
	}
}

func TestTrackerDevice_Gen1VsGen2Mapping(t *testing.T) {
	if genForVariant(variant.ControllerTrackerGen1) != gen1 {
		t.Error("TrackerGen1 should map to the gen1 wire grammar")
	}
	if genForVariant(variant.ControllerTrackerGen2) != gen2 {
		t.Error("TrackerGen2 should map to the gen2 wire grammar")
	}
}
