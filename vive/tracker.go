package vive

import (
	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/hidio"
	"vive-lighthouse-xr-go/relation"
	"vive-lighthouse-xr-go/watchman"
)

// trackerDevice is the Vive Tracker kind (Gen1/Gen2; spec.md §4.8): the
// same wireless pipeline as controllerDevice, minus finger-curl hand
// tracking (a tracker has no capacitive touch sensors).
type trackerDevice struct {
	watchmanDevice
}

func newTrackerDevice(ctx *SharedContext, handle *hidio.Handle, cal calib.ControllerCalibration) *trackerDevice {
	t := &trackerDevice{watchmanDevice: newWatchmanDevice(ctx, handle, cal)}
	t.waitgroup.Add(1)
	go t.readLoop(handle)
	t.start()
	return t
}

func (t *trackerDevice) GetTrackedPose(inputName string, targetTimeNS int64) (relation.Relation, error) {
	if inputName != InputTracker {
		return relation.Relation{}, invalidInputName("vive.trackerDevice.GetTrackedPose", inputName)
	}
	return t.getTrackedPose(targetTimeNS), nil
}

// UpdateInputs is a no-op for the same reason as controllerDevice's.
func (t *trackerDevice) UpdateInputs() {}

func (t *trackerDevice) SetOutput(outputName string, vibration watchman.HapticCommand) error {
	if outputName != OutputHaptic {
		return invalidInputName("vive.trackerDevice.SetOutput", outputName)
	}
	return watchman.SendHaptic(t.handle, 0, vibration)
}

// GetHandTracking is tracker-inapplicable: a tracker has no finger
// sensors (spec.md §4.8: "controllers with curl data only").
func (t *trackerDevice) GetHandTracking(inputName string, targetTimeNS int64) (HandJointSet, error) {
	return HandJointSet{}, invalidInputName("vive.trackerDevice.GetHandTracking", inputName)
}

func (t *trackerDevice) GetViewPose(eye EyeRelation, viewIndex int) geom.Pose {
	return geom.IdentityPose
}

func (t *trackerDevice) ComputeDistortion(viewIndex int, u, v float64) (uvR, uvG, uvB [2]float64) {
	return
}

func (t *trackerDevice) Destroy() error {
	return t.destroy()
}

var _ Device = (*trackerDevice)(nil)
