package vive

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/hidio"
	"vive-lighthouse-xr-go/imu"
	"vive-lighthouse-xr-go/lighthouse"
	"vive-lighthouse-xr-go/mainboard"
	"vive-lighthouse-xr-go/relation"
	"vive-lighthouse-xr-go/variant"
	"vive-lighthouse-xr-go/watchman"
)

// InputHead is the only input name an hmdDevice recognizes for
// GetTrackedPose (spec.md §4.8 "scenario 1").
const InputHead = "head"

// hmdDevice is the head-mounted device kind (spec.md §4.8): one
// mainboard reader goroutine polling status, and one sensors reader
// goroutine multiplexing IMU and lighthouse pulse reports off the same
// HID endpoint (both live on the 0x28DE lighthouse FPGA interface,
// spec.md §6.1).
type hmdDevice struct {
	baseDevice

	variant variant.HMD
	cal     calib.HMDCalibration
	accum   *imu.Accumulator

	mainboardHandle *hidio.Handle

	statusMu sync.Mutex
	status   mainboard.Status
}

// OpenHMD performs the C8 "vive_device_create" flow for an HMD (spec.md
// §4.8, §9 Open Questions for the Pro/Pro 2/Index tiebreak): opens the
// mainboard and lighthouse-sensors HID endpoints, reads and parses the
// factory calibration blob, powers on the mainboard, and starts the
// reader goroutines before transitioning Created→Running.
func OpenHMD(ctx *SharedContext, mainboardProbe, sensorsProbe hidio.ProbeDevice, productString string) (Device, error) {
	const op = "vive.OpenHMD"

	mainboardHandle, err := hidio.Open(mainboardProbe)
	if err != nil {
		return nil, err
	}

	v := variant.HMDFromProductID(sensorsProbe.PID)
	if v == variant.HMDVivePro && productString != "" {
		v = variant.HMDFromProductString(productString)
	}

	sensorsHandle, err := hidio.OpenInterface(sensorsProbe, 0)
	if err != nil {
		mainboardHandle.Close()
		return nil, err
	}

	cal := calib.DefaultHMDCalibration(v)
	if jsonStr, err := calib.ReadConfigBlob(sensorsHandle); err != nil {
		slog.Warn(fmt.Sprintf("%s: config blob read failed, using defaults: %v", op, err))
	} else if parsed, err := calib.ParseHMDConfig(jsonStr, v); err != nil {
		sensorsHandle.Close()
		mainboardHandle.Close()
		return nil, err
	} else {
		cal = parsed
	}

	if err := mainboard.PowerOn(mainboardHandle); err != nil {
		slog.Warn(fmt.Sprintf("%s: power on failed: %v", op, err))
	}

	// Vive/Vive Pro/Pro 2 JSON schemas (spec.md §4.3) carry no
	// acc/gyro range at all, so the range-mode feature report is the
	// only source for them (spec.md §4.4 "IMU range auto-detection").
	// Index supplies bias/scale from its own JSON block and is left on
	// the defaults here.
	if v != variant.HMDIndex {
		if ranges, err := imu.ReadRangeIndices(sensorsHandle); err != nil {
			slog.Warn(fmt.Sprintf("%s: IMU range report read failed, using defaults: %v", op, err))
		} else {
			cal.IMU.GyroRange = imu.GyroRangeFromIndex(ranges.GyroIndex)
			cal.IMU.AccRange = imu.AccRangeFromIndex(ranges.AccIndex)
		}
	}

	h := &hmdDevice{
		baseDevice:      newBaseDevice(ctx),
		variant:         v,
		cal:             cal,
		accum:           imu.NewAccumulator(cal.IMU, variant.HMDAxisRemap(v)),
		mainboardHandle: mainboardHandle,
	}
	h.addHandle(mainboardHandle)
	h.addHandle(sensorsHandle)

	h.waitgroup.Add(2)
	go h.mainboardReadLoop(mainboardHandle)
	go h.sensorsReadLoop(sensorsHandle)

	h.start()
	return h, nil
}

func (h *hmdDevice) mainboardReadLoop(handle *hidio.Handle) {
	defer h.waitgroup.Done()

	buf := make([]byte, constant.MainboardStatusReportSize)
	for !h.shouldExit() {
		n, err := handle.Read(buf, constant.HIDReadTimeoutMS*time.Millisecond)
		if err != nil {
			slog.Debug(fmt.Sprintf("vive.hmd: mainboard read: %v", err))
			continue
		}
		if n == 0 {
			continue
		}
		status, err := mainboard.DecodeStatus(buf[:n])
		if err != nil {
			slog.Debug(fmt.Sprintf("vive.hmd: mainboard decode: %v", err))
			continue
		}
		h.statusMu.Lock()
		h.status = status
		h.statusMu.Unlock()
	}
}

func (h *hmdDevice) sensorsReadLoop(handle *hidio.Handle) {
	defer h.waitgroup.Done()

	buf := make([]byte, constant.LighthousePulseV1Size)
	for !h.shouldExit() {
		n, err := handle.Read(buf, constant.HIDReadTimeoutMS*time.Millisecond)
		if err != nil {
			slog.Debug(fmt.Sprintf("vive.hmd: sensors read: %v", err))
			continue
		}
		if n == 0 {
			continue
		}
		h.dispatchSensorsReport(buf[:n])
	}
}

func (h *hmdDevice) dispatchSensorsReport(buf []byte) {
	switch buf[0] {
	case constant.ReportIDIMU:
		readings, err := h.accum.ProcessReport(buf)
		if err != nil {
			slog.Debug(fmt.Sprintf("vive.hmd: imu decode: %v", err))
			return
		}
		for _, r := range readings {
			h.history.Push(int64(r.TimeNS), relation.Relation{
				Pose:             geom.Pose{Orientation: r.Orientation},
				OrientationValid: true,
				Tracked:          true,
			})
		}
	case constant.ReportIDLighthousePulseV1HMD:
		if err := lighthouse.DecodeV1(buf, h); err != nil {
			slog.Debug(fmt.Sprintf("vive.hmd: lighthouse v1 decode: %v", err))
		}
	case constant.ReportIDLighthousePulseV2HMD:
		if err := lighthouse.DecodeV2(buf, h); err != nil {
			slog.Debug(fmt.Sprintf("vive.hmd: lighthouse v2 decode: %v", err))
		}
	default:
		slog.Debug(fmt.Sprintf("vive.hmd: unknown sensors report id %#x", buf[0]))
	}
}

// HandlePulseV1 implements lighthouse.Sink. Lighthouse geometric
// solving is out of scope (spec.md §1 Non-goals); pulses are logged so
// the wiring point exists for a future external solver.
func (h *hmdDevice) HandlePulseV1(p lighthouse.PulseV1) {
	slog.Debug(fmt.Sprintf("vive.hmd: lighthouse v1 pulse sensor=%d duration=%d ts=%d", p.SensorID, p.Duration, p.Timestamp))
}

// HandlePulseV2 implements lighthouse.V2Sink.
func (h *hmdDevice) HandlePulseV2(p lighthouse.PulseV2) {
	slog.Debug(fmt.Sprintf("vive.hmd: lighthouse v2 pulse sensor=%d parity=%v ts=%d", p.SensorID, p.ChannelParity, p.Timestamp))
}

func (h *hmdDevice) GetTrackedPose(inputName string, targetTimeNS int64) (relation.Relation, error) {
	if inputName != InputHead {
		return relation.Relation{}, invalidInputName("vive.hmdDevice.GetTrackedPose", inputName)
	}
	return h.getTrackedPose(targetTimeNS), nil
}

// UpdateInputs is a no-op for hmdDevice: mainboardReadLoop already
// publishes the latest Status under statusMu on every read, so there
// is nothing further to snapshot (spec.md §4.8).
func (h *hmdDevice) UpdateInputs() {}

// Statuser is implemented by hmdDevice; cmd/vivectl type-switches on
// it to print mainboard status for an HMD and nothing for a
// controller/tracker.
type Statuser interface {
	Status() mainboard.Status
}

// Status returns the most recently decoded mainboard status
// (spec.md §3's "(added)" rationale for surfacing IPD/proximity/button).
func (h *hmdDevice) Status() mainboard.Status {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()
	return h.status
}

// Firmware returns the identity block parsed from the config blob
// (spec.md §3), for diagnostics.
func (h *hmdDevice) Firmware() calib.Firmware { return h.cal.Firmware }

// Variant returns the resolved HMD model.
func (h *hmdDevice) Variant() variant.HMD { return h.variant }

// SetOutput is not meaningful for an HMD (spec.md §4.8: "controllers/
// trackers only"); it is a no-op rather than an error since it does
// not mutate any state a caller could observe as corrupted.
func (h *hmdDevice) SetOutput(outputName string, vibration watchman.HapticCommand) error {
	return nil
}

// GetHandTracking is HMD-inapplicable (spec.md §4.8: "controllers with
// curl data only").
func (h *hmdDevice) GetHandTracking(inputName string, targetTimeNS int64) (HandJointSet, error) {
	return HandJointSet{}, invalidInputName("vive.hmdDevice.GetHandTracking", inputName)
}

// GetViewPose composes the current tracked head pose with the per-eye
// eye-to-head rotation from calibration (spec.md §4.8). The eye
// argument is not used: the returned pose is always the tracked head
// pose followed by the eye rotation selected by viewIndex.
func (h *hmdDevice) GetViewPose(eye EyeRelation, viewIndex int) geom.Pose {
	if viewIndex < 0 || viewIndex > 1 {
		return geom.IdentityPose
	}
	head := h.getTrackedPose(nowNS()).Pose
	return head.Compose(geom.Pose{Orientation: h.cal.Display.Eyes[viewIndex].EyeToHeadRotation})
}

// ComputeDistortion applies the per-eye polynomial distortion model
// (spec.md §4.8, §8's testable property).
func (h *hmdDevice) ComputeDistortion(viewIndex int, u, v float64) (uvR, uvG, uvB [2]float64) {
	if viewIndex < 0 || viewIndex > 1 {
		return
	}
	eye := h.cal.Display.Eyes[viewIndex]
	uvR = computeChannelDistortion(u, v, eye.UndistortR2Cutoff, eye.Red)
	uvG = computeChannelDistortion(u, v, eye.UndistortR2Cutoff, eye.Green)
	uvB = computeChannelDistortion(u, v, eye.UndistortR2Cutoff, eye.Blue)
	return
}

// Destroy powers off the mainboard before joining reader goroutines
// and freeing HID handles (spec.md §4.8: "joins threads, powers off
// mainboard, frees everything").
func (h *hmdDevice) Destroy() error {
	if err := mainboard.PowerOff(h.mainboardHandle); err != nil {
		slog.Warn(fmt.Sprintf("vive.hmdDevice.Destroy: power off failed: %v", err))
	}
	return h.destroy()
}

var _ lighthouse.Sink = (*hmdDevice)(nil)
var _ lighthouse.V2Sink = (*hmdDevice)(nil)
var _ Device = (*hmdDevice)(nil)
