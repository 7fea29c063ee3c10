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
	"vive-lighthouse-xr-go/relation"
	"vive-lighthouse-xr-go/variant"
	"vive-lighthouse-xr-go/watchman"
)

// InputGrip and InputTracker are the only input names a controllerDevice
// / trackerDevice recognize for GetTrackedPose (spec.md §4.8).
const (
	InputGrip    = "grip"
	InputTracker = "tracker"

	// OutputHaptic is the only recognized SetOutput name (spec.md §4.8
	// names no output other than the haptic pulse train).
	OutputHaptic = "haptic"
)

// watchmanGen selects which of the two wire grammars (spec.md §4.7)
// a wireless endpoint speaks.
type watchmanGen int

const (
	gen1 watchmanGen = iota
	gen2
)

// genForVariant resolves the watchman protocol generation from the
// controller/tracker variant (spec.md §9 Open Questions: the
// distilled spec ties Gen1/Gen2 to the dongle's USB product ID, §6.1,
// but not explicitly to variant; the older families — Vive Wand and
// the first-generation Tracker — use the Gen 1 dongle/grammar, Index
// and the second-generation Tracker use Gen 2).
func genForVariant(v variant.Controller) watchmanGen {
	switch v {
	case variant.ControllerViveWand, variant.ControllerTrackerGen1:
		return gen1
	default:
		return gen2
	}
}

// watchmanDevice is the shared reader-goroutine/input-state plumbing
// for controllers and trackers (spec.md §4.7, §4.8): one 2.4 GHz
// dongle endpoint, demultiplexed into watchman_message frames, each
// decoded per its generation's grammar and folded into InputState plus
// a per-sample IMU fusion estimate.
type watchmanDevice struct {
	baseDevice

	controllerVariant variant.Controller
	gen               watchmanGen

	handle *hidio.Handle

	cal       calib.IMU
	firmware  calib.Firmware
	remap     variant.AxisRemap
	estimator *imu.Estimator
	hasLast   bool
	lastTicks uint32
	timeNS    uint64

	inputMu sync.Mutex
	input   watchman.InputState
}

func newWatchmanDevice(ctx *SharedContext, handle *hidio.Handle, cal calib.ControllerCalibration) watchmanDevice {
	w := watchmanDevice{
		baseDevice:        newBaseDevice(ctx),
		controllerVariant: cal.Variant,
		gen:               genForVariant(cal.Variant),
		handle:            handle,
		cal:               cal.IMU,
		firmware:          cal.Firmware,
		remap:             variant.ControllerAxisRemap(cal.Variant),
		estimator:         imu.NewEstimator(),
	}
	w.addHandle(handle)
	return w
}

func (w *watchmanDevice) readLoop(handle *hidio.Handle) {
	defer w.waitgroup.Done()

	buf := make([]byte, 64)
	for !w.shouldExit() {
		n, err := handle.Read(buf, constant.HIDReadTimeoutMS*time.Millisecond)
		if err != nil {
			slog.Debug(fmt.Sprintf("vive.watchman: read: %v", err))
			continue
		}
		if n < 2 {
			continue
		}
		for _, msg := range watchman.SplitFrames(buf[1:n]) {
			w.processMessage(msg)
		}
	}
}

func (w *watchmanDevice) processMessage(msg watchman.Message) {
	switch w.gen {
	case gen1:
		payload, ok := watchman.DecodeGen1Payload(msg.Payload)
		if !ok {
			slog.Debug("vive.watchman: gen1 payload undershoot, dropping rest of message")
		}
		w.applyGen1(payload, msg.TimestampHigh)
	case gen2:
		payload, ok := watchman.DecodeGen2Payload(msg.Payload)
		if !ok {
			slog.Debug("vive.watchman: gen2 payload undershoot, dropping rest of message")
		}
		w.applyGen2(payload, msg.TimestampHigh)
	}
}

func (w *watchmanDevice) applyGen1(p watchman.Gen1Payload, timestampHigh uint16) {
	ts := uint64(nowNS())

	w.inputMu.Lock()
	if p.Battery != nil {
		w.input.ApplyBattery(*p.Battery, ts)
	}
	if p.Buttons != nil {
		w.input.ApplyButtons(*p.Buttons, w.controllerVariant, ts)
	}
	if p.Trigger != nil {
		w.input.ApplyTrigger(*p.Trigger, ts)
	}
	if p.Trackpad != nil {
		w.input.ApplyTrackpad(*p.Trackpad, ts)
	}
	w.inputMu.Unlock()

	if p.IMU != nil {
		w.processIMUSample(*p.IMU, timestampHigh)
	}

	if len(p.LighthouseV1Raw) > 0 {
		if err := lighthouse.DecodeV1Records(p.LighthouseV1Raw, w); err != nil {
			slog.Debug(fmt.Sprintf("vive.watchman: lighthouse v1 decode: %v", err))
		}
	}
}

// HandlePulseV1 implements lighthouse.Sink, mirroring hmdDevice's: V1
// pulses forwarded off a controller's watchman payload (spec.md §4.7
// step 2, §4.6) are logged as the wiring point for a future lighthouse
// solver, since geometric solving is out of scope (spec.md §1).
func (w *watchmanDevice) HandlePulseV1(p lighthouse.PulseV1) {
	slog.Debug(fmt.Sprintf("vive.watchman: lighthouse v1 pulse sensor=%d duration=%d ts=%d", p.SensorID, p.Duration, p.Timestamp))
}

func (w *watchmanDevice) applyGen2(p watchman.Gen2Payload, timestampHigh uint16) {
	ts := uint64(nowNS())

	w.inputMu.Lock()
	if p.Battery != nil {
		w.input.ApplyBattery(*p.Battery, ts)
	}
	if p.TouchForce != nil {
		w.input.ApplyTouchForce(*p.TouchForce, ts)
	}
	if p.Trigger != nil {
		w.input.ApplyTrigger(*p.Trigger, ts)
	}
	if p.Trackpad != nil {
		w.input.ApplyTrackpad(*p.Trackpad, ts)
	}
	if p.Buttons != nil {
		w.input.ApplyButtons(*p.Buttons, w.controllerVariant, ts)
	}
	w.inputMu.Unlock()

	if p.IMU != nil {
		w.processIMUSample(*p.IMU, timestampHigh)
	}
	if p.ExtraIMU != nil {
		w.processIMUSample(*p.ExtraIMU, timestampHigh)
	}
}

// processIMUSample recovers dt from the 48 MHz tick counter (the
// message's 16-bit high half combined with the sample's own 16-bit low
// half, spec.md §4.7), converts to physical units and axis-remaps via
// the same imu.ConvertSample path the HMD pipeline uses, then folds
// the result into the fusion estimator and pushes it to history.
func (w *watchmanDevice) processIMUSample(raw watchman.RawIMUSample, timestampHigh uint16) {
	ticks := uint32(timestampHigh)<<16 | uint32(raw.TimestampLow)

	var dtNS uint64
	if w.hasLast {
		dtTicks := imu.TickDeltaTicks(w.lastTicks, ticks)
		dtNS = imu.TickDeltaNS(dtTicks)
		w.timeNS += dtNS
	}
	w.hasLast = true
	w.lastTicks = ticks

	sample := imu.ConvertSample(imu.RawSample{RawAcc: raw.RawAcc, RawGyro: raw.RawGyro}, w.cal, w.remap)
	orientation := w.estimator.Update(dtNS, sample.Acc, sample.Gyro)

	w.history.Push(int64(w.timeNS), relation.Relation{
		Pose:             geom.Pose{Orientation: orientation},
		OrientationValid: true,
		Tracked:          true,
	})
}

// controllerDevice is the hand-held controller kind (Vive Wand, Index
// Knuckles left/right; spec.md §4.8).
type controllerDevice struct {
	watchmanDevice
}

// OpenController performs the C8 create flow for a controller or
// tracker (spec.md §4.8): opens the wireless dongle endpoint, reads
// and parses its factory calibration, then dispatches to the
// controller or tracker device kind by the parsed variant.
func OpenController(ctx *SharedContext, dongleProbe hidio.ProbeDevice) (Device, error) {
	const op = "vive.OpenController"

	handle, err := hidio.Open(dongleProbe)
	if err != nil {
		return nil, err
	}

	cal := calib.DefaultControllerCalibration(variant.ControllerUnknown)
	if jsonStr, err := calib.ReadConfigBlob(handle); err != nil {
		slog.Warn(fmt.Sprintf("%s: config blob read failed, using defaults: %v", op, err))
	} else if parsed, err := calib.ParseControllerConfig(jsonStr); err != nil {
		handle.Close()
		return nil, err
	} else {
		cal = parsed
	}

	if cal.Variant == variant.ControllerTrackerGen1 || cal.Variant == variant.ControllerTrackerGen2 {
		return newTrackerDevice(ctx, handle, cal), nil
	}
	return newControllerDevice(ctx, handle, cal), nil
}

func newControllerDevice(ctx *SharedContext, handle *hidio.Handle, cal calib.ControllerCalibration) *controllerDevice {
	c := &controllerDevice{watchmanDevice: newWatchmanDevice(ctx, handle, cal)}
	c.waitgroup.Add(1)
	go c.readLoop(handle)
	c.start()
	return c
}

func (c *controllerDevice) GetTrackedPose(inputName string, targetTimeNS int64) (relation.Relation, error) {
	if inputName != InputGrip {
		return relation.Relation{}, invalidInputName("vive.controllerDevice.GetTrackedPose", inputName)
	}
	return c.getTrackedPose(targetTimeNS), nil
}

// UpdateInputs is a no-op: InputState is already published atomically
// under inputMu by processMessage on every decoded frame (spec.md §5).
func (c *controllerDevice) UpdateInputs() {}

// Inputser is implemented by watchmanDevice (and so, via embedding,
// both controllerDevice and trackerDevice); cmd/vivectl type-switches
// on it to print decoded button/trigger/battery state.
type Inputser interface {
	Inputs() watchman.InputState
}

// Inputs returns a snapshot of the current decoded input state.
func (w *watchmanDevice) Inputs() watchman.InputState {
	w.inputMu.Lock()
	defer w.inputMu.Unlock()
	return w.input
}

// Firmware returns the identity block parsed from the config blob, for
// diagnostics.
func (w *watchmanDevice) Firmware() calib.Firmware { return w.firmware }

// Variant returns the resolved controller/tracker model.
func (w *watchmanDevice) Variant() variant.Controller { return w.controllerVariant }

func (c *controllerDevice) SetOutput(outputName string, vibration watchman.HapticCommand) error {
	if outputName != OutputHaptic {
		return invalidInputName("vive.controllerDevice.SetOutput", outputName)
	}
	return watchman.SendHaptic(c.handle, 0, vibration)
}

func (c *controllerDevice) GetHandTracking(inputName string, targetTimeNS int64) (HandJointSet, error) {
	if inputName != InputGrip {
		return HandJointSet{}, invalidInputName("vive.controllerDevice.GetHandTracking", inputName)
	}
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	return HandJointSet{
		IndexCurl:  float64(c.input.FingerIndex) / 255,
		MiddleCurl: float64(c.input.FingerMiddle) / 255,
		RingCurl:   float64(c.input.FingerRing) / 255,
		LittleCurl: float64(c.input.FingerLittle) / 255,
		Squeeze:    c.input.SqueezeValue(),
	}, nil
}

// GetViewPose/ComputeDistortion are HMD-only (spec.md §4.8); a
// controller has no display.
func (c *controllerDevice) GetViewPose(eye EyeRelation, viewIndex int) geom.Pose {
	return geom.IdentityPose
}

func (c *controllerDevice) ComputeDistortion(viewIndex int, u, v float64) (uvR, uvG, uvB [2]float64) {
	return
}

func (c *controllerDevice) Destroy() error {
	return c.destroy()
}

var _ lighthouse.Sink = (*watchmanDevice)(nil)
var _ Device = (*controllerDevice)(nil)
