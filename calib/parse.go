package calib

import (
	"encoding/json"

	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/variant"
	"vive-lighthouse-xr-go/viveerr"
)

// ParseHMDConfig parses the inflated factory JSON for a head-mounted
// unit of the given variant (spec.md §4.3).
func ParseHMDConfig(jsonStr string, v variant.HMD) (HMDCalibration, error) {
	const op = "calib.ParseHMDConfig"

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return HMDCalibration{}, viveerr.New(viveerr.ConfigJsonSyntax, op, err)
	}

	cal := DefaultHMDCalibration(v)
	cal.Firmware = parseFirmware(doc)

	switch v {
	case variant.HMDVive:
		if err := parseViveIMU(doc, &cal.IMU); err != nil {
			return cal, err
		}
		if ls, ok := getFloat(doc, "lens_separation"); ok {
			cal.Display.LensSeparation = ls
		}
	case variant.HMDVivePro, variant.HMDVivePro2:
		imuBlock, ok := getMap(doc, "imu")
		if !ok {
			return cal, viveerr.New(viveerr.ConfigMissingField, op, nil)
		}
		if err := parseViveIMU(imuBlock, &cal.IMU); err != nil {
			return cal, err
		}
	case variant.HMDIndex:
		if err := parseIndexIMUAndHead(doc, &cal); err != nil {
			return cal, err
		}
	}

	if deviceBlock, ok := getMap(doc, "device"); ok {
		parseDeviceBlock(deviceBlock, &cal, v)
	}

	if eyesArr, ok := getArray(doc, "tracking_to_eye_transform"); ok {
		parseEyeTransforms(eyesArr, &cal)
	}

	if v == variant.HMDIndex {
		if lhBlock, ok := getMap(doc, "lighthouse_config"); ok {
			parseLighthouseConfig(lhBlock, &cal)
		}
	}

	return cal, nil
}

func parseFirmware(doc map[string]interface{}) Firmware {
	fw := Firmware{}
	fw.FirmwareVersion, _ = getString(doc, "firmware_version")
	fw.HardwareRevision, _ = getString(doc, "hardware_revision")
	fw.HardwareMajor, _ = getString(doc, "hardware_version_major")
	fw.HardwareMinor, _ = getString(doc, "hardware_version_minor")
	fw.HardwareMicro, _ = getString(doc, "hardware_version_micro")
	fw.MainboardSerial, _ = getString(doc, "mb_serial_number")
	fw.ModelNumber, _ = getString(doc, "model_number")
	fw.DeviceSerial, _ = getString(doc, "device_serial_number")
	return fw
}

// parseViveIMU reads the flat {acc_bias, acc_scale, gyro_bias,
// gyro_scale} schema shared by Vive (top-level) and Vive Pro/Pro2
// (nested under "imu") per spec.md §4.3.
func parseViveIMU(m map[string]interface{}, out *IMU) error {
	const op = "calib.parseViveIMU"
	bias, ok := getVec3(m, "acc_bias")
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}
	out.AccBias = bias

	scale, ok := getVec3(m, "acc_scale")
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}
	out.AccScale = scale

	gbias, ok := getVec3(m, "gyro_bias")
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}
	out.GyroBias = gbias

	gscale, ok := getVec3(m, "gyro_scale")
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}
	out.GyroScale = gscale

	return nil
}

// poseFromPlusXZ reconstructs a Pose from the {plus_x, plus_z, position}
// convention (spec.md §3/§4.3).
func poseFromPlusXZ(m map[string]interface{}) (geom.Pose, bool) {
	plusX, ok1 := getVec3(m, "plus_x")
	plusZ, ok2 := getVec3(m, "plus_z")
	position, ok3 := getVec3(m, "position")
	if !ok1 || !ok2 || !ok3 {
		return geom.Pose{}, false
	}
	return geom.Pose{
		Orientation: geom.LookRotation(plusX, plusZ),
		Position:    position,
	}, true
}

// parseIndexIMUAndHead implements the Index-only head/imu reconstruction
// (spec.md §4.3): the display's trackref/imuref are derived from the
// JSON head/imu blocks, and IMU-to-head pose = inverse(head) ∘ imu.
func parseIndexIMUAndHead(doc map[string]interface{}, cal *HMDCalibration) error {
	const op = "calib.parseIndexIMUAndHead"

	headBlock, ok := getMap(doc, "head")
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}
	headPose, ok := poseFromPlusXZ(headBlock)
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}

	imuBlock, ok := getMap(doc, "imu")
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}
	imuPose, ok := poseFromPlusXZ(imuBlock)
	if !ok {
		return viveerr.New(viveerr.ConfigMissingField, op, nil)
	}

	cal.Display.HeadInTracking = headPose
	cal.IMU.PoseInTracking = imuPose
	cal.Display.IMUInHead = headPose.Inverse().Compose(imuPose)

	if bias, ok := getVec3(imuBlock, "acc_bias"); ok {
		cal.IMU.AccBias = bias
	}
	if scale, ok := getVec3(imuBlock, "acc_scale"); ok {
		cal.IMU.AccScale = scale
	}
	if gbias, ok := getVec3(imuBlock, "gyro_bias"); ok {
		cal.IMU.GyroBias = gbias
	}
	// Index's imu block does not carry gyro_scale (spec.md §4.3); the
	// default unit scale from DefaultIMU is kept.

	return nil
}

func parseDeviceBlock(m map[string]interface{}, cal *HMDCalibration, v variant.HMD) {
	if h, ok := getInt(m, "eye_target_height_in_pixels"); ok {
		cal.Display.EyeTargetHeightPx = h
	}
	if w, ok := getInt(m, "eye_target_width_in_pixels"); ok {
		cal.Display.EyeTargetWidthPx = w
	}
	if v != variant.HMDIndex {
		if p, ok := getFloat(m, "persistence"); ok {
			cal.Display.Persistence = p
		}
		if aspect, ok := getFloat(m, "physical_aspect_x_over_y"); ok {
			cal.Display.Eyes[0].AspectXOverY = aspect
			cal.Display.Eyes[1].AspectXOverY = aspect
		}
	}
}

func parseColorDistortion(m map[string]interface{}, key string) ColorDistortion {
	sub, ok := getMap(m, key)
	if !ok {
		return ColorDistortion{}
	}
	cx, _ := getFloat(sub, "center_x")
	cy, _ := getFloat(sub, "center_y")
	return ColorDistortion{
		CenterX: cx,
		CenterY: cy,
		Coeffs:  getCoeffs(sub, "coeffs"),
	}
}

func parseEyeTransforms(eyesArr []interface{}, cal *HMDCalibration) {
	for i := 0; i < 2 && i < len(eyesArr); i++ {
		eyeMap, ok := eyesArr[i].(map[string]interface{})
		if !ok {
			continue
		}
		eye := cal.Display.Eyes[i]

		if rows, ok := getMatrix3(eyeMap, "eye_to_head"); ok {
			eye.EyeToHeadRotation = geom.QuatFromColumns(
				geom.NewVec3(rows[0].X, rows[1].X, rows[2].X),
				geom.NewVec3(rows[0].Y, rows[1].Y, rows[2].Y),
				geom.NewVec3(rows[0].Z, rows[1].Z, rows[2].Z),
			)
		}
		if g, ok := getFloat(eyeMap, "grow_for_undistort"); ok {
			eye.GrowForUndistort = g
		}
		if c, ok := getFloat(eyeMap, "undistort_r2_cutoff"); ok {
			eye.UndistortR2Cutoff = c
		}
		eye.Red = parseColorDistortion(eyeMap, "distortion_red")
		eye.Green = parseColorDistortion(eyeMap, "distortion")
		eye.Blue = parseColorDistortion(eyeMap, "distortion_blue")

		cal.Display.Eyes[i] = eye
	}
}

// parseLighthouseConfig implements the Index-only sensor model parse
// (spec.md §4.3): channelMap/modelNormals/modelPoints are zipped, then
// every point/normal is transformed from tracker-reference into
// IMU-reference space by inverse(imu.trackref).
func parseLighthouseConfig(m map[string]interface{}, cal *HMDCalibration) {
	channelMap, ok1 := getArray(m, "channelMap")
	modelNormals, ok2 := getArray(m, "modelNormals")
	modelPoints, ok3 := getArray(m, "modelPoints")
	if !ok1 || !ok2 || !ok3 {
		return
	}

	n := len(channelMap)
	if len(modelNormals) < n {
		n = len(modelNormals)
	}
	if len(modelPoints) < n {
		n = len(modelPoints)
	}

	maxChannel := -1
	channels := make([]int, n)
	for i := 0; i < n; i++ {
		ch, ok := channelMap[i].(float64)
		if !ok {
			return
		}
		channels[i] = int(ch)
		if channels[i] > maxChannel {
			maxChannel = channels[i]
		}
	}

	sensors := make([]LighthouseSensor, maxChannel+1)
	imuInverse := cal.IMU.PoseInTracking.Inverse()

	for i := 0; i < n; i++ {
		ptArr, ok1 := modelPoints[i].([]interface{})
		normArr, ok2 := modelNormals[i].([]interface{})
		if !ok1 || !ok2 || len(ptArr) < 3 || len(normArr) < 3 {
			continue
		}
		px, _ := ptArr[0].(float64)
		py, _ := ptArr[1].(float64)
		pz, _ := ptArr[2].(float64)
		nx, _ := normArr[0].(float64)
		ny, _ := normArr[1].(float64)
		nz, _ := normArr[2].(float64)

		point := geom.NewVec3(px, py, pz)
		normal := geom.NewVec3(nx, ny, nz)

		transformedPoint := imuInverse.TransformPoint(point)
		transformedNormal := geom.RotateVec(imuInverse.Orientation, normal)

		sensors[channels[i]] = LighthouseSensor{Point: transformedPoint, Normal: transformedNormal}
	}

	cal.Sensors = sensors
}

// ParseControllerConfig parses the inflated factory JSON for a
// hand-held unit, selecting the variant from model_number (or
// model_name fallback) per spec.md §4.3.
func ParseControllerConfig(jsonStr string) (ControllerCalibration, error) {
	const op = "calib.ParseControllerConfig"

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return ControllerCalibration{}, viveerr.New(viveerr.ConfigJsonSyntax, op, err)
	}

	modelNumber, ok := getString(doc, "model_number")
	if !ok {
		modelNumber, ok = getString(doc, "model_name")
	}
	if !ok {
		return ControllerCalibration{}, viveerr.New(viveerr.ConfigMissingField, op, nil)
	}

	v := variant.ControllerFromModelNumber(modelNumber)
	if v == variant.ControllerUnknown {
		return ControllerCalibration{}, viveerr.New(viveerr.ConfigBadVariant, op, nil)
	}

	cal := DefaultControllerCalibration(v)
	cal.Firmware = parseFirmware(doc)

	// The top-level IMU schema mirrors Vive's (spec.md §3 describes the
	// "same firmware/IMU shape" without repeating the exact keys for
	// hand-held units); absent fields keep the zero-bias/unit-scale
	// defaults rather than failing the parse, since controllers are
	// usable with default IMU calibration.
	_ = parseViveIMU(doc, &cal.IMU)

	return cal, nil
}
