// Package constant holds the fixed identifiers (USB vendor/product IDs,
// HID report IDs, environment variable names) that the rest of the
// runtime is wired against.
package constant

// USB vendor/product IDs used to probe for lighthouse-family devices.
// See spec.md §6.1.
const (
	VID_HTC   = uint16(0x0BB4)
	VID_VALVE = uint16(0x28DE)

	PID_VIVE_MAINBOARD     = uint16(0x2C87)
	PID_VIVE_LHR           = uint16(0x2000)
	PID_VIVE_PRO_MAINBOARD = uint16(0x0309)
	PID_VIVE_PRO_LHR       = uint16(0x2300) // shared by Vive Pro, Vive Pro 2, Index
	PID_WATCHMAN_GEN1      = uint16(0x2101)
	PID_WATCHMAN_GEN2      = uint16(0x2102)
)

// HID report IDs. Byte order is little-endian unless noted (spec.md §6.2).
const (
	ReportIDMainboardStatus   = byte(0x01)
	ReportIDMainboardPowerOn  = byte(0x04)
	ReportIDMainboardPowerOff = byte(0x05)

	ReportIDIMU = byte(0x20)

	ReportIDLighthousePulseV1HMD        = byte(0x21)
	ReportIDLighthousePulseV1Controller = byte(0x23)
	ReportIDLighthousePulseV2HMD        = byte(0x22)

	ReportIDConfigStart = byte(0x10)
	ReportIDConfigRead  = byte(0x11)

	ReportIDIMURangeModes    = byte(0x07)
	ReportIDFirmwareVersion  = byte(0x06)

	ReportIDControllerReport1       = byte(0x01)
	ReportIDControllerReport2       = byte(0x02)
	ReportIDControllerDisconnect    = byte(0x03)
	ReportIDControllerHapticCommand = byte(0x02)
)

// Sizes, in bytes, of fixed-layout reports (spec.md §6.2).
const (
	MainboardStatusReportSize = 64
	IMUReportSize             = 52
	LighthousePulseV1Size     = 64
	LighthousePulseV2Size     = 59
	ConfigReadPayloadMax      = 62
	ConfigBlobCap             = 32 * 1024
	HapticCommandSize         = 7
)

// Environment knobs (spec.md §6.4).
const (
	EnvLogLevel             = "VIVE_LOG"
	EnvWatchmanWaitTimeout  = "VIVE_WATCHMAN_WAIT_TIMEOUT_MS"
)

// HID read timeout: the maximum latency between a destroy() call and a
// reader goroutine noticing it (spec.md §5).
const HIDReadTimeoutMS = 1000
