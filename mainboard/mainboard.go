// Package mainboard implements the HMD mainboard decoder (C5, spec.md
// §4.5): polling the 64-byte status report for IPD, lens separation,
// face proximity and button state, plus the power-on/power-off feature
// commands sent at open/close. Decode style mirrors the teacher's
// light_mcu.go fixed-offset field reads.
package mainboard

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/viveerr"
)

const (
	magicValue  = uint16(0x2CD0)
	expectedLen = byte(60)
)

// Status is one decoded mainboard status report (spec.md §4.5).
type Status struct {
	IPDCentiMM            uint16
	LensSeparationCentiMM uint16
	FaceProximity         uint16
	Button                byte
}

// featureWriter is the subset of hidio.Handle mainboard needs for power
// control, kept narrow so it is trivially fakeable in tests.
type featureWriter interface {
	SetFeatureReport(buf []byte) error
}

// PowerOn sends the fixed power-on feature report (spec.md §4.5, §6.2).
func PowerOn(h featureWriter) error {
	buf := [2]byte{constant.ReportIDMainboardPowerOn, 1}
	if err := h.SetFeatureReport(buf[:]); err != nil {
		return viveerr.New(viveerr.HidIo, "mainboard.PowerOn", err)
	}
	return nil
}

// PowerOff sends the fixed power-off feature report (spec.md §4.5, §6.2).
func PowerOff(h featureWriter) error {
	buf := [2]byte{constant.ReportIDMainboardPowerOff, 0}
	if err := h.SetFeatureReport(buf[:]); err != nil {
		return viveerr.New(viveerr.HidIo, "mainboard.PowerOff", err)
	}
	return nil
}

// DecodeStatus parses a mainboard status report (spec.md §4.5).
// Integrity failures (bad magic, bad length byte, non-zero reserved
// bytes) are logged and non-fatal: the report is still decoded and
// returned, per spec.md §7's "warn; do not fail" policy for C5.
//
// Unlike the sensors endpoint (whose reports lead with a report-ID
// byte the caller switches on before dispatching here), the mainboard
// status report's magic field is delivered at buf[0:2] with no
// leading report-ID byte: the HID read on this endpoint only ever
// yields this one report shape, so there is nothing to dispatch on.
func DecodeStatus(buf []byte) (Status, error) {
	const op = "mainboard.DecodeStatus"
	if len(buf) < constant.MainboardStatusReportSize {
		return Status{}, viveerr.New(viveerr.BadReportSize, op, fmt.Errorf("got %d bytes, want %d", len(buf), constant.MainboardStatusReportSize))
	}

	magic := binary.LittleEndian.Uint16(buf[0:2])
	length := buf[2]
	reserved := buf[3:8]

	if magic != magicValue {
		slog.Warn(fmt.Sprintf("%s: bad magic %#x, want %#x", op, magic, magicValue))
	}
	if length != expectedLen {
		slog.Warn(fmt.Sprintf("%s: bad length byte %d, want %d", op, length, expectedLen))
	}
	for _, b := range reserved {
		if b != 0 {
			slog.Warn(fmt.Sprintf("%s: non-zero reserved byte in %v", op, reserved))
			break
		}
	}

	status := Status{
		IPDCentiMM:            binary.LittleEndian.Uint16(buf[8:10]),
		LensSeparationCentiMM: binary.LittleEndian.Uint16(buf[10:12]),
		FaceProximity:         binary.LittleEndian.Uint16(buf[12:14]),
		Button:                buf[14],
	}
	return status, nil
}

// IPDMeters converts the reported centi-millimeter IPD to meters.
func (s Status) IPDMeters() float64 {
	return float64(s.IPDCentiMM) / 100000
}
