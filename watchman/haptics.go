package watchman

import (
	"encoding/binary"

	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/viveerr"
)

const (
	defaultFrequencyHz = 150.0
	minDurationSeconds = 0.05
)

// featureWriter is the subset of hidio.Handle the haptic encoder
// needs, kept narrow so it is trivially fakeable in tests.
type featureWriter interface {
	SetFeatureReport(buf []byte) error
}

// HapticCommand is one decoded/encoded haptic pulse train command
// (spec.md §4.7).
type HapticCommand struct {
	PulseHigh   uint16
	PulseLow    uint16
	RepeatCount uint16
}

// BuildHapticCommand computes the pulse-high/pulse-low/repeat-count
// triple for amplitude in [0,1], frequencyHz and durationSeconds, per
// spec.md §4.7's formulas. frequencyHz <= 0 uses the default 150 Hz;
// durationSeconds below the 0.05s floor is raised to it.
func BuildHapticCommand(amplitude float64, frequencyHz, durationSeconds float64) HapticCommand {
	if frequencyHz <= 0 {
		frequencyHz = defaultFrequencyHz
	}
	if durationSeconds < minDurationSeconds {
		durationSeconds = minDurationSeconds
	}

	period := 1e6 / frequencyHz
	pulseLow := amplitude * period / 2
	if pulseLow < 1 {
		pulseLow = 1
	}
	pulseHigh := period - pulseLow
	repeat := durationSeconds * frequencyHz

	return HapticCommand{
		PulseHigh:   uint16(pulseHigh),
		PulseLow:    uint16(pulseLow),
		RepeatCount: uint16(repeat),
	}
}

// SendHaptic encodes cmd into the wire command report and writes it as
// a feature report (spec.md §4.7, §6.2): {id, cmd_byte, len, 0x00,
// pulse_high_u16_le, pulse_low_u16_le, repeat_count_u16_le}, where len
// is the byte count following the len field itself
// (constant.HapticCommandSize, i.e. "len=7").
func SendHaptic(h featureWriter, cmdByte byte, cmd HapticCommand) error {
	const op = "watchman.SendHaptic"
	buf := make([]byte, 3+constant.HapticCommandSize)
	buf[0] = constant.ReportIDControllerHapticCommand
	buf[1] = cmdByte
	buf[2] = constant.HapticCommandSize
	buf[3] = 0x00
	binary.LittleEndian.PutUint16(buf[4:6], cmd.PulseHigh)
	binary.LittleEndian.PutUint16(buf[6:8], cmd.PulseLow)
	binary.LittleEndian.PutUint16(buf[8:10], cmd.RepeatCount)

	if err := h.SetFeatureReport(buf); err != nil {
		return viveerr.New(viveerr.HidIo, op, err)
	}
	return nil
}
