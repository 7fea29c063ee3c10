// Package imu is the IMU integration pipeline (C4, spec.md §4.4):
// 48 MHz tick-counter recovery, axis reorientation, bias/scale
// calibration, 3-DoF orientation fusion, and the Vive-family IMU range
// auto-detect.
package imu

import "math"

const ticksPerSecond = 48_000_000

// SeqGap returns a-b as a signed difference on an 8-bit sequence
// counter: the result is in [-128, 127], treating a wraparound as the
// shorter arc (spec.md §9 DESIGN NOTES — this replaces the source's
// branch ladder for "already seen" / ordering decisions).
func SeqGap(a, b uint8) int {
	d := int(a) - int(b)
	switch {
	case d > 127:
		d -= 256
	case d < -128:
		d += 256
	}
	return d
}

// TickDeltaTicks recovers the (always non-negative) elapsed tick count
// between two 32-bit tick-counter readings, restoring a positive delta
// across a 32-bit wraparound (spec.md §4.4).
func TickDeltaTicks(lastTicks, ticks uint32) uint64 {
	dt := int64(ticks) - int64(lastTicks)
	if dt < 0 {
		dt += 1 << 32
	}
	return uint64(dt)
}

// TickDeltaNS converts an elapsed tick count at the device's 48 MHz
// accumulator clock into nanoseconds (spec.md §4.4).
func TickDeltaNS(dtTicks uint64) uint64 {
	ns := math.Round(float64(dtTicks) / ticksPerSecond * 1e9)
	return uint64(ns)
}
