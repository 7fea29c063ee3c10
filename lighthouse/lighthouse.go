// Package lighthouse implements the photodiode pulse decoder (C6,
// spec.md §4.6): V1 (HMD and controller) and V2 (HMD) pulse reports.
// Decoded V1 pulses are handed to a Sink (the watchman state machine,
// C7); V2 records carry a partial base-station bit-stream this spec
// level only requires to be surfaced (spec.md §9 Open Questions).
package lighthouse

import (
	"encoding/binary"
	"fmt"

	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/viveerr"
)

const (
	sensorIDEmpty = 0xFF
	sensorIDVsync = 0xFE
	maxSensorID   = 31

	v1RecordsPerReport = 9
	v1RecordSize       = 7 // u8 + u16 + u32

	v2RecordsPerReport = 4
	v2RecordSize       = 13 // u8 + u32 + u32 + u32
)

// PulseV1 is one decoded V1 photodiode record (spec.md §4.6).
type PulseV1 struct {
	SensorID  uint8
	Duration  uint16
	Timestamp uint32
}

// PulseV2 is one decoded V2 photodiode record (spec.md §4.6). Data and
// Mask are surfaced uninterpreted; decoding the base-station
// bit-stream is explicitly out of scope (spec.md §9).
type PulseV2 struct {
	SensorID      uint8
	ChannelParity bool
	Timestamp     uint32
	Data          uint32
	Mask          uint32
}

// Sink receives valid V1 pulses, forwarded from either the HMD or a
// controller's lighthouse report (spec.md §4.6).
type Sink interface {
	HandlePulseV1(p PulseV1)
}

// V2Sink receives valid V2 pulses (HMD only).
type V2Sink interface {
	HandlePulseV2(p PulseV2)
}

// DecodeV1 parses a 64-byte V1 pulse report (report ID + up to 9
// records) and forwards every valid record to sink. Sentinel records
// (empty slot, vsync marker) are skipped. An invalid sensor id (not in
// 0..31 and not a sentinel) is reported as BadSensorId but does not
// stop processing of the remaining records in the report.
func DecodeV1(buf []byte, sink Sink) error {
	const op = "lighthouse.DecodeV1"
	if len(buf) < constant.LighthousePulseV1Size {
		return viveerr.New(viveerr.BadReportSize, op, fmt.Errorf("got %d bytes, want %d", len(buf), constant.LighthousePulseV1Size))
	}
	return decodeV1Records(op, buf, 1, sink)
}

// DecodeV1Records decodes a run of V1 pulse records with no leading
// report-ID byte: the trailing bytes of a controller's watchman
// message payload once its sub-events are consumed (spec.md §4.7 step
// 2, §4.6 "feed a watchman"). As many complete 7-byte records as fit
// are decoded; a short trailing remainder is not an error.
func DecodeV1Records(buf []byte, sink Sink) error {
	return decodeV1Records("lighthouse.DecodeV1Records", buf, 0, sink)
}

func decodeV1Records(op string, buf []byte, startOff int, sink Sink) error {
	var firstErr error
	off := startOff
	for i := 0; i < v1RecordsPerReport; i++ {
		if off+v1RecordSize > len(buf) {
			break
		}
		sensorID := buf[off]
		duration := binary.LittleEndian.Uint16(buf[off+1 : off+3])
		timestamp := binary.LittleEndian.Uint32(buf[off+3 : off+7])
		off += v1RecordSize

		switch {
		case sensorID == sensorIDEmpty, sensorID == sensorIDVsync:
			continue
		case sensorID > maxSensorID:
			if firstErr == nil {
				firstErr = viveerr.New(viveerr.BadSensorId, op, fmt.Errorf("sensor id %d", sensorID))
			}
			continue
		}

		if sink != nil {
			sink.HandlePulseV1(PulseV1{SensorID: sensorID, Duration: duration, Timestamp: timestamp})
		}
	}
	return firstErr
}

// DecodeV2 parses a 59-byte V2 pulse report (report ID + up to 4
// records) and forwards every valid record to sink.
func DecodeV2(buf []byte, sink V2Sink) error {
	const op = "lighthouse.DecodeV2"
	if len(buf) < constant.LighthousePulseV2Size {
		return viveerr.New(viveerr.BadReportSize, op, fmt.Errorf("got %d bytes, want %d", len(buf), constant.LighthousePulseV2Size))
	}

	var firstErr error
	off := 1
	for i := 0; i < v2RecordsPerReport; i++ {
		if off+v2RecordSize > len(buf) {
			break
		}
		idAndFlag := buf[off]
		timestamp := binary.LittleEndian.Uint32(buf[off+1 : off+5])
		data := binary.LittleEndian.Uint32(buf[off+5 : off+9])
		mask := binary.LittleEndian.Uint32(buf[off+9 : off+13])
		off += v2RecordSize

		sensorID := idAndFlag & 0x7F
		parity := idAndFlag&0x80 != 0

		if sensorID > maxSensorID {
			if firstErr == nil {
				firstErr = viveerr.New(viveerr.BadSensorId, op, fmt.Errorf("sensor id %d", sensorID))
			}
			continue
		}

		if sink != nil {
			sink.HandlePulseV2(PulseV2{
				SensorID:      sensorID,
				ChannelParity: parity,
				Timestamp:     timestamp,
				Data:          data,
				Mask:          mask,
			})
		}
	}
	return firstErr
}
