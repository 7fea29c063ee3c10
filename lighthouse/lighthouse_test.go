package lighthouse

import (
	"encoding/binary"
	"testing"

	"vive-lighthouse-xr-go/constant"
)

type recordingSink struct {
	pulses []PulseV1
}

func (s *recordingSink) HandlePulseV1(p PulseV1) { s.pulses = append(s.pulses, p) }

func putV1Record(buf []byte, off int, sensorID uint8, duration uint16, timestamp uint32) {
	buf[off] = sensorID
	binary.LittleEndian.PutUint16(buf[off+1:off+3], duration)
	binary.LittleEndian.PutUint32(buf[off+3:off+7], timestamp)
}

func TestDecodeV1_SkipsSentinelsAndForwardsValid(t *testing.T) {
	buf := make([]byte, constant.LighthousePulseV1Size)
	buf[0] = constant.ReportIDLighthousePulseV1HMD
	for i := 0; i < v1RecordsPerReport; i++ {
		putV1Record(buf, 1+i*v1RecordSize, 0xFF, 0, 0) // unused slots are empty
	}
	putV1Record(buf, 1, 0xFF, 0, 0)       // empty
	putV1Record(buf, 8, 0xFE, 0, 0)       // vsync
	putV1Record(buf, 15, 5, 1234, 99999)  // valid

	sink := &recordingSink{}
	if err := DecodeV1(buf, sink); err != nil {
		t.Fatalf("DecodeV1: %v", err)
	}
	if len(sink.pulses) != 1 {
		t.Fatalf("got %d pulses, want 1", len(sink.pulses))
	}
	want := PulseV1{SensorID: 5, Duration: 1234, Timestamp: 99999}
	if sink.pulses[0] != want {
		t.Errorf("pulse = %+v, want %+v", sink.pulses[0], want)
	}
}

func TestDecodeV1_InvalidSensorIDReportsErrorButContinues(t *testing.T) {
	buf := make([]byte, constant.LighthousePulseV1Size)
	for i := 0; i < v1RecordsPerReport; i++ {
		putV1Record(buf, 1+i*v1RecordSize, 0xFF, 0, 0) // unused slots are empty
	}
	putV1Record(buf, 1, 200, 0, 0) // invalid: not a sentinel, > 31
	putV1Record(buf, 8, 3, 10, 20) // valid, should still be forwarded

	sink := &recordingSink{}
	err := DecodeV1(buf, sink)
	if err == nil {
		t.Fatal("expected BadSensorId error")
	}
	if len(sink.pulses) != 1 || sink.pulses[0].SensorID != 3 {
		t.Errorf("valid record after bad one not forwarded: %+v", sink.pulses)
	}
}

func TestDecodeV1_ShortBufferErrors(t *testing.T) {
	if err := DecodeV1(make([]byte, 5), &recordingSink{}); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestDecodeV1Records_NoLeadingReportIDByte(t *testing.T) {
	buf := make([]byte, v1RecordSize*2)
	putV1Record(buf, 0, 0xFE, 0, 0)      // vsync, no report-ID byte before it
	putV1Record(buf, v1RecordSize, 7, 42, 4242)

	sink := &recordingSink{}
	if err := DecodeV1Records(buf, sink); err != nil {
		t.Fatalf("DecodeV1Records: %v", err)
	}
	if len(sink.pulses) != 1 {
		t.Fatalf("got %d pulses, want 1", len(sink.pulses))
	}
	want := PulseV1{SensorID: 7, Duration: 42, Timestamp: 4242}
	if sink.pulses[0] != want {
		t.Errorf("pulse = %+v, want %+v", sink.pulses[0], want)
	}
}

func TestDecodeV1Records_ShortTrailingRemainderIsNotAnError(t *testing.T) {
	buf := []byte{1, 2, 3} // fewer than v1RecordSize bytes
	sink := &recordingSink{}
	if err := DecodeV1Records(buf, sink); err != nil {
		t.Fatalf("DecodeV1Records: %v", err)
	}
	if len(sink.pulses) != 0 {
		t.Errorf("got %d pulses, want 0", len(sink.pulses))
	}
}

type recordingV2Sink struct {
	pulses []PulseV2
}

func (s *recordingV2Sink) HandlePulseV2(p PulseV2) { s.pulses = append(s.pulses, p) }

func TestDecodeV2_ParsesChannelParityAndSensorID(t *testing.T) {
	buf := make([]byte, constant.LighthousePulseV2Size)
	buf[0] = constant.ReportIDLighthousePulseV2HMD
	off := 1
	buf[off] = 0x85 // high bit set (parity), low 7 bits = 5
	binary.LittleEndian.PutUint32(buf[off+1:off+5], 1000)
	binary.LittleEndian.PutUint32(buf[off+5:off+9], 0xAABBCCDD)
	binary.LittleEndian.PutUint32(buf[off+9:off+13], 0x11223344)

	sink := &recordingV2Sink{}
	if err := DecodeV2(buf, sink); err != nil {
		t.Fatalf("DecodeV2: %v", err)
	}
	if len(sink.pulses) == 0 {
		t.Fatal("expected at least one pulse")
	}
	got := sink.pulses[0]
	if got.SensorID != 5 || !got.ChannelParity || got.Timestamp != 1000 {
		t.Errorf("pulse = %+v, want sensor 5, parity true, timestamp 1000", got)
	}
}
