package imu

import (
	"bytes"
	"encoding/binary"
	"testing"

	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/variant"
)

func buildHMDReport(t *testing.T, samples [3]RawSample) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(0x01) // report ID
	for _, s := range samples {
		if err := binary.Write(&buf, binary.LittleEndian, s.RawAcc); err != nil {
			t.Fatal(err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, s.RawGyro); err != nil {
			t.Fatal(err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, s.Ticks); err != nil {
			t.Fatal(err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, s.Sequence); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestAccumulator_ProcessReport_OrdersOldestFirstAndSkipsSeen(t *testing.T) {
	identity := variant.AxisRemap{Perm: [3]int{0, 1, 2}, Sign: [3]float64{1, 1, 1}}
	acc := NewAccumulator(calib.DefaultIMU(), identity)

	report := buildHMDReport(t, [3]RawSample{
		{Sequence: 5, Ticks: 500},
		{Sequence: 3, Ticks: 300},
		{Sequence: 4, Ticks: 400},
	})

	readings, err := acc.ProcessReport(report)
	if err != nil {
		t.Fatalf("ProcessReport: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("got %d readings, want 3", len(readings))
	}
	wantSeq := []uint8{3, 4, 5}
	for i, r := range readings {
		if r.Sequence != wantSeq[i] {
			t.Errorf("readings[%d].Sequence = %d, want %d", i, r.Sequence, wantSeq[i])
		}
	}

	// A second report carrying the same three sequences must be fully
	// skipped as already processed.
	readings2, err := acc.ProcessReport(report)
	if err != nil {
		t.Fatalf("ProcessReport (repeat): %v", err)
	}
	if len(readings2) != 0 {
		t.Fatalf("got %d readings on repeat report, want 0", len(readings2))
	}
}

func TestAccumulator_ProcessReport_PartiallyNewSamples(t *testing.T) {
	identity := variant.AxisRemap{Perm: [3]int{0, 1, 2}, Sign: [3]float64{1, 1, 1}}
	acc := NewAccumulator(calib.DefaultIMU(), identity)

	first := buildHMDReport(t, [3]RawSample{
		{Sequence: 1, Ticks: 100},
		{Sequence: 2, Ticks: 200},
		{Sequence: 3, Ticks: 300},
	})
	if _, err := acc.ProcessReport(first); err != nil {
		t.Fatalf("ProcessReport(first): %v", err)
	}

	next := buildHMDReport(t, [3]RawSample{
		{Sequence: 3, Ticks: 300}, // already seen
		{Sequence: 4, Ticks: 400},
		{Sequence: 2, Ticks: 200}, // already seen
	})
	readings, err := acc.ProcessReport(next)
	if err != nil {
		t.Fatalf("ProcessReport(next): %v", err)
	}
	if len(readings) != 1 || readings[0].Sequence != 4 {
		t.Fatalf("readings = %+v, want exactly sequence 4", readings)
	}
	if readings[0].DeltaNS == 0 {
		t.Errorf("expected non-zero DeltaNS between ticks 300 and 400")
	}
}

func TestDecodeHMDReport_ShortBufferErrors(t *testing.T) {
	if _, err := decodeHMDReport(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}
