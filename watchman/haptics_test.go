package watchman

import "testing"

func TestBuildHapticCommand_SpecExample(t *testing.T) {
	// spec.md §8 scenario 5: 150 Hz, amplitude 1.0, duration 0.05s.
	got := BuildHapticCommand(1.0, 150, 0.05)
	want := HapticCommand{PulseHigh: 3333, PulseLow: 3333, RepeatCount: 7}
	if got != want {
		t.Errorf("BuildHapticCommand = %+v, want %+v", got, want)
	}
}

func TestBuildHapticCommand_DefaultsApplied(t *testing.T) {
	got := BuildHapticCommand(0.5, 0, 0.001)
	want := BuildHapticCommand(0.5, defaultFrequencyHz, minDurationSeconds)
	if got != want {
		t.Errorf("defaults not applied: got %+v, want %+v", got, want)
	}
}

func TestBuildHapticCommand_PulseLowFloor(t *testing.T) {
	got := BuildHapticCommand(0, 150, 0.05)
	if got.PulseLow < 1 {
		t.Errorf("PulseLow = %d, want >= 1 per spec clamp", got.PulseLow)
	}
}

type fakeFeatureWriter struct {
	lastBuf []byte
}

func (f *fakeFeatureWriter) SetFeatureReport(buf []byte) error {
	f.lastBuf = append([]byte(nil), buf...)
	return nil
}

func TestSendHaptic_EncodesFields(t *testing.T) {
	fw := &fakeFeatureWriter{}
	cmd := HapticCommand{PulseHigh: 0x1234, PulseLow: 0x5678, RepeatCount: 0x9ABC}
	if err := SendHaptic(fw, 0x01, cmd); err != nil {
		t.Fatalf("SendHaptic: %v", err)
	}
	if len(fw.lastBuf) != 10 {
		t.Fatalf("got %d bytes, want 10", len(fw.lastBuf))
	}
	if fw.lastBuf[2] != 7 {
		t.Errorf("len field = %d, want 7", fw.lastBuf[2])
	}
}
