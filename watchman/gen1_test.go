package watchman

import "testing"

func TestDecodeGen1Payload_0xFFDoesNotAdvance(t *testing.T) {
	// spec.md §8 testable property: 0xFF must not be treated as a
	// valid event-flags byte, and the cursor must not advance past it.
	payload := []byte{0xFF, 0x01, 0x02, 0x03}
	got, ok := DecodeGen1Payload(payload)
	if !ok {
		t.Fatalf("expected ok=true (no undershoot), got false")
	}
	if got.Battery != nil || got.Buttons != nil || got.Trigger != nil || got.Trackpad != nil || got.IMU != nil {
		t.Fatalf("expected no sub-events decoded from 0xFF, got %+v", got)
	}
	if len(got.LighthouseV1Raw) != len(payload) {
		t.Fatalf("expected entire payload surfaced as lighthouse data, got %d of %d bytes", len(got.LighthouseV1Raw), len(payload))
	}
}

func TestDecodeGen1Payload_BatteryOnly(t *testing.T) {
	// flags = 0xE1: top 3 bits set (0xE0), bit4 clear, bit0 set -> battery.
	payload := []byte{0xE1, 0x55}
	got, ok := DecodeGen1Payload(payload)
	if !ok {
		t.Fatalf("DecodeGen1Payload: undershoot")
	}
	if got.Battery == nil {
		t.Fatalf("expected battery event, got none")
	}
	if got.Battery.Percent != 0x55 || got.Battery.Charging {
		t.Errorf("battery = %+v, want percent 0x55, charging false", got.Battery)
	}
}

func TestDecodeGen1Payload_ButtonsTriggerTrackpadOrder(t *testing.T) {
	// flags = 0xF5: top3 set, bit4 set -> buttons(0x01)+trigger(0x04) set, trackpad(0x02) clear, IMU(0x08) clear.
	flags := byte(0xE0 | 0x10 | 0x01 | 0x04)
	payload := []byte{flags, 0x3C, 0x80, 0x99, 0x99} // buttons byte, trigger byte, remainder = lighthouse
	got, ok := DecodeGen1Payload(payload)
	if !ok {
		t.Fatalf("DecodeGen1Payload: undershoot")
	}
	if got.Buttons == nil || *got.Buttons != 0x3C {
		t.Errorf("Buttons = %v, want 0x3C", got.Buttons)
	}
	if got.Trigger == nil || *got.Trigger != 0x80 {
		t.Errorf("Trigger = %v, want 0x80", got.Trigger)
	}
	if got.Trackpad != nil {
		t.Errorf("Trackpad should be absent, got %+v", got.Trackpad)
	}
	if len(got.LighthouseV1Raw) != 2 {
		t.Errorf("expected 2 leftover bytes, got %d", len(got.LighthouseV1Raw))
	}
}

func TestDecodeGen1Payload_Undershoot(t *testing.T) {
	// flags declares a battery event but the byte is missing.
	flags := byte(0xE0 | 0x01)
	payload := []byte{flags}
	_, ok := DecodeGen1Payload(payload)
	if ok {
		t.Fatalf("expected undershoot (ok=false) for truncated payload")
	}
}

func TestDecodeGen1Payload_NoFlagsByteIsAllLighthouse(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	got, ok := DecodeGen1Payload(payload)
	if !ok {
		t.Fatalf("unexpected undershoot")
	}
	if len(got.LighthouseV1Raw) != 3 {
		t.Errorf("expected entire payload as lighthouse data, got %d bytes", len(got.LighthouseV1Raw))
	}
}
