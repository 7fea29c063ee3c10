package watchman

import "testing"

func TestSplitFrames_SingleMessage(t *testing.T) {
	// length=5 means 5 bytes follow: 2-byte timestamp + 3-byte payload.
	body := []byte{5, 0x11, 0x22, 0xAA, 0xBB, 0xCC}
	msgs := SplitFrames(body)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].TimestampHigh != 0x2211 {
		t.Errorf("TimestampHigh = %#x, want 0x2211", msgs[0].TimestampHigh)
	}
	if len(msgs[0].Payload) != 3 {
		t.Errorf("payload length = %d, want 3", len(msgs[0].Payload))
	}
}

func TestSplitFrames_Multiplexed(t *testing.T) {
	first := []byte{4, 0x01, 0x00, 0xAA, 0xBB}
	second := []byte{3, 0x02, 0x00, 0xCC}
	body := append(append([]byte{}, first...), second...)

	msgs := SplitFrames(body)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if len(msgs[0].Payload) != 2 || len(msgs[1].Payload) != 1 {
		t.Errorf("payload lengths = %d,%d, want 2,1", len(msgs[0].Payload), len(msgs[1].Payload))
	}
}

func TestSplitFrames_TruncatedStops(t *testing.T) {
	body := []byte{10, 0x00, 0x00} // declares 10 bytes but only 0 follow
	msgs := SplitFrames(body)
	if len(msgs) != 0 {
		t.Errorf("expected truncated frame to be dropped, got %d", len(msgs))
	}
}
