package imu

import "testing"

func TestSeqGap(t *testing.T) {
	cases := []struct {
		a, b uint8
		want int
	}{
		{5, 3, 2},
		{3, 5, -2},
		{0, 255, 1},
		{255, 0, -1},
		{1, 254, 3},
		{10, 10, 0},
	}
	for _, c := range cases {
		got := SeqGap(c.a, c.b)
		if got != c.want {
			t.Errorf("SeqGap(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestTickDeltaTicks_Wraparound(t *testing.T) {
	// spec.md §4.4 scenario: last=0xFFFFFF00, next=0x00000100 -> dt=0x200.
	got := TickDeltaTicks(0xFFFFFF00, 0x00000100)
	if got != 0x200 {
		t.Fatalf("TickDeltaTicks wraparound = %#x, want 0x200", got)
	}
}

func TestTickDeltaTicks_NoWraparound(t *testing.T) {
	got := TickDeltaTicks(1000, 1500)
	if got != 500 {
		t.Fatalf("TickDeltaTicks = %d, want 500", got)
	}
}

func TestTickDeltaNS(t *testing.T) {
	got := TickDeltaNS(512)
	const want = 10667 // round(512/48e6*1e9)
	if got != want {
		t.Fatalf("TickDeltaNS(512) = %d, want %d", got, want)
	}
}
