package watchman

import "encoding/binary"

// Cursor walks a watchman payload byte-by-byte, offering typed
// consume_* methods that report presence via a bool rather than
// branching on deeply nested bitfields (spec.md §9 DESIGN NOTES).
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential consumption starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining reports how many bytes are left unconsumed.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Rest returns every remaining unconsumed byte without advancing.
func (c *Cursor) Rest() []byte {
	return c.buf[c.pos:]
}

// PeekByte reports the next byte without consuming it.
func (c *Cursor) PeekByte() (byte, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	return c.buf[c.pos], true
}

// ConsumeByte consumes and returns one byte.
func (c *Cursor) ConsumeByte() (byte, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

// ConsumeN consumes and returns exactly n bytes.
func (c *Cursor) ConsumeN(n int) ([]byte, bool) {
	if c.Remaining() < n {
		return nil, false
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, true
}

// ConsumeU16LE consumes a little-endian uint16.
func (c *Cursor) ConsumeU16LE() (uint16, bool) {
	b, ok := c.ConsumeN(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

// ConsumeI16LE consumes a little-endian int16.
func (c *Cursor) ConsumeI16LE() (int16, bool) {
	u, ok := c.ConsumeU16LE()
	return int16(u), ok
}

// ConsumeBattery consumes the 1-byte battery sub-event.
func (c *Cursor) ConsumeBattery() (BatteryEvent, bool) {
	b, ok := c.ConsumeByte()
	if !ok {
		return BatteryEvent{}, false
	}
	return decodeBattery(b), true
}

// ConsumeTrackpad consumes the 4-byte trackpad sub-event.
func (c *Cursor) ConsumeTrackpad() (TrackpadEvent, bool) {
	x, ok1 := c.ConsumeI16LE()
	y, ok2 := c.ConsumeI16LE()
	if !ok1 || !ok2 {
		return TrackpadEvent{}, false
	}
	return decodeTrackpad(x, y), true
}

// ConsumeIMUSample consumes a watchman_imu_sample.
func (c *Cursor) ConsumeIMUSample() (RawIMUSample, bool) {
	if c.Remaining() < rawIMUSampleSize {
		return RawIMUSample{}, false
	}
	var s RawIMUSample
	for i := 0; i < 3; i++ {
		v, _ := c.ConsumeI16LE()
		s.RawAcc[i] = v
	}
	for i := 0; i < 3; i++ {
		v, _ := c.ConsumeI16LE()
		s.RawGyro[i] = v
	}
	ts, _ := c.ConsumeU16LE()
	s.TimestampLow = ts
	return s, true
}

// ConsumeTouchForce consumes a watchman_touch_force block.
func (c *Cursor) ConsumeTouchForce() (TouchForce, bool) {
	b, ok := c.ConsumeN(touchForceSize)
	if !ok {
		return TouchForce{}, false
	}
	return TouchForce{
		FingerIndex:   b[0],
		FingerMiddle:  b[1],
		FingerRing:    b[2],
		FingerLittle:  b[3],
		SqueezeForce:  b[4],
		TrackpadForce: b[5],
	}, true
}
