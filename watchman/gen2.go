package watchman

// Gen2Payload is the decoded result of a Watchman Gen 2 payload
// (spec.md §4.7): three optional dedicated prefix bytes in strict
// order (battery, touch+force, IMU), then an optional input-events
// flags byte whose low nibble drives a second round of optional
// sub-events, then an optional trailing IMU sample, then opaque
// lighthouse-V2 data.
type Gen2Payload struct {
	Battery        *BatteryEvent
	TouchForce      *TouchForce
	IMU             *RawIMUSample
	Buttons         *uint8
	Trigger         *uint8
	Trackpad        *TrackpadEvent
	ExtraIMU        *RawIMUSample
	LighthouseV2Raw []byte
}

const (
	prefixBattery    = 0xE1
	prefixTouchForce = 0xF0
	prefixIMU        = 0xE8
)

// DecodeGen2Payload walks payload per the Gen 2 grammar (spec.md §4.7).
// As with Gen1, an undershoot (a declared sub-event whose bytes are
// not actually present) stops decoding and reports ok=false; whatever
// was already decoded is still returned. A bare 0xE1 prefix with no
// following battery byte is a documented no-op (spec.md §9 Open
// Questions): the cursor does not advance past the prefix.
func DecodeGen2Payload(payload []byte) (Gen2Payload, bool) {
	c := NewCursor(payload)
	var out Gen2Payload

	if b, ok := c.PeekByte(); ok && b == prefixBattery {
		mark := c.pos
		c.ConsumeByte()
		ev, ok := c.ConsumeBattery()
		if !ok {
			c.pos = mark // bare 0xE1: no-op, per spec.md §9
		} else {
			out.Battery = &ev
		}
	}

	if b, ok := c.PeekByte(); ok && b == prefixTouchForce {
		c.ConsumeByte()
		tf, ok := c.ConsumeTouchForce()
		if !ok {
			out.LighthouseV2Raw = c.Rest()
			return out, false
		}
		out.TouchForce = &tf
	}

	if b, ok := c.PeekByte(); ok && b == prefixIMU {
		c.ConsumeByte()
		s, ok := c.ConsumeIMUSample()
		if !ok {
			out.LighthouseV2Raw = c.Rest()
			return out, false
		}
		out.IMU = &s
	}

	if b, ok := c.PeekByte(); ok && b&0xF0 == 0xF0 {
		flags, _ := c.ConsumeByte()

		if flags&0x08 != 0 {
			tf, ok := c.ConsumeTouchForce()
			if !ok {
				out.LighthouseV2Raw = c.Rest()
				return out, false
			}
			out.TouchForce = &tf
		}
		if flags&0x04 != 0 {
			b, ok := c.ConsumeByte()
			if !ok {
				out.LighthouseV2Raw = c.Rest()
				return out, false
			}
			out.Trigger = &b
		}
		if flags&0x02 != 0 {
			ev, ok := c.ConsumeTrackpad()
			if !ok {
				out.LighthouseV2Raw = c.Rest()
				return out, false
			}
			out.Trackpad = &ev
		}
		if flags&0x01 != 0 {
			b, ok := c.ConsumeByte()
			if !ok {
				out.LighthouseV2Raw = c.Rest()
				return out, false
			}
			out.Buttons = &b
		}
	}

	if c.Remaining() >= rawIMUSampleSize {
		s, ok := c.ConsumeIMUSample()
		if ok {
			out.ExtraIMU = &s
		}
	}

	out.LighthouseV2Raw = c.Rest()
	return out, true
}
