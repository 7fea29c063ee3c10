package watchman

// Gen1Payload is the decoded result of a Watchman Gen 1 payload
// (spec.md §4.7): an event-flags byte (if present) drives up to five
// optional sub-events, appended in the fixed order battery, buttons,
// trigger, trackpad, IMU. Anything left over is raw lighthouse-V1
// pulse data for the controller.
type Gen1Payload struct {
	Battery       *BatteryEvent
	Buttons       *uint8
	Trigger       *uint8
	Trackpad      *TrackpadEvent
	IMU           *RawIMUSample
	LighthouseV1Raw []byte
}

// DecodeGen1Payload walks payload per the Gen 1 grammar (spec.md §4.7).
// Sub-events that the flags byte declares present but whose bytes are
// not actually available are a logged, non-fatal undershoot: decoding
// stops there and whatever was already decoded is returned with ok=false
// so the caller can log-and-drop. A payload whose first byte is 0xFF
// is a known-invalid flags encoding (spec.md §8 testable properties)
// and the cursor MUST NOT advance past byte 0.
func DecodeGen1Payload(payload []byte) (Gen1Payload, bool) {
	c := NewCursor(payload)
	var out Gen1Payload

	first, hasFirst := c.PeekByte()
	if hasFirst && first&0xE0 == 0xE0 && first != 0xFF {
		flags, _ := c.ConsumeByte()

		if flags&0x10 != 0x10 && flags&0x01 == 0x01 {
			ev, ok := c.ConsumeBattery()
			if !ok {
				out.LighthouseV1Raw = c.Rest()
				return out, false
			}
			out.Battery = &ev
		}

		if flags&0x10 == 0x10 {
			if flags&0x01 != 0 {
				b, ok := c.ConsumeByte()
				if !ok {
					out.LighthouseV1Raw = c.Rest()
					return out, false
				}
				out.Buttons = &b
			}
			if flags&0x04 != 0 {
				b, ok := c.ConsumeByte()
				if !ok {
					out.LighthouseV1Raw = c.Rest()
					return out, false
				}
				out.Trigger = &b
			}
			if flags&0x02 != 0 {
				ev, ok := c.ConsumeTrackpad()
				if !ok {
					out.LighthouseV1Raw = c.Rest()
					return out, false
				}
				out.Trackpad = &ev
			}
		}

		if flags&0x08 != 0 {
			ev, ok := c.ConsumeIMUSample()
			if !ok {
				out.LighthouseV1Raw = c.Rest()
				return out, false
			}
			out.IMU = &ev
		}
	}

	out.LighthouseV1Raw = c.Rest()
	return out, true
}
