package watchman

import "vive-lighthouse-xr-go/variant"

// InputState is the per-device controller input state from spec.md
// §3: trackpad xy, trigger, current+previous button and touch
// bitmasks (for edge detection), finger-proximity bytes, squeeze- and
// trackpad-force, charging flag, battery percentage, and a
// last-update timestamp.
type InputState struct {
	TrackpadX, TrackpadY float64
	Trigger              float64

	Buttons, PrevButtons uint8
	Touch, PrevTouch     uint8

	FingerIndex, FingerMiddle, FingerRing, FingerLittle byte
	SqueezeForce, TrackpadForce                         byte

	Charging       bool
	BatteryPercent int

	LastUpdateNS uint64
}

// touchBits is the subset of the button bitmask that represents
// capacitive touch (as opposed to click) state; the wire grammar
// carries no separate touch event, so touch state is derived from the
// same decoded button byte (spec.md §4.7 names only "Trackpad-touch"
// as a touch-class bit in its table).
const touchBits = uint8(BitTrackpadTouch)

// ApplyButtons updates s's button/touch bitmasks from a newly decoded
// button byte and returns the edge-triggered updates (spec.md §4.7,
// §5). PrevButtons/PrevTouch are rotated in.
func (s *InputState) ApplyButtons(raw uint8, v variant.Controller, timestampNS uint64) []InputUpdate {
	updates := DiffButtons(s.Buttons, raw, v, timestampNS)
	s.PrevButtons = s.Buttons
	s.Buttons = raw
	s.PrevTouch = s.Touch
	s.Touch = raw & touchBits
	s.LastUpdateNS = timestampNS
	return updates
}

// ApplyTrigger stores a newly decoded trigger byte as [0,1].
func (s *InputState) ApplyTrigger(raw uint8, timestampNS uint64) {
	s.Trigger = float64(raw) / 255
	s.LastUpdateNS = timestampNS
}

// ApplyTrackpad stores a newly decoded trackpad position.
func (s *InputState) ApplyTrackpad(ev TrackpadEvent, timestampNS uint64) {
	s.TrackpadX, s.TrackpadY = ev.X, ev.Y
	s.LastUpdateNS = timestampNS
}

// ApplyBattery stores a newly decoded battery event.
func (s *InputState) ApplyBattery(ev BatteryEvent, timestampNS uint64) {
	s.Charging = ev.Charging
	s.BatteryPercent = ev.Percent
	s.LastUpdateNS = timestampNS
}

// ApplyTouchForce stores a newly decoded touch-force block.
func (s *InputState) ApplyTouchForce(tf TouchForce, timestampNS uint64) {
	s.FingerIndex = tf.FingerIndex
	s.FingerMiddle = tf.FingerMiddle
	s.FingerRing = tf.FingerRing
	s.FingerLittle = tf.FingerLittle
	s.SqueezeForce = tf.SqueezeForce
	s.TrackpadForce = tf.TrackpadForce
	s.LastUpdateNS = timestampNS
}

// SqueezeValue is the derived analog max(curl_little, curl_ring,
// curl_middle)/255 (spec.md §4.7).
func (s *InputState) SqueezeValue() float64 {
	tf := TouchForce{FingerMiddle: s.FingerMiddle, FingerRing: s.FingerRing, FingerLittle: s.FingerLittle}
	return tf.SqueezeValue()
}
