package watchman

import "vive-lighthouse-xr-go/variant"

// ButtonBit is one bit position in the 6-bit decoded button mask
// (spec.md §4.7 table). Semantics of bits 2, 4 and 5 differ between
// the Vive Wand and Index controller families.
type ButtonBit uint8

const (
	BitTriggerClick ButtonBit = 1 << iota
	BitTrackpadTouch
	BitSecondaryClick // Trackpad-click (Vive Wand) / Thumbstick-click (Index)
	BitSystemClick
	BitPrimaryFaceClick // Squeeze-click (Vive Wand) / A-click (Index)
	BitSecondaryFaceClick // Menu-click (Vive Wand) / B-click (Index)
)

// ButtonName returns the variant-appropriate name for bit, per the
// spec.md §4.7 table.
func ButtonName(v variant.Controller, bit ButtonBit) string {
	index := v.IsIndexKnuckles()
	switch bit {
	case BitTriggerClick:
		return "trigger_click"
	case BitTrackpadTouch:
		return "trackpad_touch"
	case BitSecondaryClick:
		if index {
			return "thumbstick_click"
		}
		return "trackpad_click"
	case BitSystemClick:
		return "system_click"
	case BitPrimaryFaceClick:
		if index {
			return "a_click"
		}
		return "squeeze_click"
	case BitSecondaryFaceClick:
		if index {
			return "b_click"
		}
		return "menu_click"
	default:
		return "unknown"
	}
}

var allButtonBits = []ButtonBit{
	BitTriggerClick, BitTrackpadTouch, BitSecondaryClick,
	BitSystemClick, BitPrimaryFaceClick, BitSecondaryFaceClick,
}

// DiffButtons compares cur to prev and emits one InputUpdate per
// changed bit, timestamped with timestampNS (spec.md §4.7, §5).
func DiffButtons(prev, cur uint8, v variant.Controller, timestampNS uint64) []InputUpdate {
	var updates []InputUpdate
	for _, bit := range allButtonBits {
		wasSet := prev&uint8(bit) != 0
		isSet := cur&uint8(bit) != 0
		if wasSet != isSet {
			updates = append(updates, InputUpdate{
				Name:        ButtonName(v, bit),
				Value:       isSet,
				TimestampNS: timestampNS,
			})
		}
	}
	return updates
}
