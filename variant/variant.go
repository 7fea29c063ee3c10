// Package variant models device variant as a tagged sum with per-arm
// constants (axis-remap permutation + sign vector, default IMU ranges),
// replacing the switch-cascade style the original driver uses (spec.md
// §9 DESIGN NOTES).
package variant

import "vive-lighthouse-xr-go/geom"

// HMD is the tagged variant for head-mounted units (spec.md §3).
type HMD int

const (
	HMDUnknown HMD = iota
	HMDVive
	HMDVivePro
	HMDVivePro2
	HMDIndex
)

func (v HMD) String() string {
	switch v {
	case HMDVive:
		return "Vive"
	case HMDVivePro:
		return "Vive Pro"
	case HMDVivePro2:
		return "Vive Pro 2"
	case HMDIndex:
		return "Index"
	default:
		return "Unknown HMD"
	}
}

// HMDFromProductID decides the variant from USB product ID alone, where
// unambiguous, per spec.md §3; PID_VIVE_PRO_LHR (0x2300) is shared by
// Vive Pro, Vive Pro 2 and Index and requires the manufacturer/product
// string tiebreak implemented by HMDFromProductString.
func HMDFromProductID(pid uint16) HMD {
	switch pid {
	case 0x2000:
		return HMDVive
	case 0x2300:
		return HMDVivePro // caller must disambiguate via product string
	default:
		return HMDUnknown
	}
}

// HMDFromProductString resolves the Pro / Pro 2 / Index ambiguity left by
// a shared product ID, matching on the USB product string (spec.md §6.1).
// Per spec.md §9 Open Questions, Vive Pro 2 is treated identically to
// Vive Pro beyond this tag.
func HMDFromProductString(productString string) HMD {
	switch productString {
	case "VIVE Pro LHR", "Vive Pro":
		return HMDVivePro
	case "VIVE Pro 2 LHR":
		return HMDVivePro2
	case "Valve Index", "Index HMD", "LHR":
		return HMDIndex
	default:
		return HMDVivePro
	}
}

// Controller is the tagged variant for hand-held units (spec.md §3),
// decided from the factory JSON's model_number string (spec.md §4.3).
type Controller int

const (
	ControllerUnknown Controller = iota
	ControllerViveWand
	ControllerIndexLeft
	ControllerIndexRight
	ControllerTrackerGen1
	ControllerTrackerGen2
)

func (v Controller) String() string {
	switch v {
	case ControllerViveWand:
		return "Vive Wand"
	case ControllerIndexLeft:
		return "Index Left"
	case ControllerIndexRight:
		return "Index Right"
	case ControllerTrackerGen1:
		return "Vive Tracker (Gen1)"
	case ControllerTrackerGen2:
		return "Vive Tracker (Gen2)"
	default:
		return "Unknown Controller"
	}
}

// IsIndexKnuckles reports whether v is one of the Index controllers
// (shared button-bit semantics, spec.md §4.7 table).
func (v Controller) IsIndexKnuckles() bool {
	return v == ControllerIndexLeft || v == ControllerIndexRight
}

// ControllerFromModelNumber implements the exact-match table in
// spec.md §4.3.
func ControllerFromModelNumber(modelNumber string) Controller {
	switch modelNumber {
	case "Vive. Controller MV":
		return ControllerViveWand
	case "Knuckles Right":
		return ControllerIndexRight
	case "Knuckles Left":
		return ControllerIndexLeft
	case "Vive Tracker PVT":
		return ControllerTrackerGen1
	case "VIVE Tracker Pro MV":
		return ControllerTrackerGen2
	default:
		return ControllerUnknown
	}
}

// AxisRemap is a permutation + sign applied component-wise to a raw
// (x,y,z) sample to reorient it into the device's tracking frame
// (spec.md §4.4, §4.7).
type AxisRemap struct {
	// Perm[i] selects which raw input component feeds output axis i.
	Perm [3]int
	// Sign[i] is the sign applied to output axis i after permutation.
	Sign [3]float64
}

// Apply reorients raw = (x,y,z) per the remap.
func (r AxisRemap) Apply(raw geom.Vec3) geom.Vec3 {
	in := [3]float64{raw.X, raw.Y, raw.Z}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = r.Sign[i] * in[r.Perm[i]]
	}
	return geom.NewVec3(out[0], out[1], out[2])
}

// HMD IMU axis remaps (spec.md §4.4): applied to both accelerometer and
// gyroscope samples alike.
var (
	RemapVive     = AxisRemap{Perm: [3]int{0, 1, 2}, Sign: [3]float64{1, -1, -1}}
	RemapVivePro  = AxisRemap{Perm: [3]int{0, 1, 2}, Sign: [3]float64{-1, 1, -1}}
	RemapIndexHMD = AxisRemap{Perm: [3]int{1, 0, 2}, Sign: [3]float64{-1, -1, -1}}
)

// HMDAxisRemap returns the IMU axis remap for a given HMD variant.
func HMDAxisRemap(v HMD) AxisRemap {
	switch v {
	case HMDVive:
		return RemapVive
	case HMDVivePro, HMDVivePro2:
		return RemapVivePro
	case HMDIndex:
		return RemapIndexHMD
	default:
		return RemapVive
	}
}

// Controller IMU axis remaps (spec.md §4.7), applied post scale/bias.
var (
	RemapViveWand    = AxisRemap{Perm: [3]int{0, 2, 1}, Sign: [3]float64{-1, -1, -1}}
	RemapIndexRight  = AxisRemap{Perm: [3]int{2, 1, 0}, Sign: [3]float64{1, -1, 1}}
	RemapIndexLeft   = AxisRemap{Perm: [3]int{2, 0, 1}, Sign: [3]float64{-1, 1, -1}}
)

// ControllerAxisRemap returns the IMU axis remap for a given controller
// variant. Trackers are not IMU-axis-remapped by spec (no family member
// in §4.7's remap list); they pass through unchanged.
func ControllerAxisRemap(v Controller) AxisRemap {
	switch v {
	case ControllerViveWand:
		return RemapViveWand
	case ControllerIndexRight:
		return RemapIndexRight
	case ControllerIndexLeft:
		return RemapIndexLeft
	default:
		return AxisRemap{Perm: [3]int{0, 1, 2}, Sign: [3]float64{1, 1, 1}}
	}
}

// Default IMU ranges and display geometry applied when config parsing
// failed or a field was absent (spec.md §4.4).
const (
	DefaultGyroRange = 8.726646 // rad/s
	DefaultAccRange  = 39.2266  // m/s^2 (~4g)

	DefaultScreenWidthPx  = 1080
	DefaultScreenHeightPx = 1200

	DefaultDistortionAspect = 0.9
	DefaultDistortionGrow   = 0.5
	DefaultDistortionCutoff = 1.0
)
