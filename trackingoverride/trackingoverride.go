// Package trackingoverride implements the tracking-override composer
// (C10, spec.md §4.10): wraps a target device so its reported pose is
// driven by a tracker device's pose, either directly or as a rigidly
// attached accessory.
package trackingoverride

import "vive-lighthouse-xr-go/geom"

// Mode selects how the tracker's pose drives the composed output
// (spec.md §4.10).
type Mode int

const (
	// Direct: output = inverse(offset) ∘ tracker.
	Direct Mode = iota
	// Attached: output = target ∘ inverse(offset) ∘ tracker ∘ identity.
	Attached
)

// Compose returns the relation driven by tracker (and, in Attached
// mode, target) through offset, per spec.md §4.10's two modes.
func Compose(mode Mode, offset, tracker, target geom.Pose) geom.Pose {
	driven := offset.Inverse().Compose(tracker)
	if mode == Direct {
		return driven
	}
	return target.Compose(driven)
}
