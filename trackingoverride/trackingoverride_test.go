package trackingoverride

import (
	"math"
	"testing"

	"vive-lighthouse-xr-go/geom"
)

func TestCompose_DirectIdentityOffsetEqualsTracker(t *testing.T) {
	// spec.md §8 testable property: Direct with identity offset returns
	// the tracker relation exactly.
	tracker := geom.Pose{Orientation: geom.QuatFromAxisAngle(geom.NewVec3(0, 1, 0), 0.3), Position: geom.NewVec3(1, 2, 3)}
	got := Compose(Direct, geom.IdentityPose, tracker, geom.IdentityPose)
	if got.Position != tracker.Position {
		t.Errorf("Position = %+v, want %+v", got.Position, tracker.Position)
	}
	if got.Orientation != tracker.Orientation {
		t.Errorf("Orientation = %+v, want %+v", got.Orientation, tracker.Orientation)
	}
}

func TestCompose_AttachedWithTranslationOffset(t *testing.T) {
	// spec.md §8 scenario 6: tracker at (identity, (1,2,3)) drives a
	// target at (identity, (0,0,0)) through offset (0, 0.1, 0) ->
	// output position (1, 1.9, 3).
	tracker := geom.Pose{Orientation: geom.IdentityQuat, Position: geom.NewVec3(1, 2, 3)}
	target := geom.IdentityPose
	offset := geom.Pose{Orientation: geom.IdentityQuat, Position: geom.NewVec3(0, 0.1, 0)}

	got := Compose(Attached, offset, tracker, target)
	want := geom.NewVec3(1, 1.9, 3)

	if math.Abs(got.Position.X-want.X) > 1e-9 || math.Abs(got.Position.Y-want.Y) > 1e-9 || math.Abs(got.Position.Z-want.Z) > 1e-9 {
		t.Errorf("Position = %+v, want %+v", got.Position, want)
	}
}
