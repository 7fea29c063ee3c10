package relation

import (
	"math"
	"testing"

	"vive-lighthouse-xr-go/geom"
)

func TestHistory_EmptyReturnsZeroFlagged(t *testing.T) {
	h := NewHistory(4)
	r := h.Get(1000)
	if r.OrientationValid || r.PositionValid || r.Tracked {
		t.Errorf("empty history returned non-zero flags: %+v", r)
	}
}

func TestHistory_GetAtPushTimestampRoundTrips(t *testing.T) {
	h := NewHistory(4)
	pushed := Relation{
		Pose:             geom.Pose{Orientation: geom.IdentityQuat, Position: geom.NewVec3(1, 2, 3)},
		OrientationValid: true,
		PositionValid:    true,
		Tracked:          true,
	}
	h.Push(1000, pushed)

	got := h.Get(1000)
	if got.Pose.Position != pushed.Pose.Position {
		t.Errorf("Position = %+v, want %+v", got.Pose.Position, pushed.Pose.Position)
	}
	if got.Pose.Orientation != pushed.Pose.Orientation {
		t.Errorf("Orientation = %+v, want %+v", got.Pose.Orientation, pushed.Pose.Orientation)
	}
}

func TestHistory_InterpolatesBetweenEntries(t *testing.T) {
	h := NewHistory(4)
	h.Push(0, Relation{
		Pose:             geom.Pose{Orientation: geom.IdentityQuat, Position: geom.NewVec3(0, 0, 0)},
		OrientationValid: true, PositionValid: true,
	})
	h.Push(1000, Relation{
		Pose:             geom.Pose{Orientation: geom.IdentityQuat, Position: geom.NewVec3(10, 0, 0)},
		OrientationValid: true, PositionValid: true,
	})

	got := h.Get(500)
	want := geom.NewVec3(5, 0, 0)
	if math.Abs(got.Pose.Position.X-want.X) > 1e-9 {
		t.Errorf("interpolated X = %v, want %v", got.Pose.Position.X, want.X)
	}
}

func TestHistory_ExtrapolatesPastNewest(t *testing.T) {
	h := NewHistory(4)
	h.Push(0, Relation{
		Pose:            geom.Pose{Orientation: geom.IdentityQuat, Position: geom.NewVec3(0, 0, 0)},
		LinearVelocity:  geom.NewVec3(1, 0, 0), // 1 m/s
		OrientationValid: true, PositionValid: true,
	})

	// 500ms later at 1 m/s -> x = 0.5.
	got := h.Get(500_000_000)
	if math.Abs(got.Pose.Position.X-0.5) > 1e-6 {
		t.Errorf("extrapolated X = %v, want 0.5", got.Pose.Position.X)
	}
}

func TestHistory_ValidityIsANDOfBracketingEntries(t *testing.T) {
	h := NewHistory(4)
	h.Push(0, Relation{Pose: geom.IdentityPose, PositionValid: true, OrientationValid: true})
	h.Push(1000, Relation{Pose: geom.IdentityPose, PositionValid: false, OrientationValid: true})

	got := h.Get(500)
	if got.PositionValid {
		t.Errorf("PositionValid = true, want false (AND of true, false)")
	}
	if !got.OrientationValid {
		t.Errorf("OrientationValid = false, want true (AND of true, true)")
	}
}

func TestHistory_OverwritesOldestWhenFull(t *testing.T) {
	h := NewHistory(2)
	h.Push(0, Relation{Pose: geom.Pose{Position: geom.NewVec3(0, 0, 0)}})
	h.Push(1000, Relation{Pose: geom.Pose{Position: geom.NewVec3(1, 0, 0)}})
	h.Push(2000, Relation{Pose: geom.Pose{Position: geom.NewVec3(2, 0, 0)}}) // overwrites ts=0

	got := h.Get(0) // predates oldest remaining entry (ts=1000)
	if got.Pose.Position.X != 1 {
		t.Errorf("expected oldest-remaining fallback to ts=1000's position, got %+v", got.Pose.Position)
	}
}

func TestHistory_DropsOutOfOrderPush(t *testing.T) {
	h := NewHistory(4)
	h.Push(1000, Relation{Pose: geom.Pose{Position: geom.NewVec3(1, 0, 0)}})
	h.Push(500, Relation{Pose: geom.Pose{Position: geom.NewVec3(99, 0, 0)}}) // out of order, dropped

	got := h.Get(1000)
	if got.Pose.Position.X != 1 {
		t.Errorf("out-of-order push corrupted history: got %+v", got.Pose.Position)
	}
}
