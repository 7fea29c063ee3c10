// Package relation implements the relation history and predictor (C9,
// spec.md §4.9): a fixed-capacity ring of timestamped poses, read by
// interpolating between bracketing entries or extrapolating from the
// newest one via its velocity.
package relation

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/num/quat"

	"vive-lighthouse-xr-go/geom"
)

// Relation is a 6-DoF pose plus its validity/tracked flags and
// velocity (spec.md §3 GLOSSARY).
type Relation struct {
	Pose geom.Pose

	OrientationValid bool
	PositionValid    bool
	Tracked          bool

	LinearVelocity  geom.Vec3
	AngularVelocity geom.Vec3
}

type entry struct {
	timestampNS int64
	relation    Relation
}

// History is the mutex-guarded ring buffer (spec.md §4.9, §5): pushes
// come from one device's IMU reader goroutine, reads from arbitrary
// pose-consumer goroutines.
type History struct {
	mu       sync.Mutex
	entries  []entry
	next     int
	count    int
	capacity int
}

// DefaultCapacity matches spec.md §3's "implementation-chosen, e.g. 32".
const DefaultCapacity = 32

// NewHistory returns an empty history with room for capacity entries.
// capacity <= 0 uses DefaultCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{entries: make([]entry, capacity), capacity: capacity}
}

// Push appends (timestampNS, r). Per spec.md §3, timestamps must be
// non-decreasing across pushes; out-of-order pushes are dropped
// rather than corrupting the bracket search below.
func (h *History) Push(timestampNS int64, r Relation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count > 0 {
		last := h.entries[(h.next-1+h.capacity)%h.capacity]
		if timestampNS < last.timestampNS {
			return
		}
	}

	h.entries[h.next] = entry{timestampNS: timestampNS, relation: r}
	h.next = (h.next + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// newestIdx returns the ring index of the newest entry.
func (h *History) newestIdx() int {
	return (h.next - 1 + h.capacity) % h.capacity
}

// at returns the i-th entry counting back from newest (0 = newest).
func (h *History) at(i int) entry {
	return h.entries[(h.newestIdx()-i+h.capacity)%h.capacity]
}

// Get returns the relation at targetNS: interpolated between the two
// bracketing pushed entries, or extrapolated from the newest entry's
// velocity if targetNS is newer than every push (spec.md §4.9). An
// empty history returns a zero-flagged Relation.
func (h *History) Get(targetNS int64) Relation {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return Relation{}
	}

	newest := h.at(0)
	if targetNS >= newest.timestampNS {
		dt := float64(targetNS-newest.timestampNS) / 1e9
		return extrapolate(newest.relation, dt)
	}

	// Walk newest-to-oldest looking for the pair bracketing targetNS.
	for i := 0; i < h.count-1; i++ {
		newer := h.at(i)
		older := h.at(i + 1)
		if targetNS <= newer.timestampNS && targetNS >= older.timestampNS {
			return interpolate(older, newer, targetNS)
		}
	}

	// targetNS predates every entry: hold the oldest known relation.
	return h.at(h.count - 1).relation
}

func interpolate(older, newer entry, targetNS int64) Relation {
	span := newer.timestampNS - older.timestampNS
	var t float64
	if span > 0 {
		t = float64(targetNS-older.timestampNS) / float64(span)
	}

	return Relation{
		Pose: geom.Pose{
			Orientation: geom.Slerp(older.relation.Pose.Orientation, newer.relation.Pose.Orientation, t),
			Position:    lerp(older.relation.Pose.Position, newer.relation.Pose.Position, t),
		},
		OrientationValid: older.relation.OrientationValid && newer.relation.OrientationValid,
		PositionValid:    older.relation.PositionValid && newer.relation.PositionValid,
		Tracked:          older.relation.Tracked && newer.relation.Tracked,
		LinearVelocity:   lerp(older.relation.LinearVelocity, newer.relation.LinearVelocity, t),
		AngularVelocity:  lerp(older.relation.AngularVelocity, newer.relation.AngularVelocity, t),
	}
}

func extrapolate(r Relation, dtSeconds float64) Relation {
	if dtSeconds <= 0 {
		return r
	}
	pos := geom.Vec3{
		X: r.Pose.Position.X + r.LinearVelocity.X*dtSeconds,
		Y: r.Pose.Position.Y + r.LinearVelocity.Y*dtSeconds,
		Z: r.Pose.Position.Z + r.LinearVelocity.Z*dtSeconds,
	}
	angle := normVec3(r.AngularVelocity) * dtSeconds
	deltaQ := geom.QuatFromAxisAngle(r.AngularVelocity, angle)
	orientation := geom.NormalizeQuat(quat.Mul(deltaQ, r.Pose.Orientation))

	return Relation{
		Pose:             geom.Pose{Orientation: orientation, Position: pos},
		OrientationValid: r.OrientationValid,
		PositionValid:    r.PositionValid,
		Tracked:          r.Tracked,
		LinearVelocity:   r.LinearVelocity,
		AngularVelocity:  r.AngularVelocity,
	}
}

func lerp(a, b geom.Vec3, t float64) geom.Vec3 {
	return geom.Vec3{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
}

func normVec3(v geom.Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
