// Package vive implements the device state machines (C8, spec.md
// §4.8): three device kinds — HMD, controller, tracker — sharing a
// common Created→Running→Stopping→Destroyed lifecycle, a
// relation-history-backed pose query, and a dedicated reader goroutine
// per opened HID endpoint (spec.md §5). It is the point where
// hidio, calib, imu, mainboard, lighthouse and watchman are wired
// together into one per-device pipeline.
package vive

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/hidio"
	"vive-lighthouse-xr-go/relation"
	"vive-lighthouse-xr-go/viveerr"
	"vive-lighthouse-xr-go/watchman"
)

// lifecycleState is the C8 device state machine (spec.md §4.8).
type lifecycleState int

const (
	stateCreated lifecycleState = iota
	stateRunning
	stateStopping
	stateDestroyed
)

// EyeRelation selects which eye a view-pose/distortion query targets
// (spec.md §4.8 get_view_pose/compute_distortion).
type EyeRelation int

const (
	EyeLeft EyeRelation = iota
	EyeRight
)

// HandJointSet is the controller-only hand-tracking output (spec.md
// §4.8 get_hand_tracking). Non-goals exclude ML hand-pose inference
// (spec.md §1), so this is limited to the raw per-finger curl the
// watchman touch-force block actually provides.
type HandJointSet struct {
	IndexCurl, MiddleCurl, RingCurl, LittleCurl float64
	Squeeze                                     float64
}

// Device is the capability set common to HMDs, controllers and
// trackers (spec.md §4.8). Operations scoped to one device kind are
// no-ops (or return InvalidInputName) on the others; see each type's
// implementation.
type Device interface {
	GetTrackedPose(inputName string, targetTimeNS int64) (relation.Relation, error)
	UpdateInputs()
	SetOutput(outputName string, vibration watchman.HapticCommand) error
	GetHandTracking(inputName string, targetTimeNS int64) (HandJointSet, error)
	GetViewPose(eye EyeRelation, viewIndex int) geom.Pose
	ComputeDistortion(viewIndex int, u, v float64) (uvR, uvG, uvB [2]float64)
	Destroy() error
}

// baseDevice is the lifecycle/concurrency shape embedded by all three
// device kinds (spec.md §4.8, §5): one mutex guarding lifecycle state,
// one waitgroup joined at destroy, one relation history with its own
// internal mutex (spec.md §4.9), and an exit channel every reader
// goroutine re-checks after each HID read timeout.
type baseDevice struct {
	id uuid.UUID

	mu        sync.Mutex
	state     lifecycleState
	waitgroup sync.WaitGroup
	exit      chan struct{}

	handles []*hidio.Handle

	history *relation.History

	ctx *SharedContext
}

func newBaseDevice(ctx *SharedContext) baseDevice {
	return baseDevice{
		id:      uuid.New(),
		exit:    make(chan struct{}),
		history: relation.NewHistory(relation.DefaultCapacity),
		ctx:     ctx,
	}
}

// ID returns the opaque tracked-object handle this device is keyed by
// in its SharedContext (spec.md §5, §9).
func (b *baseDevice) ID() uuid.UUID { return b.id }

// start transitions Created→Running (spec.md §4.8: "at end of
// vive_device_create, after reader threads start"). Callers launch
// every reader goroutine, register handles via addHandle, then call
// start.
func (b *baseDevice) start() {
	b.mu.Lock()
	b.state = stateRunning
	b.mu.Unlock()
	if b.ctx != nil {
		b.ctx.bind(b.id)
	}
}

func (b *baseDevice) addHandle(h *hidio.Handle) {
	b.mu.Lock()
	b.handles = append(b.handles, h)
	b.mu.Unlock()
}

// destroy transitions Running→Stopping→Destroyed (spec.md §4.8):
// closing every HID handle unblocks any reader goroutine parked in a
// blocking Read, then the call joins the waitgroup before declaring
// the device Destroyed. Idempotent.
func (b *baseDevice) destroy() error {
	b.mu.Lock()
	if b.state == stateStopping || b.state == stateDestroyed {
		b.mu.Unlock()
		return nil
	}
	b.state = stateStopping
	close(b.exit)
	handles := b.handles
	b.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	b.waitgroup.Wait()

	b.mu.Lock()
	b.state = stateDestroyed
	b.mu.Unlock()

	if b.ctx != nil {
		b.ctx.unbind(b.id)
	}
	return firstErr
}

// shouldExit reports whether destroy() has been called; reader
// goroutines poll this after every HID read timeout (spec.md §5).
func (b *baseDevice) shouldExit() bool {
	select {
	case <-b.exit:
		return true
	default:
		return false
	}
}

func (b *baseDevice) getTrackedPose(targetTimeNS int64) relation.Relation {
	return b.history.Get(targetTimeNS)
}

func nowNS() int64 { return time.Now().UnixNano() }

func invalidInputName(op, name string) error {
	return viveerr.New(viveerr.InvalidInputName, op, fmt.Errorf("unknown input name %q", name))
}
