package vive

import (
	"sync"

	"github.com/google/uuid"
)

// SharedContext is the libsurvive-style shared context (spec.md §5,
// §9): one HMD plus every controller/tracker bound to it shares one
// context, keyed by each device's opaque uuid handle, so a future
// event source (e.g. base-station sync events) can be routed to the
// device it targets without every device polling it independently.
// Event dequeuing happens on one dedicated goroutine per context,
// started when the first device binds and stopped when the last
// device unbinds.
type SharedContext struct {
	mu      sync.Mutex
	devices map[uuid.UUID]struct{}

	dequeueExit chan struct{}
	dequeueDone chan struct{}
}

// NewSharedContext returns an empty, unstarted context.
func NewSharedContext() *SharedContext {
	return &SharedContext{devices: make(map[uuid.UUID]struct{})}
}

func (c *SharedContext) bind(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.devices) == 0 {
		c.dequeueExit = make(chan struct{})
		c.dequeueDone = make(chan struct{})
		go c.dequeueLoop(c.dequeueExit, c.dequeueDone)
	}
	c.devices[id] = struct{}{}
}

func (c *SharedContext) unbind(id uuid.UUID) {
	c.mu.Lock()
	delete(c.devices, id)
	empty := len(c.devices) == 0
	exit := c.dequeueExit
	done := c.dequeueDone
	c.mu.Unlock()

	if empty && exit != nil {
		close(exit)
		<-done
	}
}

// dequeueLoop is the one dedicated goroutine that would drain a shared
// hardware event queue and route each event to the device it targets
// by uuid (spec.md §5). This runtime has no lower-level event source
// of its own (mainboard/lighthouse/watchman each own their HID
// endpoint directly), so the loop's only job today is to park until
// the context is torn down; it exists as the wiring point a future
// shared-bus event source would attach to.
func (c *SharedContext) dequeueLoop(exit, done chan struct{}) {
	defer close(done)
	<-exit
}

// BoundCount reports how many devices are currently bound, for tests
// and diagnostics.
func (c *SharedContext) BoundCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.devices)
}
