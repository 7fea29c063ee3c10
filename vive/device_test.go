package vive

import (
	"testing"
	"time"
)

func TestBaseDevice_LifecycleTransitionsAndIdempotentDestroy(t *testing.T) {
	b := newBaseDevice(nil)
	if b.shouldExit() {
		t.Fatal("new device already signals exit")
	}

	b.start()
	if b.shouldExit() {
		t.Fatal("running device signals exit")
	}

	if err := b.destroy(); err != nil {
		t.Fatalf("destroy() = %v, want nil", err)
	}
	if !b.shouldExit() {
		t.Fatal("destroyed device does not signal exit")
	}

	// Idempotent: a second destroy() must not panic on the closed channel.
	if err := b.destroy(); err != nil {
		t.Fatalf("second destroy() = %v, want nil", err)
	}
}

func TestBaseDevice_DestroyUnblocksReader(t *testing.T) {
	b := newBaseDevice(nil)
	b.start()

	done := make(chan struct{})
	go func() {
		for !b.shouldExit() {
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	b.destroy()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine did not observe exit flag")
	}
}

func TestSharedContext_BindUnbindTracksCount(t *testing.T) {
	ctx := NewSharedContext()
	b1 := newBaseDevice(ctx)
	b2 := newBaseDevice(ctx)

	b1.start()
	if got := ctx.BoundCount(); got != 1 {
		t.Fatalf("BoundCount after first bind = %d, want 1", got)
	}

	b2.start()
	if got := ctx.BoundCount(); got != 2 {
		t.Fatalf("BoundCount after second bind = %d, want 2", got)
	}

	b1.destroy()
	if got := ctx.BoundCount(); got != 1 {
		t.Fatalf("BoundCount after first unbind = %d, want 1", got)
	}

	b2.destroy()
	if got := ctx.BoundCount(); got != 0 {
		t.Fatalf("BoundCount after last unbind = %d, want 0", got)
	}
}
