// Package hidio is the HID transport shim (spec.md §4.1, C1): blocking
// read, feature get/set, and open-by-interface over the OS HID stack.
// It is deliberately thin — callers hold no reference to the underlying
// hid.Device, only to a *Handle, so Close() can always race a blocked
// Read() safely (spec.md §5's cancellation contract).
package hidio

import (
	"fmt"
	"sync"
	"time"

	libusb "github.com/gotmc/libusb/v2"
	hid "github.com/sstallion/go-hid"

	"vive-lighthouse-xr-go/viveerr"
)

// ProbeDevice names the USB endpoint to open.
type ProbeDevice struct {
	VID uint16
	PID uint16
	// Path, if set, opens this exact HID device path instead of VID/PID
	// matching (disambiguates multiple identical devices).
	Path string
}

// Handle wraps an open HID device. All methods are safe to call from
// one reader goroutine plus concurrent Close() from the owning device's
// destroy() path.
type Handle struct {
	mu     sync.Mutex
	dev    *hid.Device
	usbCtx *libusb.Context
	usbDev *libusb.DeviceHandle
	closed bool
}

// Open opens the first HID device matching probe's VID/PID (or exact
// Path if set).
func Open(probe ProbeDevice) (*Handle, error) {
	var dev *hid.Device
	var err error

	if probe.Path != "" {
		dev, err = hid.OpenPath(probe.Path)
	} else {
		dev, err = hid.OpenFirst(probe.VID, probe.PID)
	}
	if err != nil {
		return nil, viveerr.New(viveerr.HidIo, "hidio.Open", err)
	}
	return &Handle{dev: dev}, nil
}

// OpenInterface opens probe and additionally claims the given composite
// USB interface index via libusb, for endpoints (the lighthouse FPGA
// sensors interface, the watchman dongle) that share a VID/PID across
// several interfaces on one physical device and so cannot be
// disambiguated by hidapi's path/serial-only Open calls alone.
func OpenInterface(probe ProbeDevice, interfaceIndex int) (*Handle, error) {
	h, err := Open(probe)
	if err != nil {
		return nil, err
	}

	ctx, err := libusb.NewContext()
	if err != nil {
		// Not fatal: the HID layer above can still read/write the
		// endpoint; interface claiming is only needed to silence a
		// competing kernel driver on some platforms.
		return h, nil
	}

	devs, err := ctx.DeviceList()
	if err != nil {
		ctx.Close()
		return h, nil
	}

	for _, d := range devs {
		desc, err := d.DeviceDescriptor()
		if err != nil || desc.VendorID != probe.VID || desc.ProductID != probe.PID {
			continue
		}
		usbHandle, err := d.Open()
		if err != nil {
			continue
		}
		if err := usbHandle.SetAutoDetachKernelDriver(true); err != nil {
			usbHandle.Close()
			continue
		}
		if err := usbHandle.ClaimInterface(interfaceIndex); err != nil {
			usbHandle.Close()
			continue
		}
		h.usbCtx = ctx
		h.usbDev = usbHandle
		return h, nil
	}

	ctx.Close()
	return h, nil
}

// GetFeatureReport fetches the feature report identified by reportID
// into buf, returning the number of bytes read.
func (h *Handle) GetFeatureReport(reportID byte, buf []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, viveerr.New(viveerr.HidIo, "hidio.GetFeatureReport", fmt.Errorf("handle closed"))
	}
	buf[0] = reportID
	n, err := h.dev.GetFeatureReport(buf)
	if err != nil {
		return 0, viveerr.New(viveerr.HidIo, "hidio.GetFeatureReport", err)
	}
	return n, nil
}

// SetFeatureReport writes buf (buf[0] must be the report ID) as a
// feature report.
func (h *Handle) SetFeatureReport(buf []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return viveerr.New(viveerr.HidIo, "hidio.SetFeatureReport", fmt.Errorf("handle closed"))
	}
	if _, err := h.dev.SendFeatureReport(buf); err != nil {
		return viveerr.New(viveerr.HidIo, "hidio.SetFeatureReport", err)
	}
	return nil
}

// Write sends buf as an output report.
func (h *Handle) Write(buf []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return viveerr.New(viveerr.HidIo, "hidio.Write", fmt.Errorf("handle closed"))
	}
	if _, err := h.dev.Write(buf); err != nil {
		return viveerr.New(viveerr.HidIo, "hidio.Write", err)
	}
	return nil
}

// Read performs one blocking read with the given timeout. A timeout
// returns (0, nil) — not an error, per spec.md §4.1 — so reader loops
// can distinguish "nothing arrived" from a real transport failure.
func (h *Handle) Read(buf []byte, timeout time.Duration) (int, error) {
	h.mu.Lock()
	dev := h.dev
	closed := h.closed
	h.mu.Unlock()

	if closed || dev == nil {
		return 0, viveerr.New(viveerr.HidIo, "hidio.Read", fmt.Errorf("handle closed"))
	}

	n, err := dev.ReadWithTimeout(buf, timeout)
	if err != nil {
		return 0, viveerr.New(viveerr.HidIo, "hidio.Read", err)
	}
	if n == 0 {
		return 0, nil
	}
	return n, nil
}

// Close closes the HID (and, if claimed, the libusb) handle. It is
// idempotent and is the mechanism by which a blocked Read() in another
// goroutine is interrupted (spec.md §4.1, §5).
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	var firstErr error
	if h.usbDev != nil {
		if err := h.usbDev.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if h.usbCtx != nil {
		if err := h.usbCtx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if h.dev != nil {
		if err := h.dev.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Enumerate lists unique HID device paths matching vid/pid, mirroring
// the teacher's dedup-by-path EnumerateDevices helper.
func Enumerate(vid, pid uint16) ([]*hid.DeviceInfo, error) {
	var devices []*hid.DeviceInfo
	seen := make(map[string]struct{})
	err := hid.Enumerate(vid, pid, func(info *hid.DeviceInfo) error {
		if _, ok := seen[info.Path]; !ok {
			seen[info.Path] = struct{}{}
			devices = append(devices, info)
		}
		return nil
	})
	if err != nil {
		return nil, viveerr.New(viveerr.HidIo, "hidio.Enumerate", err)
	}
	return devices, nil
}
