// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// The renderer RECEIVES the device from the host, it does NOT create one.
// NewGPURenderer type-asserts Device() to hal.Device and Queue() to
// hal.Queue.
type DeviceHandle = gpucontext.DeviceProvider

// HALDeviceHandle adapts an opened HAL device and queue to DeviceHandle.
type HALDeviceHandle struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	info   gpucontext.AdapterInfo
}

// NewHALDeviceHandle wraps device and queue. format is reported as the
// surface format.
func NewHALDeviceHandle(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *HALDeviceHandle {
	return &HALDeviceHandle{
		device: device,
		queue:  queue,
		format: format,
		info:   gpucontext.AdapterInfo{Name: "hal", Type: gpucontext.AdapterTypeUnknown},
	}
}

// Device returns the hal.Device.
func (h *HALDeviceHandle) Device() gpucontext.Device { return h.device }

// Queue returns the hal.Queue.
func (h *HALDeviceHandle) Queue() gpucontext.Queue { return h.queue }

// Adapter returns nil; the adapter is not retained once the device is open.
func (h *HALDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the format given at construction.
func (h *HALDeviceHandle) SurfaceFormat() gputypes.TextureFormat { return h.format }

// AdapterInfo returns a generic description.
func (h *HALDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return h.info }

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo returns an empty description.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

func halFromHandle(h DeviceHandle) (hal.Device, hal.Queue, bool) {
	if h == nil {
		return nil, nil, false
	}
	device, ok := h.Device().(hal.Device)
	if !ok || device == nil {
		return nil, nil, false
	}
	queue, ok := h.Queue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, false
	}
	return device, queue, true
}

// Ensure the handles implement DeviceHandle.
var (
	_ DeviceHandle = (*HALDeviceHandle)(nil)
	_ DeviceHandle = NullDeviceHandle{}
)
