// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan HAL backend

	"github.com/gogpu/xform"
)

// NewFromProvider creates a renderer on the device shared by a host
// application such as a gogpu window. The provider must expose the HAL
// types through HalDevice() any and HalQueue() any.
func NewFromProvider(provider gpucontext.DeviceProvider, mesh xform.Mesh) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: nil provider", xform.ErrNoContext)
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", xform.ErrNoContext)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", xform.ErrNoContext)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", xform.ErrNoContext)
	}
	return New(device, queue, mesh)
}

// Open creates a renderer on a standalone Vulkan device. Discrete and
// integrated adapters are preferred over software ones. The device is
// destroyed by Close.
func Open(mesh xform.Mesh) (*Renderer, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", xform.ErrNoContext)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", xform.ErrNoContext, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", xform.ErrNoContext)
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", xform.ErrNoContext, err)
	}

	r, err := New(openDev.Device, openDev.Queue, mesh)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	r.instance = instance
	r.ownsDevice = true
	xform.Logger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return r, nil
}

// selectAdapter returns the first discrete or integrated adapter, falling
// back to the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// Available reports whether a Vulkan HAL backend is registered.
func Available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}
