// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements an xform Binder on top of gogpu/wgpu.
//
// The renderer compiles a small WGSL program once, uploads the mesh into a
// vertex buffer and, on every Draw, writes the composed matrix into a
// 48-byte uniform buffer before issuing a single triangle-list draw into an
// offscreen RGBA8 texture. The frame is read back into an *image.RGBA so it
// can be saved or blitted by the caller.
//
// Importing the package registers the "gpu" backend:
//
//	import _ "github.com/gogpu/xform/gpu"
//
// A renderer can also share a device with a host application through
// NewFromProvider, or own a standalone Vulkan device through Open.
package gpu
