// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend selects the Binder a Driver renders through.
//
// Binder implementations register themselves from init() functions, so
// importing a backend package is enough to make it selectable:
//
//	import (
//		_ "github.com/gogpu/xform/gpu"      // "gpu", priority 100
//		_ "github.com/gogpu/xform/software" // "software", priority 10
//	)
//
// # Selection
//
// New picks the highest-priority backend that reports itself available and
// constructs successfully; NewByName asks for a specific one:
//
//	r, err := backend.New(backend.Options{Mesh: mesh})
//	r, err := backend.NewByName("software", backend.Options{Mesh: mesh})
//
// The returned Renderer is an xform.Binder that also exposes the last
// frame as an *image.RGBA.
package backend
