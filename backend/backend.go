// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"image"

	"github.com/gogpu/xform"
)

// Standard backend names.
const (
	Software = "software"
	GPU      = "gpu"
)

// Standard priorities (higher = preferred).
const (
	PriorityGPU      = 100
	PrioritySoftware = 10
)

var (
	// ErrNoBackendAvailable is returned when no backend is registered or
	// none is available on the current system.
	ErrNoBackendAvailable = errors.New("backend: no backend available")
)

// Renderer is a Binder whose frames can be read back.
type Renderer interface {
	xform.Binder

	// Image returns the last rendered frame, or nil before the first Clear.
	Image() *image.RGBA

	// Close releases all resources held by the renderer.
	Close() error
}

// Options configure renderer construction.
type Options struct {
	// Mesh is the geometry the renderer draws. It must be a valid triangle
	// list; see xform.Mesh.Validate.
	Mesh xform.Mesh
}

// Factory creates a Renderer. Implementations validate opts and return
// descriptive errors.
type Factory func(opts Options) (Renderer, error)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "backend: not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "backend: unavailable: " + e.Name
}
