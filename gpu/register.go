// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/xform/backend"
)

func init() {
	backend.Register(backend.GPU, backend.PriorityGPU, newBackend, Available)
}

func newBackend(opts backend.Options) (backend.Renderer, error) {
	return Open(opts.Mesh)
}
