// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/gogpu/xform/backend"

func init() {
	backend.Register(backend.Software, backend.PrioritySoftware, func(opts backend.Options) (backend.Renderer, error) {
		return New(opts.Mesh)
	}, nil)
}
