// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements a CPU xform.Binder.
//
// The renderer emulates the vertex stage on the CPU and fills triangles
// with golang.org/x/image/vector into an *image.RGBA. It is always
// available and registers itself with the backend package as "software".
package software
