// Package xform renders a 2D shape under an interactive affine transform.
//
// # Overview
//
// A State holds a translation (pixels), a rotation (radians) and a per-axis
// scale. Every change to the state produces one redraw: the Driver asks
// the Surface for its size, clears the frame, composes a single 3x3 matrix
// and hands it to a Binder, which uploads it and draws the shape.
//
//	surface := xform.StaticSurface{Width: 400, Height: 300}
//	binder, _ := software.New(xform.TriangleMesh(xform.RGB(1, 0.5, 0)))
//
//	d := xform.NewDriver(surface, binder, xform.DefaultState())
//	_ = d.Redraw()                             // initial frame
//	_ = d.Update(xform.FieldAngle, 90)         // slider event
//	_ = d.Update(xform.FieldScaleX, -1)        // mirror horizontally
//
// # Composition Order
//
// The matrix is always
//
//	Projection(w, h) * Translate(tx, ty) * Rotate(angle) * Scale(sx, sy)
//
// so a local vertex is scaled, then rotated around the shape origin, then
// moved to the translated pixel position and finally projected into
// normalized device coordinates. Changing the order moves the pivot.
//
// # Coordinate System
//
// Device pixels have their origin at the top-left, x increasing right and
// y increasing down. Projection flips y so that (0, 0) maps to (-1, 1) and
// (width, height) maps to (1, -1).
//
// # Angle Control
//
// Angle controls report degrees in [0, 360]. The stored rotation runs in
// the opposite direction: AngleFromControl(c) = (360 - c) * π / 180.
//
// # Backends
//
// Binders live in sub-packages: software rasterizes into an *image.RGBA,
// gpu renders through gogpu/wgpu. The backend package selects one by name
// or priority.
package xform
