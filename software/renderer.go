// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"github.com/gogpu/xform"
)

// ErrNotCleared is returned by Draw when no frame has been started with Clear.
var ErrNotCleared = errors.New("software: draw before clear")

// Renderer is a CPU Binder. It keeps a mesh in the shape's local frame and
// rasterizes it into an *image.RGBA sized to the last cleared viewport.
//
// Each Draw runs the vertex stage on the CPU: vertices are multiplied by the
// uploaded matrix into normalized device coordinates, mapped back to pixels
// and filled triangle by triangle with golang.org/x/image/vector.
type Renderer struct {
	mesh   xform.Mesh
	img    *image.RGBA
	raster *vector.Rasterizer
	vp     xform.Viewport

	// triangles drawn by the last Draw, after culling degenerate ones.
	lastDrawn int
}

var _ xform.Binder = (*Renderer)(nil)

// New creates a renderer for mesh.
func New(mesh xform.Mesh) (*Renderer, error) {
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("software: %w", err)
	}
	return &Renderer{mesh: mesh}, nil
}

// Clear resizes the target image to vp if needed and fills it with c.
func (r *Renderer) Clear(vp xform.Viewport, c xform.RGBA) error {
	if !vp.Valid() {
		return fmt.Errorf("software: invalid viewport %dx%d", vp.Width, vp.Height)
	}
	if r.img == nil || r.vp != vp {
		r.img = image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
		if r.raster == nil {
			r.raster = vector.NewRasterizer(vp.Width, vp.Height)
		}
		r.vp = vp
		xform.Logger().Debug("software: target resized", "width", vp.Width, "height", vp.Height)
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c.Color()), image.Point{}, draw.Src)
	return nil
}

// Draw transforms the mesh by m and fills it into the current frame.
// Triangles with non-finite or collinear vertices are skipped.
func (r *Renderer) Draw(m xform.Matrix) error {
	if r.img == nil {
		return ErrNotCleared
	}

	w, h := float64(r.vp.Width), float64(r.vp.Height)
	pos := r.mesh.Positions
	r.lastDrawn = 0
	for i := 0; i+2 < len(pos); i += 3 {
		var tri [3][2]float32
		for k := range 3 {
			ndc := m.TransformPoint(pos[i+k])
			px := xform.NDCToPixel(ndc, w, h)
			tri[k] = [2]float32{float32(px.X), float32(px.Y)}
		}
		if !drawable(tri) {
			continue
		}
		r.fill(tri, r.mesh.Colors[i])
		r.lastDrawn++
	}
	return nil
}

func (r *Renderer) fill(tri [3][2]float32, c xform.RGBA) {
	r.raster.Reset(r.vp.Width, r.vp.Height)
	r.raster.DrawOp = draw.Over
	r.raster.MoveTo(tri[0][0], tri[0][1])
	r.raster.LineTo(tri[1][0], tri[1][1])
	r.raster.LineTo(tri[2][0], tri[2][1])
	r.raster.ClosePath()
	r.raster.Draw(r.img, r.img.Bounds(), image.NewUniform(c.Color()), image.Point{})
}

// maxCoord bounds pixel coordinates handed to the rasterizer, whose edge
// walk is linear in the distance to the target.
const maxCoord = 1 << 16

// drawable reports whether a pixel-space triangle has finite, in-range
// coordinates and a non-zero area.
func drawable(tri [3][2]float32) bool {
	for _, v := range tri {
		for _, c := range v {
			if math32.IsNaN(c) || math32.IsInf(c, 0) || math32.Abs(c) > maxCoord {
				return false
			}
		}
	}
	area := (tri[1][0]-tri[0][0])*(tri[2][1]-tri[0][1]) -
		(tri[2][0]-tri[0][0])*(tri[1][1]-tri[0][1])
	return math32.Abs(area) > 1e-6
}

// Image returns the current frame. The image is reused across frames and
// replaced when the viewport size changes.
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

// Triangles returns the number of triangles filled by the last Draw.
func (r *Renderer) Triangles() int {
	return r.lastDrawn
}

// Close releases the frame buffer.
func (r *Renderer) Close() error {
	r.img = nil
	r.raster = nil
	return nil
}
