package xform

import (
	"fmt"
	"math/rand/v2"
)

// Mesh is a triangle list in the shape's local frame. Colors holds one
// color per vertex; binders fill each triangle with the color of its first
// vertex.
type Mesh struct {
	Positions []Point
	Colors    []RGBA
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int { return len(m.Positions) }

// Validate checks that the mesh is a non-empty triangle list with one color
// per vertex.
func (m Mesh) Validate() error {
	n := len(m.Positions)
	switch {
	case n == 0:
		return fmt.Errorf("xform: empty mesh")
	case n%3 != 0:
		return fmt.Errorf("xform: mesh has %d vertices, not a triangle list", n)
	case len(m.Colors) != n:
		return fmt.Errorf("xform: mesh has %d vertices but %d colors", n, len(m.Colors))
	}
	return nil
}

// TriangleMesh returns the single triangle used by the transform demo,
// filled with c.
func TriangleMesh(c RGBA) Mesh {
	return Mesh{
		Positions: []Point{{0, -100}, {150, 125}, {-175, 100}},
		Colors:    []RGBA{c, c, c},
	}
}

// QuadMesh returns a 300x200 quad centered on the origin, built from two
// triangles filled with c1 and c2.
func QuadMesh(c1, c2 RGBA) Mesh {
	return Mesh{
		Positions: []Point{
			{-150, -100}, {150, -100}, {-150, 100},
			{150, -100}, {-150, 100}, {150, 100},
		},
		Colors: []RGBA{c1, c1, c1, c2, c2, c2},
	}
}

// RandomQuadMesh returns QuadMesh with two opaque colors drawn from seed.
func RandomQuadMesh(seed uint64) Mesh {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	c1 := RGB(rng.Float64(), rng.Float64(), rng.Float64())
	c2 := RGB(rng.Float64(), rng.Float64(), rng.Float64())
	return QuadMesh(c1, c2)
}

// RectangleMesh returns an axis-aligned rectangle with its top-left corner
// at (x, y), filled with c.
func RectangleMesh(x, y, width, height float64, c RGBA) Mesh {
	x1, x2 := x, x+width
	y1, y2 := y, y+height
	pos := []Point{
		{x1, y1}, {x2, y1}, {x1, y2},
		{x1, y2}, {x2, y1}, {x2, y2},
	}
	colors := make([]RGBA, len(pos))
	for i := range colors {
		colors[i] = c
	}
	return Mesh{Positions: pos, Colors: colors}
}
