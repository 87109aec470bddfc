package xform

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const epsilon = 1e-9

var approx = cmpopts.EquateApprox(0, epsilon)

func TestProjectionCorners(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		in, want      Point
	}{
		{"origin", 400, 300, Pt(0, 0), Pt(-1, 1)},
		{"far corner", 400, 300, Pt(400, 300), Pt(1, -1)},
		{"center", 400, 300, Pt(200, 150), Pt(0, 0)},
		{"top right", 400, 300, Pt(400, 0), Pt(1, 1)},
		{"bottom left", 400, 300, Pt(0, 300), Pt(-1, -1)},
		{"square", 1, 1, Pt(0.5, 0.5), Pt(0, 0)},
		{"wide", 1920, 1080, Pt(1920, 1080), Pt(1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Projection(tt.width, tt.height).TransformPoint(tt.in)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Projection(%v, %v) * %v mismatch (-want +got):\n%s", tt.width, tt.height, tt.in, diff)
			}
		})
	}
}

func TestProjectionMatchesNDCToPixel(t *testing.T) {
	p := Projection(640, 480)
	for _, px := range []Point{{0, 0}, {640, 480}, {17, 300}, {639.5, 0.25}} {
		back := NDCToPixel(p.TransformPoint(px), 640, 480)
		if diff := cmp.Diff(px, back, approx); diff != "" {
			t.Errorf("round trip of %v mismatch (-want +got):\n%s", px, diff)
		}
	}
}

func TestTranslateLaw(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix
		tx, ty float64
	}{
		{"identity", Identity(), 10, 20},
		{"scaled", Scaling(2, 3), -4, 5},
		{"rotated", Rotation(0.7), 1.5, -2.5},
		{"projected", Projection(400, 300), 200, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pt(3, -7)
			got := tt.m.Translate(tt.tx, tt.ty).TransformPoint(p)
			want := tt.m.TransformPoint(Pt(p.X+tt.tx, p.Y+tt.ty))
			if diff := cmp.Diff(want, got, approx); diff != "" {
				t.Errorf("Translate law mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	m := Projection(400, 300).Translate(12, 34)
	if diff := cmp.Diff(m, m.Rotate(0), approx); diff != "" {
		t.Errorf("Rotate(0) changed the matrix (-want +got):\n%s", diff)
	}
}

func TestRotateComposes(t *testing.T) {
	angles := []struct{ a, b float64 }{
		{0.3, 0.4},
		{math.Pi / 2, math.Pi / 2},
		{-1, 2.5},
		{3 * math.Pi / 2, math.Pi},
	}
	m := Projection(400, 300).Translate(200, 150)
	for _, tt := range angles {
		got := m.Rotate(tt.a).Rotate(tt.b)
		want := m.Rotate(tt.a + tt.b)
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("Rotate(%v).Rotate(%v) mismatch (-want +got):\n%s", tt.a, tt.b, diff)
		}
	}
}

func TestScaleOneIsNoop(t *testing.T) {
	m := Projection(400, 300).Translate(5, 6).Rotate(1.2)
	if diff := cmp.Diff(m, m.Scale(1, 1), approx); diff != "" {
		t.Errorf("Scale(1, 1) changed the matrix (-want +got):\n%s", diff)
	}
}

func TestScaleMultiplies(t *testing.T) {
	m := Identity().Scale(2, 3).Scale(4, 0.5)
	want := Scaling(8, 1.5)
	if diff := cmp.Diff(want, m, approx); diff != "" {
		t.Errorf("Scale composition mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderDependence(t *testing.T) {
	base := Projection(400, 300)
	trs := base.Translate(100, 0).Rotate(math.Pi / 2)
	rts := base.Rotate(math.Pi/2).Translate(100, 0)
	if trs.ApproxEqual(rts, epsilon) {
		t.Fatal("translate-then-rotate equals rotate-then-translate; order must matter")
	}

	// Rotation applied after translation pivots around the translated
	// origin, so the local origin stays at (100, 0).
	got := NDCToPixel(trs.TransformPoint(Pt(0, 0)), 400, 300)
	if diff := cmp.Diff(Pt(100, 0), got, approx); diff != "" {
		t.Errorf("pivot mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiplyIdentity(t *testing.T) {
	m := Matrix{1, 2, 3, 4, 5, 6, 0, 0, 1}
	if got := m.Multiply(Identity()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
	if got := Identity().Multiply(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
}

func TestMultiplyAssociative(t *testing.T) {
	a := Translation(3, 4)
	b := Rotation(0.5)
	c := Scaling(2, -1)
	left := a.Multiply(b).Multiply(c)
	right := a.Multiply(b.Multiply(c))
	if diff := cmp.Diff(left, right, approx); diff != "" {
		t.Errorf("(ab)c != a(bc) (-left +right):\n%s", diff)
	}
}

func TestMatrixIsValue(t *testing.T) {
	m := Identity()
	_ = m.Translate(1, 2)
	_ = m.Rotate(1)
	_ = m.Scale(3, 4)
	if !m.IsIdentity() {
		t.Errorf("receiver mutated: %v", m)
	}
}

func TestAngleInversion(t *testing.T) {
	tests := []struct {
		control float64
		want    float64
	}{
		{0, 2 * math.Pi},
		{90, 3 * math.Pi / 2},
		{180, math.Pi},
		{270, math.Pi / 2},
		{360, 0},
	}
	for _, tt := range tests {
		got := AngleFromControl(tt.control)
		if math.Abs(got-tt.want) > epsilon {
			t.Errorf("AngleFromControl(%v) = %v, want %v", tt.control, got, tt.want)
		}
		if back := AngleToControl(got); math.Abs(back-tt.control) > epsilon {
			t.Errorf("AngleToControl(%v) = %v, want %v", got, back, tt.control)
		}
	}
}

func TestAngleControlDirection(t *testing.T) {
	// A control value of 90 rotates a point on the local +x axis onto the
	// local -y axis, i.e. up on screen.
	m := Identity().Rotate(AngleFromControl(90))
	got := m.TransformPoint(Pt(1, 0))
	if diff := cmp.Diff(Pt(0, -1), got, approx); diff != "" {
		t.Errorf("rotated point mismatch (-want +got):\n%s", diff)
	}
}

func TestDegenerateScale(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy float64
	}{
		{"zero x", 0, 1},
		{"zero y", 1, 0},
		{"zero both", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultState()
			s.SetScaleX(tt.sx)
			s.SetScaleY(tt.sy)
			m := Compose(Viewport{Width: 400, Height: 300}, s)
			if d := m.LinearDeterminant(); d != 0 {
				t.Errorf("LinearDeterminant() = %v, want 0", d)
			}
			for _, v := range m {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite entry in %v", m)
				}
			}
		})
	}
}

func TestComposeDefaultState(t *testing.T) {
	vp := Viewport{Width: 400, Height: 300}
	m := Compose(vp, DefaultState())

	ndc := m.TransformPoint(Pt(0, 0))
	if diff := cmp.Diff(Pt(0, 0), ndc, approx); diff != "" {
		t.Errorf("origin NDC mismatch (-want +got):\n%s", diff)
	}
	px := NDCToPixel(ndc, 400, 300)
	if diff := cmp.Diff(Pt(200, 150), px, approx); diff != "" {
		t.Errorf("origin pixel mismatch (-want +got):\n%s", diff)
	}

	// Triangle vertices land at their translated pixel positions.
	want := []Point{{200, 50}, {350, 275}, {25, 250}}
	for i, v := range TriangleMesh(RGB(1, 0, 0)).Positions {
		got := NDCToPixel(m.TransformPoint(v), 400, 300)
		if diff := cmp.Diff(want[i], got, approx); diff != "" {
			t.Errorf("vertex %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestComposeOrder(t *testing.T) {
	vp := Viewport{Width: 400, Height: 300}
	s := State{Translation: Pt(120, 80), Angle: 0.9, Scale: Pt(-1.5, 2)}

	want := Projection(400, 300).
		Multiply(Translation(120, 80)).
		Multiply(Rotation(0.9)).
		Multiply(Scaling(-1.5, 2))
	if diff := cmp.Diff(want, Compose(vp, s), approx); diff != "" {
		t.Errorf("Compose mismatch (-want +got):\n%s", diff)
	}

	// Scale first, then rotate, then translate, then project.
	p := Pt(10, 5)
	manual := Pt(p.X*-1.5, p.Y*2)
	sin, cos := math.Sincos(0.9)
	manual = Pt(manual.X*cos-manual.Y*sin, manual.X*sin+manual.Y*cos)
	manual = manual.Add(Pt(120, 80))
	got := NDCToPixel(Compose(vp, s).TransformPoint(p), 400, 300)
	if diff := cmp.Diff(manual, got, approx); diff != "" {
		t.Errorf("point mismatch (-want +got):\n%s", diff)
	}
}

func TestInvert(t *testing.T) {
	m := Compose(Viewport{Width: 400, Height: 300}, State{Translation: Pt(30, 40), Angle: 1, Scale: Pt(2, -3)})
	got := m.Multiply(m.Invert())
	if diff := cmp.Diff(Identity(), got, approx); diff != "" {
		t.Errorf("m * m^-1 mismatch (-want +got):\n%s", diff)
	}

	singular := Scaling(0, 1)
	if !singular.Invert().IsIdentity() {
		t.Error("Invert() of a singular matrix should return identity")
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translation(100, 200).Scale(2, 3)
	got := m.TransformVector(Pt(1, 1))
	if got != Pt(2, 3) {
		t.Errorf("TransformVector = %v, want (2, 3)", got)
	}
}

func TestColumnMajor(t *testing.T) {
	m := Matrix{1, 2, 3, 4, 5, 6, 7, 8, 9}
	want := [9]float32{1, 4, 7, 2, 5, 8, 3, 6, 9}
	if got := m.ColumnMajor(); got != want {
		t.Errorf("ColumnMajor() = %v, want %v", got, want)
	}
}

func BenchmarkCompose(b *testing.B) {
	vp := Viewport{Width: 400, Height: 300}
	s := DefaultState()
	b.ReportAllocs()
	for b.Loop() {
		_ = Compose(vp, s)
	}
}
