// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/xform"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func testMesh() xform.Mesh {
	return xform.TriangleMesh(xform.RGB(1, 0.5, 0))
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func TestCompileShader(t *testing.T) {
	words, err := CompileShader(TransformShaderSource())
	if err != nil {
		t.Fatalf("CompileShader failed: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("expected non-empty SPIR-V")
	}
	const spirvMagic = 0x07230203
	if words[0] != spirvMagic {
		t.Errorf("first word = %#x, want SPIR-V magic %#x", words[0], spirvMagic)
	}
}

func TestCompileShaderInvalid(t *testing.T) {
	_, err := CompileShader("fn broken( {")
	if !errors.Is(err, xform.ErrProgram) {
		t.Fatalf("expected ErrProgram, got %v", err)
	}
}

func TestMakeUniform(t *testing.T) {
	m := xform.Compose(xform.Viewport{Width: 400, Height: 300}, xform.DefaultState())
	buf := makeUniform(m)
	if len(buf) != uniformSize {
		t.Fatalf("uniform size = %d, want %d", len(buf), uniformSize)
	}

	// Column c, row r lives at c*16 + r*4.
	for c := range 3 {
		for r := range 3 {
			got := readFloat32(buf[c*16+r*4:])
			want := float32(m[r*3+c])
			if got != want {
				t.Errorf("col %d row %d = %v, want %v", c, r, got, want)
			}
		}
		if pad := readFloat32(buf[c*16+12:]); pad != 0 {
			t.Errorf("col %d padding = %v, want 0", c, pad)
		}
	}
}

func TestBuildVertices(t *testing.T) {
	red := xform.RGB(1, 0, 0)
	mesh := xform.Mesh{
		Positions: []xform.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}},
		Colors:    []xform.RGBA{red, xform.RGB(0, 1, 0), xform.RGB(0, 0, 1)},
	}
	buf := buildVertices(mesh)
	if len(buf) != 3*vertexStride {
		t.Fatalf("vertex data = %d bytes, want %d", len(buf), 3*vertexStride)
	}

	for i, p := range mesh.Positions {
		off := i * vertexStride
		if x, y := readFloat32(buf[off:]), readFloat32(buf[off+4:]); x != float32(p.X) || y != float32(p.Y) {
			t.Errorf("vertex %d position = (%v, %v), want (%v, %v)", i, x, y, p.X, p.Y)
		}
		// Triangles are filled with their first vertex color.
		if r, g := readFloat32(buf[off+8:]), readFloat32(buf[off+12:]); r != 1 || g != 0 {
			t.Errorf("vertex %d color = (%v, %v, ...), want red", i, r, g)
		}
	}
}

func TestBuildVerticesPremultiplied(t *testing.T) {
	half := xform.RGBA{R: 1, G: 1, B: 1, A: 0.5}
	mesh := xform.TriangleMesh(half)
	buf := buildVertices(mesh)
	if r, a := readFloat32(buf[8:]), readFloat32(buf[20:]); r != 0.5 || a != 0.5 {
		t.Errorf("premultiplied color = (r=%v, a=%v), want (0.5, 0.5)", r, a)
	}
}

func TestUnpackRows(t *testing.T) {
	// Two rows of 3 bytes, padded to 4 in the source and 5 in the destination.
	src := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	dst := make([]byte, 10)
	unpackRows(dst, 5, src, 4, 3, 2)

	want := []byte{1, 2, 3, 0, 0, 4, 5, 6, 0, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestNewNilDevice(t *testing.T) {
	_, err := New(nil, nil, testMesh())
	if !errors.Is(err, xform.ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
}

func TestNewInvalidMesh(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	_, err := New(device, queue, xform.Mesh{Positions: []xform.Point{{}}})
	if err == nil {
		t.Fatal("expected error for invalid mesh")
	}
}

func TestRendererCreation(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	if r.pipeline == nil {
		t.Error("expected pipeline to be created")
	}
	if r.vertBuf == nil || r.uniformBuf == nil || r.bindGroup == nil {
		t.Error("expected buffers and bind group to be created")
	}
	if r.vertCount != 3 {
		t.Errorf("vertCount = %d, want 3", r.vertCount)
	}
	if r.Image() != nil {
		t.Error("expected nil image before first Clear")
	}
}

func TestRendererDrawBeforeClear(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	if err := r.Draw(xform.Identity()); !errors.Is(err, ErrNotCleared) {
		t.Fatalf("expected ErrNotCleared, got %v", err)
	}
}

func TestRendererFrame(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	vp := xform.Viewport{Width: 400, Height: 300}
	if err := r.Clear(vp, xform.RGB(0, 0, 0)); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := r.Draw(xform.Compose(vp, xform.DefaultState())); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	img := r.Image()
	if img == nil {
		t.Fatal("expected image after Draw")
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("image size = %dx%d, want 400x300", b.Dx(), b.Dy())
	}
	if r.clear.A != 1 {
		t.Errorf("clear alpha = %v, want 1", r.clear.A)
	}
}

func TestRendererResize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	if err := r.Clear(xform.Viewport{Width: 100, Height: 100}, xform.Transparent); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	first := r.target

	// Same size keeps the target.
	if err := r.Clear(xform.Viewport{Width: 100, Height: 100}, xform.Transparent); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if r.target != first {
		t.Error("expected target to be reused for the same size")
	}

	if err := r.Clear(xform.Viewport{Width: 300, Height: 50}, xform.Transparent); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if w, h := r.Size(); w != 300 || h != 50 {
		t.Errorf("Size() = (%d, %d), want (300, 50)", w, h)
	}
	if err := r.Draw(xform.Identity()); err != nil {
		t.Fatalf("Draw after resize failed: %v", err)
	}
	if b := r.Image().Bounds(); b.Dx() != 300 || b.Dy() != 50 {
		t.Errorf("image size = %dx%d, want 300x50", b.Dx(), b.Dy())
	}
}

func TestRendererInvalidViewport(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	if err := r.Clear(xform.Viewport{}, xform.Transparent); err == nil {
		t.Fatal("expected error for empty viewport")
	}
}

func TestRendererClose(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := r.Clear(xform.Viewport{Width: 10, Height: 10}, xform.Transparent); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if r.pipeline != nil || r.target != nil {
		t.Error("expected resources released after Close")
	}
	// Double close is safe.
	if err := r.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if err := r.Clear(xform.Viewport{Width: 10, Height: 10}, xform.Transparent); !errors.Is(err, ErrClosed) {
		t.Errorf("Clear after Close = %v, want ErrClosed", err)
	}
	if err := r.Draw(xform.Identity()); !errors.Is(err, ErrClosed) {
		t.Errorf("Draw after Close = %v, want ErrClosed", err)
	}
}

func TestRendererWithDriver(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, testMesh())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	d := xform.NewDriver(xform.StaticSurface{Width: 400, Height: 300}, r, xform.DefaultState())
	if err := d.Redraw(); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	if err := d.Update(xform.FieldAngle, 90); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := d.Stats().Drawn; got != 2 {
		t.Errorf("Drawn = %d, want 2", got)
	}
}

// mockProvider implements gpucontext.DeviceProvider without HAL accessors.
type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return nil }
func (mockProvider) Queue() gpucontext.Queue               { return nil }
func (mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// halProvider additionally exposes a HAL device and queue.
type halProvider struct {
	mockProvider
	device hal.Device
	queue  hal.Queue
}

func (p halProvider) HalDevice() any { return p.device }
func (p halProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  bool
	}{
		{"nil", nil, true},
		{"no hal accessors", mockProvider{}, true},
		{"nil hal device", halProvider{queue: queue}, true},
		{"shared device", halProvider{device: device, queue: queue}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFromProvider(tt.provider, testMesh())
			if tt.wantErr {
				if !errors.Is(err, xform.ErrNoContext) {
					t.Fatalf("expected ErrNoContext, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFromProvider failed: %v", err)
			}
			if r.ownsDevice {
				t.Error("shared renderer must not own the device")
			}
			_ = r.Close()
		})
	}
}
