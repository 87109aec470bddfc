// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xform"
)

const (
	// vertexStride is the byte size of one vertex: position (float32x2)
	// followed by color (float32x4).
	vertexStride = 24

	// uniformSize is the byte size of the matrix uniform: three columns,
	// each padded to a vec4.
	uniformSize = 48

	// copyPitchAlignment is the row alignment required for texture-to-buffer
	// copies.
	copyPitchAlignment = 256

	// frameTimeout bounds the wait for a submitted frame.
	frameTimeout = 5 * time.Second
)

// targetFormat is the color format of the offscreen render target. It
// matches the byte order of image.RGBA so readback needs no swizzle.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

var (
	// ErrNotCleared is returned by Draw when no frame has been started with Clear.
	ErrNotCleared = errors.New("gpu: draw before clear")

	// ErrClosed is returned when a renderer is used after Close.
	ErrClosed = errors.New("gpu: renderer closed")
)

// Renderer is a Binder backed by a wgpu HAL device.
//
// The pipeline, vertex buffer, uniform buffer and bind group are created
// once. The render target is recreated when the viewport size changes.
// Renderer is safe for concurrent use, although the Driver already
// serializes calls.
type Renderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	// Set only when the renderer opened its own device.
	instance   hal.Instance
	ownsDevice bool

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	vertBuf    hal.Buffer
	vertCount  uint32
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	target     hal.Texture
	targetView hal.TextureView
	vp         xform.Viewport
	clear      gputypes.Color

	img    *image.RGBA
	closed bool
}

var _ xform.Binder = (*Renderer)(nil)

// New creates a renderer for mesh on an existing device and queue. The
// renderer does not take ownership of the device.
func New(device hal.Device, queue hal.Queue, mesh xform.Mesh) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: nil device or queue", xform.ErrNoContext)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}

	r := &Renderer{device: device, queue: queue}
	if err := r.createPipeline(); err != nil {
		r.destroy()
		return nil, err
	}
	if err := r.createBuffers(mesh); err != nil {
		r.destroy()
		return nil, err
	}
	return r, nil
}

// createPipeline compiles the transform shader and builds the render
// pipeline and its layouts.
func (r *Renderer) createPipeline() error {
	spirv, err := CompileShader(transformShaderSource)
	if err != nil {
		return err
	}
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "xform_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("%w: create shader module: %w", xform.ErrProgram, err)
	}
	r.shader = shader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "xform_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "xform_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "xform_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: vertexEntry,
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: fragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create render pipeline: %w", xform.ErrProgram, err)
	}
	r.pipeline = pipeline
	return nil
}

// createBuffers uploads the mesh and allocates the uniform buffer and its
// bind group.
func (r *Renderer) createBuffers(mesh xform.Mesh) error {
	vertexData := buildVertices(mesh)
	vertBuf, err := r.createAndUploadBuffer("xform_verts", vertexData,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.vertBuf = vertBuf
	r.vertCount = uint32(mesh.VertexCount()) //nolint:gosec // mesh size fits uint32

	uniformBuf, err := r.createAndUploadBuffer("xform_uniform", makeUniform(xform.Identity()),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.uniformBuf = uniformBuf

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "xform_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Clear starts a frame of size vp filled with c. The clear itself is
// performed by the load operation of the next Draw's render pass.
func (r *Renderer) Clear(vp xform.Viewport, c xform.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if !vp.Valid() {
		return fmt.Errorf("gpu: invalid viewport %dx%d", vp.Width, vp.Height)
	}
	if err := r.ensureTarget(vp); err != nil {
		return err
	}
	p := c.Premultiply()
	r.clear = gputypes.Color{R: p.R, G: p.G, B: p.B, A: p.A}
	return nil
}

// ensureTarget creates or recreates the render target if vp differs from
// the current size.
func (r *Renderer) ensureTarget(vp xform.Viewport) error {
	if r.target != nil && r.vp == vp {
		return nil
	}
	r.destroyTarget()

	w, h := uint32(vp.Width), uint32(vp.Height) //nolint:gosec // viewport validated positive
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "xform_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	r.target = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "xform_target_view",
	})
	if err != nil {
		r.destroyTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	r.targetView = view
	r.vp = vp
	r.img = image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	xform.Logger().Debug("gpu: target resized", "width", vp.Width, "height", vp.Height)
	return nil
}

// Draw uploads m, draws the mesh into the current frame and reads the
// result back into Image.
func (r *Renderer) Draw(m xform.Matrix) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.target == nil {
		return ErrNotCleared
	}

	r.queue.WriteBuffer(r.uniformBuf, 0, makeUniform(m))
	return r.encodeSubmitReadback()
}

// encodeSubmitReadback encodes the render pass, copies the target to a
// staging buffer, submits, waits and unpacks the pixels into r.img.
func (r *Renderer) encodeSubmitReadback() error {
	w, h := uint32(r.vp.Width), uint32(r.vp.Height) //nolint:gosec // viewport validated positive

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "xform_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("xform_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "xform_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.clear,
		}},
	})
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.vertBuf, 0)
	rp.Draw(r.vertCount, 1, 0, 0)
	rp.End()

	// CopyTextureToBuffer requires the copy-source layout.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "xform_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(r.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, frameTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackRows(r.img.Pix, r.img.Stride, readback, int(alignedBytesPerRow), int(bytesPerRow), int(h))
	return nil
}

// unpackRows copies rows of rowBytes from a src with srcStride padding into
// dst with dstStride.
func unpackRows(dst []byte, dstStride int, src []byte, srcStride, rowBytes, rows int) {
	for row := range rows {
		s := row * srcStride
		d := row * dstStride
		copy(dst[d:d+rowBytes], src[s:s+rowBytes])
	}
}

// Image returns the last frame read back from the GPU, or nil before the
// first Clear.
func (r *Renderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img
}

// Size returns the current render target size.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vp.Width, r.vp.Height
}

// Close releases all GPU resources. If the renderer opened its own device,
// the device and instance are destroyed too. Close is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.destroy()
	return nil
}

func (r *Renderer) destroy() {
	if r.device == nil {
		return
	}
	r.destroyTarget()
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.vertBuf != nil {
		r.device.DestroyBuffer(r.vertBuf)
		r.vertBuf = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
	if r.ownsDevice {
		r.device.Destroy()
		r.device = nil
		if r.instance != nil {
			r.instance.Destroy()
			r.instance = nil
		}
	}
}

func (r *Renderer) destroyTarget() {
	if r.targetView != nil {
		r.device.DestroyTextureView(r.targetView)
		r.targetView = nil
	}
	if r.target != nil {
		r.device.DestroyTexture(r.target)
		r.target = nil
	}
}

// vertexLayout returns the vertex buffer layout of the transform pipeline.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1}, // color
			},
		},
	}
}

// buildVertices packs mesh positions and premultiplied colors. Every
// vertex of a triangle takes the color of the triangle's first vertex so
// shapes are filled flat, as the software backend does.
func buildVertices(mesh xform.Mesh) []byte {
	buf := make([]byte, len(mesh.Positions)*vertexStride)
	for i, p := range mesh.Positions {
		c := mesh.Colors[i-i%3].Premultiply().Float32()
		off := i * vertexStride
		putFloat32(buf[off:], float32(p.X))
		putFloat32(buf[off+4:], float32(p.Y))
		putFloat32(buf[off+8:], c[0])
		putFloat32(buf[off+12:], c[1])
		putFloat32(buf[off+16:], c[2])
		putFloat32(buf[off+20:], c[3])
	}
	return buf
}

// makeUniform encodes m as three vec4 columns.
func makeUniform(m xform.Matrix) []byte {
	cm := m.ColumnMajor()
	buf := make([]byte, uniformSize)
	for col := range 3 {
		off := col * 16
		putFloat32(buf[off:], cm[col*3])
		putFloat32(buf[off+4:], cm[col*3+1])
		putFloat32(buf[off+8:], cm[col*3+2])
		// Bytes off+12..off+15 are padding.
	}
	return buf
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
