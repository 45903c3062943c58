// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggui"
	"github.com/gogpu/ggui/drawbuf"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/texture"
)

// vertexStride is the byte stride per vertex.
// Layout per vertex:
//
//	position (vec2<f32>)   = 8 bytes (location 0)
//	uv       (vec2<f32>)   = 8 bytes (location 1)
//	color    (unorm8x4)    = 4 bytes (location 2)
//
// Total = 20 bytes per vertex.
const vertexStride = 20

// uniformSize is the byte size of both the viewport and the per-texture
// parameter uniforms.
const uniformSize = 16

// shapeSize is the byte size of the Shape uniform in draw.wgsl.
// shapeStride spaces per-draw Shape entries at the dynamic offset
// alignment guaranteed by the default limits.
const (
	shapeSize   = 32
	shapeStride = 256
)

// GPUConfig configures a GPURenderer.
type GPUConfig struct {
	// Format is the color format of every target the renderer draws into.
	// Default: BGRA8Unorm
	Format gputypes.TextureFormat

	// InitialVertices is the initial vertex buffer capacity.
	// Default: 4096
	InitialVertices int

	// InitialIndices is the initial index buffer capacity.
	// Default: 6144
	InitialIndices int

	// Clear, when non-nil, clears the target before drawing.
	Clear *geom.RGBA8
}

// DefaultGPUConfig returns default configuration.
func DefaultGPUConfig() GPUConfig {
	return GPUConfig{
		Format:          gputypes.TextureFormatBGRA8Unorm,
		InitialVertices: 4096,
		InitialIndices:  6144,
	}
}

// gpuTexture owns a sampled texture and the bind group that exposes it.
type gpuTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	params hal.Buffer
	bind   hal.BindGroup
	w, h   int
	bpp    int
}

// gpuDraw is one DrawIndexed call after merging adjacent commands.
type gpuDraw struct {
	tex        *gpuTexture
	scissor    [4]uint32
	shape      uint32
	first      uint32
	count      uint32
	baseVertex int32
}

// GPURenderer draws draw lists with a single WebGPU render pipeline.
//
// All layers of a frame are uploaded into one vertex buffer and one index
// buffer. Each command becomes a scissored DrawIndexed; consecutive
// commands that share texture, scissor and corner mask and have adjacent
// index ranges are merged into one call. Corner masks live in a per-frame
// uniform buffer selected with a dynamic offset.
type GPURenderer struct {
	handle DeviceHandle
	device hal.Device
	queue  hal.Queue
	cfg    GPUConfig

	shader         hal.ShaderModule
	viewportLayout hal.BindGroupLayout
	textureLayout  hal.BindGroupLayout
	shapeLayout    hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	pipeline       hal.RenderPipeline
	sampler        hal.Sampler

	viewportBuf  hal.Buffer
	viewportBind hal.BindGroup
	viewport     [2]float32

	shapeBuf  hal.Buffer
	shapeCap  uint64
	shapeBind hal.BindGroup

	vertBuf hal.Buffer
	vertCap uint64
	idxBuf  hal.Buffer
	idxCap  uint64

	textures map[texture.Handle]*gpuTexture
	external map[uint32]*gpuTexture
	white    *gpuTexture

	vertexData []byte
	indexData  []byte
	shapeData  []byte
	draws      []gpuDraw
	inFlight   []hal.CommandBuffer

	stats Stats
}

// NewGPURenderer creates a renderer on the device shared by the host.
//
// The DeviceHandle must expose a hal.Device and hal.Queue. The renderer
// does NOT create its own GPU device.
func NewGPURenderer(handle DeviceHandle, cfg GPUConfig) (*GPURenderer, error) {
	device, queue, ok := halFromHandle(handle)
	if !ok {
		return nil, ErrNilDevice
	}
	def := DefaultGPUConfig()
	if cfg.Format == gputypes.TextureFormatUndefined {
		cfg.Format = def.Format
	}
	if cfg.InitialVertices <= 0 {
		cfg.InitialVertices = def.InitialVertices
	}
	if cfg.InitialIndices <= 0 {
		cfg.InitialIndices = def.InitialIndices
	}

	r := &GPURenderer{
		handle:   handle,
		device:   device,
		queue:    queue,
		cfg:      cfg,
		textures: make(map[texture.Handle]*gpuTexture),
		external: make(map[uint32]*gpuTexture),
	}
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *GPURenderer) init() error {
	spirv, err := drawShaderSPIRV()
	if err != nil {
		return err
	}
	r.shader, err = r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ggui_draw_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("render: create shader module: %w", err)
	}

	// Group 0: viewport uniform (vertex).
	r.viewportLayout, err = r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ggui_viewport_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("render: create viewport layout: %w", err)
	}

	// Group 1: texture, sampler, texture parameters (fragment).
	r.textureLayout, err = r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ggui_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("render: create texture layout: %w", err)
	}

	// Group 2: rounded-rect mask (fragment), one entry per draw.
	r.shapeLayout, err = r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ggui_shape_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   shapeSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("render: create shape layout: %w", err)
	}

	r.pipeLayout, err = r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ggui_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.viewportLayout, r.textureLayout, r.shapeLayout},
	})
	if err != nil {
		return fmt.Errorf("render: create pipeline layout: %w", err)
	}

	// Nearest filtering: glyph quads are placed on whole pixels.
	r.sampler, err = r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "ggui_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("render: create sampler: %w", err)
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	r.pipeline, err = r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "ggui_draw_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    drawVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.cfg.Format,
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
		return fmt.Errorf("render: create pipeline: %w", err)
	}

	r.viewportBuf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ggui_viewport",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create viewport buffer: %w", err)
	}
	r.viewportBind, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "ggui_viewport_bind",
		Layout: r.viewportLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.viewportBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("render: create viewport bind group: %w", err)
	}

	if err := r.ensureBuffer(&r.vertBuf, &r.vertCap, uint64(r.cfg.InitialVertices)*vertexStride,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, "ggui_vertices"); err != nil {
		return err
	}
	if err := r.ensureBuffer(&r.idxBuf, &r.idxCap, uint64(r.cfg.InitialIndices)*4,
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst, "ggui_indices"); err != nil {
		return err
	}

	if err := r.ensureShapes(shapeStride); err != nil {
		return err
	}

	r.white, err = r.createTexture("ggui_white", texture.Desc{
		Format: gputypes.TextureFormatRGBA8Unorm, Width: 1, Height: 1,
	})
	if err != nil {
		return err
	}
	return r.writeTexture(r.white, texture.Region{W: 1, H: 1}, []byte{0xFF, 0xFF, 0xFF, 0xFF})
}

// drawVertexLayout returns the vertex buffer layout matching VertexInput
// in draw.wgsl.
func drawVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// ensureBuffer grows *buf to hold at least size bytes, doubling capacity.
func (r *GPURenderer) ensureBuffer(buf *hal.Buffer, capacity *uint64, size uint64, usage gputypes.BufferUsage, label string) error {
	if *buf != nil && *capacity >= size {
		return nil
	}
	newCap := max(*capacity, 256)
	for newCap < size {
		newCap *= 2
	}
	b, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  newCap,
		Usage: usage,
	})
	if err != nil {
		return fmt.Errorf("render: create %s buffer (%d bytes): %w", label, newCap, err)
	}
	if *buf != nil {
		r.device.DestroyBuffer(*buf)
	}
	*buf, *capacity = b, newCap
	return nil
}

// ensureShapes grows the mask buffer to size bytes and rebuilds its bind
// group when the buffer is replaced.
func (r *GPURenderer) ensureShapes(size int) error {
	prev := r.shapeCap
	if err := r.ensureBuffer(&r.shapeBuf, &r.shapeCap, uint64(size), //nolint:gosec // size is non-negative
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst, "ggui_shapes"); err != nil {
		return err
	}
	if r.shapeBind != nil && r.shapeCap == prev {
		return nil
	}
	if r.shapeBind != nil {
		r.device.DestroyBindGroup(r.shapeBind)
		r.shapeBind = nil
	}
	bind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "ggui_shape_bind",
		Layout: r.shapeLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: r.shapeBuf.NativeHandle(), Size: shapeSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("render: create shape bind group: %w", err)
	}
	r.shapeBind = bind
	return nil
}

// appendShape appends one Shape uniform padded to shapeStride and returns
// its offset. The first entry of every frame is the disabled mask.
func (r *GPURenderer) appendShape(rr drawbuf.RoundedRect, enabled float32) uint32 {
	off := uint32(len(r.shapeData)) //nolint:gosec // bounded by draw count
	r.shapeData = appendFloats(r.shapeData,
		rr.Center.X, rr.Center.Y, rr.HalfSize.X, rr.HalfSize.Y, rr.Radius, enabled, 0, 0)
	r.shapeData = append(r.shapeData, make([]byte, shapeStride-shapeSize)...)
	return off
}

func (r *GPURenderer) createTexture(label string, desc texture.Desc) (*gpuTexture, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("render: create texture %q: %w", label, err)
	}
	t := &gpuTexture{w: desc.Width, h: desc.Height, bpp: texture.BytesPerPixel(desc.Format)}

	var err error
	t.tex, err = r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1}, //nolint:gosec // validated positive
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create texture %q: %w", label, err)
	}
	t.view, err = r.device.CreateTextureView(t.tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.destroyTexture(t)
		return nil, fmt.Errorf("render: create texture view %q: %w", label, err)
	}
	t.params, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_params",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.destroyTexture(t)
		return nil, fmt.Errorf("render: create texture params %q: %w", label, err)
	}
	var alphaOnly float32
	if t.bpp == 1 {
		alphaOnly = 1
	}
	if err := r.queue.WriteBuffer(t.params, 0, appendFloats(nil, alphaOnly, 0, 0, 0)); err != nil {
		r.destroyTexture(t)
		return nil, fmt.Errorf("render: write texture params %q: %w", label, err)
	}
	t.bind, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: r.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: t.params.NativeHandle(), Size: uniformSize}},
		},
	})
	if err != nil {
		r.destroyTexture(t)
		return nil, fmt.Errorf("render: create texture bind group %q: %w", label, err)
	}
	return t, nil
}

func (r *GPURenderer) writeTexture(t *gpuTexture, reg texture.Region, data []byte) error {
	if !reg.Within(t.w, t.h) {
		return fmt.Errorf("render: %v outside %dx%d texture", reg, t.w, t.h)
	}
	if reg.W == 0 || reg.H == 0 {
		return nil
	}
	//nolint:gosec // region validated against texture size
	err := r.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(reg.X), Y: uint32(reg.Y)},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(reg.W * t.bpp),
			RowsPerImage: uint32(reg.H),
		},
		&hal.Extent3D{Width: uint32(reg.W), Height: uint32(reg.H), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("render: write texture: %w", err)
	}
	r.stats.Uploads++
	r.stats.UploadBytes += uint64(len(data))
	return nil
}

func (r *GPURenderer) destroyTexture(t *gpuTexture) {
	if t == nil {
		return
	}
	if t.bind != nil {
		r.device.DestroyBindGroup(t.bind)
	}
	if t.params != nil {
		r.device.DestroyBuffer(t.params)
	}
	if t.view != nil {
		r.device.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		r.device.DestroyTexture(t.tex)
	}
}

// Sync applies every pending texture command from src.
func (r *GPURenderer) Sync(src TextureSource) error {
	err := drainTextures(src, r.apply)
	r.stats.Textures = len(r.textures)
	return err
}

func (r *GPURenderer) apply(cmd texture.Command) error {
	switch cmd.Kind {
	case texture.CommandCreate:
		t, err := r.createTexture(fmt.Sprintf("ggui_texture_%d", cmd.Handle), cmd.Desc)
		if err != nil {
			return err
		}
		r.textures[cmd.Handle] = t
	case texture.CommandUpdate:
		t, ok := r.textures[cmd.Handle]
		if !ok {
			return fmt.Errorf("render: update texture %d: %w", cmd.Handle, texture.ErrUnknownHandle)
		}
		return r.writeTexture(t, cmd.Region, cmd.Data)
	case texture.CommandDestroy:
		t, ok := r.textures[cmd.Handle]
		if !ok {
			return fmt.Errorf("render: destroy texture %d: %w", cmd.Handle, texture.ErrUnknownHandle)
		}
		r.destroyTexture(t)
		delete(r.textures, cmd.Handle)
	default:
		return fmt.Errorf("render: unknown texture command %v", cmd.Kind)
	}
	return nil
}

// RegisterExternal uploads img as the texture for texture.External(id),
// replacing any previous registration.
func (r *GPURenderer) RegisterExternal(id uint32, img image.Image) error {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	t, err := r.createTexture(fmt.Sprintf("ggui_external_%d", id), texture.Desc{
		Format: gputypes.TextureFormatRGBA8Unorm, Width: b.Dx(), Height: b.Dy(),
	})
	if err != nil {
		return err
	}
	if err := r.writeTexture(t, texture.Region{W: b.Dx(), H: b.Dy()}, dst.Pix); err != nil {
		r.destroyTexture(t)
		return err
	}
	r.destroyTexture(r.external[id])
	r.external[id] = t
	return nil
}

// UnregisterExternal releases the external texture id.
func (r *GPURenderer) UnregisterExternal(id uint32) {
	r.destroyTexture(r.external[id])
	delete(r.external, id)
}

func (r *GPURenderer) lookup(ref texture.Ref) (*gpuTexture, error) {
	switch ref.Kind {
	case texture.KindNone:
		return r.white, nil
	case texture.KindInternal:
		if t, ok := r.textures[texture.Handle(ref.ID)]; ok {
			return t, nil
		}
	case texture.KindExternal:
		if t, ok := r.external[ref.ID]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("render: %v: %w", ref, texture.ErrUnknownHandle)
}

// scissorFor converts a command's clip into a pixel scissor covering the
// pixels whose centers lie inside the clip. It reports false when no
// pixel does.
func scissorFor(cmd drawbuf.Command, w, h int) ([4]uint32, bool) {
	clip := geom.R(0, 0, float32(w), float32(h))
	if cmd.HasClip {
		clip = clip.Intersect(cmd.Clip)
	}
	x0 := min(max(int(math32.Ceil(clip.Min.X-0.5)), 0), w)
	y0 := min(max(int(math32.Ceil(clip.Min.Y-0.5)), 0), h)
	x1 := min(max(int(math32.Ceil(clip.Max.X-0.5)), 0), w)
	y1 := min(max(int(math32.Ceil(clip.Max.Y-0.5)), 0), h)
	if x1 <= x0 || y1 <= y0 {
		return [4]uint32{}, false
	}
	//nolint:gosec // clamped to target size
	return [4]uint32{uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)}, true
}

func appendFloats(buf []byte, vs ...float32) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math32.Float32bits(v))
	}
	return buf
}

func appendVertex(buf []byte, v drawbuf.Vertex) []byte {
	buf = appendFloats(buf, v.Pos.X, v.Pos.Y, v.UV.X, v.UV.Y)
	return append(buf, v.Color.R, v.Color.G, v.Color.B, v.Color.A)
}

// prepare serializes every layer and builds the merged draw list.
func (r *GPURenderer) prepare(w, h int, layers []*drawbuf.Data) error {
	r.vertexData = r.vertexData[:0]
	r.indexData = r.indexData[:0]
	r.draws = r.draws[:0]
	r.shapeData = r.shapeData[:0]
	r.appendShape(drawbuf.RoundedRect{}, 0)

	var baseIndex uint32
	var baseVertex int32
	for _, d := range layers {
		if d == nil {
			continue
		}
		for _, v := range d.Vertices {
			r.vertexData = appendVertex(r.vertexData, v)
		}
		for _, idx := range d.Indices {
			r.indexData = binary.LittleEndian.AppendUint32(r.indexData, idx)
		}
		for _, cmd := range d.Commands {
			r.stats.Commands++
			scissor, ok := scissorFor(cmd, w, h)
			if !ok {
				r.stats.Culled++
				continue
			}
			t, err := r.lookup(cmd.Texture)
			if err != nil {
				return err
			}
			var shape uint32
			if rr, ok := cmd.RoundedRect(); ok {
				shape = r.appendShape(rr, 1)
			}
			next := gpuDraw{
				tex:        t,
				scissor:    scissor,
				shape:      shape,
				first:      baseIndex + cmd.First,
				count:      cmd.Count,
				baseVertex: baseVertex,
			}
			if n := len(r.draws); n > 0 {
				last := &r.draws[n-1]
				if last.tex == next.tex && last.scissor == next.scissor && last.shape == next.shape &&
					last.baseVertex == next.baseVertex && last.first+last.count == next.first {
					last.count += next.count
					continue
				}
			}
			r.draws = append(r.draws, next)
		}
		baseIndex += uint32(len(d.Indices))  //nolint:gosec // index count fits uint32
		baseVertex += int32(len(d.Vertices)) //nolint:gosec // vertex count fits int32
	}
	return nil
}

// Render records one render pass drawing the layers into the target's
// texture view and submits it.
func (r *GPURenderer) Render(target RenderTarget, layers ...*drawbuf.Data) error {
	if target == nil {
		return ErrNilTarget
	}
	view := target.TextureView()
	if view == nil {
		return ErrNotGPUTarget
	}
	w, h := target.Width(), target.Height()
	if err := r.prepare(w, h, layers); err != nil {
		return err
	}
	r.stats.Frames++
	if len(r.draws) == 0 && r.cfg.Clear == nil {
		return nil
	}

	if vp := [2]float32{float32(w), float32(h)}; vp != r.viewport {
		if err := r.queue.WriteBuffer(r.viewportBuf, 0, appendFloats(nil, vp[0], vp[1], 0, 0)); err != nil {
			return fmt.Errorf("render: write viewport: %w", err)
		}
		r.viewport = vp
	}
	if len(r.draws) > 0 {
		if err := r.ensureBuffer(&r.vertBuf, &r.vertCap, uint64(len(r.vertexData)),
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, "ggui_vertices"); err != nil {
			return err
		}
		if err := r.ensureBuffer(&r.idxBuf, &r.idxCap, uint64(len(r.indexData)),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst, "ggui_indices"); err != nil {
			return err
		}
		if err := r.queue.WriteBuffer(r.vertBuf, 0, r.vertexData); err != nil {
			return fmt.Errorf("render: write vertices: %w", err)
		}
		if err := r.queue.WriteBuffer(r.idxBuf, 0, r.indexData); err != nil {
			return fmt.Errorf("render: write indices: %w", err)
		}
		if err := r.ensureShapes(len(r.shapeData)); err != nil {
			return err
		}
		if err := r.queue.WriteBuffer(r.shapeBuf, 0, r.shapeData); err != nil {
			return fmt.Errorf("render: write shapes: %w", err)
		}
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "ggui_encoder",
	})
	if err != nil {
		return fmt.Errorf("render: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ggui_frame"); err != nil {
		return fmt.Errorf("render: begin encoding: %w", err)
	}

	attachment := hal.RenderPassColorAttachment{
		View:    view,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if c := r.cfg.Clear; c != nil {
		attachment.LoadOp = gputypes.LoadOpClear
		a := float64(c.A) / 255
		attachment.ClearValue = gputypes.Color{
			R: float64(c.R) / 255 * a,
			G: float64(c.G) / 255 * a,
			B: float64(c.B) / 255 * a,
			A: a,
		}
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "ggui_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{attachment},
	})
	if len(r.draws) > 0 {
		rp.SetPipeline(r.pipeline)
		rp.SetBindGroup(0, r.viewportBind, nil)
		rp.SetVertexBuffer(0, r.vertBuf, 0)
		rp.SetIndexBuffer(r.idxBuf, gputypes.IndexFormatUint32, 0)
		for _, d := range r.draws {
			rp.SetBindGroup(1, d.tex.bind, nil)
			rp.SetBindGroup(2, r.shapeBind, []uint32{d.shape})
			rp.SetScissorRect(d.scissor[0], d.scissor[1], d.scissor[2], d.scissor[3])
			rp.DrawIndexed(d.count, 1, d.first, d.baseVertex, 0)
			r.stats.Batches++
			r.stats.Triangles += uint64(d.count / 3)
		}
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end encoding: %w", err)
	}
	if _, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("render: submit: %w", err)
	}
	r.inFlight = append(r.inFlight, cmdBuf)
	ggui.Logger().Debug("gpu render", "draws", len(r.draws), "stats", r.stats)
	return nil
}

// Flush waits for the device to go idle and releases submitted command
// buffers.
func (r *GPURenderer) Flush() error {
	if len(r.inFlight) == 0 {
		return nil
	}
	if err := r.device.WaitIdle(); err != nil {
		return fmt.Errorf("render: wait idle: %w", err)
	}
	for _, cb := range r.inFlight {
		r.device.FreeCommandBuffer(cb)
	}
	r.inFlight = r.inFlight[:0]
	return nil
}

// Stats returns counters accumulated since creation.
func (r *GPURenderer) Stats() Stats {
	return r.stats
}

// Capabilities returns the renderer's capabilities.
func (r *GPURenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:                    true,
		SupportsExternalTextures: true,
		MaxTextureSize:           8192,
	}
}

// DeviceHandle returns the underlying device handle.
func (r *GPURenderer) DeviceHandle() DeviceHandle {
	return r.handle
}

// Destroy waits for outstanding work and releases every GPU resource.
// Safe to call on a partially initialized renderer.
func (r *GPURenderer) Destroy() {
	if r.device == nil {
		return
	}
	if err := r.Flush(); err != nil {
		ggui.Logger().Warn("gpu renderer flush on destroy", "err", err)
	}
	for h, t := range r.textures {
		r.destroyTexture(t)
		delete(r.textures, h)
	}
	for id, t := range r.external {
		r.destroyTexture(t)
		delete(r.external, id)
	}
	r.destroyTexture(r.white)
	r.white = nil
	if r.shapeBind != nil {
		r.device.DestroyBindGroup(r.shapeBind)
		r.shapeBind = nil
	}
	for _, b := range []*hal.Buffer{&r.vertBuf, &r.idxBuf, &r.viewportBuf, &r.shapeBuf} {
		if *b != nil {
			r.device.DestroyBuffer(*b)
			*b = nil
		}
	}
	if r.viewportBind != nil {
		r.device.DestroyBindGroup(r.viewportBind)
		r.viewportBind = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.textureLayout != nil {
		r.device.DestroyBindGroupLayout(r.textureLayout)
		r.textureLayout = nil
	}
	if r.shapeLayout != nil {
		r.device.DestroyBindGroupLayout(r.shapeLayout)
		r.shapeLayout = nil
	}
	if r.viewportLayout != nil {
		r.device.DestroyBindGroupLayout(r.viewportLayout)
		r.viewportLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

// Ensure GPURenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*GPURenderer)(nil)
	_ CapableRenderer = (*GPURenderer)(nil)
)
