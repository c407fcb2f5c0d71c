package renderer

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass
	clearColor  wgpu.Color

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// programs caches compiled programs by key; pipelines caches render pipelines
	// by program, vertex layout and topology.
	programs  map[string]*wgpuProgram
	pipelines map[string]*wgpu.RenderPipeline

	program *wgpuProgram
	bound   *wgpuVertexDevice
	devices []*wgpuVertexDevice
}

// wgpuProgram is a compiled shader.Program: one module holding both stages, its bind
// group layouts and the camera uniform buffer bound to every declared group.
type wgpuProgram struct {
	program        shader.Program
	module         *wgpu.ShaderModule
	pipelineLayout *wgpu.PipelineLayout
	groupLayouts   []*wgpu.BindGroupLayout
	bindGroups     map[int]*wgpu.BindGroup
	cameraBuffer   *wgpu.Buffer
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor [4]float64) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: clearColor[0], G: clearColor[1], B: clearColor[2], A: clearColor[3]},
		programs:    make(map[string]*wgpuProgram),
		pipelines:   make(map[string]*wgpu.RenderPipeline),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Sandbox Device",
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    b.clearColor,
			},
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) ClipDepth() common.DepthRange {
	return common.DepthZeroToOne
}

func (b *wgpuRendererBackendImpl) NewVertexDevice(label string) buffer.Device {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := &wgpuVertexDevice{backend: b, label: label}
	b.devices = append(b.devices, d)
	return d
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface image still held from the previous frame cannot be acquired twice.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) UseProgram(p shader.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !p.Supports(shader.LanguageWGSL) {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, shader.LanguageWGSL)
	}
	if cached, ok := b.programs[p.Key()]; ok {
		b.program = cached
		return nil
	}

	compiled, err := b.compileProgram(p)
	if err != nil {
		return err
	}
	b.programs[p.Key()] = compiled
	b.program = compiled
	return nil
}

// compileProgram creates the shader module, the bind group layouts declared by the
// program's annotations and the camera uniform buffer. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) compileProgram(p shader.Program) (*wgpuProgram, error) {
	src, err := p.Source(shader.LanguageWGSL, shader.StageVertex)
	if err != nil {
		return nil, err
	}
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: src,
		},
	})
	if err != nil {
		return nil, err
	}

	var uniform camera.GPUCameraUniform
	cameraBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Key() + " Camera Buffer",
		Size:  uint64(uniform.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, decl := range p.Declarations() {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(*decl.Binding),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		}
		if decl.IsUniform() {
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		} else {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
		entry.Buffer.MinBindingSize = uint64(uniform.Size())
		entries[*decl.Group] = append(entries[*decl.Group], entry)
	}

	maxGroup := -1
	for g := range entries {
		if g > maxGroup {
			maxGroup = g
		}
	}
	compiled := &wgpuProgram{
		program:      p,
		module:       module,
		groupLayouts: make([]*wgpu.BindGroupLayout, maxGroup+1),
		bindGroups:   make(map[int]*wgpu.BindGroup, len(entries)),
		cameraBuffer: cameraBuffer,
	}
	for g := range maxGroup + 1 {
		groupEntries := entries[g]
		sort.Slice(groupEntries, func(i, j int) bool { return groupEntries[i].Binding < groupEntries[j].Binding })

		layout, layoutErr := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s Group %d", p.Key(), g),
			Entries: groupEntries,
		})
		if layoutErr != nil {
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		compiled.groupLayouts[g] = layout

		bindEntries := make([]wgpu.BindGroupEntry, len(groupEntries))
		for i, e := range groupEntries {
			bindEntries[i] = wgpu.BindGroupEntry{
				Binding: e.Binding,
				Buffer:  cameraBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
		bindGroup, bgErr := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s Bind Group %d", p.Key(), g),
			Layout:  layout,
			Entries: bindEntries,
		})
		if bgErr != nil {
			return nil, fmt.Errorf("failed to create bind group %d: %w", g, bgErr)
		}
		compiled.bindGroups[g] = bindGroup
	}

	compiled.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Key(),
		BindGroupLayouts: compiled.groupLayouts,
	})
	if err != nil {
		return nil, err
	}
	return compiled, nil
}

func (b *wgpuRendererBackendImpl) SetCamera(projection, view [16]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.program == nil {
		return ErrNoProgram
	}
	uniform := camera.GPUCameraUniform{Projection: projection, View: view}
	return b.queue.WriteBuffer(b.program.cameraBuffer, 0, uniform.Marshal())
}

func (b *wgpuRendererBackendImpl) DrawIndexed(topology buffer.Topology, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrFrameNotStarted
	}
	if b.program == nil {
		return ErrNoProgram
	}
	d := b.bound
	if d == nil || d.vertexBuffer == nil || d.indexBuffer == nil || len(d.pointers) == 0 {
		return ErrNoVertexDevice
	}
	if err := b.program.program.CheckAttribs(d.pointers); err != nil {
		return err
	}

	renderPipeline, err := b.renderPipeline(d.pointers, topology)
	if err != nil {
		return err
	}

	b.framePass.SetPipeline(renderPipeline)
	for g, bg := range b.program.bindGroups {
		b.framePass.SetBindGroup(uint32(g), bg, nil)
	}
	b.framePass.SetVertexBuffer(0, d.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(d.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
	return nil
}

// renderPipeline returns the cached pipeline for the active program, vertex layout and
// topology, creating it on first use. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) renderPipeline(pointers []buffer.AttribPointer, topology buffer.Topology) (*wgpu.RenderPipeline, error) {
	key := pipelineKey(b.program.program.Key(), pointers, topology)
	if p, ok := b.pipelines[key]; ok {
		return p, nil
	}

	vertexLayout, err := wgpuVertexLayout(pointers)
	if err != nil {
		return nil, err
	}
	primitiveTopology, err := wgpuTopology(topology)
	if err != nil {
		return nil, err
	}

	prog := b.program.program
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  key + " Render Pipeline",
		Layout: b.program.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.program.module,
			EntryPoint: prog.EntryPoint(shader.LanguageWGSL, shader.StageVertex),
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.program.module,
			EntryPoint: prog.EntryPoint(shader.LanguageWGSL, shader.StageFragment),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  primitiveTopology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	b.pipelines[key] = created
	return created, nil
}

func (b *wgpuRendererBackendImpl) DetachProgram() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = nil
}

func (b *wgpuRendererBackendImpl) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return ErrFrameNotStarted
	}
	defer b.releaseFrame()

	b.framePass.End()
	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish frame: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

// releaseFrame drops the per-frame encoder, pass and surface references. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseFrame() {
	b.framePass = nil
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	devices := b.devices
	b.devices = nil
	b.mu.Unlock()

	for _, d := range devices {
		d.Release()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrame()
	for _, p := range b.pipelines {
		p.Release()
	}
	clear(b.pipelines)
	for _, p := range b.programs {
		for _, bg := range p.bindGroups {
			bg.Release()
		}
		for _, l := range p.groupLayouts {
			if l != nil {
				l.Release()
			}
		}
		p.pipelineLayout.Release()
		p.cameraBuffer.Release()
		p.module.Release()
	}
	clear(b.programs)
	b.program = nil

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}

// pipelineKey identifies a render pipeline by program, vertex layout and topology.
func pipelineKey(program string, pointers []buffer.AttribPointer, topology buffer.Topology) string {
	var sb strings.Builder
	sb.WriteString(program)
	sb.WriteByte('|')
	sb.WriteString(topology.String())
	for _, p := range pointers {
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(int(p.Location)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Offset))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Components))
		sb.WriteString(p.Type.String())
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(p.Stride))
	}
	return sb.String()
}

// wgpuVertexLayout builds the single interleaved vertex buffer layout described by pointers.
func wgpuVertexLayout(pointers []buffer.AttribPointer) (wgpu.VertexBufferLayout, error) {
	attrs := make([]wgpu.VertexAttribute, 0, len(pointers))
	for _, p := range pointers {
		format, err := wgpuVertexFormat(p.Type, p.Components)
		if err != nil {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("%s attribute: %w", p.Role, err)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         uint64(p.Offset),
			ShaderLocation: p.Location,
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(pointers[0].Stride),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

var wgpuVertexFormats = map[buffer.ScalarType][4]wgpu.VertexFormat{
	buffer.TypeFloat:  {wgpu.VertexFormatFloat32, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4},
	buffer.TypeInt:    {wgpu.VertexFormatSint32, wgpu.VertexFormatSint32x2, wgpu.VertexFormatSint32x3, wgpu.VertexFormatSint32x4},
	buffer.TypeUInt:   {wgpu.VertexFormatUint32, wgpu.VertexFormatUint32x2, wgpu.VertexFormatUint32x3, wgpu.VertexFormatUint32x4},
	// 8 and 16 bit attributes exist only with 2 or 4 components.
	buffer.TypeShort:  {wgpu.VertexFormatUndefined, wgpu.VertexFormatSint16x2, wgpu.VertexFormatUndefined, wgpu.VertexFormatSint16x4},
	buffer.TypeUShort: {wgpu.VertexFormatUndefined, wgpu.VertexFormatUint16x2, wgpu.VertexFormatUndefined, wgpu.VertexFormatUint16x4},
	buffer.TypeByte:   {wgpu.VertexFormatUndefined, wgpu.VertexFormatSint8x2, wgpu.VertexFormatUndefined, wgpu.VertexFormatSint8x4},
	buffer.TypeUByte:  {wgpu.VertexFormatUndefined, wgpu.VertexFormatUint8x2, wgpu.VertexFormatUndefined, wgpu.VertexFormatUint8x4},
}

func wgpuVertexFormat(t buffer.ScalarType, components int) (wgpu.VertexFormat, error) {
	formats, ok := wgpuVertexFormats[t]
	if !ok || components < 1 || components > 4 || formats[components-1] == wgpu.VertexFormatUndefined {
		return wgpu.VertexFormatUndefined, fmt.Errorf("%w: %d x %s", ErrUnsupportedFormat, components, t)
	}
	return formats[components-1], nil
}

func wgpuTopology(t buffer.Topology) (wgpu.PrimitiveTopology, error) {
	switch t {
	case buffer.TopologyTriangles:
		return wgpu.PrimitiveTopologyTriangleList, nil
	case buffer.TopologyLines:
		return wgpu.PrimitiveTopologyLineList, nil
	case buffer.TopologyPoints:
		return wgpu.PrimitiveTopologyPointList, nil
	default:
		return wgpu.PrimitiveTopologyTriangleList, fmt.Errorf("unknown topology %s", t)
	}
}
