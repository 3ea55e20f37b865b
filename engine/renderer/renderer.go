package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/camera"
	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/renderer/bind_group_provider"
	"github.com/domx3d/hello-lamp/engine/renderer/pipeline"
	"github.com/domx3d/hello-lamp/engine/renderer/shader"
	"github.com/domx3d/hello-lamp/engine/scene"
	"github.com/domx3d/hello-lamp/engine/ui"
	"github.com/domx3d/hello-lamp/engine/window"

	"github.com/cogentcore/webgpu/wgpu"
)

var errRendererReleased = errors.New("renderer released")

// Bindings of the shared fallback provider.
const (
	fallbackWhiteTexture   = 0
	fallbackMeshSampler    = 1
	fallbackOverlaySampler = 2
)

// nodeResources is the GPU state cached for one mesh node.
type nodeResources struct {
	provider bind_group_provider.BindGroupProvider
	// geometry and source detect a swapped mesh or texture, which forces a rebuild.
	geometry *scene.Geometry
	source   *common.ImportedTexture
	textured bool
}

// overlayTexture is a cached overlay texture and the version it was uploaded at.
type overlayTexture struct {
	provider bind_group_provider.BindGroupProvider
	version  uint64
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	logger logging.Logger

	pipelineCache map[string]pipeline.Pipeline
	backend       RendererBackend

	width, height int

	frame           bind_group_provider.BindGroupProvider
	viewport        bind_group_provider.BindGroupProvider
	fallback        bind_group_provider.BindGroupProvider
	overlayVertices bind_group_provider.BindGroupProvider
	overlayCapacity uint64

	nodes           map[string]*nodeResources
	overlayTextures map[string]*overlayTexture

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
}

// Renderer draws a scene graph and the 2D overlay to the window surface.
//
// Mesh nodes are drawn with one of four pipelines keyed by material transparency and
// double-sidedness. Opaque meshes come first, transparent meshes follow back to front, and the
// overlay quads are drawn last without depth testing. GPU buffers and textures are created the
// first time a node or overlay texture is seen and cached until Release.
type Renderer interface {
	// Size returns the configured surface size in pixels.
	//
	// Returns:
	//   - int: width
	//   - int: height
	Size() (int, int)

	// Resize reconfigures the surface. A zero dimension records the size and skips rendering until
	// the next non-zero resize.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the surface targets could not be recreated
	Resize(width, height int) error

	// Render draws one frame.
	//
	// Parameters:
	//   - s: the scene to draw; its background is the clear color
	//   - c: the camera to draw from
	//   - quads: overlay quads in back to front order
	//
	// Returns:
	//   - error: the joined errors of nodes that could not be drawn, or a frame acquisition error
	Render(s scene.Scene, c camera.Camera, quads []ui.Quad) error

	// Release frees every GPU resource. The renderer is unusable afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the WebGPU device for a window, configures the surface at the window's
// framebuffer size and registers the mesh and overlay pipelines.
//
// Parameters:
//   - win: the window whose surface is drawn to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the device, surface or a pipeline could not be created
func NewRenderer(win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:              &sync.Mutex{},
		pipelineCache:   make(map[string]pipeline.Pipeline),
		nodes:           make(map[string]*nodeResources),
		overlayTextures: make(map[string]*overlayTexture),
		presentMode:     PresentModeVSync,
		msaa:            MSAA4x,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	r.logger = logging.OrDefault(r.logger)

	backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	if err != nil {
		return nil, err
	}
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)

	if err := r.init(win.FramebufferSize()); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// init configures the surface and creates the pipelines and shared resources.
func (r *renderer) init(width, height int) error {
	if err := r.Resize(width, height); err != nil {
		return err
	}

	meshShader, err := shader.Mesh()
	if err != nil {
		return err
	}
	overlayShader, err := shader.Overlay()
	if err != nil {
		return err
	}

	pipelines := []pipeline.Pipeline{
		pipeline.NewPipeline(pipelineOpaque, meshShader, pipeline.WithCullMode(wgpu.CullModeBack)),
		pipeline.NewPipeline(pipelineOpaqueDoubleSided, meshShader),
		pipeline.NewPipeline(pipelineTransparent, meshShader,
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(pipelineTransparentDoubleSided, meshShader,
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(pipelineOverlay, overlayShader,
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		),
	}
	for _, p := range pipelines {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %s: %w", p.Key(), err)
		}
		r.pipelineCache[p.Key()] = p
	}

	if r.frame, err = r.uniformProvider("frame", GPUFrameUniformSize, r.pipelineCache[pipelineOpaque]); err != nil {
		return err
	}
	if r.viewport, err = r.uniformProvider("viewport", GPUViewportUniformSize, r.pipelineCache[pipelineOverlay]); err != nil {
		return err
	}
	return r.initFallback()
}

// uniformProvider creates a provider holding one uniform buffer bound as group 0 of p.
func (r *renderer) uniformProvider(label string, size uint64, p pipeline.Pipeline) (bind_group_provider.BindGroupProvider, error) {
	buf, err := r.backend.CreateBuffer(label+" Uniform Buffer", wgpu.BufferUsageUniform, size, nil)
	if err != nil {
		return nil, err
	}
	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithBuffer(0, buf))
	bg, err := r.backend.CreateBindGroup(label, p.BindGroupLayout(0), []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBindGroup(bg)
	return provider, nil
}

// initFallback creates the 1x1 white texture bound by untextured meshes and flat overlay quads.
// Its bind group is the overlay texture group for flat quads.
func (r *renderer) initFallback() error {
	r.fallback = bind_group_provider.NewBindGroupProvider("fallback")

	tex, view, err := r.backend.CreateTexture("White Texture", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return err
	}
	r.fallback.SetTexture(fallbackWhiteTexture, tex, view)

	meshSampler, err := r.backend.CreateSampler("Mesh Sampler", common.SamplerStagingData{})
	if err != nil {
		return err
	}
	r.fallback.SetSampler(fallbackMeshSampler, meshSampler)

	// Overlay text is a bitmap font scaled by whole pixels; nearest keeps the glyph edges sharp.
	overlaySampler, err := r.backend.CreateSampler("Overlay Sampler", common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
	})
	if err != nil {
		return err
	}
	r.fallback.SetSampler(fallbackOverlaySampler, overlaySampler)

	bg, err := r.backend.CreateBindGroup("fallback", r.pipelineCache[pipelineOverlay].BindGroupLayout(1), []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: view},
		{Binding: 1, Sampler: overlaySampler},
	})
	if err != nil {
		return err
	}
	r.fallback.SetBindGroup(bg)
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend == nil {
		return errRendererReleased
	}
	r.width, r.height = max(width, 0), max(height, 0)
	if r.width == 0 || r.height == 0 {
		return nil
	}
	return r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) Render(s scene.Scene, c camera.Camera, quads []ui.Quad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend == nil {
		return errRendererReleased
	}
	if r.width == 0 || r.height == 0 {
		return nil
	}

	var errs []error
	frame := newFrameUniform(s, c)
	writes := []bind_group_provider.BufferWrite{
		{Provider: r.frame, Binding: 0, Data: frame.Marshal()},
		{Provider: r.viewport, Binding: 0, Data: viewportUniform(r.width, r.height)},
	}

	type meshDraw struct {
		pipeline pipeline.Pipeline
		provider bind_group_provider.BindGroupProvider
	}
	items := buildDrawList(s.Root(), c.ViewProjectionMatrix(), c.Position())
	draws := make([]meshDraw, 0, len(items))
	for _, item := range items {
		res, err := r.nodeResources(item.node)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		obj := newObjectUniform(item.world, item.node.Material(), res.textured)
		writes = append(writes, bind_group_provider.BufferWrite{Provider: res.provider, Binding: 0, Data: obj.Marshal()})
		draws = append(draws, meshDraw{pipeline: r.pipelineCache[item.pipelineKey], provider: res.provider})
	}

	quads, textures, err := r.prepareOverlay(quads)
	if err != nil {
		errs = append(errs, err)
	}
	if len(quads) > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: r.overlayVertices,
			Binding:  0,
			Data:     common.SliceToBytes(overlayVertices(quads)),
		})
	}

	r.backend.WriteBuffers(writes)

	if err := r.backend.BeginFrame(s.Background()); err != nil {
		return errors.Join(append(errs, fmt.Errorf("begin frame: %w", err))...)
	}
	for _, d := range draws {
		r.backend.DrawIndexed(d.pipeline, d.provider, []bind_group_provider.BindGroupProvider{r.frame, d.provider})
	}
	overlay := r.pipelineCache[pipelineOverlay]
	for i := range quads {
		r.backend.Draw(overlay, r.overlayVertices.Buffer(0), uint32(i*verticesPerQuad), verticesPerQuad,
			[]bind_group_provider.BindGroupProvider{r.viewport, textures[i]})
	}
	if err := r.backend.EndFrame(); err != nil {
		return errors.Join(append(errs, err)...)
	}
	r.backend.Present()

	return errors.Join(errs...)
}

// nodeResources returns the cached GPU state of a mesh node, creating it on first use.
// A texture that fails to decode is logged and the node is drawn with its flat color.
func (r *renderer) nodeResources(n scene.Node) (*nodeResources, error) {
	g := n.Geometry()
	var source *common.ImportedTexture
	if m := n.Material(); m != nil {
		source = m.DiffuseTexture()
	}

	res, ok := r.nodes[n.ID()]
	if ok && res.geometry == g && res.source == source {
		return res, nil
	}
	if ok {
		res.provider.Release()
		delete(r.nodes, n.ID())
	}

	label := "node:" + n.Name()
	vb, err := r.backend.CreateBuffer(label+" Vertex Buffer", wgpu.BufferUsageVertex, 0, common.SliceToBytes(g.Interleaved()))
	if err != nil {
		return nil, err
	}
	ib, err := r.backend.CreateBuffer(label+" Index Buffer", wgpu.BufferUsageIndex, 0, common.SliceToBytes(g.Indices()))
	if err != nil {
		vb.Release()
		return nil, err
	}
	ub, err := r.backend.CreateBuffer(label+" Object Buffer", wgpu.BufferUsageUniform, GPUObjectUniformSize, nil)
	if err != nil {
		vb.Release()
		ib.Release()
		return nil, err
	}
	provider := bind_group_provider.NewBindGroupProvider(label,
		bind_group_provider.WithBuffer(0, ub),
		bind_group_provider.WithGeometry(vb, ib, len(g.Indices())),
	)
	res = &nodeResources{provider: provider, geometry: g, source: source}

	view := r.fallback.TextureView(fallbackWhiteTexture)
	sampler := r.fallback.Sampler(fallbackMeshSampler)
	if source != nil {
		if v, s, ok := r.loadNodeTexture(provider, label, source); ok {
			view, sampler, res.textured = v, s, true
		}
	}

	bg, err := r.backend.CreateBindGroup(label, r.pipelineCache[pipelineOpaque].BindGroupLayout(1), []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: ub, Size: wgpu.WholeSize},
		{Binding: 1, TextureView: view},
		{Binding: 2, Sampler: sampler},
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBindGroup(bg)

	r.nodes[n.ID()] = res
	return res, nil
}

// loadNodeTexture decodes and uploads a material texture into the provider at bindings 1 and 2.
func (r *renderer) loadNodeTexture(provider bind_group_provider.BindGroupProvider, label string, source *common.ImportedTexture) (*wgpu.TextureView, *wgpu.Sampler, bool) {
	staging, err := source.Decode()
	if err != nil {
		r.logger.Warnf("renderer: %s: %v, drawing flat color", label, err)
		return nil, nil, false
	}
	tex, view, err := r.backend.CreateTexture(label+" Texture", *staging)
	if err != nil {
		r.logger.Warnf("renderer: %s: %v, drawing flat color", label, err)
		return nil, nil, false
	}
	provider.SetTexture(1, tex, view)

	var samplerData common.SamplerStagingData
	if source.SamplerData != nil {
		samplerData = *source.SamplerData
	}
	sampler, err := r.backend.CreateSampler(label+" Sampler", samplerData)
	if err != nil {
		r.logger.Warnf("renderer: %s: %v, using default sampler", label, err)
		return view, r.fallback.Sampler(fallbackMeshSampler), true
	}
	provider.SetSampler(2, sampler)
	return view, sampler, true
}

// prepareOverlay resolves the texture bind group of each quad and grows the vertex buffer.
// Quads whose texture cannot be uploaded are dropped. Textures no longer referenced are released.
func (r *renderer) prepareOverlay(quads []ui.Quad) ([]ui.Quad, []bind_group_provider.BindGroupProvider, error) {
	var errs []error
	kept := make([]ui.Quad, 0, len(quads))
	textures := make([]bind_group_provider.BindGroupProvider, 0, len(quads))
	used := make(map[string]bool)

	for _, q := range quads {
		if q.Rect.W <= 0 || q.Rect.H <= 0 {
			continue
		}
		provider := r.fallback
		if q.TextureKey != "" && q.Texture != nil {
			p, err := r.overlayTexture(q)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			provider = p
			used[q.TextureKey] = true
		}
		kept = append(kept, q)
		textures = append(textures, provider)
	}

	for key, t := range r.overlayTextures {
		if !used[key] {
			t.provider.Release()
			delete(r.overlayTextures, key)
		}
	}

	need := uint64(len(kept) * verticesPerQuad * overlayVertexFloats * 4)
	if need > r.overlayCapacity {
		capacity := max(need, 2*r.overlayCapacity, 64*verticesPerQuad*overlayVertexFloats*4)
		buf, err := r.backend.CreateBuffer("Overlay Vertex Buffer", wgpu.BufferUsageVertex, capacity, nil)
		if err != nil {
			return nil, nil, errors.Join(append(errs, err)...)
		}
		if r.overlayVertices != nil {
			r.overlayVertices.Release()
		}
		r.overlayVertices = bind_group_provider.NewBindGroupProvider("overlay vertices", bind_group_provider.WithBuffer(0, buf))
		r.overlayCapacity = capacity
	}
	return kept, textures, errors.Join(errs...)
}

// overlayTexture returns the bind group provider of a textured quad, uploading the texture when
// the key is new or its version changed.
func (r *renderer) overlayTexture(q ui.Quad) (bind_group_provider.BindGroupProvider, error) {
	cached, ok := r.overlayTextures[q.TextureKey]
	if ok && cached.version == q.TextureVersion {
		return cached.provider, nil
	}
	if ok {
		cached.provider.Release()
		delete(r.overlayTextures, q.TextureKey)
	}

	label := "overlay:" + q.TextureKey
	tex, view, err := r.backend.CreateTexture(label, *q.Texture)
	if err != nil {
		return nil, err
	}
	provider := bind_group_provider.NewBindGroupProvider(label)
	provider.SetTexture(0, tex, view)
	bg, err := r.backend.CreateBindGroup(label, r.pipelineCache[pipelineOverlay].BindGroupLayout(1), []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: view},
		{Binding: 1, Sampler: r.fallback.Sampler(fallbackOverlaySampler)},
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBindGroup(bg)

	r.overlayTextures[q.TextureKey] = &overlayTexture{provider: provider, version: q.TextureVersion}
	return provider, nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, res := range r.nodes {
		res.provider.Release()
		delete(r.nodes, id)
	}
	for key, t := range r.overlayTextures {
		t.provider.Release()
		delete(r.overlayTextures, key)
	}
	for _, p := range []bind_group_provider.BindGroupProvider{r.frame, r.viewport, r.fallback, r.overlayVertices} {
		if p != nil {
			p.Release()
		}
	}
	r.frame, r.viewport, r.fallback, r.overlayVertices = nil, nil, nil, nil
	r.overlayCapacity = 0
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
