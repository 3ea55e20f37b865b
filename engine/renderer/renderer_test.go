package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/camera"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/domx3d/hello-lamp/engine/scene"
	"github.com/domx3d/hello-lamp/engine/ui"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lampCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithFov(45),
		camera.WithAspect(16.0/9.0),
		camera.WithClipPlanes(0.1, 1000),
		camera.WithController(camera.NewCameraController(camera.WithEye(mgl32.Vec3{-20, 20, 10}))),
	)
}

func box(t *testing.T, name string, pos mgl32.Vec3, opts ...material.MaterialBuilderOption) scene.Node {
	t.Helper()
	g, err := scene.NewGeometry([]float32{
		-1, -1, 0,
		1, -1, 0,
		1, 1, 0,
		-1, 1, 0,
	}, nil, nil, []uint32{0, 1, 2, 0, 2, 3})
	require.NoError(t, err)
	return scene.NewNode(
		scene.WithName(name),
		scene.WithPosition(pos),
		scene.WithMesh(g, material.NewMaterial(opts...)),
	)
}

func floatAt(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestMeshPipelineKey(t *testing.T) {
	assert.Equal(t, pipelineOpaque, meshPipelineKey(false, false))
	assert.Equal(t, pipelineOpaqueDoubleSided, meshPipelineKey(false, true))
	assert.Equal(t, pipelineTransparent, meshPipelineKey(true, false))
	assert.Equal(t, pipelineTransparentDoubleSided, meshPipelineKey(true, true))
}

func TestBuildDrawListOrder(t *testing.T) {
	cam := lampCamera()
	s := scene.NewScene()

	foil := box(t, "foil", mgl32.Vec3{0, 0, 0}, material.WithDoubleSided(true))
	caseNode := box(t, "case", mgl32.Vec3{0, 0, 0})
	farGlass := box(t, "far", mgl32.Vec3{5, -5, -2.5}, material.WithTransparent(true), material.WithOpacity(0.5))
	nearGlass := box(t, "near", mgl32.Vec3{-5, 5, 2.5}, material.WithTransparent(true), material.WithOpacity(0.5))
	hidden := box(t, "hidden", mgl32.Vec3{0, 1, 0})
	hidden.SetVisible(false)
	behind := box(t, "behind", mgl32.Vec3{-40, 40, 20})

	s.Add(nearGlass, foil, hidden, farGlass, caseNode, behind)

	items := buildDrawList(s.Root(), cam.ViewProjectionMatrix(), cam.Position())
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.node.Name())
	}
	assert.Equal(t, []string{"case", "foil", "far", "near"}, names)
	assert.Equal(t, pipelineOpaque, items[0].pipelineKey)
	assert.Equal(t, pipelineOpaqueDoubleSided, items[1].pipelineKey)
	assert.Equal(t, pipelineTransparent, items[2].pipelineKey)
	assert.Greater(t, items[2].depth, items[3].depth)
}

func TestWorldBoundsScalesRadius(t *testing.T) {
	g, err := scene.NewGeometry([]float32{-1, 0, 0, 1, 0, 0, 0, 1, 0}, nil, nil, []uint32{0, 1, 2})
	require.NoError(t, err)
	_, r0 := g.BoundingSphere()

	world := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(1, 3, 2))
	center, r := worldBounds(g, world)
	assert.InDelta(t, r0*3, r, 1e-5)
	c0, _ := g.BoundingSphere()
	assert.True(t, center.ApproxEqual(mgl32.TransformCoordinate(c0, world)))
}

func TestFrameUniformMarshal(t *testing.T) {
	s := scene.NewScene(scene.WithLights(
		light.NewLight(light.LightTypeAmbient, light.WithColor(common.White), light.WithIntensity(0.5)),
		light.NewLight(light.LightTypePoint, light.WithPosition(-3, 0, -0.5), light.WithIntensity(2)),
	))
	f := newFrameUniform(s, lampCamera())
	buf := f.Marshal()

	require.Len(t, buf, GPUFrameUniformSize)
	assert.Equal(t, 608, GPUFrameUniformSize)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[76:]))
	assert.Equal(t, float32(0.5), floatAt(buf, 80))
	assert.Equal(t, float32(1), floatAt(buf, 92))
	assert.Equal(t, uint32(light.LightTypePoint), binary.LittleEndian.Uint32(buf[96+12:]))
	assert.Equal(t, float32(-3), floatAt(buf, 96))
	assert.InDelta(t, -20, floatAt(buf, 64), 1e-3, "camera position")
}

func TestObjectUniformMarshal(t *testing.T) {
	m := material.NewMaterial(
		material.WithColor(common.MustParseHex("#ff0000")),
		material.WithTransparent(true),
		material.WithOpacity(0.4),
		material.WithEmissive(common.White, 3),
	)
	world := mgl32.Translate3D(1, 2, 3)
	o := newObjectUniform(world, m, true)
	buf := o.Marshal()

	require.Len(t, buf, GPUObjectUniformSize)
	assert.Equal(t, float32(1), floatAt(buf, 48), "translation x in column 3")
	assert.Equal(t, float32(1), floatAt(buf, 128))
	assert.InDelta(t, 0.4, floatAt(buf, 140), 1e-6)
	assert.Equal(t, float32(3), floatAt(buf, 156))
	assert.Equal(t, float32(1), floatAt(buf, 172))

	flat := newObjectUniform(mgl32.Ident4(), nil, false)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, flat.BaseColor)
	assert.Zero(t, flat.Params[3])
}

func TestOverlayVertices(t *testing.T) {
	quads := []ui.Quad{
		{Rect: ui.Rect{X: 10, Y: 20, W: 30, H: 40}, Color: [4]float32{1, 0, 0, 1}},
		{Rect: ui.Rect{X: 0, Y: 0, W: 1, H: 1}},
	}
	v := overlayVertices(quads)
	require.Len(t, v, 2*verticesPerQuad*overlayVertexFloats)

	assert.Equal(t, []float32{10, 20, 0, 0, 1, 0, 0, 1}, v[:8])
	last := v[5*overlayVertexFloats : 6*overlayVertexFloats]
	assert.Equal(t, []float32{40, 60, 1, 1, 1, 0, 0, 1}, last)
}

func TestViewportUniform(t *testing.T) {
	buf := viewportUniform(1280, 720)
	require.Len(t, buf, GPUViewportUniformSize)
	assert.Equal(t, float32(1280), floatAt(buf, 0))
	assert.Equal(t, float32(720), floatAt(buf, 4))
}

func TestParseMSAA(t *testing.T) {
	for samples, want := range map[int]MSAASampleCount{0: MSAAOff, 1: MSAAOff, 4: MSAA4x, 8: MSAA8x, 16: MSAA16x} {
		got, ok := ParseMSAA(samples)
		assert.True(t, ok, "samples %d", samples)
		assert.Equal(t, want, got)
	}
	_, ok := ParseMSAA(3)
	assert.False(t, ok)
}

func TestRendererOptions(t *testing.T) {
	r := &renderer{}
	for _, opt := range []RendererBuilderOption{
		WithMSAA(MSAAOff),
		WithPresentMode(PresentModeUncapped),
		WithForceSoftwareRenderer(true),
	} {
		opt(r)
	}
	assert.Equal(t, MSAAOff, r.msaa)
	assert.Equal(t, PresentModeUncapped, r.presentMode)
	assert.True(t, r.forceFallbackAdapter)
}
