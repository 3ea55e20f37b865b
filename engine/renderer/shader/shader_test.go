package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshShaderReflection(t *testing.T) {
	s, err := Mesh()
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint(StageVertex))
	assert.Equal(t, "fs_main", s.EntryPoint(StageFragment))

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(2), layouts[0].Attributes[2].ShaderLocation)

	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 2)
	require.Len(t, groups[1].Entries, 3)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, groups[1].Entries[0].Buffer.Type)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, groups[1].Entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, groups[1].Entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, groups[1].Entries[2].Sampler.Type)

	// Camera block (80) + ambient (16) + eight 64 byte lights.
	assert.Equal(t, uint64(608), s.BindingSize(0, 0))
	assert.Equal(t, uint64(176), s.BindingSize(1, 0))
	assert.Equal(t, "obj", s.BindingName(1, 0))
	assert.Zero(t, s.BindingSize(1, 1))
}

func TestOverlayShaderReflection(t *testing.T) {
	s, err := Overlay()
	require.NoError(t, err)

	require.Len(t, s.VertexLayouts(), 1)
	assert.Equal(t, uint64(32), s.VertexLayouts()[0].ArrayStride)
	assert.Equal(t, uint64(16), s.BindingSize(0, 0))
	assert.Equal(t, "quad_texture", s.BindingName(1, 0))
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("frag-only", `
struct In { @location(0) p: vec3f, }
@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }`)
	assert.ErrorIs(t, err, errNoEntryPoint)

	_, err = NewShader("no-input", `
@vertex fn vs(@builtin(vertex_index) i: u32) -> @builtin(position) vec4f { return vec4f(0.0); }
@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }`)
	assert.ErrorIs(t, err, errNoVertexInput)
}

func TestStripComments(t *testing.T) {
	src := "a /* x /* nested */ y */ b // tail\nc"
	assert.Equal(t, "a  b \nc", stripComments(src))
}

func TestResolveLayout(t *testing.T) {
	known := map[string]typeLayout{}
	l, ok := resolveLayout("array<vec3f, 4>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(64), l.size, "vec3f elements are padded to 16 bytes")

	_, ok = resolveLayout("array<vec3f>", known)
	assert.False(t, ok)

	structs := parseStructs("struct A { x: f32, y: vec3f, } struct B { a: A, z: f32, }")
	sizes := structLayouts(structs)
	assert.Equal(t, typeLayout{size: 32, align: 16}, sizes["A"])
	assert.Equal(t, typeLayout{size: 48, align: 16}, sizes["B"])
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"a: f32", " b: array<Light, 8>", ""}, splitTopLevel("a: f32, b: array<Light, 8>,"))
}
