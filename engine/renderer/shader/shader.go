// Package shader holds the embedded WGSL programs and reflects their bind group and vertex
// layouts, so pipelines and bind groups are created from the source instead of hand-written tables.
package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the @vertex entry point.
	StageVertex Stage = iota

	// StageFragment is the @fragment entry point.
	StageFragment
)

var (
	//go:embed wgsl/mesh.wgsl
	meshSource string

	//go:embed wgsl/overlay.wgsl
	overlaySource string
)

var (
	errNoEntryPoint  = errors.New("shader has no entry point")
	errNoVertexInput = errors.New("shader has no vertex input struct")
)

// shader is the implementation of the Shader interface.
type shader struct {
	key            string
	source         string
	entryPoints    map[Stage]string
	bindGroups     map[int]wgpu.BindGroupLayoutDescriptor
	bindingNames   map[int]map[int]string
	vertexLayouts  []wgpu.VertexBufferLayout
	bindingLengths map[int]map[int]uint64
}

// Shader is a WGSL module with one vertex and one fragment entry point, plus the layouts
// reflected from its declarations.
type Shader interface {
	// Key returns the identifier used for labels and caching.
	Key() string

	// Source returns the WGSL source.
	Source() string

	// EntryPoint returns the function name of a stage.
	//
	// Parameters:
	//   - stage: StageVertex or StageFragment
	//
	// Returns:
	//   - string: the entry point, empty if the stage is absent
	EntryPoint(stage Stage) string

	// BindGroupLayoutDescriptors returns the reflected layouts keyed by group index.
	// Every entry is visible to both stages.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindingSize returns the byte size of a uniform binding's type.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the size, 0 for non-buffer or unknown bindings
	BindingSize(group, binding int) uint64

	// BindingName returns the WGSL variable name of a binding, empty if not declared.
	BindingName(group, binding int) string

	// VertexLayouts returns one buffer layout per vertex input struct, in declaration order.
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader reflects a WGSL source.
//
// Parameters:
//   - key: label used in GPU object names
//   - source: the WGSL code
//
// Returns:
//   - Shader: the reflected shader
//   - error: a missing entry point or vertex input
func NewShader(key, source string) (Shader, error) {
	cleaned := stripComments(source)
	s := &shader{
		key:         key,
		source:      source,
		entryPoints: make(map[Stage]string),
	}
	for _, stage := range []Stage{StageVertex, StageFragment} {
		name := parseEntryPoint(cleaned, stage)
		if name == "" {
			return nil, fmt.Errorf("%s: %w for stage %d", key, errNoEntryPoint, stage)
		}
		s.entryPoints[stage] = name
	}

	structs := parseStructs(cleaned)
	s.vertexLayouts = parseVertexLayouts(structs)
	if len(s.vertexLayouts) == 0 {
		return nil, fmt.Errorf("%s: %w", key, errNoVertexInput)
	}
	s.bindGroups, s.bindingNames, s.bindingLengths = parseBindGroups(cleaned, structs, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return s, nil
}

// Mesh returns the lit mesh shader.
func Mesh() (Shader, error) {
	return NewShader("mesh", meshSource)
}

// Overlay returns the screen-space quad shader.
func Overlay() (Shader, error) {
	return NewShader("overlay", overlaySource)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroups
}

func (s *shader) BindingSize(group, binding int) uint64 {
	return s.bindingLengths[group][binding]
}

func (s *shader) BindingName(group, binding int) string {
	return s.bindingNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}
