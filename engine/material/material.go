package material

import (
	"github.com/domx3d/hello-lamp/common"
)

// Kind selects the lighting model used to shade a material.
type Kind int

const (
	// KindStandard is the metallic/roughness model used by glTF materials.
	KindStandard Kind = iota
	// KindPhong is a Blinn-Phong model with a fixed shininess.
	KindPhong
)

func (k Kind) String() string {
	switch k {
	case KindPhong:
		return "Phong"
	default:
		return "Standard"
	}
}

// material is the implementation of the Material interface.
type material struct {
	name              string
	kind              Kind
	color             common.Color
	opacity           float32
	transparent       bool
	doubleSided       bool
	metallic          float32
	roughness         float32
	shininess         float32
	emissive          common.Color
	emissiveIntensity float32
	diffuseTexture    *common.ImportedTexture
}

// Material describes the surface of a mesh.
//
// Surface properties are mutable at run time: the application recolors the bulb emissive
// and swaps glass and foil materials after load. The renderer reads the current values every frame.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the lighting model.
	//
	// Returns:
	//   - Kind: KindStandard or KindPhong
	Kind() Kind

	// Color retrieves the diffuse color.
	//
	// Returns:
	//   - common.Color: the base color
	Color() common.Color

	// Opacity retrieves the alpha applied when the material is transparent.
	//
	// Returns:
	//   - float32: opacity in [0, 1]
	Opacity() float32

	// Transparent reports whether the material is alpha blended.
	// Transparent meshes are drawn after opaque ones without depth writes.
	//
	// Returns:
	//   - bool: true when blended
	Transparent() bool

	// DoubleSided reports whether back faces are drawn and hit by rays.
	//
	// Returns:
	//   - bool: true when both faces are visible
	DoubleSided() bool

	// Metallic retrieves the metallic factor (0 dielectric, 1 metal).
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor (0 smooth, 1 rough).
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Shininess retrieves the Phong specular exponent.
	//
	// Returns:
	//   - float32: the exponent
	Shininess() float32

	// Emissive retrieves the emitted color before intensity scaling.
	//
	// Returns:
	//   - common.Color: the emissive color
	Emissive() common.Color

	// EmissiveIntensity retrieves the multiplier applied to Emissive.
	//
	// Returns:
	//   - float32: the intensity
	EmissiveIntensity() float32

	// DiffuseTexture retrieves the base color texture, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// SetColor sets the diffuse color.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c common.Color)

	// SetEmissive sets the emitted color.
	//
	// Parameters:
	//   - c: the new emissive color
	SetEmissive(c common.Color)

	// SetEmissiveIntensity sets the emissive multiplier.
	//
	// Parameters:
	//   - intensity: the new multiplier
	SetEmissiveIntensity(intensity float32)

	// Clone returns an independent copy sharing only the texture reference.
	//
	// Returns:
	//   - Material: the copy
	Clone() Material
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults: Standard, white, opaque, single sided, metallic 0, roughness 1, shininess 30, no emission.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		kind:              KindStandard,
		color:             common.White,
		opacity:           1,
		roughness:         1,
		shininess:         30,
		emissiveIntensity: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) DoubleSided() bool {
	return m.doubleSided
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Emissive() common.Color {
	return m.emissive
}

func (m *material) EmissiveIntensity() float32 {
	return m.emissiveIntensity
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) SetColor(c common.Color) {
	m.color = c
}

func (m *material) SetEmissive(c common.Color) {
	m.emissive = c
}

func (m *material) SetEmissiveIntensity(intensity float32) {
	m.emissiveIntensity = intensity
}

func (m *material) Clone() Material {
	c := *m
	return &c
}
