package light

import (
	"math"

	"github.com/domx3d/hello-lamp/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment uniformly with no position or direction.
	LightTypeAmbient LightType = iota

	// LightTypePoint emits in all directions from a position.
	// Attenuates with distance, cut off at Distance when it is non-zero.
	LightTypePoint

	// LightTypeSpot emits in a cone from a position toward a target.
	// Attenuates with distance and with the angle from the cone axis.
	LightTypeSpot
)

func (t LightType) String() string {
	switch t {
	case LightTypePoint:
		return "PointLight"
	case LightTypeSpot:
		return "SpotLight"
	default:
		return "AmbientLight"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	position  mgl32.Vec3
	color     common.Color
	intensity float32
	distance  float32
	decay     float32
	angle     float32
	penumbra  float32
	enabled   bool
}

// Light defines the interface for a light source.
//
// Position is expressed in the space of whatever owns the light: world space for lights added
// directly to a scene, or the local space of the node a light is attached to. The scene resolves
// world positions and spot directions every frame.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: ambient, point or spot
	Type() LightType

	// Position returns the light position in its owner's space.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Distance returns the cutoff distance. Zero means no cutoff.
	//
	// Returns:
	//   - float32: the cutoff distance
	Distance() float32

	// Decay returns the exponent of the inverse distance falloff.
	//
	// Returns:
	//   - float32: the decay exponent
	Decay() float32

	// Angle returns the spot cone half-angle in radians.
	//
	// Returns:
	//   - float32: the outer half-angle
	Angle() float32

	// Penumbra returns the fraction of the cone that fades out, in [0, 1].
	//
	// Returns:
	//   - float32: the penumbra fraction
	Penumbra() float32

	// ConeCos returns the cosines of the inner and outer spot half-angles, the values the shader compares against.
	//
	// Returns:
	//   - float32: cos of the inner half-angle
	//   - float32: cos of the outer half-angle
	ConeCos() (float32, float32)

	// Enabled returns whether this light contributes to rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the position in the owner's space.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c common.Color)

	// SetIntensity sets the intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetEnabled toggles the light.
	//
	// Parameters:
	//   - enabled: true to light the scene
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type configured with the provided options.
// Defaults: white, intensity 1, no distance cutoff, decay 2, cone angle π/3, no penumbra, enabled.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     common.White,
		intensity: 1,
		decay:     2,
		angle:     math.Pi / 3,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Distance() float32 {
	return l.distance
}

func (l *lightImpl) Decay() float32 {
	return l.decay
}

func (l *lightImpl) Angle() float32 {
	return l.angle
}

func (l *lightImpl) Penumbra() float32 {
	return l.penumbra
}

func (l *lightImpl) ConeCos() (float32, float32) {
	outer := float32(math.Cos(float64(l.angle)))
	inner := float32(math.Cos(float64(l.angle * (1 - l.penumbra))))
	return inner, outer
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.position = p
}

func (l *lightImpl) SetColor(c common.Color) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
