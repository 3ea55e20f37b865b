package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the number of point and spot light slots in the frame uniform.
// Lights beyond the budget are dropped in scene traversal order.
const MaxGPULights = 8

// GPULightSize is the byte size of one packed GPULight.
const GPULightSize = 64

// GPULight is the GPU-aligned representation of a single point or spot light.
// Matches the Light struct in the mesh shader (64 bytes, uniform aligned).
type GPULight struct {
	Position  [3]float32 // offset  0: world-space position
	LightType uint32     // offset 12: 1 = point, 2 = spot
	Color     [3]float32 // offset 16: RGB color
	Intensity float32    // offset 28: scalar multiplier
	Direction [3]float32 // offset 32: normalized spot axis, unused for point lights
	Distance  float32    // offset 44: cutoff distance, 0 = none
	InnerCone float32    // offset 48: cos(inner half-angle)
	OuterCone float32    // offset 52: cos(outer half-angle)
	Decay     float32    // offset 56: falloff exponent
	_pad      uint32     // offset 60
}

// NewGPULight packs a light with its resolved world-space position and direction.
//
// Parameters:
//   - l: the light
//   - worldPos: the light position in world space
//   - worldDir: the normalized spot axis in world space
//
// Returns:
//   - GPULight: the packed light
func NewGPULight(l Light, worldPos, worldDir mgl32.Vec3) GPULight {
	c := l.Color()
	g := GPULight{
		Position:  [3]float32(worldPos),
		LightType: uint32(l.Type()),
		Color:     [3]float32{c.R, c.G, c.B},
		Intensity: l.Intensity(),
		Direction: [3]float32(worldDir),
		Distance:  l.Distance(),
		Decay:     l.Decay(),
	}
	if l.Type() == LightTypeSpot {
		g.InnerCone, g.OuterCone = l.ConeCos()
	}
	return g
}

// Size returns the size of the GPULight struct in bytes.
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight into a 64-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	put := func(off int, v float32) { binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v)) }
	for i := 0; i < 3; i++ {
		put(i*4, g.Position[i])
		put(16+i*4, g.Color[i])
		put(32+i*4, g.Direction[i])
	}
	binary.LittleEndian.PutUint32(buf[12:], g.LightType)
	put(28, g.Intensity)
	put(44, g.Distance)
	put(48, g.InnerCone)
	put(52, g.OuterCone)
	put(56, g.Decay)
	return buf
}
