package renderer

import (
	"encoding/binary"
	"math"

	"github.com/domx3d/hello-lamp/engine/camera"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// GPUFrameUniformSize is the byte size of the Frame block in the mesh shader.
	GPUFrameUniformSize = camera.GPUCameraUniformSize + 16 + light.MaxGPULights*light.GPULightSize

	// GPUObjectUniformSize is the byte size of the Object block in the mesh shader.
	GPUObjectUniformSize = 176

	// GPUViewportUniformSize is the byte size of the Viewport block in the overlay shader.
	GPUViewportUniformSize = 16

	// overlayVertexFloats is the number of float32 values in one overlay vertex: pos2, uv2, color4.
	overlayVertexFloats = 8
)

// GPUFrameUniform holds the per-frame data shared by every mesh draw.
// The light count rides in the padding slot after the camera position.
type GPUFrameUniform struct {
	Camera     camera.GPUCameraUniform // offset  0
	LightCount uint32                  // offset 76
	Ambient    [4]float32              // offset 80
	Lights     [light.MaxGPULights]light.GPULight
}

// newFrameUniform packs the camera, the ambient term and up to MaxGPULights resolved lights.
func newFrameUniform(s scene.Scene, c camera.Camera) GPUFrameUniform {
	f := GPUFrameUniform{Camera: camera.NewGPUCameraUniform(c)}
	ambient := s.Ambient()
	f.Ambient = [4]float32{ambient.R, ambient.G, ambient.B, 1}
	for i, rl := range s.ResolvedLights() {
		if i >= light.MaxGPULights {
			break
		}
		f.Lights[i] = light.NewGPULight(rl.Light, rl.Position, rl.Direction)
		f.LightCount++
	}
	return f
}

// Marshal serializes the frame block into a little-endian buffer.
//
// Returns:
//   - []byte: GPUFrameUniformSize bytes ready for upload
func (f *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, GPUFrameUniformSize)
	copy(buf, f.Camera.Marshal())
	binary.LittleEndian.PutUint32(buf[76:], f.LightCount)
	putFloats(buf[80:], f.Ambient[:]...)
	for i := range f.Lights {
		copy(buf[96+i*light.GPULightSize:], f.Lights[i].Marshal())
	}
	return buf
}

// GPUObjectUniform is the per-node block: transforms and the material factors.
type GPUObjectUniform struct {
	Model        [16]float32 // offset   0
	NormalMatrix [16]float32 // offset  64: inverse transpose of Model
	BaseColor    [4]float32  // offset 128: rgb + alpha
	Emissive     [4]float32  // offset 144: rgb + intensity
	Params       [4]float32  // offset 160: metallic, roughness, shininess, textured flag
}

// newObjectUniform packs a node's world matrix and material. A nil material draws opaque white.
func newObjectUniform(world mgl32.Mat4, m material.Material, textured bool) GPUObjectUniform {
	o := GPUObjectUniform{
		Model:        [16]float32(world),
		NormalMatrix: [16]float32(world.Inv().Transpose()),
		BaseColor:    [4]float32{1, 1, 1, 1},
		Params:       [4]float32{0, 1, 30, 0},
	}
	if m != nil {
		c := m.Color()
		alpha := float32(1)
		if m.Transparent() {
			alpha = m.Opacity()
		}
		e := m.Emissive()
		o.BaseColor = [4]float32{c.R, c.G, c.B, alpha}
		o.Emissive = [4]float32{e.R, e.G, e.B, m.EmissiveIntensity()}
		o.Params = [4]float32{m.Metallic(), m.Roughness(), m.Shininess(), 0}
	}
	if textured {
		o.Params[3] = 1
	}
	return o
}

// Marshal serializes the object block into a little-endian buffer.
func (o *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, GPUObjectUniformSize)
	putFloats(buf[0:], o.Model[:]...)
	putFloats(buf[64:], o.NormalMatrix[:]...)
	putFloats(buf[128:], o.BaseColor[:]...)
	putFloats(buf[144:], o.Emissive[:]...)
	putFloats(buf[160:], o.Params[:]...)
	return buf
}

// viewportUniform packs the overlay viewport size.
func viewportUniform(width, height int) []byte {
	buf := make([]byte, GPUViewportUniformSize)
	putFloats(buf, float32(width), float32(height))
	return buf
}

func putFloats(buf []byte, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
