package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSize is the byte size of GPUCameraUniform.
const GPUCameraUniformSize = 80

// GPUCameraUniform is the GPU-aligned camera block at the start of the frame uniform.
// Size: 80 bytes (WGSL uniform aligned).
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space camera position (vec3<f32>)
	_pad           float32     // offset 76: padding to 80 bytes
}

// NewGPUCameraUniform snapshots a camera's current matrices.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - GPUCameraUniform: the packed camera block
func NewGPUCameraUniform(c Camera) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       [16]float32(c.ViewProjectionMatrix()),
		CameraPosition: [3]float32(c.Position()),
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform into a little-endian buffer.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	return buf
}
