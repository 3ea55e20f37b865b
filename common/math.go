package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// Perspective creates a perspective projection matrix for the WebGPU clip space, where depth maps to [0, 1].
// mgl32.Perspective targets the OpenGL [-1, 1] range and cannot be used directly with a WebGPU depth buffer.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ComposeTRS builds a local transform matrix from a translation, an Euler rotation and a scale.
// The rotation uses the XYZ order, so the rotation part equals Rx * Ry * Rz.
//
// Parameters:
//   - position: translation
//   - rotation: Euler angles in radians around X, Y and Z
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: T * R * S in column-major order
func ComposeTRS(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DX(rotation.X()).
		Mul4(mgl32.HomogRotate3DY(rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// EulerFromQuat converts a unit quaternion to XYZ-order Euler angles, the inverse of the rotation used by ComposeTRS.
//
// Parameters:
//   - q: the rotation quaternion
//
// Returns:
//   - mgl32.Vec3: Euler angles in radians
func EulerFromQuat(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m13 := Clamp(m.At(0, 2), -1, 1)
	y := float32(math.Asin(float64(m13)))
	var x, z float32
	if float32(math.Abs(float64(m13))) < 0.9999999 {
		x = float32(math.Atan2(float64(-m.At(1, 2)), float64(m.At(2, 2))))
		z = float32(math.Atan2(float64(-m.At(0, 1)), float64(m.At(0, 0))))
	} else {
		x = float32(math.Atan2(float64(m.At(2, 1)), float64(m.At(1, 1))))
	}
	return mgl32.Vec3{x, y, z}
}

// Clamp restricts v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PointerToNDC maps a pixel position inside a w x h surface to normalized device coordinates.
// X grows to the right and Y grows upward, both in [-1, 1] for positions inside the surface.
//
// Parameters:
//   - x, y: pointer position in pixels, origin at the top-left corner
//   - width, height: surface size in pixels
//
// Returns:
//   - mgl32.Vec2: the NDC position
func PointerToNDC(x, y float32, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		(x/float32(width))*2 - 1,
		-(y/float32(height))*2 + 1,
	}
}

// NDCToPixels is the inverse of PointerToNDC.
//
// Parameters:
//   - ndc: the normalized device coordinate
//   - width, height: surface size in pixels
//
// Returns:
//   - float32, float32: pixel position with the origin at the top-left corner
func NDCToPixels(ndc mgl32.Vec2, width, height int) (float32, float32) {
	x := (ndc.X()*0.5 + 0.5) * float32(width)
	y := (ndc.Y()*-0.5 + 0.5) * float32(height)
	return x, y
}

// ProjectPoint transforms a world-space point through a view-projection matrix and performs the perspective divide.
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//   - p: the world-space point
//
// Returns:
//   - mgl32.Vec3: the point in normalized device coordinates
//   - bool: false when the point sits on the camera plane and cannot be projected
func ProjectPoint(viewProj mgl32.Mat4, p mgl32.Vec3) (mgl32.Vec3, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() == 0 {
		return mgl32.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// UnprojectPoint maps an NDC position back into world space using the inverse view-projection matrix.
// The z coordinate is the WebGPU depth value: 0 on the near plane, 1 on the far plane.
//
// Parameters:
//   - invViewProj: inverse of projection * view
//   - ndc: normalized device coordinate with depth
//
// Returns:
//   - mgl32.Vec3: the world-space point
func UnprojectPoint(invViewProj mgl32.Mat4, ndc mgl32.Vec3) mgl32.Vec3 {
	w := invViewProj.Mul4x1(ndc.Vec4(1))
	if w.W() == 0 {
		return w.Vec3()
	}
	return w.Vec3().Mul(1 / w.W())
}
