package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const halfPi = float32(math.Pi / 2)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: the distance from the target
//
// Returns:
//   - CameraControllerOption: the option function
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal orbit angle in radians.
//
// Parameters:
//   - azimuth: angle around the Y axis, 0 on the +Z side
//
// Returns:
//   - CameraControllerOption: the option function
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical orbit angle in radians.
//
// Parameters:
//   - elevation: angle above the horizontal plane
//
// Returns:
//   - CameraControllerOption: the option function
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - target: world-space target
//
// Returns:
//   - CameraControllerOption: the option function
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithEye derives radius, azimuth and elevation from a world-space camera position.
// It is resolved after every other option, so the target may be given in any order.
//
// Parameters:
//   - eye: world-space camera position
//
// Returns:
//   - CameraControllerOption: the option function
func WithEye(eye mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.initialEye = &eye
	}
}

// WithRadiusBounds sets the distance limits.
//
// Parameters:
//   - min: closest allowed distance
//   - max: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: the option function
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithPolarBounds sets the vertical limits as polar angles measured from the +Y axis,
// the convention used by browser orbit controls. They are stored as elevation bounds.
//
// Parameters:
//   - minPolar: smallest angle from straight up, in radians
//   - maxPolar: largest angle from straight up, in radians
//
// Returns:
//   - CameraControllerOption: the option function
func WithPolarBounds(minPolar, maxPolar float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = max(halfPi-maxPolar, -halfPi+polarEpsilon)
		cc.maxElevation = min(halfPi-minPolar, halfPi-polarEpsilon)
	}
}

// WithAzimuthBounds limits the horizontal angle. Bounds may be given in [-2π, 2π]; a range
// that crosses ±π after normalization is handled as a wrapped range.
//
// Parameters:
//   - min: lower azimuth bound in radians
//   - max: upper azimuth bound in radians
//
// Returns:
//   - CameraControllerOption: the option function
func WithAzimuthBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuthBounded = true
		cc.minAzimuth = min
		cc.maxAzimuth = max
	}
}

// WithAutoRotate enables the auto-rotate step applied on every Update while no drag is active.
//
// Parameters:
//   - speed: 2 matches one full turn per 30 seconds at 60 updates per second
//
// Returns:
//   - CameraControllerOption: the option function
func WithAutoRotate(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.autoRotate = true
		cc.autoRotateSpeed = speed
	}
}

// WithRotateSpeed scales pointer drag orbiting.
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = speed
	}
}

// WithZoomSpeed scales wheel zooming.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithZoomEnabled allows or forbids wheel zooming.
func WithZoomEnabled(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.enableZoom = enabled
	}
}
