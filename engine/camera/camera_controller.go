package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the camera placement as spherical coordinates around a target.
// The Camera reads Position and Target from it to build the view matrix.
//
// Besides the programmatic orbit methods, a controller accepts pointer input the way an orbit
// control in a browser viewer does: a left drag orbits, the wheel zooms, and the whole input
// path can be suspended with SetEnabled while the application handles the pointer itself.
type CameraController interface {
	orbitCameraController
	pointerCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at point and recomputes the position from spherical coordinates.
	//
	// Parameters:
	//   - t: world-space target
	SetTarget(t mgl32.Vec3)

	// Update applies one auto-rotate step when auto-rotate is on and no drag is active,
	// then clamps azimuth, elevation and radius to their bounds.
	//
	// Returns:
	//   - bool: true when the position changed
	Update() bool
}

// orbitCameraController defines the spherical coordinate accessors.
type orbitCameraController interface {
	// Radius returns the current orbit radius (distance from target).
	Radius() float32

	// SetRadius sets the orbit radius, clamped to the radius bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis, in (-π, π].
	// Zero places the camera on the +Z side of the target.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle, clamped to the azimuth bounds when set.
	SetAzimuth(azimuth float32)

	// Elevation returns the angle above the horizontal plane through the target.
	Elevation() float32

	// SetElevation sets the elevation, clamped to the elevation bounds.
	SetElevation(elevation float32)

	// Rotate orbits by the given angles in radians.
	// Positive left moves the camera clockwise seen from above, positive up raises it.
	//
	// Parameters:
	//   - left: azimuth decrement
	//   - up: elevation increment
	Rotate(left, up float32)

	// Zoom scales the radius. Positive steps move the camera closer.
	//
	// Parameters:
	//   - steps: wheel steps; each one scales the radius by 0.95^zoomSpeed
	Zoom(steps float32)
}

// pointerCameraController defines the pointer-driven orbit input path.
type pointerCameraController interface {
	// Enabled reports whether pointer input is processed.
	Enabled() bool

	// SetEnabled suspends or resumes pointer input. Disabling ends an active drag.
	//
	// Parameters:
	//   - enabled: false to ignore pointer and wheel input
	SetEnabled(enabled bool)

	// PointerDown starts a drag orbit when enabled.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerDown(x, y float32)

	// PointerMove orbits by the pointer movement since the last event while dragging.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	//   - viewportHeight: surface height in pixels; a full-height drag orbits by 2π * rotateSpeed
	PointerMove(x, y float32, viewportHeight int)

	// PointerUp ends a drag orbit.
	PointerUp()

	// Dragging reports whether a drag orbit is active.
	Dragging() bool

	// Scroll zooms by wheel steps when enabled and zoom is allowed.
	//
	// Parameters:
	//   - yOffset: wheel offset, positive when scrolling up
	Scroll(yOffset float32)
}
