package camera

import (
	"math"
	"sync"

	"github.com/domx3d/hello-lamp/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	twoPi = 2 * math.Pi

	// polarEpsilon keeps the camera off the poles where the look-at basis degenerates.
	polarEpsilon = 1e-6
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	azimuthBounded bool
	minAzimuth     float32
	maxAzimuth     float32

	autoRotate      bool
	autoRotateSpeed float32
	rotateSpeed     float32
	zoomSpeed       float32
	enableZoom      bool

	enabled  bool
	dragging bool
	lastX    float32
	lastY    float32

	initialEye *mgl32.Vec3
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller configured with the provided options.
// The defaults orbit the origin at radius 10 with no azimuth bounds and auto-rotate off.
// Construction runs one Update, so the starting placement is clamped to the configured bounds.
//
// Parameters:
//   - options: variadic list of CameraControllerOption functions
//
// Returns:
//   - CameraController: the controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    10,
		elevation: float32(math.Pi / 6),

		minRadius:    0,
		maxRadius:    float32(math.Inf(1)),
		minElevation: float32(-math.Pi/2 + polarEpsilon),
		maxElevation: float32(math.Pi/2 - polarEpsilon),

		autoRotateSpeed: 2,
		rotateSpeed:     1,
		zoomSpeed:       1,
		enableZoom:      true,
		enabled:         true,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.initialEye != nil {
		offset := cc.initialEye.Sub(cc.target)
		cc.radius = offset.Len()
		if cc.radius > 0 {
			cc.azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
			cc.elevation = float32(math.Asin(float64(common.Clamp(offset.Y()/cc.radius, -1, 1))))
		}
		cc.initialEye = nil
	}

	cc.update()
	return cc
}

// updatePosition recomputes the world-space position from spherical coordinates.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// clampAzimuth applies the azimuth bounds after normalizing all angles into (-π, π].
// Bounds whose normalized min exceeds max describe a range that wraps through ±π.
func (cc *cameraControllerImpl) clampAzimuth() {
	cc.azimuth = normalizeAngle(cc.azimuth)
	if !cc.azimuthBounded {
		return
	}
	lo := wrapBound(cc.minAzimuth)
	hi := wrapBound(cc.maxAzimuth)
	if lo <= hi {
		cc.azimuth = common.Clamp(cc.azimuth, lo, hi)
		return
	}
	if cc.azimuth > (lo+hi)/2 {
		cc.azimuth = max(lo, cc.azimuth)
	} else {
		cc.azimuth = min(hi, cc.azimuth)
	}
}

func (cc *cameraControllerImpl) clampAll() {
	cc.clampAzimuth()
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) update() bool {
	before := cc.position
	if cc.autoRotate && !cc.dragging {
		cc.azimuth -= twoPi / 60 / 60 * cc.autoRotateSpeed
	}
	cc.clampAll()
	cc.updatePosition()
	return before != cc.position
}

// normalizeAngle maps a into (-π, π].
func normalizeAngle(a float32) float32 {
	r := float32(math.Mod(float64(a), twoPi))
	if r <= -math.Pi {
		r += twoPi
	} else if r > math.Pi {
		r -= twoPi
	}
	return r
}

// wrapBound shifts a bound given anywhere in [-2π, 2π] into [-π, π].
func wrapBound(b float32) float32 {
	if b < -math.Pi {
		return b + twoPi
	}
	if b > math.Pi {
		return b - twoPi
	}
	return b
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(t mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.update()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.clampAzimuth()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = common.Clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(left, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= left
	cc.elevation += up
	cc.update()
}

func (cc *cameraControllerImpl) Zoom(steps float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	scale := float32(math.Pow(0.95, float64(cc.zoomSpeed*float32(math.Abs(float64(steps))))))
	if steps > 0 {
		cc.radius *= scale
	} else if steps < 0 {
		cc.radius /= scale
	}
	cc.update()
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
	if !enabled {
		cc.dragging = false
	}
}

func (cc *cameraControllerImpl) PointerDown(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	cc.dragging = true
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) PointerMove(x, y float32, viewportHeight int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled || !cc.dragging || viewportHeight <= 0 {
		return
	}
	dx, dy := x-cc.lastX, y-cc.lastY
	cc.lastX, cc.lastY = x, y

	h := float32(viewportHeight)
	cc.azimuth -= twoPi * dx / h * cc.rotateSpeed
	cc.elevation += twoPi * dy / h * cc.rotateSpeed
	cc.update()
}

func (cc *cameraControllerImpl) PointerUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = false
}

func (cc *cameraControllerImpl) Dragging() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dragging
}

func (cc *cameraControllerImpl) Scroll(yOffset float32) {
	cc.mu.Lock()
	enabled := cc.enabled && cc.enableZoom
	cc.mu.Unlock()
	if !enabled || yOffset == 0 {
		return
	}
	cc.Zoom(yOffset)
}
