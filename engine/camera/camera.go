package camera

import (
	"math"
	"sync"

	"github.com/domx3d/hello-lamp/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix            mgl32.Mat4
	projectionMatrix      mgl32.Mat4
	viewProjectionMatrix  mgl32.Mat4
	inverseViewProjection mgl32.Mat4

	controller CameraController
}

// Camera is a perspective camera whose placement comes from a CameraController.
type Camera interface {
	// Up returns the up vector used to build the view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// Aspect returns the width / height ratio of the projection.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping distance.
	Near() float32

	// Far returns the far clipping distance.
	Far() float32

	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the controller position, or the origin without a controller
	Position() mgl32.Vec3

	// ViewMatrix returns the world to view transform.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view to clip transform (WebGPU depth range).
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
	ViewProjectionMatrix() mgl32.Mat4

	// InverseViewProjectionMatrix returns the inverse of ViewProjectionMatrix, used to build pick rays.
	InverseViewProjectionMatrix() mgl32.Mat4

	// Project maps a world-space point to normalized device coordinates.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - mgl32.Vec3: NDC x, y and depth
	//   - bool: false when the point lies on the camera plane
	Project(p mgl32.Vec3) (mgl32.Vec3, bool)

	// Controller returns the controller providing the camera placement.
	Controller() CameraController

	// Update recomputes the view matrices from the controller's current placement.
	Update()

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recomputes the projection.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetController replaces the controller.
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera configured with the provided options.
// Defaults: fov 45°, aspect 1, near 0.1, far 100, up +Y.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the camera with its matrices computed
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    45.0 * (math.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return mgl32.Vec3{}
	}
	return c.controller.Position()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProjection
}

func (c *cameraImpl) Project(p mgl32.Vec3) (mgl32.Vec3, bool) {
	return common.ProjectPoint(c.ViewProjectionMatrix(), p)
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recomputes every matrix. Callers hold c.mu.
func (c *cameraImpl) updateMatrices() {
	eye, target := mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}
	if c.controller != nil {
		eye, target = c.controller.Position(), c.controller.Target()
	}

	c.viewMatrix = mgl32.LookAtV(eye, target, c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProjection = c.viewProjectionMatrix.Inv()
}
