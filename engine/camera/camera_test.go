package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lampController(opts ...CameraControllerOption) CameraController {
	base := []CameraControllerOption{
		WithEye(mgl32.Vec3{-20, 20, 10}),
		WithRadiusBounds(5, 35),
		WithPolarBounds(math.Pi/10, math.Pi/2),
		WithAzimuthBounds(math.Pi+0.05, 2*math.Pi-0.05),
	}
	return NewCameraController(append(base, opts...)...)
}

func TestWithEyeReproducesPosition(t *testing.T) {
	cc := lampController()
	p := cc.Position()
	assert.InDelta(t, -20, p.X(), 1e-3)
	assert.InDelta(t, 20, p.Y(), 1e-3)
	assert.InDelta(t, 10, p.Z(), 1e-3)
	assert.InDelta(t, 30, cc.Radius(), 1e-3)
}

func TestAzimuthBoundsWrapIntoPiRange(t *testing.T) {
	cc := lampController()

	cc.SetAzimuth(0.5)
	assert.InDelta(t, -0.05, cc.Azimuth(), 1e-5)

	cc.SetAzimuth(-3.12)
	assert.InDelta(t, -math.Pi+0.05, cc.Azimuth(), 1e-5)

	// 3π normalizes to π, outside the range on the high side.
	cc.SetAzimuth(3 * math.Pi)
	assert.InDelta(t, -0.05, cc.Azimuth(), 1e-5)

	cc.SetAzimuth(-1)
	assert.InDelta(t, -1, cc.Azimuth(), 1e-5)
}

func TestWrappedAzimuthRange(t *testing.T) {
	cc := NewCameraController(WithAzimuthBounds(3, -3))

	cc.SetAzimuth(0.5)
	assert.InDelta(t, 3, cc.Azimuth(), 1e-5)

	cc.SetAzimuth(-0.5)
	assert.InDelta(t, -3, cc.Azimuth(), 1e-5)

	cc.SetAzimuth(math.Pi)
	assert.InDelta(t, math.Pi, cc.Azimuth(), 1e-5)
}

func TestPolarAndRadiusBounds(t *testing.T) {
	cc := lampController()

	cc.SetElevation(-1)
	assert.InDelta(t, 0, cc.Elevation(), 1e-5)
	cc.SetElevation(1.5)
	assert.InDelta(t, math.Pi/2-math.Pi/10, cc.Elevation(), 1e-5)

	cc.SetRadius(1)
	assert.Equal(t, float32(5), cc.Radius())
	cc.SetRadius(100)
	assert.Equal(t, float32(35), cc.Radius())
}

func TestZoomScrollsTowardTarget(t *testing.T) {
	cc := lampController()
	cc.Scroll(1)
	assert.InDelta(t, 30*0.95, cc.Radius(), 1e-3)
	cc.Scroll(-1)
	assert.InDelta(t, 30, cc.Radius(), 1e-3)

	cc.SetEnabled(false)
	cc.Scroll(1)
	assert.InDelta(t, 30, cc.Radius(), 1e-3)

	noZoom := lampController(WithZoomEnabled(false))
	noZoom.Scroll(5)
	assert.InDelta(t, 30, noZoom.Radius(), 1e-3)
}

func TestPointerDragOrbits(t *testing.T) {
	cc := lampController()
	start := cc.Azimuth()

	cc.PointerDown(100, 100)
	require.True(t, cc.Dragging())
	cc.PointerMove(110, 100, 600)
	assert.InDelta(t, start-2*math.Pi*10/600, cc.Azimuth(), 1e-4)

	cc.PointerUp()
	assert.False(t, cc.Dragging())
	before := cc.Azimuth()
	cc.PointerMove(500, 100, 600)
	assert.Equal(t, before, cc.Azimuth())
}

func TestDisabledControllerIgnoresPointer(t *testing.T) {
	cc := lampController()
	cc.SetEnabled(false)
	assert.False(t, cc.Enabled())

	cc.PointerDown(0, 0)
	assert.False(t, cc.Dragging())

	cc.SetEnabled(true)
	cc.PointerDown(0, 0)
	cc.SetEnabled(false)
	assert.False(t, cc.Dragging(), "disabling ends a drag")
}

func TestAutoRotateStepsOnUpdateOnly(t *testing.T) {
	cc := lampController(WithAutoRotate(10))
	a := cc.Azimuth()

	assert.True(t, cc.Update())
	assert.InDelta(t, a-2*math.Pi/3600*10, cc.Azimuth(), 1e-5)

	cc.PointerDown(0, 0)
	b := cc.Azimuth()
	cc.Update()
	assert.Equal(t, b, cc.Azimuth(), "no auto-rotate while dragging")
}

func TestAutoRotateStopsAtAzimuthBound(t *testing.T) {
	cc := lampController(WithAutoRotate(10))
	for i := 0; i < 1000; i++ {
		cc.Update()
	}
	assert.InDelta(t, -math.Pi+0.05, cc.Azimuth(), 1e-5)
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	cam := NewCamera(
		WithFov(45),
		WithAspect(16.0/9.0),
		WithClipPlanes(0.1, 1000),
		WithController(lampController()),
	)

	ndc, ok := cam.Project(mgl32.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 0, ndc.X(), 1e-4)
	assert.InDelta(t, 0, ndc.Y(), 1e-4)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	cam := NewCamera(WithController(lampController()))
	before := cam.ProjectionMatrix()

	cam.SetAspect(2)
	after := cam.ProjectionMatrix()
	assert.Equal(t, float32(2), cam.Aspect())
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	inv := cam.InverseViewProjectionMatrix()
	id := cam.ViewProjectionMatrix().Mul4(inv)
	want := mgl32.Ident4()
	for i := range id {
		assert.InDelta(t, want[i], id[i], 1e-3, "element %d", i)
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	cam := NewCamera(WithController(lampController()))
	u := NewGPUCameraUniform(cam)
	assert.Equal(t, GPUCameraUniformSize, u.Size())
	assert.Len(t, u.Marshal(), GPUCameraUniformSize)
	assert.InDelta(t, -20, u.CameraPosition[0], 1e-3)
}
