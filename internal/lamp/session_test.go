package lamp

import (
	"math"
	"testing"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionBuildsScene(t *testing.T) {
	s, _ := newTestSession(t)

	assert.InDelta(t, 45*math.Pi/180, s.camera.Fov(), 1e-6)
	assert.InDelta(t, 1280.0/720.0, s.camera.Aspect(), 1e-6)
	assert.InDelta(t, 30, s.camera.Position().Len(), 1e-3)
	assert.True(t, s.controls.Enabled())

	resolved := s.scene.ResolvedLights()
	require.Len(t, resolved, 1, "the spot light joins the scene with the lamp")
	assert.Equal(t, light.LightTypePoint, resolved[0].Light.Type())
	assert.Equal(t, float32(4.3), s.pointLight.Distance())
	assert.Equal(t, light.LightTypeSpot, s.spotLight.Type())
	assert.Equal(t, float32(0.5), s.spotLight.Angle())

	assert.Equal(t, "#ffff00", s.picker.Value())
	assert.Len(t, s.overlay.Elements(), 3)
	assert.False(t, s.Loading())
}

func TestNewSessionRejectsBadColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lights.Point.Color = "white"
	_, err := NewSession(cfg, WithLogger(logging.NewNopLogger()))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, common.ErrInvalidHex)
}

func TestSessionFallsBackToConfiguredSize(t *testing.T) {
	s, err := NewSession(DefaultConfig(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	w, h := s.FramebufferSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestScrollZoomsCamera(t *testing.T) {
	s, _ := newTestSession(t)
	before := s.controls.Radius()
	s.Scroll(1)
	assert.Less(t, s.controls.Radius(), before)

	s.controls.SetEnabled(false)
	r := s.controls.Radius()
	s.Scroll(1)
	assert.Equal(t, r, s.controls.Radius())
}
