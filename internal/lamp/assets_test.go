package lamp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/loader"
	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLampCapturesAnchorsAndMaterials(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.setupLamp(lampTree(t)))

	caseNode, ok := s.anchors.Case()
	require.True(t, ok)
	glass, ok := s.anchors.Glass()
	require.True(t, ok)
	foil, ok := s.anchors.Foil()
	require.True(t, ok)
	bulb, ok := s.anchors.Bulb()
	require.True(t, ok)

	gm := glass.Material()
	assert.Equal(t, material.KindPhong, gm.Kind())
	assert.True(t, gm.Transparent())
	assert.True(t, gm.DoubleSided())
	assert.InDelta(t, 0.7, gm.Opacity(), 1e-6)

	fm := foil.Material()
	assert.Equal(t, "#848789", fm.Color().Hex())
	assert.InDelta(t, 0.2, fm.Roughness(), 1e-6)
	assert.Equal(t, float32(1), fm.Metallic())
	assert.True(t, fm.DoubleSided())

	bm := bulb.Material()
	assert.Equal(t, "#ffff00", bm.Emissive().Hex())
	assert.Equal(t, float32(1), bm.EmissiveIntensity())

	require.Len(t, caseNode.Lights(), 1)
	assert.Equal(t, s.spotLight, caseNode.Lights()[0].Light)
	assert.Equal(t, s.spotTarget, caseNode.Lights()[0].Target)
	assert.Equal(t, caseNode, s.spotTarget.Parent())
	assert.Equal(t, mgl32.Vec3{-3, 5, -3}, s.spotTarget.Position())
}

func TestSetupLampMissingNodeLeavesAnchorUnset(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.setupLamp(lampTree(t, GlassName))

	assert.ErrorIs(t, err, ErrMissingNode)
	assert.ErrorContains(t, err, GlassName)

	_, ok := s.anchors.Glass()
	assert.False(t, ok)
	_, ok = s.anchors.Case()
	assert.True(t, ok)
	_, ok = s.anchors.Bulb()
	assert.True(t, ok)
}

func TestColorAppliedBeforeLoadReachesBulb(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.ColorSync().Apply("#00ff00"))
	assert.Equal(t, "#00ff00", s.brand.Color().Hex())
	assert.Equal(t, "#00ff00", s.spotLight.Color().Hex())

	require.NoError(t, s.setupLamp(lampTree(t)))
	bulb, _ := s.anchors.Bulb()
	assert.Equal(t, "#00ff00", bulb.Material().Emissive().Hex())

	require.NoError(t, s.ColorSync().Apply("#ff0000"))
	assert.Equal(t, common.Color{R: 1}, bulb.Material().Emissive())
}

func TestSetupColorPanelAndRoom(t *testing.T) {
	s, _ := newTestSession(t)

	panel := group("Scene", group(ControlPanelName, quad(t, "button", mgl32.Vec3{})))
	require.NoError(t, s.setupColorPanel(panel))
	button, ok := s.anchors.ColorButton()
	require.True(t, ok)
	assert.Equal(t, ColorButtonName, button.Name())
	assert.Equal(t, mgl32.Vec3{0, -2, 10}, button.Position())
	assert.NotNil(t, s.scene.GetObjectByName(ColorButtonName))

	room := group("Scene", quad(t, "floor", mgl32.Vec3{}))
	require.NoError(t, s.setupRoom(room))
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, room.Scale())
	assert.Equal(t, mgl32.Vec3{-24.75, -12.5, 0}, room.Position())
}

func newManager(t *testing.T, s *Session, dir string) *loader.LoadingManager {
	t.Helper()
	opts := append(s.LoadingManagerOptions(),
		loader.WithLoader(loader.NewLoader(loader.WithRootDir(dir), loader.WithLogger(logging.NewNopLogger()))),
		loader.WithWorkers(2, 50*time.Millisecond),
	)
	m := loader.NewLoadingManager(opts...)
	t.Cleanup(m.Close)
	return m
}

func drain(t *testing.T, m *loader.LoadingManager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Drain(ctx))
}

func TestLoadAssetsRemovesLoadingScreenOnce(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir)
	s, _ := newTestSession(t)
	m := newManager(t, s, dir)

	s.LoadAssets(m)
	assert.True(t, s.Loading())
	drain(t, m)

	assert.True(t, m.AllLoaded())
	assert.True(t, s.loadingScreen.Removed())
	assert.False(t, s.Loading())
	assert.NotContains(t, s.overlay.Elements(), s.loadingScreen)

	for _, get := range []func() bool{
		func() bool { _, ok := s.anchors.Case(); return ok },
		func() bool { _, ok := s.anchors.Glass(); return ok },
		func() bool { _, ok := s.anchors.Foil(); return ok },
		func() bool { _, ok := s.anchors.Bulb(); return ok },
		func() bool { _, ok := s.anchors.ColorButton(); return ok },
	} {
		assert.True(t, get())
	}

	// A second join must not touch the overlay again.
	before := len(s.overlay.Elements())
	s.finishLoading()
	assert.Len(t, s.overlay.Elements(), before)
}

func TestLoadFailureKeepsLoadingScreen(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir, "room")

	var out bytes.Buffer
	s, _ := newTestSession(t)
	s.logger = logging.NewWriterLogger("lamp", false, &out, &out)
	m := newManager(t, s, dir)

	s.LoadAssets(m)
	drain(t, m)

	assert.Equal(t, 1, m.Failed())
	assert.False(t, s.loadingScreen.Removed())
	assert.True(t, s.Loading())
	assert.Contains(t, s.overlay.Elements(), s.loadingScreen)
	assert.Contains(t, out.String(), "There was an error loading objects/room/test.gltf")
}

func TestDebugDumpsLoadedTrees(t *testing.T) {
	var out bytes.Buffer
	s, _ := newTestSession(t)
	s.logger = logging.NewWriterLogger("lamp", true, &out, &out)

	require.NoError(t, s.setupRoom(group("Scene", quad(t, "floor", mgl32.Vec3{}))))
	assert.Contains(t, out.String(), "Scene [Group]")
	assert.Contains(t, out.String(), "└─floor [Mesh]")
}
