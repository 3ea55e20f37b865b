package lamp

import (
	"testing"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	colors []common.Color
}

func (r *recordingTarget) SetColor(c common.Color) { r.colors = append(r.colors, c) }

func TestApplyUpdatesExactlyThreeTargets(t *testing.T) {
	label, bulb, spot := &recordingTarget{}, &recordingTarget{}, &recordingTarget{}
	s := NewColorSync(label, spot)
	s.SetBulb(bulb)

	require.NoError(t, s.Apply("#FF0000"))

	red := common.Color{R: 1}
	for name, target := range map[string]*recordingTarget{"label": label, "bulb": bulb, "spot": spot} {
		assert.Equal(t, []common.Color{red}, target.colors, name)
	}
}

func TestSessionApplyLeavesOtherColorsAlone(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.setupLamp(lampTree(t)))

	glass, ok := s.Anchors().Glass()
	require.True(t, ok)
	foil, ok := s.Anchors().Foil()
	require.True(t, ok)
	pointColor := s.PointLight().Color()
	ambient := s.Scene().Ambient()
	background := s.Scene().Background()
	glassColor, glassEmissive := glass.Material().Color(), glass.Material().Emissive()
	foilColor, foilEmissive := foil.Material().Color(), foil.Material().Emissive()
	pickerValue := s.Picker().Value()

	require.NoError(t, s.ColorSync().Apply("#FF0000"))

	red := common.Color{R: 1}
	bulb, ok := s.Anchors().Bulb()
	require.True(t, ok)
	assert.Equal(t, red, s.Brand().Color())
	assert.Equal(t, red, s.SpotLight().Color())
	assert.Equal(t, red, bulb.Material().Emissive())

	assert.Equal(t, pointColor, s.PointLight().Color())
	assert.Equal(t, ambient, s.Scene().Ambient())
	assert.Equal(t, background, s.Scene().Background())
	assert.Equal(t, glassColor, glass.Material().Color())
	assert.Equal(t, glassEmissive, glass.Material().Emissive())
	assert.Equal(t, foilColor, foil.Material().Color())
	assert.Equal(t, foilEmissive, foil.Material().Emissive())
	assert.Equal(t, pickerValue, s.Picker().Value())
}

func TestApplyRejectsMalformedWithoutSideEffects(t *testing.T) {
	label, spot := &recordingTarget{}, &recordingTarget{}
	s := NewColorSync(label, spot)

	err := s.Apply("#GG0000")
	assert.ErrorIs(t, err, common.ErrInvalidHex)
	assert.Empty(t, label.colors)
	assert.Empty(t, spot.colors)

	bulb := &recordingTarget{}
	s.SetBulb(bulb)
	assert.Empty(t, bulb.colors, "nothing applied yet")
}

func TestBulbCatchesUpOnLoad(t *testing.T) {
	label, spot := &recordingTarget{}, &recordingTarget{}
	s := NewColorSync(label, spot)
	require.NoError(t, s.Apply("#00ff00"))
	assert.Len(t, label.colors, 1)
	assert.Len(t, spot.colors, 1)

	m := material.NewMaterial(material.WithEmissive(common.MustParseHex("#ffff00"), 1))
	s.SetBulb(emissiveTarget{m})
	assert.Equal(t, common.Color{G: 1}, m.Emissive())
}
